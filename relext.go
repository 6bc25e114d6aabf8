// Copyright 2026 The biomedRelExt Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package biomedrelext turns annotated biomedical documents into weakly
// supervised relation-extraction candidates: every chemical/disease (or
// chemical/chemical) pair inside a sentence or within a window of
// neighbouring sentences, with a masked context and a supervision span,
// optionally pruned against a concept hierarchy.
package biomedrelext

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/cryptoradon/biomedRelExt/lib/dataset"
	"github.com/cryptoradon/biomedRelExt/lib/document"
	"github.com/cryptoradon/biomedRelExt/lib/hierarchy"
	"github.com/cryptoradon/biomedRelExt/lib/pairing"
	"github.com/cryptoradon/biomedRelExt/lib/segment"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Config holds the configuration of a Pipeline.
type Config struct {
	// Task selects the pair variant ("cdr" or "chr")
	Task string `json:"task" yaml:"task"`
	// MaskToken replaces competing mentions; empty selects "[***]"
	MaskToken string `json:"mask_token" yaml:"mask_token"`
	// Workers bounds the number of documents processed concurrently.
	// Zero selects GOMAXPROCS.
	Workers int `json:"workers" yaml:"workers"`
	// SegmenterURL points at a remote sentence segmenter. Empty selects
	// the built-in rule segmenter.
	SegmenterURL string `json:"segmenter_url" yaml:"segmenter_url"`
	// SegmenterCacheTTL enables caching of segmenter output when > 0
	SegmenterCacheTTL time.Duration `json:"segmenter_cache_ttl" yaml:"segmenter_cache_ttl"`
	// Abbreviations extends the rule segmenter's abbreviation list
	Abbreviations []string `json:"abbreviations,omitempty" yaml:"abbreviations,omitempty"`
}

// DefaultConfig returns the chemical-disease configuration.
func DefaultConfig() Config {
	return Config{
		Task:    pairing.ChemicalDisease.Name,
		Workers: runtime.GOMAXPROCS(0),
	}
}

func (c Config) withDefaults() Config {
	if c.Task == "" {
		c.Task = pairing.ChemicalDisease.Name
	}
	if c.Workers == 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	return c
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.SegmenterCacheTTL < 0 {
		return fmt.Errorf("%w: segmenter_cache_ttl must be >= 0", ErrInvalidConfig)
	}
	if _, err := pairing.LookupTask(c.withDefaults().Task); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Stats summarizes a run.
type Stats struct {
	Documents  int `json:"documents"`
	Failed     int `json:"failed"`
	Candidates int `json:"candidates"`
	Intra      int `json:"intra"`
	Inter      int `json:"inter"`
	Positive   int `json:"positive"`
	Pruned     int `json:"pruned"`
}

// Pipeline processes documents independently. The hierarchy map is
// shared read-only by all workers.
type Pipeline struct {
	cfg       Config
	logger    *zap.Logger
	segmenter segment.Segmenter
	cache     *CachedSegmenter
	indexer   *document.Indexer
	generator *pairing.Generator
	pruner    *hierarchy.Pruner

	closeOnce sync.Once
	closed    chan struct{}
}

// NewPipeline builds a Pipeline. A nil seg is replaced by the segmenter
// described in cfg; a nil hmap disables pruning.
func NewPipeline(cfg Config, seg segment.Segmenter, hmap hierarchy.Map, logger *zap.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	task, err := pairing.LookupTask(cfg.Task)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		cfg:       cfg,
		logger:    logger,
		indexer:   document.NewIndexer(logger.Named("indexer")),
		generator: pairing.NewGenerator(task, cfg.MaskToken, logger.Named("pairing")),
		closed:    make(chan struct{}),
	}

	name := "custom"
	if seg == nil {
		if cfg.SegmenterURL != "" {
			seg = segment.NewHTTPSegmenter(cfg.SegmenterURL, nil)
			name = cfg.SegmenterURL
		} else {
			seg = segment.NewRuleSegmenter(cfg.Abbreviations...)
			name = "rule"
		}
	}
	if cfg.SegmenterCacheTTL > 0 {
		p.cache = NewCachedSegmenter(seg, name, cfg.SegmenterCacheTTL, logger.Named("segmenter_cache"))
		seg = p.cache
	}
	p.segmenter = seg

	if hmap != nil {
		p.pruner = hierarchy.NewPruner(hmap, logger.Named("hierarchy"))
	}

	logger.Info("Pipeline configured",
		zap.String("task", task.Name),
		zap.String("segmenter", name),
		zap.Int("workers", cfg.Workers),
		zap.Bool("pruning", p.pruner != nil),
		zap.Int("hierarchy_entries", len(hmap)))
	return p, nil
}

// Task returns the configured task.
func (p *Pipeline) Task() pairing.Task { return p.generator.Task() }

// ProcessDocument segments, indexes and pairs one document, then prunes
// its candidates when a hierarchy is configured.
func (p *Pipeline) ProcessDocument(ctx context.Context, doc document.Document) (dataset.Record, error) {
	rec, _, err := p.process(ctx, doc)
	return rec, err
}

func (p *Pipeline) process(ctx context.Context, doc document.Document) (dataset.Record, int, error) {
	select {
	case <-p.closed:
		return dataset.Record{}, 0, ErrPipelineClosed
	default:
	}

	task := p.generator.Task().Name
	start := time.Now()

	var spans []document.Span
	if doc.Text != "" {
		var err error
		spans, err = p.segmenter.Segment(ctx, doc.Text)
		if err != nil {
			return dataset.Record{}, 0, fmt.Errorf("segmenting document %s: %w", doc.PMID, err)
		}
	}

	indexed, err := p.indexer.Index(doc, spans)
	if err != nil {
		return dataset.Record{}, 0, err
	}
	for reason, n := range indexed.Dropped {
		RecordDroppedMentions(string(reason), n)
	}

	candidates := p.generator.Generate(indexed)
	intra := 0
	for _, c := range candidates {
		if c.PairType == pairing.Intra {
			intra++
		}
	}
	RecordCandidateCreation(task, string(pairing.Intra), intra)
	RecordCandidateCreation(task, string(pairing.Inter), len(candidates)-intra)

	rec := dataset.Record{PMID: doc.PMID, Candidates: candidates}
	pruned := 0
	if p.pruner != nil {
		rec, pruned = PruneRecord(p.pruner, task, rec)
	}
	RecordPositiveCandidates(task, rec.Positives())
	RecordDocumentDuration(task, time.Since(start).Seconds())
	return rec, pruned, nil
}

// PruneRecord applies pr to the candidates of rec and returns the pruned
// record with the number of removed candidates.
func PruneRecord(pr *hierarchy.Pruner, task string, rec dataset.Record) (dataset.Record, int) {
	kept := pr.Prune(rec.Candidates)
	removed := len(rec.Candidates) - len(kept)
	RecordPrunedCandidates(task, removed)
	return dataset.Record{PMID: rec.PMID, Candidates: kept}, removed
}

type outcome struct {
	rec    dataset.Record
	pruned int
	err    error
}

// Run processes docs on a bounded worker pool and hands records to sink
// in document order. A failing document is logged and counted, the rest
// of the batch continues; only context cancellation or a sink error
// aborts the run.
func (p *Pipeline) Run(ctx context.Context, docs []document.Document, sink func(dataset.Record) error) (Stats, error) {
	task := p.generator.Task().Name
	outcomes := make([]outcome, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Workers)
	for i := range docs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			rec, pruned, err := p.process(gctx, docs[i])
			if err != nil && gctx.Err() != nil {
				return gctx.Err()
			}
			outcomes[i] = outcome{rec: rec, pruned: pruned, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}

	var stats Stats
	for i, o := range outcomes {
		stats.Documents++
		if o.err != nil {
			stats.Failed++
			RecordDocument(task, "failed")
			level := p.logger.Warn
			if errors.Is(o.err, document.ErrMalformedInput) {
				level = p.logger.Info
			}
			level("Skipping document",
				zap.String("pmid", docs[i].PMID),
				zap.Error(o.err))
			continue
		}
		RecordDocument(task, "ok")
		for _, c := range o.rec.Candidates {
			if c.PairType == pairing.Intra {
				stats.Intra++
			} else {
				stats.Inter++
			}
		}
		stats.Candidates += len(o.rec.Candidates)
		stats.Positive += o.rec.Positives()
		stats.Pruned += o.pruned
		if err := sink(o.rec); err != nil {
			return stats, fmt.Errorf("writing document %s: %w", o.rec.PMID, err)
		}
	}

	p.logger.Info("Run complete",
		zap.Int("documents", stats.Documents),
		zap.Int("failed", stats.Failed),
		zap.Int("candidates", stats.Candidates),
		zap.Int("positive", stats.Positive),
		zap.Int("pruned", stats.Pruned))
	return stats, nil
}

// Close releases the segmenter cache. It is safe to call more than once.
func (p *Pipeline) Close() error {
	p.closeOnce.Do(func() {
		close(p.closed)
		if p.cache != nil {
			p.logger.Debug("Segmenter cache stats", zap.Any("stats", p.cache.Stats()))
			p.cache.Close()
		}
	})
	return nil
}
