// Copyright 2026 The biomedRelExt Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/antflydb/antfly-go/libaf/healthserver"
	relext "github.com/cryptoradon/biomedRelExt"
	"github.com/cryptoradon/biomedRelExt/lib/dataset"
	"github.com/cryptoradon/biomedRelExt/lib/hierarchy"
	"github.com/cryptoradon/biomedRelExt/lib/pubtator"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Build candidate pairs from a PubTator corpus",
	Long: `Read a PubTator corpus, split every document into sentences, and write
one JSON line per document holding its candidate pairs.

Tasks:
  cdr   - chemical x disease, diseases masked
  chr   - chemical x chemical (ChemMet), chemicals masked

When --mesh is given, candidates mentioning a concept more general than a
later mention of the same MeSH lineage are pruned.

Examples:
  # Chemical-disease candidates with the built-in segmenter
  relext extract --corpus CDR_TrainingSet.PubTator.txt --out pairs.jsonl

  # Prune against MeSH descriptors and supplementary concepts
  relext extract --corpus CDR_TrainingSet.PubTator.txt --out pairs.jsonl \
    --mesh desc2024.xml --mesh-supplemental supp2024.xml

  # Chemical-chemical candidates using a remote segmenter
  relext extract --task chr --corpus train.pubtator --out pairs.jsonl \
    --segmenter-url http://localhost:8080/segment`,
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().String("corpus", "", "PubTator corpus file (- for stdin)")
	extractCmd.Flags().String("out", "-", "output JSONL file (- for stdout)")
	extractCmd.Flags().String("task", "cdr", "pair task (cdr, chr)")
	extractCmd.Flags().String("mask-token", "", `mask token (default "[***]")`)
	extractCmd.Flags().Int("workers", 0, "documents processed concurrently (default GOMAXPROCS)")
	extractCmd.Flags().String("segmenter-url", "", "remote sentence segmenter endpoint")
	extractCmd.Flags().Duration("segmenter-cache-ttl", 0, "cache segmenter output for this long (0 disables)")
	extractCmd.Flags().StringSlice("abbreviations", nil, "extra abbreviations for the rule segmenter")
	extractCmd.Flags().Int("health-port", 0, "health/metrics server port (0 disables)")
	addHierarchyFlags(extractCmd)

	mustBindPFlag("corpus", extractCmd.Flags().Lookup("corpus"))
	mustBindPFlag("out", extractCmd.Flags().Lookup("out"))
	mustBindPFlag("task", extractCmd.Flags().Lookup("task"))
	mustBindPFlag("mask_token", extractCmd.Flags().Lookup("mask-token"))
	mustBindPFlag("workers", extractCmd.Flags().Lookup("workers"))
	mustBindPFlag("segmenter_url", extractCmd.Flags().Lookup("segmenter-url"))
	mustBindPFlag("segmenter_cache_ttl", extractCmd.Flags().Lookup("segmenter-cache-ttl"))
	mustBindPFlag("abbreviations", extractCmd.Flags().Lookup("abbreviations"))
	mustBindPFlag("health_port", extractCmd.Flags().Lookup("health-port"))
}

func addHierarchyFlags(c *cobra.Command) {
	c.Flags().String("mesh", "", "MeSH descriptor XML (desc20XX.xml)")
	c.Flags().String("mesh-supplemental", "", "MeSH supplementary concept XML (supp20XX.xml)")
}

func loadHierarchy(c *cobra.Command, logger *zap.Logger) (hierarchy.Map, error) {
	descPath, _ := c.Flags().GetString("mesh")
	suppPath, _ := c.Flags().GetString("mesh-supplemental")
	if descPath == "" {
		if suppPath != "" {
			return nil, fmt.Errorf("--mesh-supplemental requires --mesh")
		}
		return nil, nil
	}
	hmap, err := hierarchy.LoadFiles(descPath, suppPath)
	if err != nil {
		return nil, err
	}
	logger.Info("Loaded concept hierarchy",
		zap.String("descriptors", descPath),
		zap.String("supplemental", suppPath),
		zap.Int("entries", len(hmap)))
	return hmap, nil
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := newLogger()
	defer func() {
		_ = logger.Sync()
	}()

	corpusPath := viper.GetString("corpus")
	if corpusPath == "" {
		return fmt.Errorf("--corpus is required")
	}

	ready := &atomic.Bool{}
	if port := viper.GetInt("health_port"); port > 0 {
		healthserver.Start(logger, port, ready.Load)
	}

	cfg := relext.Config{
		Task:              viper.GetString("task"),
		MaskToken:         viper.GetString("mask_token"),
		Workers:           viper.GetInt("workers"),
		SegmenterURL:      viper.GetString("segmenter_url"),
		SegmenterCacheTTL: viper.GetDuration("segmenter_cache_ttl"),
		Abbreviations:     viper.GetStringSlice("abbreviations"),
	}

	hmap, err := loadHierarchy(cmd, logger)
	if err != nil {
		return err
	}

	in, closeIn, err := openInput(corpusPath)
	if err != nil {
		return err
	}
	docs, err := pubtator.Load(in)
	_ = closeIn()
	if err != nil {
		return fmt.Errorf("loading corpus: %w", err)
	}
	logger.Info("Loaded corpus", zap.String("path", corpusPath), zap.Int("documents", len(docs)))

	pipeline, err := relext.NewPipeline(cfg, nil, hmap, logger)
	if err != nil {
		return err
	}
	defer func() { _ = pipeline.Close() }()

	out, closeOut, err := createOutput(viper.GetString("out"))
	if err != nil {
		return err
	}
	defer func() { _ = closeOut() }()

	w := dataset.NewWriter(out)
	ready.Store(true)

	stats, err := pipeline.Run(ctx, docs, w.Write)
	if err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}

	logger.Info("Extraction finished",
		zap.String("task", pipeline.Task().Name),
		zap.Int("documents", stats.Documents),
		zap.Int("failed", stats.Failed),
		zap.Int("intra", stats.Intra),
		zap.Int("inter", stats.Inter),
		zap.Int("positive", stats.Positive),
		zap.Int("pruned", stats.Pruned))
	return closeOut()
}
