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

// Package pairing enumerates candidate entity pairs of a document, inside
// sentences and across a sliding window of neighbouring sentences.
package pairing

import (
	"github.com/cryptoradon/biomedRelExt/lib/document"
	"github.com/cryptoradon/biomedRelExt/lib/labeling"
	"github.com/cryptoradon/biomedRelExt/lib/masking"
	"go.uber.org/zap"
)

// PairType tells whether both entities share a sentence.
type PairType string

const (
	Intra PairType = "intra"
	Inter PairType = "inter"
)

// Candidate is one weakly supervised pair with its masked context.
type Candidate struct {
	EntityA  document.Mention `json:"entity_a"`
	EntityB  document.Mention `json:"entity_b"`
	Context  string           `json:"context"`
	Query    string           `json:"query,omitempty"`
	PMID     string           `json:"pmid"`
	PairType PairType         `json:"pair_type"`
	// LabelStart and LabelEnd locate EntityB in Context; both are zero
	// when the pair is not a known relation
	LabelStart int `json:"label_start"`
	LabelEnd   int `json:"label_end"`
}

// Positive reports whether the candidate is a known relation.
func (c Candidate) Positive() bool {
	return c.LabelStart != 0 || c.LabelEnd != 0
}

// Generator produces the candidates of a task.
type Generator struct {
	task   Task
	masker *masking.Masker
	logger *zap.Logger
}

// NewGenerator returns a Generator for task. An empty maskToken selects
// masking.DefaultToken.
func NewGenerator(task Task, maskToken string, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		task:   task,
		masker: masking.New(task.Masked, maskToken),
		logger: logger,
	}
}

// Task returns the generator's task.
func (g *Generator) Task() Task { return g.task }

// Generate returns intra-sentential candidates, sentence by sentence,
// followed by inter-sentential candidates in window order.
func (g *Generator) Generate(doc *document.Indexed) []Candidate {
	e := &emitter{
		task:     g.task,
		masker:   g.masker,
		assigner: labeling.NewAssigner(labeling.NewKnownSet(doc.Relations)),
		doc:      doc,
	}

	whole := masking.WholeDocument(doc.Text)
	for i := range doc.Sentences {
		mentions := doc.SentenceMentions(i)
		e.cross(ofType(mentions, g.task.Head), ofType(mentions, g.task.Tail), whole, Intra)
	}
	intra := len(e.out)

	g.slide(e)

	g.logger.Debug("Generated candidates",
		zap.String("pmid", doc.PMID),
		zap.Int("sentences", len(doc.Sentences)),
		zap.Int("intra", intra),
		zap.Int("inter", len(e.out)-intra))
	return e.out
}

// slide walks the window anchor over every sentence but the last, pairing
// the anchor sentence with each later sentence in the window.
func (g *Generator) slide(e *emitter) {
	doc := e.doc
	last := len(doc.Sentences) - 1
	end := min(WindowSize-1, last)

	var w window
	for s := 0; s <= end; s++ {
		w.push(slot{sentence: s, mentions: doc.SentenceMentions(s)})
	}

	for start := 0; start < last; start++ {
		first := w.at(0)
		for j := 1; j < w.len(); j++ {
			next := w.at(j)
			view := masking.JoinSentences(doc.Sentences[start : next.sentence+1])
			e.cross(ofType(first.mentions, g.task.Head), ofType(next.mentions, g.task.Tail), view, Inter)
			e.cross(ofType(next.mentions, g.task.Head), ofType(first.mentions, g.task.Tail), view, Inter)
		}

		w.pop()
		if end < last {
			end++
			w.push(slot{sentence: end, mentions: doc.SentenceMentions(end)})
		}
	}
}

type emitter struct {
	task     Task
	masker   *masking.Masker
	assigner *labeling.Assigner
	doc      *document.Indexed
	out      []Candidate
}

func (e *emitter) cross(heads, tails []document.Mention, view masking.View, pt PairType) {
	for _, a := range heads {
		for _, b := range tails {
			if !e.task.Accepts(a, b) {
				continue
			}
			res := e.masker.Mask(view, []document.Mention{a, b}, e.doc.Flat)
			label := e.assigner.Assign(a, b, res.Targets[1])
			e.out = append(e.out, Candidate{
				EntityA:    a,
				EntityB:    b,
				Context:    res.Context,
				Query:      e.task.Query(a),
				PMID:       e.doc.PMID,
				PairType:   pt,
				LabelStart: label.Start,
				LabelEnd:   label.End,
			})
		}
	}
}

func ofType(mentions []document.Mention, t document.EntityType) []document.Mention {
	var out []document.Mention
	for _, m := range mentions {
		if m.Type == t {
			out = append(out, m)
		}
	}
	return out
}
