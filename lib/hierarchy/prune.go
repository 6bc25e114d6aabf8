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

package hierarchy

import (
	"github.com/cryptoradon/biomedRelExt/lib/document"
	"github.com/cryptoradon/biomedRelExt/lib/pairing"
	"go.uber.org/zap"
)

// Pruner keeps only the most specific mention of each lineage.
type Pruner struct {
	hmap   Map
	logger *zap.Logger
}

// NewPruner returns a Pruner over hmap.
func NewPruner(hmap Map, logger *zap.Logger) *Pruner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pruner{hmap: hmap, logger: logger}
}

type side func(pairing.Candidate) document.Mention

func entityA(c pairing.Candidate) document.Mention { return c.EntityA }
func entityB(c pairing.Candidate) document.Mention { return c.EntityB }

// Prune filters the candidates of one document, preserving order. A
// candidate is dropped when one of its identifiers was eliminated by an
// earlier candidate, or when a later candidate carries a more specific
// code on the same side, in which case the general identifier is
// eliminated for the rest of the document. The input is not modified.
func (p *Pruner) Prune(candidates []pairing.Candidate) []pairing.Candidate {
	eliminated := make(map[string]struct{})
	kept := make([]pairing.Candidate, 0, len(candidates))

	for i, cur := range candidates {
		idsA := cur.EntityA.IDs()
		idsB := cur.EntityB.IDs()
		if anyIn(eliminated, idsA) || anyIn(eliminated, idsB) {
			continue
		}

		later := candidates[i+1:]
		marked := false
		for _, id := range idsA {
			if p.superseded(id, later, entityA) {
				eliminated[id] = struct{}{}
				marked = true
			}
		}
		for _, id := range idsB {
			if p.superseded(id, later, entityB) {
				eliminated[id] = struct{}{}
				marked = true
			}
		}
		if !marked {
			kept = append(kept, cur)
		}
	}

	if dropped := len(candidates) - len(kept); dropped > 0 {
		p.logger.Debug("Pruned general candidates",
			zap.Int("candidates", len(candidates)),
			zap.Int("pruned", dropped),
			zap.Int("eliminated_ids", len(eliminated)))
	}
	return kept
}

func (p *Pruner) superseded(id string, later []pairing.Candidate, pick side) bool {
	if _, ok := p.hmap[id]; !ok {
		return false
	}
	for _, t := range later {
		for _, tid := range pick(t).IDs() {
			if p.hmap.Generalizes(id, tid) {
				return true
			}
		}
	}
	return false
}

func anyIn(set map[string]struct{}, ids []string) bool {
	for _, id := range ids {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}
