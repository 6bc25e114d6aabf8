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

// Package labeling attaches weak supervision spans to candidate pairs
// using the relations asserted in document metadata.
package labeling

import (
	"github.com/cryptoradon/biomedRelExt/lib/document"
	"github.com/cryptoradon/biomedRelExt/lib/masking"
)

// Key is a directional pair of concept identifiers.
type Key struct {
	A string
	B string
}

// KnownSet holds the relation keys of one document.
type KnownSet map[Key]struct{}

// NewKnownSet collects (ID1, ID2) of every relation, keeping direction.
func NewKnownSet(relations []document.Relation) KnownSet {
	set := make(KnownSet, len(relations))
	for _, r := range relations {
		set[Key{A: r.ID1, B: r.ID2}] = struct{}{}
	}
	return set
}

// Has reports whether (a, b) is asserted.
func (k KnownSet) Has(a, b string) bool {
	_, ok := k[Key{A: a, B: b}]
	return ok
}

// Match reports whether any combination of the split identifiers of head
// and tail is asserted, in head -> tail direction.
func (k KnownSet) Match(head, tail document.Mention) bool {
	if len(k) == 0 {
		return false
	}
	for _, a := range head.IDs() {
		for _, b := range tail.IDs() {
			if k.Has(a, b) {
				return true
			}
		}
	}
	return false
}

// Label is the supervision span within a masked context. The zero value
// marks a pair that is not a known relation.
type Label struct {
	Start int
	End   int
}

// Positive reports whether the label points at a target.
func (l Label) Positive() bool {
	return l != Label{}
}

// Assigner labels candidates against one document's known relations.
type Assigner struct {
	known KnownSet
}

// NewAssigner returns an Assigner over the given set.
func NewAssigner(known KnownSet) *Assigner {
	return &Assigner{known: known}
}

// Assign returns the tail's span within the masked context when the pair
// is a known relation, the zero Label otherwise.
func (a *Assigner) Assign(head, tail document.Mention, target masking.Located) Label {
	if !target.OK || !a.known.Match(head, tail) {
		return Label{}
	}
	return Label{Start: target.Span.Start, End: target.Span.End}
}
