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

// Package document holds the per-document data model: entity mentions,
// sentences and the arena that ties mentions to their owning sentence.
package document

import (
	"fmt"
	"strings"
)

// NoConcept is the identifier annotators use for a mention with no
// concept assigned.
const NoConcept = "-1"

// CompositeSeparator joins several concept identifiers sharing one span.
const CompositeSeparator = "|"

// Span is a half-open [Start, End) interval of rune offsets.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of runes covered by the span.
func (s Span) Len() int { return s.End - s.Start }

// Contains reports whether o lies fully inside s.
func (s Span) Contains(o Span) bool {
	return o.Start >= s.Start && o.End <= s.End
}

// Mention is a grounded occurrence of an entity in document text.
type Mention struct {
	// ID is the concept identifier, possibly a pipe-delimited composite
	ID string `json:"id"`
	// Type is the entity kind
	Type EntityType `json:"type"`
	// Start is the rune offset where the mention begins
	Start int `json:"start"`
	// End is the rune offset where the mention ends (exclusive)
	End int `json:"end"`
	// Text is the surface form, text[Start:End]
	Text string `json:"text"`
	// PMID is the owning document identifier
	PMID string `json:"pmid"`
	// Sentence is the index of the owning sentence, -1 when unassigned
	Sentence int `json:"sentence"`
}

// Span returns the mention's character span.
func (m Mention) Span() Span { return Span{Start: m.Start, End: m.End} }

// SameSpan reports whether both mentions cover the same characters.
func (m Mention) SameSpan(o Mention) bool {
	return m.Start == o.Start && m.End == o.End
}

// IDs splits a composite identifier. Empty segments are kept as empty
// identifiers.
func (m Mention) IDs() []string {
	return SplitIDs(m.ID)
}

// IsComposite reports whether the identifier bundles several concepts.
func (m Mention) IsComposite() bool {
	return strings.Contains(m.ID, CompositeSeparator)
}

// Provenance renders the transcript line for the mention.
func (m Mention) Provenance() string {
	return fmt.Sprintf("%s %d %d %s %s %s", m.PMID, m.Start, m.End, m.Text, m.Type, m.ID)
}

// SplitIDs splits a pipe-delimited identifier into its components.
func SplitIDs(id string) []string {
	return strings.Split(id, CompositeSeparator)
}

// Relation is a known relation asserted in the document metadata.
type Relation struct {
	Type string `json:"type"`
	ID1  string `json:"id1"`
	ID2  string `json:"id2"`
}

// Document is one annotated corpus entry as supplied by a loader.
// Annotations are in original scan order and carry rune offsets into Text.
type Document struct {
	PMID        string     `json:"pmid"`
	Text        string     `json:"text"`
	Annotations []Mention  `json:"annotations"`
	Relations   []Relation `json:"relations"`
}

// Sentence is a segment of the document text together with the arena
// indices of the mentions it contains.
type Sentence struct {
	Index    int    `json:"index"`
	Text     string `json:"text"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Mentions []int  `json:"mentions"`
}

// Span returns the sentence's character span.
func (s Sentence) Span() Span { return Span{Start: s.Start, End: s.End} }
