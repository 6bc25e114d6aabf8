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

package document

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// ErrMalformedInput is matched by every MalformedInputError.
var ErrMalformedInput = errors.New("malformed input")

// MalformedInputError reports a document that cannot be windowed: empty
// text or no usable sentence.
type MalformedInputError struct {
	PMID   string
	Reason string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("document %s: malformed input: %s", e.PMID, e.Reason)
}

// Is makes errors.Is(err, ErrMalformedInput) hold.
func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}

// DropReason labels why a mention never reaches pairing.
type DropReason string

const (
	DropNoConcept  DropReason = "no_concept"
	DropUnassigned DropReason = "unassigned"
)

// Indexed is the arena for one document. Mentions are expanded (one
// entry per concept identifier) and carry the index of their sentence;
// Flat keeps the concept-bearing annotations unexpanded, ascending by
// Start, for masking.
type Indexed struct {
	PMID      string
	Text      string
	Sentences []Sentence
	Mentions  []Mention
	Flat      []Mention
	Relations []Relation
	Dropped   map[DropReason]int

	runes []rune
}

// Slice returns the document text covered by s.
func (d *Indexed) Slice(s Span) string {
	return string(d.runes[s.Start:s.End])
}

// Len returns the document length in runes.
func (d *Indexed) Len() int { return len(d.runes) }

// SentenceMentions returns the mentions of sentence i in input order.
func (d *Indexed) SentenceMentions(i int) []Mention {
	idx := d.Sentences[i].Mentions
	out := make([]Mention, len(idx))
	for k, m := range idx {
		out[k] = d.Mentions[m]
	}
	return out
}

// Indexer assigns flat mentions to sentences.
type Indexer struct {
	logger *zap.Logger
}

// NewIndexer returns an Indexer; a nil logger is replaced by a no-op one.
func NewIndexer(logger *zap.Logger) *Indexer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Indexer{logger: logger}
}

// Index builds sentences from the segmenter spans and assigns every
// mention to the first sentence containing it. Spans are clamped to the
// text, then spans of one rune or less are discarded.
func (ix *Indexer) Index(doc Document, spans []Span) (*Indexed, error) {
	if doc.Text == "" {
		return nil, &MalformedInputError{PMID: doc.PMID, Reason: "empty text"}
	}

	d := &Indexed{
		PMID:      doc.PMID,
		Text:      doc.Text,
		Relations: doc.Relations,
		Dropped:   make(map[DropReason]int),
		runes:     []rune(doc.Text),
	}

	ordered := slices.Clone(spans)
	slices.SortStableFunc(ordered, func(a, b Span) int { return a.Start - b.Start })
	for _, sp := range ordered {
		sp.Start = max(sp.Start, 0)
		sp.End = min(sp.End, len(d.runes))
		if sp.Len() <= 1 {
			continue
		}
		d.Sentences = append(d.Sentences, Sentence{
			Index: len(d.Sentences),
			Text:  d.Slice(sp),
			Start: sp.Start,
			End:   sp.End,
		})
	}
	if len(d.Sentences) == 0 {
		return nil, &MalformedInputError{PMID: doc.PMID, Reason: "no sentences"}
	}

	for _, ann := range doc.Annotations {
		if ann.ID == NoConcept {
			d.Dropped[DropNoConcept]++
			continue
		}
		ann.Sentence = -1
		d.Flat = append(d.Flat, ann)

		si := d.owner(ann.Span())
		if si < 0 {
			d.Dropped[DropUnassigned]++
			ix.logger.Debug("Mention outside every sentence",
				zap.String("pmid", doc.PMID),
				zap.String("id", ann.ID),
				zap.Int("start", ann.Start),
				zap.Int("end", ann.End))
			continue
		}
		ids := []string{ann.ID}
		if ann.IsComposite() {
			ids = ann.IDs()
		}
		for _, id := range ids {
			m := ann
			m.ID = id
			m.Sentence = si
			d.Sentences[si].Mentions = append(d.Sentences[si].Mentions, len(d.Mentions))
			d.Mentions = append(d.Mentions, m)
		}
	}
	slices.SortStableFunc(d.Flat, func(a, b Mention) int { return a.Start - b.Start })

	return d, nil
}

func (d *Indexed) owner(s Span) int {
	for i, sen := range d.Sentences {
		if sen.Span().Contains(s) {
			return i
		}
	}
	return -1
}
