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

// Package masking builds model contexts in which competing mentions of
// the masked entity type are replaced by a placeholder token.
package masking

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/cryptoradon/biomedRelExt/lib/document"
)

// DefaultToken replaces every masked mention.
const DefaultToken = "[***]"

// Segment maps the document runes [DocStart, DocEnd) onto the context
// string starting at rune Offset.
type Segment struct {
	DocStart int
	DocEnd   int
	Offset   int
}

// View is a context string together with the document regions it shows.
type View struct {
	Text     string
	Segments []Segment
}

// WholeDocument returns a view of the complete document text.
func WholeDocument(text string) View {
	return View{
		Text:     text,
		Segments: []Segment{{DocStart: 0, DocEnd: utf8.RuneCountInString(text), Offset: 0}},
	}
}

// JoinSentences returns a view of consecutive sentences joined by a
// single space.
func JoinSentences(sentences []document.Sentence) View {
	var b strings.Builder
	segs := make([]Segment, 0, len(sentences))
	offset := 0
	for i, s := range sentences {
		if i > 0 {
			b.WriteByte(' ')
			offset++
		}
		b.WriteString(s.Text)
		segs = append(segs, Segment{DocStart: s.Start, DocEnd: s.End, Offset: offset})
		offset += utf8.RuneCountInString(s.Text)
	}
	return View{Text: b.String(), Segments: segs}
}

// Locate translates a document span into context offsets. It fails when
// the span is not fully inside one segment.
func (v View) Locate(s document.Span) (document.Span, bool) {
	for _, seg := range v.Segments {
		if s.Start >= seg.DocStart && s.End <= seg.DocEnd {
			return document.Span{
				Start: s.Start - seg.DocStart + seg.Offset,
				End:   s.End - seg.DocStart + seg.Offset,
			}, true
		}
	}
	return document.Span{}, false
}

// Located is a target span after masking.
type Located struct {
	Span document.Span
	OK   bool
}

// Result is a masked context.
type Result struct {
	// Body is the view text after masking
	Body string
	// Context is Body, a newline, then one provenance line per kept mention
	Context string
	// Targets holds the target spans within Body, in argument order
	Targets []Located
	// Masked counts replaced mentions
	Masked int
}

// Masker masks every mention of one entity type except the targets.
type Masker struct {
	masked   document.EntityType
	token    string
	tokenLen int
}

// New returns a Masker for the given type. An empty token selects
// DefaultToken.
func New(masked document.EntityType, token string) *Masker {
	if token == "" {
		token = DefaultToken
	}
	return &Masker{
		masked:   masked,
		token:    token,
		tokenLen: utf8.RuneCountInString(token),
	}
}

// Token returns the placeholder used for masked mentions.
func (m *Masker) Token() string { return m.token }

// Mask rewrites the view. Mentions are processed ascending by Start
// whatever their input order; mentions outside the view are ignored. A
// mention of the masked type that shares no rune with a target is
// replaced by the token, unless it overlaps an earlier replacement, in
// which case it is skipped. Every other mention inside the view,
// including nested or enclosing mentions of a target, adds a provenance
// line. Target text is therefore never rewritten.
func (m *Masker) Mask(view View, targets []document.Mention, mentions []document.Mention) Result {
	ordered := slices.Clone(mentions)
	slices.SortStableFunc(ordered, func(a, b document.Mention) int { return a.Start - b.Start })

	var (
		edits      []document.Span
		transcript strings.Builder
		lastEnd    = -1
	)
	for _, ann := range ordered {
		span, ok := view.Locate(ann.Span())
		if !ok {
			continue
		}
		if ann.Type == m.masked && !overlapsTarget(ann, targets) {
			if span.Start < lastEnd {
				continue
			}
			edits = append(edits, span)
			lastEnd = span.End
			continue
		}
		transcript.WriteString(ann.Provenance())
		transcript.WriteByte('\n')
	}

	body := m.apply(view.Text, edits)

	res := Result{
		Body:    body,
		Context: body + "\n" + transcript.String(),
		Targets: make([]Located, len(targets)),
		Masked:  len(edits),
	}
	for i, t := range targets {
		span, ok := view.Locate(t.Span())
		if !ok {
			continue
		}
		shift := 0
		for _, e := range edits {
			if e.End > span.Start {
				break
			}
			shift += e.Len() - m.tokenLen
		}
		res.Targets[i] = Located{
			Span: document.Span{Start: span.Start - shift, End: span.End - shift},
			OK:   true,
		}
	}
	return res
}

// apply splices the token over every edit in one pass. Edits are sorted
// and disjoint.
func (m *Masker) apply(text string, edits []document.Span) string {
	if len(edits) == 0 {
		return text
	}
	runes := []rune(text)
	var b strings.Builder
	b.Grow(len(text))
	cursor := 0
	for _, e := range edits {
		b.WriteString(string(runes[cursor:e.Start]))
		b.WriteString(m.token)
		cursor = e.End
	}
	b.WriteString(string(runes[cursor:]))
	return b.String()
}

func overlapsTarget(ann document.Mention, targets []document.Mention) bool {
	for _, t := range targets {
		if ann.SameSpan(t) || (ann.Start < t.End && t.Start < ann.End) {
			return true
		}
	}
	return false
}
