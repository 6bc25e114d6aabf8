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

// Package segment splits document text into sentence spans. Offsets are
// rune offsets into the text.
package segment

import (
	"context"
	"errors"
	"slices"
	"strings"
	"unicode"

	"github.com/cryptoradon/biomedRelExt/lib/document"
)

// ErrSegmenterUnavailable is returned when a remote segmenter cannot
// answer.
var ErrSegmenterUnavailable = errors.New("segmenter unavailable")

// Segmenter returns ordered, non-overlapping sentence spans of text.
type Segmenter interface {
	Segment(ctx context.Context, text string) ([]document.Span, error)
}

// Func adapts a function to the Segmenter interface.
type Func func(ctx context.Context, text string) ([]document.Span, error)

// Segment calls f.
func (f Func) Segment(ctx context.Context, text string) ([]document.Span, error) {
	return f(ctx, text)
}

// DefaultAbbreviations never end a sentence. Matching ignores case and
// the final period.
var DefaultAbbreviations = []string{
	"al", "approx", "ca", "cf", "co", "dr", "e.g", "eq", "etc", "fig", "figs",
	"i.e", "inc", "jr", "ltd", "mr", "mrs", "ms", "no", "nos", "prof", "ref",
	"refs", "resp", "sr", "st", "vol", "vs",
}

// RuleSegmenter splits on newlines and on terminal punctuation followed by
// whitespace and an upper-case letter, digit or opening bracket.
type RuleSegmenter struct {
	abbreviations map[string]struct{}
}

// NewRuleSegmenter returns a RuleSegmenter knowing DefaultAbbreviations
// and extra.
func NewRuleSegmenter(extra ...string) *RuleSegmenter {
	abbr := make(map[string]struct{}, len(DefaultAbbreviations)+len(extra))
	for _, a := range slices.Concat(DefaultAbbreviations, extra) {
		abbr[strings.ToLower(strings.TrimSuffix(a, "."))] = struct{}{}
	}
	return &RuleSegmenter{abbreviations: abbr}
}

// Segment implements Segmenter.
func (s *RuleSegmenter) Segment(ctx context.Context, text string) ([]document.Span, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	runes := []rune(text)
	n := len(runes)

	var spans []document.Span
	emit := func(start, end int) {
		for start < end && unicode.IsSpace(runes[start]) {
			start++
		}
		for end > start && unicode.IsSpace(runes[end-1]) {
			end--
		}
		if end > start {
			spans = append(spans, document.Span{Start: start, End: end})
		}
	}

	start := 0
	for i := 0; i < n; i++ {
		r := runes[i]
		if r == '\n' {
			emit(start, i)
			start = i + 1
			continue
		}
		if r != '.' && r != '?' && r != '!' {
			continue
		}
		end := i + 1
		for end < n && isCloser(runes[end]) {
			end++
		}
		if end < n && !unicode.IsSpace(runes[end]) {
			continue
		}
		if r == '.' && s.protected(runes, i) {
			continue
		}
		next := end
		for next < n && unicode.IsSpace(runes[next]) && runes[next] != '\n' {
			next++
		}
		if next < n && runes[next] != '\n' && !opensSentence(runes[next]) {
			continue
		}
		emit(start, end)
		start = end
		i = end - 1
	}
	emit(start, n)
	return spans, nil
}

// protected reports whether the period at i closes an abbreviation.
func (s *RuleSegmenter) protected(runes []rune, i int) bool {
	j := i
	for j > 0 && (unicode.IsLetter(runes[j-1]) || runes[j-1] == '.') {
		j--
	}
	word := string(runes[j:i])
	if word == "" {
		return false
	}
	_, ok := s.abbreviations[strings.ToLower(word)]
	return ok
}

func isCloser(r rune) bool {
	switch r {
	case ')', ']', '"', '\'', '”', '’':
		return true
	}
	return false
}

func opensSentence(r rune) bool {
	if unicode.IsUpper(r) || unicode.IsDigit(r) {
		return true
	}
	switch r {
	case '(', '[', '"', '\'', '“', '‘':
		return true
	}
	return false
}
