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

package masking

import (
	"fmt"
	"slices"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptoradon/biomedRelExt/lib/document"
)

const sampleText = "X causes Y and Z."

func mention(id string, typ document.EntityType, start, end int, text string) document.Mention {
	return document.Mention{ID: id, Type: typ, Start: start, End: end, Text: text, PMID: "1", Sentence: -1}
}

var (
	chemX    = mention("C1", document.TypeChemical, 0, 1, "X")
	diseaseY = mention("D1", document.TypeDisease, 9, 10, "Y")
	diseaseZ = mention("D2", document.TypeDisease, 15, 16, "Z")
)

func TestMaskReplacesCompetingMentions(t *testing.T) {
	m := New(document.TypeDisease, "")
	all := []document.Mention{chemX, diseaseY, diseaseZ}

	res := m.Mask(WholeDocument(sampleText), []document.Mention{chemX, diseaseY}, all)
	assert.Equal(t, "X causes Y and [***].", res.Body)
	assert.Equal(t, 1, res.Masked)
	require.Len(t, res.Targets, 2)
	assert.Equal(t, Located{Span: document.Span{Start: 0, End: 1}, OK: true}, res.Targets[0])
	assert.Equal(t, Located{Span: document.Span{Start: 9, End: 10}, OK: true}, res.Targets[1])
	assert.Equal(t, "X causes Y and [***].\n1 0 1 X Chemical C1\n1 9 10 Y Disease D1\n", res.Context)

	res = m.Mask(WholeDocument(sampleText), []document.Mention{chemX, diseaseZ}, all)
	assert.Equal(t, "X causes [***] and Z.", res.Body)
	assert.Equal(t, document.Span{Start: 19, End: 20}, res.Targets[1].Span)
	assert.Equal(t, "Z", sliceRunes(res.Body, res.Targets[1].Span))
}

func TestMaskIgnoresInputOrder(t *testing.T) {
	m := New(document.TypeDisease, "")
	targets := []document.Mention{chemX, diseaseY}
	want := m.Mask(WholeDocument(sampleText), targets, []document.Mention{chemX, diseaseY, diseaseZ})
	got := m.Mask(WholeDocument(sampleText), targets, []document.Mention{diseaseZ, diseaseY, chemX})
	assert.Equal(t, want, got)
}

func TestMaskSkipsOverlappingMentions(t *testing.T) {
	text := "X causes acute renal failure."
	outer := mention("D1", document.TypeDisease, 9, 28, "acute renal failure")
	inner := mention("D2", document.TypeDisease, 15, 28, "renal failure")

	res := New(document.TypeDisease, "").Mask(WholeDocument(text), []document.Mention{chemX}, []document.Mention{inner, chemX, outer})
	assert.Equal(t, "X causes [***].", res.Body)
	assert.Equal(t, 1, res.Masked)
	assert.NotContains(t, res.Context, "renal failure Disease")
}

func TestMaskKeepsMentionsNestedWithTarget(t *testing.T) {
	text := "X causes acute renal failure and Y."
	outer := mention("D1", document.TypeDisease, 9, 28, "acute renal failure")
	inner := mention("D2", document.TypeDisease, 15, 28, "renal failure")
	other := mention("D3", document.TypeDisease, 33, 34, "Y")
	all := []document.Mention{chemX, outer, inner, other}
	m := New(document.TypeDisease, "")

	res := m.Mask(WholeDocument(text), []document.Mention{chemX, inner}, all)
	assert.Equal(t, "X causes acute renal failure and [***].", res.Body)
	assert.Equal(t, 1, res.Masked)
	require.True(t, res.Targets[1].OK)
	assert.Equal(t, "renal failure", sliceRunes(res.Body, res.Targets[1].Span))
	assert.Contains(t, res.Context, "1 9 28 acute renal failure Disease D1")

	res = m.Mask(WholeDocument(text), []document.Mention{chemX, outer}, all)
	assert.Equal(t, "X causes acute renal failure and [***].", res.Body)
	assert.Equal(t, "acute renal failure", sliceRunes(res.Body, res.Targets[1].Span))
	assert.Contains(t, res.Context, "1 15 28 renal failure Disease D2")
}

func TestMaskTargetOfMaskedTypeStays(t *testing.T) {
	// chemical-chemical: both targets are of the masked type
	a := mention("C1", document.TypeChemMet, 0, 1, "X")
	b := mention("C2", document.TypeChemMet, 9, 10, "Y")
	c := mention("C3", document.TypeChemMet, 15, 16, "Z")

	res := New(document.TypeChemMet, "<m>").Mask(WholeDocument(sampleText), []document.Mention{a, b}, []document.Mention{a, b, c})
	assert.Equal(t, "X causes Y and <m>.", res.Body)
	assert.Equal(t, "<m>", New(document.TypeChemMet, "<m>").Token())
}

func TestMaskJoinedSentences(t *testing.T) {
	sentences := []document.Sentence{
		{Index: 0, Text: "First X.", Start: 0, End: 8},
		{Index: 1, Text: "Then Y.", Start: 10, End: 17},
	}
	view := JoinSentences(sentences)
	assert.Equal(t, "First X. Then Y.", view.Text)

	x := mention("C1", document.TypeChemical, 6, 7, "X")
	y := mention("D1", document.TypeDisease, 15, 16, "Y")
	far := mention("D2", document.TypeDisease, 20, 21, "W")

	res := New(document.TypeDisease, "").Mask(view, []document.Mention{x, y}, []document.Mention{x, y, far})
	assert.Equal(t, "First X. Then Y.", res.Body)
	assert.Equal(t, 0, res.Masked)
	assert.Equal(t, document.Span{Start: 14, End: 15}, res.Targets[1].Span)
	// transcript keeps document offsets
	assert.Contains(t, res.Context, "1 15 16 Y Disease D1")
	assert.NotContains(t, res.Context, "W Disease")

	_, ok := view.Locate(document.Span{Start: 7, End: 11})
	assert.False(t, ok, "span across the gap is not locatable")
}

func TestMaskLengthMatchesSequentialReplacement(t *testing.T) {
	text := "Aspirin caused fever, rash, headache and nausea in ß-patients."
	words := []string{"fever", "rash", "headache", "nausea"}
	var diseases []document.Mention
	for i, w := range words {
		start := utf8.RuneCountInString(text[:strings.Index(text, w)])
		diseases = append(diseases, mention(fmt.Sprintf("D%d", i), document.TypeDisease, start, start+len(w), w))
	}
	chem := mention("C1", document.TypeChemical, 0, 7, "Aspirin")

	for _, token := range []string{DefaultToken, "@", "<<disease>>"} {
		m := New(document.TypeDisease, token)
		for keep := range diseases {
			all := append([]document.Mention{chem}, diseases...)
			slices.Reverse(all)
			res := m.Mask(WholeDocument(text), []document.Mention{chem, diseases[keep]}, all)

			want := sequentialMask(text, token, diseases, keep)
			assert.Equal(t, want, res.Body, "token %q keep %d", token, keep)

			masked := 0
			for i, d := range diseases {
				if i != keep {
					masked += d.End - d.Start
				}
			}
			wantLen := utf8.RuneCountInString(text) - masked + (len(diseases)-1)*utf8.RuneCountInString(token)
			assert.Equal(t, wantLen, utf8.RuneCountInString(res.Body))
			assert.Equal(t, words[keep], sliceRunes(res.Body, res.Targets[1].Span))
		}
	}
}

// sequentialMask replaces right to left so earlier offsets stay valid.
func sequentialMask(text, token string, ms []document.Mention, keep int) string {
	runes := []rune(text)
	for i := len(ms) - 1; i >= 0; i-- {
		if i == keep {
			continue
		}
		runes = slices.Concat(runes[:ms[i].Start], []rune(token), runes[ms[i].End:])
	}
	return string(runes)
}

func sliceRunes(s string, sp document.Span) string {
	return string([]rune(s)[sp.Start:sp.End])
}
