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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const scenarioText = "A reacts with B. B causes C."

func scenarioDoc() Document {
	return Document{
		PMID: "1",
		Text: scenarioText,
		Annotations: []Mention{
			{ID: "A", Type: TypeChemical, Start: 0, End: 1, Text: "A", PMID: "1"},
			{ID: "B", Type: TypeChemical, Start: 14, End: 15, Text: "B", PMID: "1"},
			{ID: "B", Type: TypeChemical, Start: 17, End: 18, Text: "B", PMID: "1"},
			{ID: "C", Type: TypeDisease, Start: 26, End: 27, Text: "C", PMID: "1"},
		},
		Relations: []Relation{{Type: "CID", ID1: "A", ID2: "C"}},
	}
}

var scenarioSpans = []Span{{Start: 0, End: 16}, {Start: 17, End: 28}}

func TestIndexAssignsMentionsToSentences(t *testing.T) {
	d, err := NewIndexer(zap.NewNop()).Index(scenarioDoc(), scenarioSpans)
	require.NoError(t, err)
	require.Len(t, d.Sentences, 2)

	assert.Equal(t, "A reacts with B.", d.Sentences[0].Text)
	assert.Equal(t, "B causes C.", d.Sentences[1].Text)

	first := d.SentenceMentions(0)
	require.Len(t, first, 2)
	assert.Equal(t, 0, first[0].Start)
	assert.Equal(t, 14, first[1].Start)

	second := d.SentenceMentions(1)
	require.Len(t, second, 2)
	assert.Equal(t, "B", second[0].ID)
	assert.Equal(t, "C", second[1].ID)
	for _, m := range second {
		assert.Equal(t, 1, m.Sentence)
		assert.True(t, d.Sentences[1].Span().Contains(m.Span()))
	}
	assert.Len(t, d.Flat, 4)
}

func TestIndexDropsUnassignedAndNoConcept(t *testing.T) {
	doc := scenarioDoc()
	doc.Annotations = append(doc.Annotations,
		// straddles both sentences
		Mention{ID: "X", Type: TypeDisease, Start: 14, End: 18, Text: "B. B", PMID: "1"},
		Mention{ID: NoConcept, Type: TypeChemical, Start: 2, End: 8, Text: "reacts", PMID: "1"},
	)

	d, err := NewIndexer(nil).Index(doc, scenarioSpans)
	require.NoError(t, err)

	assert.Equal(t, 1, d.Dropped[DropUnassigned])
	assert.Equal(t, 1, d.Dropped[DropNoConcept])
	assert.Len(t, d.Mentions, 4)
	// unassigned mentions still take part in masking, no-concept ones do not
	assert.Len(t, d.Flat, 5)
	for _, m := range d.Flat {
		assert.NotEqual(t, NoConcept, m.ID)
	}
}

func TestIndexExpandsCompositeIdentifiers(t *testing.T) {
	doc := Document{
		PMID: "7",
		Text: "Use of X and Y.",
		Annotations: []Mention{
			{ID: "D1|D2", Type: TypeChemical, Start: 7, End: 8, Text: "X", PMID: "7"},
			{ID: "D3", Type: TypeChemical, Start: 13, End: 14, Text: "Y", PMID: "7"},
		},
	}
	d, err := NewIndexer(nil).Index(doc, []Span{{Start: 0, End: 15}})
	require.NoError(t, err)

	ms := d.SentenceMentions(0)
	require.Len(t, ms, 3)
	assert.Equal(t, []string{"D1", "D2", "D3"}, []string{ms[0].ID, ms[1].ID, ms[2].ID})
	assert.True(t, ms[0].SameSpan(ms[1]))
	assert.Equal(t, "X", ms[1].Text)

	require.Len(t, d.Flat, 2)
	assert.Equal(t, "D1|D2", d.Flat[0].ID)
}

func TestIndexSortsFlatMentions(t *testing.T) {
	doc := scenarioDoc()
	doc.Annotations[0], doc.Annotations[3] = doc.Annotations[3], doc.Annotations[0]

	d, err := NewIndexer(nil).Index(doc, scenarioSpans)
	require.NoError(t, err)
	for i := 1; i < len(d.Flat); i++ {
		assert.LessOrEqual(t, d.Flat[i-1].Start, d.Flat[i].Start)
	}
	// sentence order still follows input order
	second := d.SentenceMentions(1)
	assert.Equal(t, "C", second[0].ID)
	assert.Equal(t, "B", second[1].ID)
}

func TestIndexDropsDegenerateSentences(t *testing.T) {
	spans := []Span{{Start: 0, End: 16}, {Start: 16, End: 17}, {Start: 17, End: 28}, {Start: 28, End: 99}}
	d, err := NewIndexer(nil).Index(scenarioDoc(), spans)
	require.NoError(t, err)
	require.Len(t, d.Sentences, 2)
	assert.Equal(t, 1, d.Sentences[1].Index)
}

func TestIndexClampsSpansToText(t *testing.T) {
	d, err := NewIndexer(nil).Index(scenarioDoc(), []Span{{Start: -3, End: 16}, {Start: 17, End: 29}})
	require.NoError(t, err)
	require.Len(t, d.Sentences, 2)
	assert.Equal(t, Span{Start: 0, End: 16}, d.Sentences[0].Span())
	assert.Equal(t, Span{Start: 17, End: 28}, d.Sentences[1].Span())
	assert.Equal(t, "B causes C.", d.Sentences[1].Text)
	assert.Len(t, d.SentenceMentions(1), 2)
	assert.Zero(t, d.Dropped[DropUnassigned])
}

func TestIndexMalformedInput(t *testing.T) {
	ix := NewIndexer(nil)

	_, err := ix.Index(Document{PMID: "9"}, scenarioSpans)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedInput))

	_, err = ix.Index(scenarioDoc(), []Span{{Start: 3, End: 4}})
	var mie *MalformedInputError
	require.ErrorAs(t, err, &mie)
	assert.Equal(t, "1", mie.PMID)
	assert.Equal(t, "no sentences", mie.Reason)
}

func TestIndexUsesRuneOffsets(t *testing.T) {
	doc := Document{
		PMID: "3",
		Text: "β-carotene reduces pain.",
		Annotations: []Mention{
			{ID: "D1", Type: TypeChemical, Start: 0, End: 10, Text: "β-carotene", PMID: "3"},
		},
	}
	d, err := NewIndexer(nil).Index(doc, []Span{{Start: 0, End: 24}})
	require.NoError(t, err)
	assert.Equal(t, "β-carotene", d.Slice(Span{Start: 0, End: 10}))
	assert.Equal(t, doc.Text, d.Sentences[0].Text)
	assert.Equal(t, 24, d.Len())
}

func TestMentionIDs(t *testing.T) {
	assert.Equal(t, []string{"D1"}, Mention{ID: "D1"}.IDs())
	assert.Equal(t, []string{"D1", "", "D2"}, Mention{ID: "D1||D2"}.IDs())
	assert.True(t, Mention{ID: "D1|D2"}.IsComposite())
	assert.False(t, Mention{ID: "D1"}.IsComposite())
}

func TestEntityTypeText(t *testing.T) {
	for _, label := range []string{"Chemical", "Disease", "ChemMet", "Gene", "Species"} {
		typ := ParseEntityType(label)
		assert.NotEqual(t, TypeOther, typ, label)
		assert.Equal(t, label, typ.String())
	}
	assert.Equal(t, TypeOther, ParseEntityType("Unheard"))

	var typ EntityType
	require.NoError(t, typ.UnmarshalText([]byte("Disease")))
	assert.Equal(t, TypeDisease, typ)
	b, err := TypeChemMet.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "ChemMet", string(b))
}

func TestMentionProvenance(t *testing.T) {
	m := Mention{ID: "D1", Type: TypeDisease, Start: 4, End: 9, Text: "fever", PMID: "42"}
	assert.Equal(t, "42 4 9 fever Disease D1", m.Provenance())
}
