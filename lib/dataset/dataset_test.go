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

package dataset

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptoradon/biomedRelExt/lib/document"
	"github.com/cryptoradon/biomedRelExt/lib/pairing"
)

func sampleRecord() Record {
	return Record{
		PMID: "227508",
		Candidates: []pairing.Candidate{
			{
				EntityA:    document.Mention{ID: "D003000", Type: document.TypeChemical, Start: 49, End: 58, Text: "clonidine", PMID: "227508", Sentence: 0},
				EntityB:    document.Mention{ID: "D007022", Type: document.TypeDisease, Start: 100, End: 111, Text: "hypotension", PMID: "227508", Sentence: 1},
				Context:    "Naloxone ... clonidine. ... hypotension.\n227508 0 8 Naloxone Chemical D009270\n",
				Query:      "what disease does clonidine induce",
				PMID:       "227508",
				PairType:   pairing.Inter,
				LabelStart: 28,
				LabelEnd:   39,
			},
			{
				EntityA:  document.Mention{ID: "D009270", Type: document.TypeChemical, Start: 0, End: 8, Text: "Naloxone", PMID: "227508"},
				EntityB:  document.Mention{ID: "D007022", Type: document.TypeDisease, Start: 100, End: 111, Text: "hypotension", PMID: "227508", Sentence: 1},
				PMID:     "227508",
				PairType: pairing.Inter,
			},
		},
	}
}

func TestWriterReader(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.Write(sampleRecord()))
	require.NoError(t, w.Write(Record{PMID: "1"}))
	require.NoError(t, w.Flush())
	assert.Equal(t, 2, w.Count())

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"pair_type":"inter"`)
	assert.Contains(t, lines[0], `"type":"Disease"`)
	assert.Contains(t, lines[1], `"candidates":[]`)

	records, err := NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, sampleRecord(), records[0])
	assert.Equal(t, 1, records[0].Positives())
	assert.Equal(t, "1", records[1].PMID)
	assert.Empty(t, records[1].Candidates)
}

func TestReaderSkipsBlankLinesAndReportsBadOnes(t *testing.T) {
	r := NewReader(strings.NewReader("\n{\"pmid\":\"1\",\"candidates\":[]}\n\n{not json}\n"))

	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "1", rec.PMID)

	_, err = r.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 4")

	r = NewReader(strings.NewReader(`{"pmid":"2"}`))
	rec, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, "2", rec.PMID)
	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func records(n int) []Record {
	out := make([]Record, n)
	for i := range out {
		out[i] = Record{PMID: fmt.Sprint(i)}
	}
	return out
}

func pmids(rs []Record) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.PMID
	}
	return out
}

func TestSplit(t *testing.T) {
	in := records(10)
	s, err := Split(in, 0.8, 0.1, 7)
	require.NoError(t, err)
	assert.Len(t, s.Train, 8)
	assert.Len(t, s.Validation, 1)
	assert.Len(t, s.Test, 1)

	all := slices.Concat(pmids(s.Train), pmids(s.Validation), pmids(s.Test))
	assert.ElementsMatch(t, pmids(in), all)
	assert.Equal(t, "0", in[0].PMID, "input order is kept")

	again, err := Split(in, 0.8, 0.1, 7)
	require.NoError(t, err)
	assert.Equal(t, s, again, "same seed, same split")

	s, err = Split(in, 1, 0, 1)
	require.NoError(t, err)
	assert.Len(t, s.Train, 10)
	assert.Empty(t, s.Test)
}

func TestSplitInvalidRatio(t *testing.T) {
	for _, r := range [][2]float64{{0.9, 0.2}, {-0.1, 0.5}, {0.5, -1}} {
		_, err := Split(records(3), r[0], r[1], 1)
		assert.ErrorIs(t, err, ErrInvalidRatio, "ratios %v", r)
	}
}
