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

// Package dataset persists candidate records as JSON lines, one document
// per line, and partitions them for training.
package dataset

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/bytedance/sonic"
	"github.com/cryptoradon/biomedRelExt/lib/pairing"
)

// Record is the ordered candidate sequence of one document.
type Record struct {
	PMID       string              `json:"pmid"`
	Candidates []pairing.Candidate `json:"candidates"`
}

// Positives counts the labeled candidates.
func (r Record) Positives() int {
	n := 0
	for _, c := range r.Candidates {
		if c.Positive() {
			n++
		}
	}
	return n
}

// Writer encodes records as JSON lines.
type Writer struct {
	w *bufio.Writer
	n int
}

// NewWriter returns a Writer over w. Call Flush when done.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriterSize(w, 256*1024)}
}

// Write appends one record.
func (w *Writer) Write(rec Record) error {
	if rec.Candidates == nil {
		rec.Candidates = []pairing.Candidate{}
	}
	data, err := sonic.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding record %s: %w", rec.PMID, err)
	}
	if _, err := w.w.Write(data); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	w.n++
	return nil
}

// Count returns the number of records written.
func (w *Writer) Count() int { return w.n }

// Flush writes buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// Reader decodes records written by Writer.
type Reader struct {
	r    *bufio.Reader
	line int
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReaderSize(r, 256*1024)}
}

// Next returns the next record, or io.EOF at the end of input.
func (r *Reader) Next() (Record, error) {
	for {
		data, err := r.r.ReadBytes('\n')
		if len(data) == 0 && errors.Is(err, io.EOF) {
			return Record{}, io.EOF
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return Record{}, err
		}
		r.line++
		data = bytes.TrimSpace(data)
		if len(data) == 0 {
			if err != nil {
				return Record{}, io.EOF
			}
			continue
		}
		var rec Record
		if uerr := sonic.Unmarshal(data, &rec); uerr != nil {
			return Record{}, fmt.Errorf("decoding line %d: %w", r.line, uerr)
		}
		return rec, nil
	}
}

// ReadAll returns every remaining record.
func (r *Reader) ReadAll() ([]Record, error) {
	var out []Record
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
}
