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

// Package pubtator reads corpora in the PubTator text format:
//
//	12345|t|Title text
//	12345|a|Abstract text
//	12345	0	5	Title	Chemical	D000001
//	12345	CID	D000001	D000002
//
// Documents are separated by blank lines. The document text is the title,
// a newline, then the abstract, so annotation offsets index it directly.
package pubtator

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cryptoradon/biomedRelExt/lib/document"
)

// ErrMalformedLine is wrapped by every parse error.
var ErrMalformedLine = errors.New("malformed pubtator line")

// Reader yields documents one at a time.
type Reader struct {
	r       *bufio.Reader
	line    int
	pending string
	held    bool
	done    bool
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReaderSize(r, 64*1024)}
}

type builder struct {
	pmid        string
	title       string
	abstract    string
	hasAbstract bool
	doc         document.Document
	started     bool
}

func (b *builder) build() document.Document {
	d := b.doc
	d.PMID = b.pmid
	d.Text = b.title
	if b.hasAbstract {
		d.Text = b.title + "\n" + b.abstract
	}
	return d
}

// Next returns the next document, or io.EOF once the input is exhausted.
func (r *Reader) Next() (document.Document, error) {
	var b builder
	for {
		line, err := r.readLine()
		if errors.Is(err, io.EOF) {
			if b.started {
				return b.build(), nil
			}
			return document.Document{}, io.EOF
		}
		if err != nil {
			return document.Document{}, err
		}

		if strings.TrimSpace(line) == "" {
			if b.started {
				return b.build(), nil
			}
			continue
		}

		if pmid, kind, text, ok := splitHeader(line); ok {
			if b.started && (pmid != b.pmid || (kind == "t" && b.title != "")) {
				r.unread(line)
				return b.build(), nil
			}
			b.started = true
			b.pmid = pmid
			switch kind {
			case "t":
				b.title = text
			case "a":
				b.abstract = text
				b.hasAbstract = true
			}
			continue
		}

		fields := strings.Split(line, "\t")
		if b.started && fields[0] != b.pmid {
			r.unread(line)
			return b.build(), nil
		}
		if !b.started {
			b.started = true
			b.pmid = fields[0]
		}
		if err := r.parseBody(&b.doc, fields); err != nil {
			return document.Document{}, err
		}
	}
}

func (r *Reader) parseBody(doc *document.Document, fields []string) error {
	if len(fields) >= 5 {
		start, errS := strconv.Atoi(fields[1])
		end, errE := strconv.Atoi(fields[2])
		if errS == nil && errE == nil {
			if start < 0 || end < start {
				return fmt.Errorf("%w: line %d: invalid span [%d,%d)", ErrMalformedLine, r.line, start, end)
			}
			id := document.NoConcept
			if len(fields) >= 6 && strings.TrimSpace(fields[5]) != "" {
				id = strings.TrimSpace(fields[5])
			}
			doc.Annotations = append(doc.Annotations, document.Mention{
				ID:       id,
				Type:     document.ParseEntityType(fields[4]),
				Start:    start,
				End:      end,
				Text:     fields[3],
				PMID:     fields[0],
				Sentence: -1,
			})
			return nil
		}
	}
	if len(fields) == 4 {
		doc.Relations = append(doc.Relations, document.Relation{
			Type: fields[1],
			ID1:  fields[2],
			ID2:  fields[3],
		})
		return nil
	}
	return fmt.Errorf("%w: line %d: %d tab-separated fields", ErrMalformedLine, r.line, len(fields))
}

func (r *Reader) readLine() (string, error) {
	if r.held {
		r.held = false
		return r.pending, nil
	}
	if r.done {
		return "", io.EOF
	}
	line, err := r.r.ReadString('\n')
	if errors.Is(err, io.EOF) {
		r.done = true
		if line == "" {
			return "", io.EOF
		}
	} else if err != nil {
		return "", err
	}
	r.line++
	return strings.TrimRight(line, "\r\n"), nil
}

func (r *Reader) unread(line string) {
	r.pending = line
	r.held = true
}

func splitHeader(line string) (pmid, kind, text string, ok bool) {
	parts := strings.SplitN(line, "|", 3)
	if len(parts) != 3 || (parts[1] != "t" && parts[1] != "a") {
		return "", "", "", false
	}
	if strings.Contains(parts[0], "\t") {
		return "", "", "", false
	}
	return parts[0], parts[1], parts[2], true
}

// Load reads every document of r.
func Load(r io.Reader) ([]document.Document, error) {
	pr := NewReader(r)
	var docs []document.Document
	for {
		d, err := pr.Next()
		if errors.Is(err, io.EOF) {
			return docs, nil
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
}

// LoadFile reads every document of the file at path.
func LoadFile(path string) ([]document.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening corpus: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Load(f)
}
