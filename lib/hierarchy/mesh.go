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

package hierarchy

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
)

type descriptorRecord struct {
	UI          string   `xml:"DescriptorUI"`
	TreeNumbers []string `xml:"TreeNumberList>TreeNumber"`
}

type supplementalRecord struct {
	UI       string   `xml:"SupplementalRecordUI"`
	Headings []string `xml:"HeadingMappedToList>HeadingMappedTo>DescriptorReferredTo>DescriptorUI"`
}

// LoadDescriptors streams a MeSH descriptor file (desc20XX.xml) into a
// Map of DescriptorUI to tree numbers. Records without tree numbers are
// kept with an empty code list.
func LoadDescriptors(r io.Reader) (Map, error) {
	m := make(Map)
	err := eachRecord(r, "DescriptorRecord", func(d *xml.Decoder, start *xml.StartElement) error {
		var rec descriptorRecord
		if err := d.DecodeElement(&rec, start); err != nil {
			return err
		}
		ui := strings.TrimSpace(rec.UI)
		if ui == "" {
			return nil
		}
		codes := make([]string, 0, len(rec.TreeNumbers))
		for _, tn := range rec.TreeNumbers {
			if tn = strings.TrimSpace(tn); tn != "" {
				codes = append(codes, tn)
			}
		}
		m[ui] = codes
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(m) == 0 {
		return nil, fmt.Errorf("%w: no DescriptorRecord found", ErrInvalidHierarchy)
	}
	return m, nil
}

// LoadSupplemental streams a MeSH supplementary concept file
// (supp20XX.xml) and returns a copy of base extended with one entry per
// supplementary record: the union of the tree numbers of the descriptors
// it is mapped to. Records mapped to unknown descriptors are skipped.
func LoadSupplemental(r io.Reader, base Map) (Map, error) {
	m := maps.Clone(base)
	if m == nil {
		m = make(Map)
	}
	added := 0
	err := eachRecord(r, "SupplementalRecord", func(d *xml.Decoder, start *xml.StartElement) error {
		var rec supplementalRecord
		if err := d.DecodeElement(&rec, start); err != nil {
			return err
		}
		ui := strings.TrimSpace(rec.UI)
		if ui == "" {
			return nil
		}
		var codes []string
		for _, h := range rec.Headings {
			desc := strings.TrimPrefix(strings.TrimSpace(h), "*")
			for _, c := range base[desc] {
				if !slices.Contains(codes, c) {
					codes = append(codes, c)
				}
			}
		}
		if len(codes) == 0 {
			return nil
		}
		m[ui] = codes
		added++
		return nil
	})
	if err != nil {
		return nil, err
	}
	if added == 0 {
		return nil, fmt.Errorf("%w: no mappable SupplementalRecord found", ErrInvalidHierarchy)
	}
	return m, nil
}

// LoadFiles loads a descriptor file and, when suppPath is not empty, a
// supplementary concept file on top of it.
func LoadFiles(descPath, suppPath string) (Map, error) {
	f, err := os.Open(descPath)
	if err != nil {
		return nil, fmt.Errorf("opening descriptors: %w", err)
	}
	defer func() { _ = f.Close() }()

	m, err := LoadDescriptors(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", descPath, err)
	}
	if suppPath == "" {
		return m, nil
	}

	sf, err := os.Open(suppPath)
	if err != nil {
		return nil, fmt.Errorf("opening supplemental records: %w", err)
	}
	defer func() { _ = sf.Close() }()

	m, err = LoadSupplemental(sf, m)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", suppPath, err)
	}
	return m, nil
}

func eachRecord(r io.Reader, name string, fn func(*xml.Decoder, *xml.StartElement) error) error {
	d := xml.NewDecoder(r)
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidHierarchy, err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != name {
			continue
		}
		if err := fn(d, &start); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidHierarchy, err)
		}
	}
}
