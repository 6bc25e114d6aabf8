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

// Package hierarchy prunes candidates that mention a concept more general
// than another mention of the same lineage later in the document.
package hierarchy

import (
	"errors"
	"strings"
)

// ErrInvalidHierarchy is returned when an ontology stream holds no usable
// record.
var ErrInvalidHierarchy = errors.New("invalid hierarchy")

// Map assigns each concept identifier its hierarchy codes, e.g. MeSH tree
// numbers. It is read-only once loaded and may be shared across workers.
type Map map[string][]string

// Codes returns the codes of id.
func (m Map) Codes(id string) ([]string, bool) {
	codes, ok := m[id]
	return codes, ok
}

// Generalizes reports whether some code of general is a strict prefix of
// some code of specific. An identifier never generalizes itself, even
// when its codes span several levels of one lineage. Identifiers absent
// from the map never generalize and are never generalized.
func (m Map) Generalizes(general, specific string) bool {
	if general == specific {
		return false
	}
	gc, ok := m[general]
	if !ok {
		return false
	}
	sc, ok := m[specific]
	if !ok {
		return false
	}
	for _, g := range gc {
		for _, s := range sc {
			if g != s && strings.HasPrefix(s, g) {
				return true
			}
		}
	}
	return false
}
