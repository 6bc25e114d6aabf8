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

package pairing

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/cryptoradon/biomedRelExt/lib/document"
)

// ErrUnknownTask is returned by LookupTask for an unregistered name.
var ErrUnknownTask = errors.New("unknown task")

// Task selects the entity types that form pairs and the type whose
// competing mentions are masked.
type Task struct {
	Name string
	// Head is the type of EntityA, Tail the type of EntityB
	Head document.EntityType
	Tail document.EntityType
	// Masked is the type replaced by the mask token unless targeted
	Masked document.EntityType
	// DistinctIDs rejects pairs whose two identifiers are equal
	DistinctIDs bool
	// QueryTemplate receives the head mention text
	QueryTemplate string
}

var (
	// ChemicalDisease pairs chemicals with the diseases they induce.
	ChemicalDisease = Task{
		Name:          "cdr",
		Head:          document.TypeChemical,
		Tail:          document.TypeDisease,
		Masked:        document.TypeDisease,
		QueryTemplate: "what disease does %s induce",
	}

	// ChemicalChemical pairs chemicals that react with each other.
	ChemicalChemical = Task{
		Name:          "chr",
		Head:          document.TypeChemMet,
		Tail:          document.TypeChemMet,
		Masked:        document.TypeChemMet,
		DistinctIDs:   true,
		QueryTemplate: "what chemical does %s react with",
	}
)

var tasks = map[string]Task{
	ChemicalDisease.Name:  ChemicalDisease,
	ChemicalChemical.Name: ChemicalChemical,
}

// LookupTask returns the task registered under name.
func LookupTask(name string) (Task, error) {
	t, ok := tasks[strings.ToLower(name)]
	if !ok {
		return Task{}, fmt.Errorf("%w: %q (available: %s)", ErrUnknownTask, name, strings.Join(TaskNames(), ", "))
	}
	return t, nil
}

// TaskNames lists registered task names in sorted order.
func TaskNames() []string {
	names := make([]string, 0, len(tasks))
	for n := range tasks {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Query renders the question posed to the downstream model.
func (t Task) Query(head document.Mention) string {
	if t.QueryTemplate == "" {
		return ""
	}
	return fmt.Sprintf(t.QueryTemplate, head.Text)
}

// Accepts reports whether (a, b) may form a candidate.
func (t Task) Accepts(a, b document.Mention) bool {
	if a.Type != t.Head || b.Type != t.Tail {
		return false
	}
	if a.SameSpan(b) {
		return false
	}
	if t.DistinctIDs && a.ID == b.ID {
		return false
	}
	return true
}
