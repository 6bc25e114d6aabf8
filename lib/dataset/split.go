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
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
)

// ErrInvalidRatio is returned for ratios outside [0, 1] or summing above 1.
var ErrInvalidRatio = errors.New("invalid split ratio")

// Splits partitions records into training, validation and test sets.
type Splits struct {
	Train      []Record
	Validation []Record
	Test       []Record
}

// Split shuffles records with a seeded generator, then takes the first
// trainRatio of them for training, the next validationRatio for
// validation and the rest for testing. Sizes are truncated toward zero.
func Split(records []Record, trainRatio, validationRatio float64, seed uint64) (Splits, error) {
	if trainRatio < 0 || validationRatio < 0 || trainRatio+validationRatio > 1 {
		return Splits{}, fmt.Errorf("%w: train=%v validation=%v", ErrInvalidRatio, trainRatio, validationRatio)
	}

	shuffled := slices.Clone(records)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	n := len(shuffled)
	trainEnd := int(float64(n) * trainRatio)
	validationEnd := trainEnd + int(float64(n)*validationRatio)
	return Splits{
		Train:      shuffled[:trainEnd],
		Validation: shuffled[trainEnd:validationEnd],
		Test:       shuffled[validationEnd:],
	}, nil
}
