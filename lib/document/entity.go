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

import "fmt"

// EntityType is the closed set of mention kinds found in the corpora.
type EntityType uint8

const (
	TypeOther EntityType = iota
	TypeChemical
	TypeDisease
	TypeChemMet
	TypeGene
	TypeSpecies
	TypeMutation
	TypeCellLine
)

// ParseEntityType maps an annotation label to its EntityType. Unknown
// labels map to TypeOther.
func ParseEntityType(label string) EntityType {
	switch label {
	case "Chemical":
		return TypeChemical
	case "Disease":
		return TypeDisease
	case "ChemMet":
		return TypeChemMet
	case "Gene":
		return TypeGene
	case "Species":
		return TypeSpecies
	case "Mutation", "DNAMutation", "ProteinMutation", "SNP":
		return TypeMutation
	case "CellLine":
		return TypeCellLine
	default:
		return TypeOther
	}
}

func (t EntityType) String() string {
	switch t {
	case TypeChemical:
		return "Chemical"
	case TypeDisease:
		return "Disease"
	case TypeChemMet:
		return "ChemMet"
	case TypeGene:
		return "Gene"
	case TypeSpecies:
		return "Species"
	case TypeMutation:
		return "Mutation"
	case TypeCellLine:
		return "CellLine"
	case TypeOther:
		return "Other"
	default:
		return fmt.Sprintf("EntityType(%d)", uint8(t))
	}
}

// MarshalText encodes the type as its label.
func (t EntityType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a label produced by MarshalText.
func (t *EntityType) UnmarshalText(b []byte) error {
	*t = ParseEntityType(string(b))
	return nil
}
