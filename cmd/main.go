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

// Command relext builds weakly supervised relation-extraction datasets
// from PubTator corpora.
//
// Usage:
//
//	relext extract --corpus train.pubtator --out pairs.jsonl   # Build candidates
//	relext prune --in pairs.jsonl --mesh desc2024.xml --out pruned.jsonl
//	relext split --in pruned.jsonl --train train.jsonl --validation val.jsonl --test test.jsonl
//	relext version
package main

import (
	"github.com/cryptoradon/biomedRelExt/cmd/cmd"
)

// https://goreleaser.com/cookbooks/using-main.version/
//
// By default, GoReleaser will set the following 3 ldflags:
//
// main.version: Current Git tag (the v prefix is stripped) or the name of the snapshot, if you're using the --snapshot flag
var version = "dev"

func main() {
	cmd.Version = version
	cmd.Execute()
}
