// Copyright 2026 The biomedRelExt Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package cmd

import (
	"errors"
	"fmt"
	"io"

	relext "github.com/cryptoradon/biomedRelExt"
	"github.com/cryptoradon/biomedRelExt/lib/dataset"
	"github.com/cryptoradon/biomedRelExt/lib/hierarchy"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove candidates superseded by more specific concepts",
	Long: `Filter a candidate file produced by "relext extract" against the MeSH
hierarchy. Within each document, a candidate is dropped when a later
candidate mentions a descendant of one of its concepts.

Examples:
  relext prune --in pairs.jsonl --out pruned.jsonl --mesh desc2024.xml`,
	RunE: runPrune,
}

func init() {
	rootCmd.AddCommand(pruneCmd)

	pruneCmd.Flags().String("in", "-", "input JSONL file (- for stdin)")
	pruneCmd.Flags().String("out", "-", "output JSONL file (- for stdout)")
	pruneCmd.Flags().String("task", "cdr", "task label for metrics")
	addHierarchyFlags(pruneCmd)
}

func runPrune(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	defer func() {
		_ = logger.Sync()
	}()

	inPath, _ := cmd.Flags().GetString("in")
	outPath, _ := cmd.Flags().GetString("out")
	task, _ := cmd.Flags().GetString("task")

	hmap, err := loadHierarchy(cmd, logger)
	if err != nil {
		return err
	}
	if hmap == nil {
		return fmt.Errorf("--mesh is required")
	}
	pruner := hierarchy.NewPruner(hmap, logger.Named("hierarchy"))

	in, closeIn, err := openInput(inPath)
	if err != nil {
		return err
	}
	defer func() { _ = closeIn() }()

	out, closeOut, err := createOutput(outPath)
	if err != nil {
		return err
	}
	defer func() { _ = closeOut() }()

	r := dataset.NewReader(in)
	w := dataset.NewWriter(out)
	var before, removed int
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		before += len(rec.Candidates)
		pruned, n := relext.PruneRecord(pruner, task, rec)
		removed += n
		if err := w.Write(pruned); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}

	logger.Info("Pruning finished",
		zap.Int("documents", w.Count()),
		zap.Int("candidates", before),
		zap.Int("pruned", removed))
	return closeOut()
}
