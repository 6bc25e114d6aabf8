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
	"fmt"

	"github.com/cryptoradon/biomedRelExt/lib/dataset"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Partition a candidate file into train/validation/test sets",
	Long: `Shuffle the documents of a candidate file with a fixed seed and write
them to three files by ratio. The test set receives what remains after the
training and validation shares.

Examples:
  relext split --in pruned.jsonl --train train.jsonl --validation val.jsonl --test test.jsonl

  # 99.5% training, 0.5% validation, nothing left for test
  relext split --in pruned.jsonl --train-ratio 0.995 --validation-ratio 0.005 \
    --train train.jsonl --validation val.jsonl --test test.jsonl`,
	RunE: runSplit,
}

func init() {
	rootCmd.AddCommand(splitCmd)

	splitCmd.Flags().String("in", "-", "input JSONL file (- for stdin)")
	splitCmd.Flags().String("train", "", "training output file")
	splitCmd.Flags().String("validation", "", "validation output file")
	splitCmd.Flags().String("test", "", "test output file")
	splitCmd.Flags().Float64("train-ratio", 0.8, "share of documents for training")
	splitCmd.Flags().Float64("validation-ratio", 0.1, "share of documents for validation")
	splitCmd.Flags().Uint64("seed", 1, "shuffle seed")
	_ = splitCmd.MarkFlagRequired("train")
	_ = splitCmd.MarkFlagRequired("validation")
	_ = splitCmd.MarkFlagRequired("test")
}

func runSplit(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	defer func() {
		_ = logger.Sync()
	}()

	inPath, _ := cmd.Flags().GetString("in")
	trainRatio, _ := cmd.Flags().GetFloat64("train-ratio")
	validationRatio, _ := cmd.Flags().GetFloat64("validation-ratio")
	seed, _ := cmd.Flags().GetUint64("seed")

	in, closeIn, err := openInput(inPath)
	if err != nil {
		return err
	}
	records, err := dataset.NewReader(in).ReadAll()
	_ = closeIn()
	if err != nil {
		return err
	}

	splits, err := dataset.Split(records, trainRatio, validationRatio, seed)
	if err != nil {
		return err
	}

	targets := []struct {
		flag    string
		records []dataset.Record
	}{
		{"train", splits.Train},
		{"validation", splits.Validation},
		{"test", splits.Test},
	}
	for _, t := range targets {
		path, _ := cmd.Flags().GetString(t.flag)
		if err := writeRecords(path, t.records); err != nil {
			return fmt.Errorf("writing %s set: %w", t.flag, err)
		}
		logger.Info("Wrote split",
			zap.String("set", t.flag),
			zap.String("path", path),
			zap.Int("documents", len(t.records)))
	}
	return nil
}

func writeRecords(path string, records []dataset.Record) error {
	out, closeOut, err := createOutput(path)
	if err != nil {
		return err
	}
	w := dataset.NewWriter(out)
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			_ = closeOut()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		_ = closeOut()
		return err
	}
	return closeOut()
}
