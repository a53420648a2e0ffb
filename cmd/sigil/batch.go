package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tsawler/sigil/sign"
)

var (
	batchName string
	batchF2F  bool
)

// dirSource serves documents out of a directory, keyed by file name.
// Signed output replaces the input file.
type dirSource struct {
	dir string
}

func (s dirSource) Fetch(_ context.Context, docID string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.dir, docID))
}

func (s dirSource) Store(_ context.Context, docID string, data []byte) error {
	return os.WriteFile(filepath.Join(s.dir, docID), data, 0o644)
}

var batchCmd = &cobra.Command{
	Use:   "batch <directory>",
	Short: "Sign every PDF in a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := os.ReadDir(args[0])
		if err != nil {
			return err
		}

		var reqs []sign.SignRequest
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".pdf") {
				continue
			}
			reqs = append(reqs, sign.SignRequest{
				DocumentID: entry.Name(),
				SignerName: batchName,
				F2F:        batchF2F,
			})
		}
		if len(reqs) == 0 {
			return fmt.Errorf("no PDF files in %s", args[0])
		}

		signer, err := sign.NewSigner(dirSource{dir: args[0]}, nil)
		if err != nil {
			return err
		}

		failed := 0
		for _, res := range signer.SignBatch(cmd.Context(), reqs) {
			if res.Err != nil {
				failed++
				fmt.Fprintf(os.Stderr, "  %s: %v\n", res.DocumentID, res.Err)
				continue
			}
			fmt.Printf("  %s: %d placement(s)\n", res.DocumentID, len(res.Detection.Positions))
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d documents failed", failed, len(reqs))
		}
		fmt.Printf("signed %d document(s)\n", len(reqs))
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchName, "signer", "", "signer name for the attestation (required)")
	batchCmd.Flags().BoolVar(&batchF2F, "f2f", false, "use the face-to-face audit-box policy")
	_ = batchCmd.MarkFlagRequired("signer")
}
