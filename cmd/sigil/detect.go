package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tsawler/sigil"
)

var (
	detectF2F  bool
	detectJSON bool
)

var detectCmd = &cobra.Command{
	Use:   "detect <file.pdf>",
	Short: "Report where signatures would be placed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		job := sigil.Open(args[0])
		if detectF2F {
			job.F2F()
		}

		detection, err := job.Detect()
		if err != nil {
			return err
		}

		if detectJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(detection)
		}

		fmt.Printf("%d page(s), %d placement(s)\n", detection.TotalPages, len(detection.Positions))
		for _, pl := range detection.Positions {
			keyword := "-"
			if pl.Keyword != nil {
				keyword = *pl.Keyword
			}
			fmt.Printf("  page %d at (%.1f, %.1f) %gx%g  %s/%s  keyword=%s\n",
				pl.Page+1, pl.X, pl.Y, pl.Width, pl.Height, pl.Confidence, pl.Method, keyword)
		}
		return nil
	},
}

func init() {
	detectCmd.Flags().BoolVar(&detectF2F, "f2f", false, "use the face-to-face audit-box policy")
	detectCmd.Flags().BoolVar(&detectJSON, "json", false, "emit the detection as JSON")
}
