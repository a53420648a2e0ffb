package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tsawler/sigil"
	"github.com/tsawler/sigil/asset"
)

var (
	signName    string
	signID      string
	signIP      string
	signF2F     bool
	signArtwork string
	signVault   string
	signOut     string
)

var signCmd = &cobra.Command{
	Use:   "sign <file.pdf>",
	Short: "Sign a document and write the signed copy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		job := sigil.Open(args[0]).Signer(signName).IP(signIP)
		if signF2F {
			job.F2F()
		}

		switch {
		case signArtwork != "":
			data, err := os.ReadFile(signArtwork)
			if err != nil {
				return fmt.Errorf("reading artwork: %w", err)
			}
			job.ArtworkBytes(data)
		case signVault != "" && signID != "":
			vault, err := openVault(signVault)
			if err != nil {
				return err
			}
			data, err := vault.Load(signID)
			if err != nil {
				return err
			}
			img, err := asset.Decode(data)
			if err != nil {
				return err
			}
			job.Artwork(img)
		}

		out := signOut
		if out == "" {
			out = strings.TrimSuffix(args[0], ".pdf") + ".signed.pdf"
		}

		detection, err := job.SignTo(out)
		if err != nil {
			return err
		}
		fmt.Printf("signed %s: %d placement(s) -> %s\n", args[0], len(detection.Positions), out)
		return nil
	},
}

func init() {
	signCmd.Flags().StringVar(&signName, "signer", "", "signer name for the attestation (required)")
	signCmd.Flags().StringVar(&signID, "signer-id", "", "vault ID of stored signature artwork")
	signCmd.Flags().StringVar(&signIP, "ip", "", "signer IP recorded in the attestation")
	signCmd.Flags().BoolVar(&signF2F, "f2f", false, "use the face-to-face audit-box policy")
	signCmd.Flags().StringVar(&signArtwork, "artwork", "", "path to signature image (PNG or JPEG)")
	signCmd.Flags().StringVar(&signVault, "vault", "", "vault directory holding signature artwork")
	signCmd.Flags().StringVarP(&signOut, "out", "o", "", "output path (default <file>.signed.pdf)")
	_ = signCmd.MarkFlagRequired("signer")
}
