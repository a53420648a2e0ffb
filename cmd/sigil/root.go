package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "sigil",
	Short:         "Place and composite signatures into PDF documents",
	Long: `sigil analyzes PDF documents for signature placement, renders
signature overlays, and writes signed copies. Signature artwork can be
kept in an encrypted vault; set SIGIL_PASSPHRASE (directly or via .env)
to unlock it.`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(signCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(vaultCmd)
}
