package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tsawler/sigil/asset"
)

var vaultDir string

func openVault(dir string) (*asset.Vault, error) {
	passphrase := os.Getenv("SIGIL_PASSPHRASE")
	if passphrase == "" {
		return nil, fmt.Errorf("SIGIL_PASSPHRASE is not set")
	}
	return asset.NewVault(dir, passphrase)
}

var vaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Manage the encrypted signature artwork vault",
}

var vaultStoreCmd = &cobra.Command{
	Use:   "store <signer-id> <image>",
	Short: "Process and store signature artwork for a signer",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		vault, err := openVault(vaultDir)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("reading artwork: %w", err)
		}
		img, err := asset.Decode(data)
		if err != nil {
			return err
		}
		processed, err := asset.Process(img)
		if err != nil {
			return fmt.Errorf("preparing artwork: %w", err)
		}
		encoded, err := asset.EncodePNG(processed)
		if err != nil {
			return err
		}

		if err := vault.Store(args[0], encoded); err != nil {
			return err
		}
		b := processed.Bounds()
		fmt.Printf("stored artwork for %s (%dx%d)\n", args[0], b.Dx(), b.Dy())
		return nil
	},
}

var vaultDeleteCmd = &cobra.Command{
	Use:   "delete <signer-id>",
	Short: "Remove a signer's stored artwork",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vault, err := openVault(vaultDir)
		if err != nil {
			return err
		}
		return vault.Delete(args[0])
	},
}

var vaultCheckCmd = &cobra.Command{
	Use:   "check <signer-id>",
	Short: "Verify a signer's stored artwork decrypts and passes its digest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vault, err := openVault(vaultDir)
		if err != nil {
			return err
		}
		data, err := vault.Load(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("ok: %d bytes, digest %s\n", len(data), asset.Digest(data))
		return nil
	},
}

func init() {
	vaultCmd.PersistentFlags().StringVar(&vaultDir, "dir", "vault", "vault directory")
	vaultCmd.AddCommand(vaultStoreCmd)
	vaultCmd.AddCommand(vaultDeleteCmd)
	vaultCmd.AddCommand(vaultCheckCmd)
}
