package main

// Utility subcommands for local devnets and manual testing: derive a signer
// key from a passphrase+index (mirroring spec.md §8's `master.ChildKey(n)`)
// and compute the address a given family/pubkey pair maps to.

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/project-origin/ggo-ledger/core"
	"github.com/project-origin/ggo-ledger/internal/fixtures"
)

func keygenCmd() *cobra.Command {
	var passphrase string
	var index uint32
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "derive a signer key pair from a passphrase and child index",
		RunE: func(cmd *cobra.Command, args []string) error {
			master := fixtures.MasterKeyFromPassphrase(passphrase)
			signer, err := master.ChildKey(index)
			if err != nil {
				return err
			}
			fmt.Printf("public_key: %s\n", fixtures.PublicKeyHex(signer))
			fmt.Printf("private_key: %s\n", hex.EncodeToString(signer.Private))
			return nil
		},
	}
	cmd.Flags().StringVar(&passphrase, "passphrase", "", "master seed passphrase")
	cmd.Flags().Uint32Var(&index, "index", 0, "child key index")
	_ = cmd.MarkFlagRequired("passphrase")
	return cmd
}

func addressCmd() *cobra.Command {
	var family string
	var pubHex string
	cmd := &cobra.Command{
		Use:   "address",
		Short: "derive the state address for a family and public key",
		RunE: func(cmd *cobra.Command, args []string) error {
			pub, err := hex.DecodeString(pubHex)
			if err != nil {
				return fmt.Errorf("decode public key: %w", err)
			}
			fmt.Println(core.DeriveAddress(core.Family(family), pub))
			return nil
		},
	}
	cmd.Flags().StringVar(&family, "family", "", "MEASUREMENT, GGO or SETTLEMENT")
	cmd.Flags().StringVar(&pubHex, "pubkey", "", "hex-encoded ed25519 public key")
	_ = cmd.MarkFlagRequired("family")
	_ = cmd.MarkFlagRequired("pubkey")
	return cmd
}
