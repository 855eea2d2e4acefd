// Copyright (c) 2019-2024, PGPTools Authors. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pgptools/pgpselect/docs"
	"github.com/pgptools/pgpselect/pkg/keyring"
)

var secret bool

func init() {
	KeyListCmd.Flags().SetInterspersed(false)
	KeyListCmd.Flags().BoolVarP(&secret, "secret", "s", false, "only list private keys")
}

// KeyListCmd is `pgpselect key list' and lists local store OpenPGP keys.
var KeyListCmd = &cobra.Command{
	Args:                  cobra.ExactArgs(0),
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doKeyListCmd(keyStoreHandle(), secret)
	},

	Use:     docs.KeyListUse,
	Short:   docs.KeyListShort,
	Long:    docs.KeyListLong,
	Example: docs.KeyListExample,
}

func doKeyListCmd(keyring *keyring.Handle, secret bool) error {
	if !secret {
		fmt.Printf("Public keys (%s):\n\n", keyring.PublicPath())
		return keyring.PrintPubKeyring()
	}

	fmt.Printf("Private keys (%s):\n\n", keyring.SecretPath())
	return keyring.PrintPrivKeyring()
}
