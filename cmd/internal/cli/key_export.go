// Copyright (c) 2019-2024, PGPTools Authors. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package cli

import (
	"github.com/spf13/cobra"

	"github.com/pgptools/pgpselect/docs"
)

var (
	exportArmored bool
	exportSecret  bool
)

func init() {
	KeyExportCmd.Flags().SetInterspersed(false)
	KeyExportCmd.Flags().BoolVarP(&exportArmored, "armor", "a", false, "ascii armor the exported key")
	KeyExportCmd.Flags().BoolVarP(&exportSecret, "secret", "s", false, "export a private key")
}

// KeyExportCmd is `pgpselect key export' and exports a public or private key
// from the local key store into a file.
var KeyExportCmd = &cobra.Command{
	Args:                  cobra.ExactArgs(2),
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		keyring := keyStoreHandle()
		if exportSecret {
			return keyring.ExportPrivateKey(args[0], args[1], exportArmored)
		}
		return keyring.ExportPubKey(args[0], args[1], exportArmored)
	},

	Use:     docs.KeyExportUse,
	Short:   docs.KeyExportShort,
	Long:    docs.KeyExportLong,
	Example: docs.KeyExportExample,
}
