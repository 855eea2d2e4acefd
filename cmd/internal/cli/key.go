// Copyright (c) 2019-2024, PGPTools Authors. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/pgptools/pgpselect/docs"
)

func init() {
	KeyCmd.AddCommand(KeyListCmd)
	KeyCmd.AddCommand(KeyImportCmd)
	KeyCmd.AddCommand(KeyExportCmd)
	KeyCmd.AddCommand(KeyRemoveCmd)
}

// KeyCmd is the 'key' command that allows management of the local key store.
var KeyCmd = &cobra.Command{
	RunE: func(cmd *cobra.Command, args []string) error {
		return errors.New("invalid command")
	},
	DisableFlagsInUseLine: true,

	Use:           docs.KeyUse,
	Short:         docs.KeyShort,
	Long:          docs.KeyLong,
	Example:       docs.KeyExample,
	SilenceErrors: true,
}
