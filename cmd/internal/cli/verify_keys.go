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
	"github.com/pgptools/pgpselect/pkg/keysel"
)

var verifyAt string

func init() {
	VerifyKeysCmd.Flags().SetInterspersed(false)
	VerifyKeysCmd.Flags().StringVar(&verifyAt, "at", "", "reference time for expiration checks, RFC 3339 (default now)")
}

// VerifyKeysCmd is `pgpselect verify-keys' and lists all keys valid for
// verifying signatures by an identity.
var VerifyKeysCmd = &cobra.Command{
	Args:                  cobra.ExactArgs(1),
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doVerifyKeysCmd(verifyAt, args[0])
	},

	Use:     docs.VerifyKeysUse,
	Short:   docs.VerifyKeysShort,
	Long:    docs.VerifyKeysLong,
	Example: docs.VerifyKeysExample,
}

func doVerifyKeysCmd(at, identity string) error {
	now, err := referenceTime(at)
	if err != nil {
		return err
	}

	store := keyring.NewStore(keyStoreHandle())
	strategy := keysel.New(now)

	keys, err := strategy.ValidVerificationKeys(identity, store, store)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		fmt.Printf("No valid verification keys for %q\n", identity)
		return nil
	}

	for _, k := range keys {
		printKey(k)
	}
	return nil
}
