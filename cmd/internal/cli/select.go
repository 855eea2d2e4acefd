// Copyright (c) 2019-2024, PGPTools Authors. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package cli

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/pgptools/pgpselect/docs"
	"github.com/pgptools/pgpselect/pkg/keyring"
	"github.com/pgptools/pgpselect/pkg/keysel"
)

var (
	selectPurpose string
	selectAt      string
)

func init() {
	SelectCmd.Flags().SetInterspersed(false)
	SelectCmd.Flags().StringVarP(&selectPurpose, "purpose", "p", "sign", "purpose to select a key for (sign|encrypt)")
	SelectCmd.Flags().StringVar(&selectAt, "at", "", "reference time for expiration checks, RFC 3339 (default now)")
}

// SelectCmd is `pgpselect select' and picks the key to use for a purpose.
var SelectCmd = &cobra.Command{
	Args:                  cobra.ExactArgs(1),
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doSelectCmd(selectPurpose, selectAt, args[0])
	},

	Use:     docs.SelectUse,
	Short:   docs.SelectShort,
	Long:    docs.SelectLong,
	Example: docs.SelectExample,
}

func doSelectCmd(purposeName, at, identity string) error {
	purpose, err := parsePurpose(purposeName)
	if err != nil {
		return err
	}
	now, err := referenceTime(at)
	if err != nil {
		return err
	}

	store := keyring.NewStore(keyStoreHandle())
	strategy := keysel.New(now)

	key, err := strategy.SelectKey(purpose, identity, store, store)
	if err != nil {
		return err
	}
	if key == nil {
		fmt.Printf("No key selected for %s by %q\n", purpose, identity)
		return nil
	}

	printKey(key)
	return nil
}

func parsePurpose(name string) (keysel.Purpose, error) {
	switch name {
	case "sign", "signing":
		return keysel.PurposeSigning, nil
	case "encrypt", "encryption":
		return keysel.PurposeEncryption, nil
	default:
		return keysel.PurposeUnknown, errors.Errorf("unknown purpose %q (expected sign or encrypt)", name)
	}
}

func referenceTime(at string) (time.Time, error) {
	if at == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, at)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "invalid reference time %q", at)
	}
	return t, nil
}

func printKey(k *keysel.PublicKey) {
	kind := "subkey"
	if k.IsMaster {
		kind = "master"
	}

	expires := "never"
	if expiry, ok := k.ExpiresAt(); ok {
		expires = expiry.Format(time.RFC3339)
	}

	fmt.Printf("%016X  %s  flags:%s  created:%s  expires:%s\n",
		k.KeyID, kind, k.AggregatedFlags(), k.CreationTime.Format(time.RFC3339), expires)
}
