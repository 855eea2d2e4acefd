// Copyright (c) 2019-2024, PGPTools Authors. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/pgptools/pgpselect/docs"
	"github.com/pgptools/pgpselect/internal/pkg/sylog"
	"github.com/pgptools/pgpselect/pkg/keyring"
)

// pgpselect command flags
var (
	debug   bool
	nocolor bool
	silent  bool
	verbose bool
	quiet   bool

	keyDir string
)

func init() {
	flags := pgpselectCmd.PersistentFlags()
	flags.BoolVarP(&debug, "debug", "d", false, "print debugging information (highest verbosity)")
	flags.BoolVar(&nocolor, "nocolor", false, "print without color output (default False)")
	flags.BoolVarP(&silent, "silent", "s", false, "only print errors")
	flags.BoolVarP(&quiet, "quiet", "q", false, "suppress normal output")
	flags.BoolVarP(&verbose, "verbose", "v", false, "print additional information")
	flags.StringVar(&keyDir, "keydir", "", "path to the local key store (default $HOME/.pgpselect)")

	pgpselectCmd.AddCommand(KeyCmd)
	pgpselectCmd.AddCommand(SelectCmd)
	pgpselectCmd.AddCommand(VerifyKeysCmd)
}

func setSylogMessageLevel() {
	var level int

	if debug {
		level = 5
	} else if verbose {
		level = 4
	} else if quiet {
		level = -1
	} else if silent {
		level = -3
	} else {
		level = 1
	}

	sylog.SetLevel(level)
}

func setSylogColor() {
	if nocolor {
		sylog.DisableColor()
	}
}

// keyStoreHandle returns the Handle for the key store selected on the
// command line.
func keyStoreHandle() *keyring.Handle {
	return keyring.NewHandle(keyDir)
}

// pgpselectCmd is the base command when called without any subcommands.
var pgpselectCmd = &cobra.Command{
	TraverseChildren:      true,
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return errors.New("invalid command")
	},

	Use:           docs.PgpselectUse,
	Short:         docs.PgpselectShort,
	Long:          docs.PgpselectLong,
	Example:       docs.PgpselectExample,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func persistentPreRun(*cobra.Command, []string) {
	setSylogMessageLevel()
	setSylogColor()
}

// RootCmd returns the root pgpselect cobra command.
func RootCmd() *cobra.Command {
	return pgpselectCmd
}

// ExecutePgpselect adds all child commands to the root command and sets
// flags appropriately. This is called by main.main(). It only needs to
// happen once to the root command.
func ExecutePgpselect() {
	// set persistent pre run function here to avoid initialization loop error
	pgpselectCmd.PersistentPreRun = persistentPreRun

	if cmd, err := pgpselectCmd.ExecuteC(); err != nil {
		sylog.Errorf("%s: %s", cmd.Name(), err)
		os.Exit(1)
	}
}
