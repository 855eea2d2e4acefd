// Copyright (c) 2019-2024, PGPTools Authors. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package main

import "github.com/pgptools/pgpselect/cmd/internal/cli"

func main() {
	// In cmd/internal/cli/pgpselect.go
	cli.ExecutePgpselect()
}
