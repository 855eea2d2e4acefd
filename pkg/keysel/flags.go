// Copyright (c) 2019-2024, PGPTools Authors. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package keysel

import "strings"

// KeyFlags is the key-flags bitset from RFC 4880 section 5.2.3.21. The
// constants are kept local to this package so that the selection policy does
// not depend on any particular OpenPGP implementation's enumeration.
type KeyFlags uint8

// Key capability flags, one bit per RFC 4880 key-flags octet position.
const (
	FlagCertify KeyFlags = 1 << iota
	FlagSign
	FlagEncryptCommunications
	FlagEncryptStorage
	FlagSplitKey
	FlagAuthenticate
	_
	FlagGroupKey
)

// Has reports whether every bit of mask is set in f. Capability checks are
// intersections against the full bit pattern, never equality.
func (f KeyFlags) Has(mask KeyFlags) bool {
	return f&mask == mask
}

func (f KeyFlags) String() string {
	names := []struct {
		flag KeyFlags
		name string
	}{
		{FlagCertify, "certify"},
		{FlagSign, "sign"},
		{FlagEncryptCommunications, "encrypt-communications"},
		{FlagEncryptStorage, "encrypt-storage"},
		{FlagSplitKey, "split-key"},
		{FlagAuthenticate, "authenticate"},
		{FlagGroupKey, "group-key"},
	}

	var set []string
	for _, n := range names {
		if f.Has(n.flag) {
			set = append(set, n.name)
		}
	}
	if len(set) == 0 {
		return "none"
	}
	return strings.Join(set, ",")
}
