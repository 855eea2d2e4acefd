// Copyright (c) 2019-2024, PGPTools Authors. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package keysel

// Purpose is the cryptographic use a key is being selected for.
type Purpose int

// Known purposes. SelectKey yields no key for any other value, so new
// purposes can be added without breaking callers that only match these.
const (
	PurposeUnknown Purpose = iota
	PurposeSigning
	PurposeEncryption
)

func (p Purpose) String() string {
	switch p {
	case PurposeSigning:
		return "signing"
	case PurposeEncryption:
		return "encryption"
	default:
		return "unknown"
	}
}
