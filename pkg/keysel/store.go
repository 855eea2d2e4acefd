// Copyright (c) 2019-2024, PGPTools Authors. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package keysel

// KeyringStore is the public key collaborator. Matching semantics, including
// any wildcard or substring behavior, belong entirely to the store; the
// selection core only consumes what it returns. The returned rings may
// contain duplicates, which the core de-duplicates.
type KeyringStore interface {
	KeyRingsForIdentity(identity string) ([]*KeyRing, error)
}

// SecretKeyStore reports whether usable private key material exists for a
// given key ID. A lookup may fail, e.g. on a malformed secret ring.
type SecretKeyStore interface {
	HasSecretKey(keyID uint64) (bool, error)
}
