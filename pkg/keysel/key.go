// Copyright (c) 2019-2024, PGPTools Authors. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package keysel

import "time"

// Signature is a direct signature on a key, either a self-signature or a
// subkey binding signature. Only the key flags taken from the hashed
// subpacket area are relevant to selection.
type Signature struct {
	Flags KeyFlags
}

// PublicKey is a read-only view of one key, master or subkey, as supplied by
// the keyring collaborator. The selection core never mutates it.
type PublicKey struct {
	// KeyID is an opaque identifier, unique within a keyring.
	KeyID uint64

	// IsMaster is true for the primary key of a keyring.
	IsMaster bool

	CreationTime time.Time

	// LifetimeSecs is the validity period of the key in seconds starting at
	// CreationTime. Zero means the key never expires.
	LifetimeSecs uint32

	// HasRevocation is true if any revocation signature exists for the key.
	HasRevocation bool

	// Signatures are the direct signatures on the key, in ring order.
	Signatures []Signature
}

// AggregatedFlags folds the hashed key flags of all direct signatures
// together with bitwise OR. A key with no signatures has no declared
// capability and matches no capability check. The aggregation is deliberately
// permissive: any single certification asserting a flag grants it.
func (k *PublicKey) AggregatedFlags() KeyFlags {
	var flags KeyFlags
	for _, sig := range k.Signatures {
		flags |= sig.Flags
	}
	return flags
}

// ExpiresAt returns the expiry instant of the key and true, or a zero time
// and false for keys that never expire.
func (k *PublicKey) ExpiresAt() (time.Time, bool) {
	if k.LifetimeSecs == 0 {
		return time.Time{}, false
	}
	return k.CreationTime.Add(time.Duration(k.LifetimeSecs) * time.Second), true
}

// KeyRing is an ordered collection of keys sharing one master key, the master
// key first. Iteration order is the ring's natural order and is significant:
// the selection operations keep the last matching key.
type KeyRing struct {
	Keys []*PublicKey
}

// PrimaryKeyID identifies the ring for de-duplication purposes. An empty ring
// has identity zero.
func (r *KeyRing) PrimaryKeyID() uint64 {
	if len(r.Keys) == 0 {
		return 0
	}
	return r.Keys[0].KeyID
}
