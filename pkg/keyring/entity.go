// Copyright (c) 2019-2024, PGPTools Authors. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package keyring

import (
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/packet"

	"github.com/pgptools/pgpselect/pkg/keysel"
)

// RingFromEntity converts a parsed openpgp entity into the keyring model the
// selection policy reasons over: the master key first, then the subkeys in
// entity order.
func RingFromEntity(e *openpgp.Entity) *keysel.KeyRing {
	master := &keysel.PublicKey{
		KeyID:         e.PrimaryKey.KeyId,
		IsMaster:      true,
		CreationTime:  e.PrimaryKey.CreationTime,
		HasRevocation: len(e.Revocations) > 0,
	}
	for _, ident := range e.Identities {
		sig := ident.SelfSignature
		if sig == nil {
			continue
		}
		master.Signatures = append(master.Signatures, signatureFromPacket(sig))
		if sig.KeyLifetimeSecs == nil {
			continue
		}
		// The primary user id's self-signature decides the lifetime; absent
		// one, the first self-signature carrying a lifetime does.
		if master.LifetimeSecs == 0 || (sig.IsPrimaryId != nil && *sig.IsPrimaryId) {
			master.LifetimeSecs = *sig.KeyLifetimeSecs
		}
	}

	ring := &keysel.KeyRing{Keys: []*keysel.PublicKey{master}}

	for i := range e.Subkeys {
		sub := &e.Subkeys[i]
		key := &keysel.PublicKey{
			KeyID:         sub.PublicKey.KeyId,
			CreationTime:  sub.PublicKey.CreationTime,
			HasRevocation: len(sub.Revocations) > 0,
		}
		if sub.Sig != nil {
			key.Signatures = append(key.Signatures, signatureFromPacket(sub.Sig))
			if lifetime := sub.Sig.KeyLifetimeSecs; lifetime != nil {
				key.LifetimeSecs = *lifetime
			}
		}
		ring.Keys = append(ring.Keys, key)
	}

	return ring
}

// signatureFromPacket folds the signature's hashed key-flag booleans back
// into the policy's bitmask form. Signatures without a key-flags subpacket
// declare no capability.
func signatureFromPacket(sig *packet.Signature) keysel.Signature {
	var flags keysel.KeyFlags
	if sig.FlagsValid {
		if sig.FlagCertify {
			flags |= keysel.FlagCertify
		}
		if sig.FlagSign {
			flags |= keysel.FlagSign
		}
		if sig.FlagEncryptCommunications {
			flags |= keysel.FlagEncryptCommunications
		}
		if sig.FlagEncryptStorage {
			flags |= keysel.FlagEncryptStorage
		}
	}
	return keysel.Signature{Flags: flags}
}

// entityMatchesIdentity reports whether any user id of e matches the
// identity. The empty identity and "*" match every entity; anything else is a
// case-insensitive substring match against the full user id string, the name
// and the email address.
func entityMatchesIdentity(e *openpgp.Entity, identity string) bool {
	if identity == "" || identity == "*" {
		return true
	}
	want := strings.ToLower(identity)

	for _, ident := range e.Identities {
		if strings.Contains(strings.ToLower(ident.Name), want) {
			return true
		}
		if ident.UserId == nil {
			continue
		}
		if strings.Contains(strings.ToLower(ident.UserId.Name), want) {
			return true
		}
		if strings.Contains(strings.ToLower(ident.UserId.Email), want) {
			return true
		}
	}
	return false
}
