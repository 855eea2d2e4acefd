// Copyright (c) 2019-2024, PGPTools Authors. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package keyring

import (
	"github.com/pkg/errors"

	"github.com/pgptools/pgpselect/pkg/keysel"
)

// Store exposes a Handle's keyrings through the keysel collaborator
// contracts. Each call reads the store files fresh, so a Store always
// reflects the keyrings on disk.
type Store struct {
	keyring *Handle
}

// NewStore returns a Store backed by keyring.
func NewStore(keyring *Handle) *Store {
	return &Store{keyring: keyring}
}

// KeyRingsForIdentity returns the keyrings whose user ids match identity.
// The empty identity and "*" match everything; any other identity is matched
// case-insensitively as a substring of a user id, name or email address.
func (s *Store) KeyRingsForIdentity(identity string) ([]*keysel.KeyRing, error) {
	el, err := s.keyring.LoadPubKeyring()
	if err != nil {
		return nil, errors.Wrap(err, "unable to load public keyring")
	}

	var rings []*keysel.KeyRing
	for _, e := range el {
		if entityMatchesIdentity(e, identity) {
			rings = append(rings, RingFromEntity(e))
		}
	}
	return rings, nil
}

// HasSecretKey reports whether the secret keyring holds private material for
// keyID, either as a primary key or as a subkey.
func (s *Store) HasSecretKey(keyID uint64) (bool, error) {
	el, err := s.keyring.LoadPrivKeyring()
	if err != nil {
		return false, errors.Wrap(err, "unable to load secret keyring")
	}

	for _, e := range el {
		if e.PrivateKey != nil && e.PrimaryKey.KeyId == keyID {
			return true, nil
		}
		for i := range e.Subkeys {
			sub := &e.Subkeys[i]
			if sub.PrivateKey != nil && sub.PublicKey.KeyId == keyID {
				return true, nil
			}
		}
	}
	return false, nil
}
