// Copyright (c) 2019-2024, PGPTools Authors. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package keysel implements the RFC 4880 section 5.2.3.21 key selection
// policy: given an identity and a purpose, it decides which of the identity's
// public keys are currently valid and appropriate to use. The package only
// reasons about validity, capability and selection over an already-parsed
// keyring model; it performs no cryptographic operations and no I/O of its
// own.
package keysel

import (
	"time"

	"github.com/pkg/errors"

	"github.com/pgptools/pgpselect/internal/pkg/sylog"
)

// Predicate decides whether a single public key is acceptable.
type Predicate func(key *PublicKey) bool

// Resolver looks up the keyrings bound to an identity. The purpose is passed
// through so a custom resolver can vary its lookup per use.
type Resolver func(purpose Purpose, identity string, pubs KeyringStore) ([]*KeyRing, error)

// Strategy selects keys relative to a fixed reference instant. It is
// immutable after construction and holds no mutable state, so a single
// instance is safe for concurrent use.
type Strategy struct {
	now time.Time

	resolve      Resolver
	notMaster    Predicate
	notRevoked   Predicate
	notExpired   Predicate
	verification Predicate
	encryption   Predicate
}

// Option overrides one of the checks a Strategy is composed of, for
// deployments that need a stricter or looser policy.
type Option func(*Strategy)

// WithResolver replaces keyring resolution.
func WithResolver(r Resolver) Option {
	return func(s *Strategy) { s.resolve = r }
}

// WithNotMasterKey replaces the master key exclusion check.
func WithNotMasterKey(p Predicate) Option {
	return func(s *Strategy) { s.notMaster = p }
}

// WithNotRevoked replaces the revocation check.
func WithNotRevoked(p Predicate) Option {
	return func(s *Strategy) { s.notRevoked = p }
}

// WithNotExpired replaces the expiration check.
func WithNotExpired(p Predicate) Option {
	return func(s *Strategy) { s.notExpired = p }
}

// WithVerificationCapable replaces the signature capability check.
func WithVerificationCapable(p Predicate) Option {
	return func(s *Strategy) { s.verification = p }
}

// WithEncryptionCapable replaces the encryption capability check.
func WithEncryptionCapable(p Predicate) Option {
	return func(s *Strategy) { s.encryption = p }
}

// New returns a Strategy that evaluates key expiration against now.
func New(now time.Time, opts ...Option) *Strategy {
	s := &Strategy{
		now:     now,
		resolve: resolveKeyRings,
		notMaster: func(k *PublicKey) bool {
			return !k.IsMaster
		},
		notRevoked: func(k *PublicKey) bool {
			return !k.HasRevocation
		},
		verification: func(k *PublicKey) bool {
			return k.AggregatedFlags().Has(FlagSign)
		},
		encryption: func(k *PublicKey) bool {
			flags := k.AggregatedFlags()
			return flags.Has(FlagEncryptCommunications) || flags.Has(FlagEncryptStorage)
		},
	}
	s.notExpired = func(k *PublicKey) bool {
		return NotExpired(k, s.now)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ReferenceTime returns the instant used as "now" for expiration checks.
func (s *Strategy) ReferenceTime() time.Time {
	return s.now
}

// NotExpired reports whether key is still valid at now. A zero lifetime means
// the key never expires. A key whose expiry equals now is still valid; only a
// strictly earlier expiry makes it expired.
func NotExpired(key *PublicKey, now time.Time) bool {
	expiry, ok := key.ExpiresAt()
	if !ok {
		return true
	}
	return !expiry.Before(now)
}

// ValidVerificationKeys returns every key of identity that could verify, or
// produce, a signature: signature-capable, not revoked, not expired, and with
// private material present in secs. Master keys are not excluded here. The
// result is a set; its order carries no meaning.
func (s *Strategy) ValidVerificationKeys(identity string, pubs KeyringStore, secs SecretKeyStore) ([]*PublicKey, error) {
	rings, err := s.resolve(PurposeSigning, identity, pubs)
	if err != nil {
		return nil, err
	}

	keep := filterKeys(flatten(rings),
		s.verification,
		s.notRevoked,
		s.notExpired,
		hasSecretKey(secs),
	)

	// Set semantics: the same key may appear through duplicate ring handles.
	seen := make(map[uint64]bool, len(keep))
	result := keep[:0]
	for _, k := range keep {
		if seen[k.KeyID] {
			continue
		}
		seen[k.KeyID] = true
		result = append(result, k)
	}
	return result, nil
}

// SelectKey returns the key to use for purpose, or nil if no key of identity
// qualifies. Absence is a normal outcome, not an error.
//
// A signing key must be a subkey the caller can actually sign with, so master
// keys are excluded and private material is required. An encryption key is
// chosen purely from the recipient's public material, so neither restriction
// applies there. When several keys qualify, the last one in ring order wins.
func (s *Strategy) SelectKey(purpose Purpose, identity string, pubs KeyringStore, secs SecretKeyStore) (*PublicKey, error) {
	rings, err := s.resolve(purpose, identity, pubs)
	if err != nil {
		return nil, err
	}
	candidates := flatten(rings)

	switch purpose {
	case PurposeSigning:
		return lastMatch(candidates,
			s.notMaster,
			s.verification,
			s.notRevoked,
			s.notExpired,
			hasSecretKey(secs),
		), nil

	case PurposeEncryption:
		return lastMatch(candidates,
			s.encryption,
			s.notRevoked,
			s.notExpired,
		), nil

	default:
		return nil, nil
	}
}

// resolveKeyRings is the default Resolver. It de-duplicates the rings the
// store hands back, keyed by primary key ID, keeping first-seen order. Order
// within each ring is preserved; order across rings is not part of the
// contract.
func resolveKeyRings(_ Purpose, identity string, pubs KeyringStore) ([]*KeyRing, error) {
	rings, err := pubs.KeyRingsForIdentity(identity)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to look up keyrings for %q", identity)
	}

	seen := make(map[uint64]bool, len(rings))
	out := make([]*KeyRing, 0, len(rings))
	for _, ring := range rings {
		if ring == nil || len(ring.Keys) == 0 {
			continue
		}
		if seen[ring.PrimaryKeyID()] {
			continue
		}
		seen[ring.PrimaryKeyID()] = true
		out = append(out, ring)
	}
	return out, nil
}

// hasSecretKey builds the private key availability check. A failed lookup is
// downgraded to "no private key" so a malformed secret ring can never widen
// the selection; the failure is logged for forensics, not returned.
func hasSecretKey(secs SecretKeyStore) Predicate {
	return func(k *PublicKey) bool {
		if secs == nil {
			return false
		}
		ok, err := secs.HasSecretKey(k.KeyID)
		if err != nil {
			sylog.Debugf("Failed to test for secret key for public key %X: %v", k.KeyID, err)
			return false
		}
		return ok
	}
}

func flatten(rings []*KeyRing) []*PublicKey {
	var keys []*PublicKey
	for _, ring := range rings {
		keys = append(keys, ring.Keys...)
	}
	return keys
}

func filterKeys(keys []*PublicKey, preds ...Predicate) []*PublicKey {
	var keep []*PublicKey
outer:
	for _, k := range keys {
		for _, pred := range preds {
			if !pred(k) {
				continue outer
			}
		}
		keep = append(keep, k)
	}
	return keep
}

func lastMatch(keys []*PublicKey, preds ...Predicate) *PublicKey {
	keep := filterKeys(keys, preds...)
	if len(keep) == 0 {
		return nil
	}
	return keep[len(keep)-1]
}
