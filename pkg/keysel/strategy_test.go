// Copyright (c) 2019-2024, PGPTools Authors. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package keysel

import (
	"errors"
	"testing"
	"time"
)

var refTime = time.Date(2021, time.June, 1, 0, 0, 0, 0, time.UTC)

type fakeKeyringStore struct {
	rings []*KeyRing
	err   error
}

func (f *fakeKeyringStore) KeyRingsForIdentity(identity string) ([]*KeyRing, error) {
	return f.rings, f.err
}

type fakeSecretKeyStore struct {
	keyIDs map[uint64]bool
	err    error
}

func (f *fakeSecretKeyStore) HasSecretKey(keyID uint64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.keyIDs[keyID], nil
}

func secretsFor(keyIDs ...uint64) *fakeSecretKeyStore {
	s := &fakeSecretKeyStore{keyIDs: make(map[uint64]bool)}
	for _, id := range keyIDs {
		s.keyIDs[id] = true
	}
	return s
}

func testKey(id uint64, master bool, flags KeyFlags) *PublicKey {
	return &PublicKey{
		KeyID:        id,
		IsMaster:     master,
		CreationTime: refTime.Add(-24 * time.Hour),
		Signatures:   []Signature{{Flags: flags}},
	}
}

func TestNotExpired(t *testing.T) {
	created := refTime.Add(-time.Hour)

	tests := []struct {
		name     string
		lifetime uint32
		now      time.Time
		want     bool
	}{
		{"NoExpiry", 0, refTime, true},
		{"NoExpiryFarFuture", 0, refTime.AddDate(100, 0, 0), true},
		{"BeforeExpiry", 3600 * 2, refTime, true},
		{"ExactlyAtExpiry", 3600, created.Add(time.Hour), true},
		{"JustPastExpiry", 3600, created.Add(time.Hour + time.Second), false},
		{"LongPastExpiry", 60, refTime, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := &PublicKey{CreationTime: created, LifetimeSecs: tt.lifetime}
			if got := NotExpired(key, tt.now); got != tt.want {
				t.Errorf("NotExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Validity over time never flips back: once a key is expired at an instant,
// it stays expired at every later one.
func TestNotExpiredMonotonic(t *testing.T) {
	key := &PublicKey{CreationTime: refTime, LifetimeSecs: 3600}
	expiry := refTime.Add(time.Hour)

	instants := []time.Time{
		refTime.Add(-time.Hour),
		refTime,
		expiry.Add(-time.Second),
		expiry,
		expiry.Add(time.Second),
		expiry.Add(time.Hour),
	}

	sawExpired := false
	for _, now := range instants {
		valid := NotExpired(key, now)
		if sawExpired && valid {
			t.Fatalf("key became valid again at %v", now)
		}
		if !valid {
			sawExpired = true
		}
	}
	if !sawExpired {
		t.Fatal("key never expired")
	}
}

// The verification/signing/encryption scenario from the policy: master key M
// is signature-capable but has no private material, subkey S carries both the
// sign and encrypt-communications flags and has private material.
func TestStrategyMasterAndSubkey(t *testing.T) {
	master := testKey(0x1000, true, FlagCertify|FlagSign)
	subkey := testKey(0x2000, false, FlagSign|FlagEncryptCommunications)

	pubs := &fakeKeyringStore{rings: []*KeyRing{{Keys: []*PublicKey{master, subkey}}}}
	secs := secretsFor(subkey.KeyID)

	s := New(refTime)

	t.Run("ValidVerificationKeys", func(t *testing.T) {
		keys, err := s.ValidVerificationKeys("test", pubs, secs)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(keys) != 1 || keys[0] != subkey {
			t.Fatalf("got %d keys, want exactly the subkey", len(keys))
		}
	})

	t.Run("SelectSigning", func(t *testing.T) {
		key, err := s.SelectKey(PurposeSigning, "test", pubs, secs)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if key != subkey {
			t.Fatalf("got %v, want the subkey", key)
		}
	})

	t.Run("SelectEncryption", func(t *testing.T) {
		key, err := s.SelectKey(PurposeEncryption, "test", pubs, secs)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if key != subkey {
			t.Fatalf("got %v, want the subkey", key)
		}
	})
}

// A revoked key filters out of everything, even with a private key present.
func TestStrategyRevokedMaster(t *testing.T) {
	master := testKey(0x1000, true, FlagSign)
	master.HasRevocation = true

	pubs := &fakeKeyringStore{rings: []*KeyRing{{Keys: []*PublicKey{master}}}}
	secs := secretsFor(master.KeyID)

	s := New(refTime)

	keys, err := s.ValidVerificationKeys("test", pubs, secs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("got %d verification keys, want none", len(keys))
	}

	for _, purpose := range []Purpose{PurposeSigning, PurposeEncryption} {
		key, err := s.SelectKey(purpose, "test", pubs, secs)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if key != nil {
			t.Errorf("SelectKey(%v) = %016X, want no selection", purpose, key.KeyID)
		}
	}
}

// Signing never selects a master key, no matter how capable.
func TestStrategySigningExcludesMaster(t *testing.T) {
	master := testKey(0x1000, true, FlagCertify|FlagSign)

	pubs := &fakeKeyringStore{rings: []*KeyRing{{Keys: []*PublicKey{master}}}}
	secs := secretsFor(master.KeyID)

	s := New(refTime)

	key, err := s.SelectKey(PurposeSigning, "test", pubs, secs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != nil {
		t.Errorf("SelectKey(signing) = %016X, want no selection", key.KeyID)
	}

	// The same master key remains a valid verification key.
	keys, err := s.ValidVerificationKeys("test", pubs, secs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(keys) != 1 || keys[0] != master {
		t.Errorf("got %d verification keys, want the master key", len(keys))
	}
}

// Encryption may select a master key.
func TestStrategyEncryptionAllowsMaster(t *testing.T) {
	master := testKey(0x1000, true, FlagCertify|FlagEncryptStorage)

	pubs := &fakeKeyringStore{rings: []*KeyRing{{Keys: []*PublicKey{master}}}}

	s := New(refTime)

	key, err := s.SelectKey(PurposeEncryption, "test", pubs, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != master {
		t.Errorf("got %v, want the master key", key)
	}
}

// With several qualifying keys, the last one in ring order wins.
func TestStrategyLastMatchWins(t *testing.T) {
	s1 := testKey(0x2001, false, FlagEncryptCommunications)
	s2 := testKey(0x2002, false, FlagEncryptCommunications)

	pubs := &fakeKeyringStore{rings: []*KeyRing{
		{Keys: []*PublicKey{testKey(0x1000, true, FlagCertify), s1, s2}},
	}}

	key, err := New(refTime).SelectKey(PurposeEncryption, "test", pubs, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != s2 {
		t.Errorf("got %v, want the later subkey %016X", key, s2.KeyID)
	}
}

func TestStrategyUnknownPurpose(t *testing.T) {
	master := testKey(0x1000, true, FlagSign|FlagEncryptStorage)
	pubs := &fakeKeyringStore{rings: []*KeyRing{{Keys: []*PublicKey{master}}}}

	key, err := New(refTime).SelectKey(PurposeUnknown, "test", pubs, secretsFor(master.KeyID))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != nil {
		t.Errorf("got %016X, want no selection", key.KeyID)
	}
}

func TestStrategyEmptyCandidates(t *testing.T) {
	pubs := &fakeKeyringStore{}
	s := New(refTime)

	keys, err := s.ValidVerificationKeys("nobody", pubs, secretsFor())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("got %d keys, want none", len(keys))
	}

	key, err := s.SelectKey(PurposeSigning, "nobody", pubs, secretsFor())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != nil {
		t.Errorf("got %016X, want no selection", key.KeyID)
	}
}

// Expired keys filter out; only the non-expired candidate survives.
func TestStrategyFiltersExpired(t *testing.T) {
	expired := testKey(0x2001, false, FlagSign)
	expired.LifetimeSecs = 60 // created 24h before refTime

	fresh := testKey(0x2002, false, FlagSign)

	pubs := &fakeKeyringStore{rings: []*KeyRing{{Keys: []*PublicKey{expired, fresh}}}}
	secs := secretsFor(expired.KeyID, fresh.KeyID)

	keys, err := New(refTime).ValidVerificationKeys("test", pubs, secs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(keys) != 1 || keys[0] != fresh {
		t.Fatalf("got %d keys, want only the non-expired key", len(keys))
	}
}

// Duplicate ring handles for the same ring must not inflate the result set.
func TestStrategyDeduplicatesRings(t *testing.T) {
	subkey := testKey(0x2000, false, FlagSign)
	ring := &KeyRing{Keys: []*PublicKey{testKey(0x1000, true, FlagCertify), subkey}}

	pubs := &fakeKeyringStore{rings: []*KeyRing{ring, ring, ring}}
	secs := secretsFor(subkey.KeyID)

	keys, err := New(refTime).ValidVerificationKeys("test", pubs, secs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(keys) != 1 {
		t.Errorf("got %d keys, want 1", len(keys))
	}
}

func TestStrategyKeyringLookupError(t *testing.T) {
	pubs := &fakeKeyringStore{err: errors.New("disk on fire")}
	s := New(refTime)

	if _, err := s.ValidVerificationKeys("test", pubs, secretsFor()); err == nil {
		t.Error("ValidVerificationKeys: expected an error")
	}
	if _, err := s.SelectKey(PurposeSigning, "test", pubs, secretsFor()); err == nil {
		t.Error("SelectKey: expected an error")
	}
}

// A failing secret store must narrow the selection, never widen it and never
// abort it.
func TestStrategySecretLookupFailsClosed(t *testing.T) {
	subkey := testKey(0x2000, false, FlagSign|FlagEncryptCommunications)
	pubs := &fakeKeyringStore{rings: []*KeyRing{{Keys: []*PublicKey{subkey}}}}
	secs := &fakeSecretKeyStore{err: errors.New("malformed secret ring")}

	s := New(refTime)

	key, err := s.SelectKey(PurposeSigning, "test", pubs, secs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != nil {
		t.Errorf("got %016X, want no selection", key.KeyID)
	}

	// Encryption never consults the secret store, so it still selects.
	key, err = s.SelectKey(PurposeEncryption, "test", pubs, secs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != subkey {
		t.Errorf("got %v, want the subkey", key)
	}
}

func TestStrategyNilSecretStore(t *testing.T) {
	subkey := testKey(0x2000, false, FlagSign)
	pubs := &fakeKeyringStore{rings: []*KeyRing{{Keys: []*PublicKey{subkey}}}}

	key, err := New(refTime).SelectKey(PurposeSigning, "test", pubs, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != nil {
		t.Errorf("got %016X, want no selection without a secret store", key.KeyID)
	}
}

func TestStrategyOptions(t *testing.T) {
	master := testKey(0x1000, true, FlagSign)
	pubs := &fakeKeyringStore{rings: []*KeyRing{{Keys: []*PublicKey{master}}}}
	secs := secretsFor(master.KeyID)

	t.Run("AllowMasterSigning", func(t *testing.T) {
		s := New(refTime, WithNotMasterKey(func(*PublicKey) bool { return true }))
		key, err := s.SelectKey(PurposeSigning, "test", pubs, secs)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if key != master {
			t.Errorf("got %v, want the master key", key)
		}
	})

	t.Run("CustomResolver", func(t *testing.T) {
		var gotPurpose Purpose
		resolver := func(purpose Purpose, identity string, pubs KeyringStore) ([]*KeyRing, error) {
			gotPurpose = purpose
			return nil, nil
		}
		s := New(refTime, WithResolver(resolver))
		key, err := s.SelectKey(PurposeEncryption, "test", pubs, secs)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if key != nil {
			t.Errorf("got %016X, want no selection from empty resolver", key.KeyID)
		}
		if gotPurpose != PurposeEncryption {
			t.Errorf("resolver saw purpose %v, want %v", gotPurpose, PurposeEncryption)
		}
	})
}
