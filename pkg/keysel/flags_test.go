// Copyright (c) 2019-2024, PGPTools Authors. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package keysel

import "testing"

func TestKeyFlagsHas(t *testing.T) {
	tests := []struct {
		name  string
		flags KeyFlags
		mask  KeyFlags
		want  bool
	}{
		{"ExactBit", FlagSign, FlagSign, true},
		{"BitAmongOthers", FlagCertify | FlagSign | FlagEncryptStorage, FlagSign, true},
		{"MissingBit", FlagCertify | FlagEncryptStorage, FlagSign, false},
		{"FullMaskPresent", FlagEncryptCommunications | FlagEncryptStorage, FlagEncryptCommunications | FlagEncryptStorage, true},
		{"FullMaskPartial", FlagEncryptCommunications, FlagEncryptCommunications | FlagEncryptStorage, false},
		{"EmptyFlags", 0, FlagSign, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.flags.Has(tt.mask); got != tt.want {
				t.Errorf("(%v).Has(%v) = %v, want %v", tt.flags, tt.mask, got, tt.want)
			}
		})
	}
}

func TestAggregatedFlags(t *testing.T) {
	tests := []struct {
		name string
		sigs []Signature
		want KeyFlags
	}{
		{"NoSignatures", nil, 0},
		{"SingleSignature", []Signature{{Flags: FlagSign}}, FlagSign},
		{"UnionAcrossSignatures",
			[]Signature{{Flags: FlagCertify}, {Flags: FlagSign}, {Flags: FlagEncryptCommunications}},
			FlagCertify | FlagSign | FlagEncryptCommunications},
		{"OverlappingSignatures",
			[]Signature{{Flags: FlagSign | FlagCertify}, {Flags: FlagSign}},
			FlagSign | FlagCertify},
		{"EmptySignature", []Signature{{}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := &PublicKey{Signatures: tt.sigs}
			if got := key.AggregatedFlags(); got != tt.want {
				t.Errorf("AggregatedFlags() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Aggregation is a bitwise OR, so permuting the signatures must not change
// the result.
func TestAggregatedFlagsOrderIndependent(t *testing.T) {
	sigs := []Signature{
		{Flags: FlagCertify},
		{Flags: FlagSign | FlagEncryptStorage},
		{Flags: FlagEncryptCommunications},
	}

	want := (&PublicKey{Signatures: sigs}).AggregatedFlags()

	permutations := [][]int{
		{0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
	}
	for _, perm := range permutations {
		permuted := make([]Signature, len(sigs))
		for i, j := range perm {
			permuted[i] = sigs[j]
		}
		key := &PublicKey{Signatures: permuted}
		if got := key.AggregatedFlags(); got != want {
			t.Errorf("permutation %v: AggregatedFlags() = %v, want %v", perm, got, want)
		}
	}
}

func TestKeyFlagsString(t *testing.T) {
	tests := []struct {
		name  string
		flags KeyFlags
		want  string
	}{
		{"None", 0, "none"},
		{"Single", FlagSign, "sign"},
		{"Multiple", FlagSign | FlagEncryptCommunications, "sign,encrypt-communications"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.flags.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
