// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2021 UPI Core Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package digest_test

import (
	"fmt"
	"testing"

	"github.com/upicore/upicored/digest"
)

// well-known SHA3-256 test vector
func TestNewDigest(t *testing.T) {
	d := digest.NewDigest([]byte("abc"))
	expected := "3a985da74fe225b2045c172d6bd390bd855f086e3e9d525b46bfe24511431532"
	if d.String() != expected {
		t.Fatalf("digest: actual: %s  expected: %s", d, expected)
	}
}

func TestEmptyDigest(t *testing.T) {
	var d digest.Digest
	if !d.IsEmpty() {
		t.Fatal("zero digest is not empty")
	}
	// the genesis previous-link contract: sixty four zero characters
	if d.String() != "0000000000000000000000000000000000000000000000000000000000000000" {
		t.Fatalf("zero digest string: %s", d)
	}
	if digest.NewDigest([]byte{}).IsEmpty() {
		t.Fatal("digest of empty input must not be the zero digest")
	}
}

func TestScanFmt(t *testing.T) {
	stringDigest := "3a985da74fe225b2045c172d6bd390bd855f086e3e9d525b46bfe24511431532"

	var d digest.Digest
	n, err := fmt.Sscan(stringDigest, &d)
	if nil != err {
		t.Fatalf("hex to digest error: %v", err)
	}
	if 1 != n {
		t.Fatalf("scanned %d items expected to scan 1", n)
	}

	if s := fmt.Sprintf("%s", d); s != stringDigest {
		t.Errorf("string: digest = %s expected %s", s, stringDigest)
	}
	if s := fmt.Sprintf("%#v", d); s != "<SHA3-256:"+stringDigest+">" {
		t.Errorf("go string: digest = %s", s)
	}
}

func TestMarshalText(t *testing.T) {
	d := digest.NewDigest([]byte("transaction payload"))

	text, err := d.MarshalText()
	if nil != err {
		t.Fatalf("marshal text error: %v", err)
	}

	var restored digest.Digest
	if err := restored.UnmarshalText(text); nil != err {
		t.Fatalf("unmarshal text error: %v", err)
	}
	if restored != d {
		t.Errorf("round trip: actual: %v  expected: %v", restored, d)
	}
}

func TestDigestFromHexRejects(t *testing.T) {
	invalid := []string{
		"",
		"3a985d",
		"zz985da74fe225b2045c172d6bd390bd855f086e3e9d525b46bfe24511431532",
		"3a985da74fe225b2045c172d6bd390bd855f086e3e9d525b46bfe2451143153200",
	}
	for i, s := range invalid {
		if _, err := digest.DigestFromHex(s); nil == err {
			t.Errorf("%d: accepted invalid hex: %q", i, s)
		}
	}
}
