// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2021 UPI Core Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"crypto/rand"
	"crypto/subtle"
	"io"

	"github.com/bitmark-inc/go-argon2"

	"github.com/upicore/upicored/fault"
)

const saltSize = 16

// per-credential random salt
type salt [saltSize]byte

func makeSalt() (*salt, error) {
	s := new(salt)
	if _, err := io.ReadFull(rand.Reader, s[:]); nil != err {
		return nil, fault.CryptoFailed
	}
	return s, nil
}

// hash a password or PIN for storage
func deriveCredential(credential string, s *salt) ([32]byte, error) {

	ctx := &argon2.Context{
		Iterations:  5,
		Memory:      1 << 16,
		Parallelism: 4,
		HashLen:     32,
		Mode:        argon2.ModeArgon2i,
		Version:     argon2.Version13,
	}

	var hashed [32]byte
	hash, err := argon2.Hash(ctx, []byte(credential), s[:])
	if nil != err {
		return hashed, fault.CryptoFailed
	}
	copy(hashed[:], hash)
	return hashed, nil
}

// constant-time comparison of a supplied credential against storage
func matchCredential(credential string, s *salt, stored [32]byte) bool {
	supplied, err := deriveCredential(credential, s)
	if nil != err {
		return false
	}
	return 1 == subtle.ConstantTimeCompare(supplied[:], stored[:])
}
