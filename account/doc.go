// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2021 UPI Core Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package account - the account registry
//
// owns user and merchant records, derives the deterministic account
// identifiers (UID/MID and the secondary MMID) and is the sole writer
// to the ledger
//
// credentials are stored as salted argon2 hashes and compared in
// constant time; repeated authentication attempts are rate limited
// per account
package account
