// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2021 UPI Core Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package digest - the SHA3-256 digest used throughout the system
//
// transaction ids, block hashes and account identifier derivation all
// use this one digest type; the hex representation is the external form
package digest
