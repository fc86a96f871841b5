// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2021 UPI Core Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package blockrecord - immutable batches of transactions
//
// a block links to its predecessor by digest; the block digest is
// computed once at construction and is never recomputed in place, so
// any later recomputation that disagrees with the stored value is
// evidence of tampering
package blockrecord
