// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2021 UPI Core Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ledger - the append-only chained-block transaction store
//
// a single writer appends transactions into a pending buffer; when the
// buffer reaches the batch threshold it is sealed into a block linked
// to its predecessor by digest
//
// balances are kept in an incrementally maintained index for O(1)
// reads and remain fully recomputable by replaying the chain plus the
// pending buffer; the two views must always agree
//
// the ledger serialises all mutation under one mutex per instance and
// exposes an atomic conditional append so a balance sufficiency check
// and the transfer it guards cannot interleave with another transfer
package ledger
