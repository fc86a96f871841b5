// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2021 UPI Core Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package transactionrecord - immutable transfer records
//
// a transaction names a payer account, a payee account and a positive
// amount; its id is a digest over the packed fields plus the ledger
// sequence number, so two transfers with identical fields created in
// the same instant still have distinct ids
package transactionrecord
