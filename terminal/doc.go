// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2021 UPI Core Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package terminal - a merchant's point-of-sale session
//
// each session owns its own merchant binding; concurrent sessions
// never share state, so one merchant logging in cannot contaminate
// another terminal
//
// submitting a payment does not require the session to be bound: the
// payer pays against whatever merchant is sealed inside the token they
// scanned
package terminal
