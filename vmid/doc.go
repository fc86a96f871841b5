// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2021 UPI Core Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package vmid - virtual merchant identifiers
//
// a merchant identifier and an issue timestamp are sealed into a
// fixed-length token for transit through the QR channel; decode is an
// exact inverse of encode for any authentic token inside the freshness
// window
//
// the token is authenticated encryption (nacl secretbox) under a key
// derived from a provisioned secret file; the nonce is derived from
// the key and the plaintext, so a given (merchant, timestamp) pair
// always encodes to the same token while distinct pairs never share a
// nonce
//
// tokens are single use: a decoded token stays in a replay cache for
// the remainder of its freshness window
package vmid
