// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2021 UPI Core Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package background - run and cleanly shut down a set of goroutines
package background
