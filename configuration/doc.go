// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2021 UPI Core Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package configuration - processing of the Lua configuration file
//
// the configuration file is executed as a Lua script and the table it
// leaves on the stack is mapped onto the Configuration structure, so
// values can be computed rather than merely literal
package configuration
