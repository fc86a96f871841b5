// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2021 UPI Core Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli"

	"github.com/upicore/upicored/fault"
	"github.com/upicore/upicored/vmid"
)

// decode a payment token with the sealing key
//
// a forged, expired or foreign-key token reports its failure reason
func runDecode(c *cli.Context) error {

	keyFile := c.String("key-file")
	if "" == keyFile {
		return fault.RequiredKeyFile
	}
	token := c.String("token")
	if "" == token {
		return fmt.Errorf("missing token")
	}

	codec, err := vmid.NewCodec(keyFile, time.Duration(c.Int("window"))*time.Second)
	if nil != err {
		return err
	}

	merchantId, err := codec.Decode(token)
	if nil != err {
		return err
	}

	fmt.Fprintf(c.App.Writer, "merchant id: %s\n", merchantId)
	return nil
}
