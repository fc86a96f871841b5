// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2021 UPI Core Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/upicore/upicored/blockrecord"
	"github.com/upicore/upicored/ledger"
)

func loadChain(c *cli.Context) (*ledger.Ledger, error) {
	dataFile := c.String("data-file")
	if "" == dataFile {
		return nil, fmt.Errorf("missing data file")
	}
	return ledger.LoadFromFile(dataFile)
}

// verify a chain backup file
//
// restoring already re-verifies every block, so reaching the success
// message is the proof
func runAudit(c *cli.Context) error {

	l, err := loadChain(c)
	if nil != err {
		return err
	}

	fmt.Fprintf(c.App.Writer, "chain verified: height: %d  pending: %d\n", l.Height(), l.PendingCount())
	return nil
}

// replay one account balance over a chain backup file
func runBalance(c *cli.Context) error {

	account := c.String("account")
	if "" == account {
		return fmt.Errorf("missing account")
	}

	l, err := loadChain(c)
	if nil != err {
		return err
	}

	fmt.Fprintf(c.App.Writer, "balance: %.2f\n", l.ReplayBalance(account))
	return nil
}

// list the newest blocks of a chain backup file
func runHistory(c *cli.Context) error {

	l, err := loadChain(c)
	if nil != err {
		return err
	}

	count := uint64(c.Int("count"))
	height := l.Height()
	start := uint64(blockrecord.GenesisBlockNumber)
	if count > 0 && height > count {
		start = height - count + 1
	}

	for number := start; number <= height; number += 1 {
		block, err := l.Block(number)
		if nil != err {
			return err
		}
		fmt.Fprintf(c.App.Writer, "block: %d  digest: %s  transactions: %d\n",
			block.Number, block.Digest, len(block.Transactions))
		if c.GlobalBool("verbose") {
			for _, tx := range block.Transactions {
				fmt.Fprintf(c.App.Writer, "  %s  %s -> %s  %.2f\n",
					tx.TxId, tx.PayerId, tx.PayeeId, tx.Amount)
			}
		}
	}
	return nil
}
