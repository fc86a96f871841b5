// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2021 UPI Core Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockrecord_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/upicore/upicored/blockrecord"
	"github.com/upicore/upicored/transactionrecord"
)

func makeTransactions(t *testing.T, n int) []transactionrecord.Transaction {
	txs := make([]transactionrecord.Transaction, n)
	at := time.Unix(1700000000, 0)
	for i := 0; i < n; i += 1 {
		tx, err := transactionrecord.New("9f86d081884c7d65", "2c26b46b68ffc68f", float64(i+1), at, uint64(i+1))
		if nil != err {
			t.Fatalf("new transaction error: %v", err)
		}
		txs[i] = tx
	}
	return txs
}

func TestGenesis(t *testing.T) {
	genesis := blockrecord.Genesis()

	assert.True(t, genesis.IsGenesis(), "genesis does not self identify")
	assert.Equal(t, uint64(blockrecord.GenesisBlockNumber), genesis.Number, "wrong genesis number")
	assert.Equal(t,
		"0000000000000000000000000000000000000000000000000000000000000000",
		genesis.PreviousBlock.String(),
		"genesis previous link is not all zeros")
	assert.Equal(t, genesis.Recompute(), genesis.Digest, "genesis digest mismatch")
}

func TestDigestFixedAtConstruction(t *testing.T) {
	txs := makeTransactions(t, 3)
	previous := blockrecord.Genesis().Digest

	block := blockrecord.New(2, txs, previous, time.Unix(1700000100, 0))

	assert.Equal(t, block.Recompute(), block.Digest, "stored digest does not recompute")
	assert.False(t, block.IsGenesis(), "non-genesis block claims to be genesis")

	// the block must own its own copy of the batch
	txs[0].Amount = 1e9
	txs[0].PayeeId = "ffffffffffffffff"
	assert.Equal(t, block.Recompute(), block.Digest, "caller mutation reached the sealed block")
}

func TestTamperDetection(t *testing.T) {
	txs := makeTransactions(t, 2)
	block := blockrecord.New(2, txs, blockrecord.Genesis().Digest, time.Unix(1700000100, 0))

	tampered := block
	tampered.Transactions = makeTransactions(t, 2)
	tampered.Transactions[1].TxId[0] ^= 0x01

	assert.NotEqual(t, tampered.Recompute(), block.Digest, "single bit tamper not detected")

	linkTampered := block
	linkTampered.PreviousBlock[31] ^= 0x80
	assert.NotEqual(t, linkTampered.Recompute(), block.Digest, "previous link tamper not detected")
}

func TestOrderingMatters(t *testing.T) {
	txs := makeTransactions(t, 2)
	at := time.Unix(1700000100, 0)
	previous := blockrecord.Genesis().Digest

	forward := blockrecord.New(2, txs, previous, at)
	reversed := blockrecord.New(2, []transactionrecord.Transaction{txs[1], txs[0]}, previous, at)

	assert.NotEqual(t, forward.Digest, reversed.Digest, "transaction order does not affect the digest")
}
