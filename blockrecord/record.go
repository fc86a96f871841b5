// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2021 UPI Core Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockrecord

import (
	"encoding/binary"
	"time"

	"github.com/upicore/upicored/digest"
	"github.com/upicore/upicored/transactionrecord"
)

// GenesisBlockNumber - the number of the fixed first block
const GenesisBlockNumber = 1

// Block - a sealed batch of transactions
//
// owned exclusively by the ledger chain; never mutated after append
type Block struct {
	Number        uint64                          `json:"number,string"`
	Transactions  []transactionrecord.Transaction `json:"transactions"`
	PreviousBlock digest.Digest                   `json:"previousBlock"`
	Timestamp     time.Time                       `json:"timestamp"`
	Digest        digest.Digest                   `json:"digest"`
}

// New - seal a batch of transactions into a block
//
// the transaction slice is copied so the caller cannot alter the block
// contents afterwards; the digest is fixed here
func New(number uint64, transactions []transactionrecord.Transaction, previousBlock digest.Digest, timestamp time.Time) Block {

	txs := make([]transactionrecord.Transaction, len(transactions))
	copy(txs, transactions)

	block := Block{
		Number:        number,
		Transactions:  txs,
		PreviousBlock: previousBlock,
		Timestamp:     timestamp,
	}
	block.Digest = block.Recompute()
	return block
}

// Genesis - the fixed anchor of a chain
//
// no transactions and an all-zero previous link; it must never be
// treated as a transferable transaction container
func Genesis() Block {
	return New(GenesisBlockNumber, nil, digest.Digest{}, time.Unix(0, 0))
}

// Recompute - derive the digest from the block contents
//
// covers the previous link, the timestamp and every transaction id in
// order; used by integrity verification to detect any altered byte
func (block Block) Recompute() digest.Digest {

	buffer := make([]byte, 0, digest.Length+8+digest.Length*len(block.Transactions))
	buffer = append(buffer, block.PreviousBlock[:]...)

	scratch := make([]byte, 8)
	binary.BigEndian.PutUint64(scratch, uint64(block.Timestamp.UnixNano()))
	buffer = append(buffer, scratch...)

	for _, tx := range block.Transactions {
		buffer = append(buffer, tx.TxId[:]...)
	}

	return digest.NewDigest(buffer)
}

// IsGenesis - detect the chain anchor
func (block Block) IsGenesis() bool {
	return GenesisBlockNumber == block.Number && block.PreviousBlock.IsEmpty() && 0 == len(block.Transactions)
}
