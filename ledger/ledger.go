// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2021 UPI Core Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/upicore/upicored/blockrecord"
	"github.com/upicore/upicored/fault"
	"github.com/upicore/upicored/transactionrecord"
)

// DefaultBatchThreshold - pending transactions that trigger sealing a block
const DefaultBatchThreshold = 5

// Ledger - an append-only chain of blocks plus a pending buffer
type Ledger struct {
	sync.RWMutex // to allow locking

	log *logger.L

	chain          []blockrecord.Block
	pending        []transactionrecord.Transaction
	balances       map[string]float64
	batchThreshold int
	sequence       uint64
}

// New - create a ledger anchored on the genesis block
//
// a zero or negative threshold selects the default
func New(batchThreshold int) *Ledger {
	if batchThreshold <= 0 {
		batchThreshold = DefaultBatchThreshold
	}

	l := &Ledger{
		log:            logger.New("ledger"),
		chain:          []blockrecord.Block{blockrecord.Genesis()},
		balances:       make(map[string]float64),
		batchThreshold: batchThreshold,
	}
	l.log.Infof("new chain: batch threshold: %d", batchThreshold)
	return l
}

// Append - unconditionally record a transfer
//
// validity of the parties is the registry's responsibility; the only
// contract here is correct hashing, chaining and batching
func (l *Ledger) Append(payerId string, payeeId string, amount float64, timestamp time.Time) (transactionrecord.Transaction, error) {
	l.Lock()
	defer l.Unlock()

	return l.append(payerId, payeeId, amount, timestamp)
}

// Transfer - atomic conditional append
//
// the payer balance sufficiency check and the append happen under one
// lock acquisition, so two transfers drawing on the same balance can
// never both pass the check before either commits
func (l *Ledger) Transfer(payerId string, payeeId string, amount float64, timestamp time.Time) (transactionrecord.Transaction, error) {
	l.Lock()
	defer l.Unlock()

	if l.balances[payerId] < amount {
		return transactionrecord.Transaction{}, fault.InsufficientFunds
	}
	return l.append(payerId, payeeId, amount, timestamp)
}

// internal: must hold lock
func (l *Ledger) append(payerId string, payeeId string, amount float64, timestamp time.Time) (transactionrecord.Transaction, error) {

	tx, err := transactionrecord.New(payerId, payeeId, amount, timestamp, l.sequence+1)
	if nil != err {
		return transactionrecord.Transaction{}, err
	}
	l.sequence += 1

	l.pending = append(l.pending, tx)
	l.balances[payerId] -= amount
	l.balances[payeeId] += amount

	l.log.Debugf("append: %s  payer: %s  payee: %s  amount: %f", tx.TxId, payerId, payeeId, amount)

	if len(l.pending) >= l.batchThreshold {
		l.seal()
	}
	return tx, nil
}

// internal: must hold lock
//
// seals the whole pending buffer into a new block, preserving order
func (l *Ledger) seal() {
	previous := l.chain[len(l.chain)-1]
	block := blockrecord.New(previous.Number+1, l.pending, previous.Digest, time.Now())
	l.chain = append(l.chain, block)
	l.pending = l.pending[:0]

	l.log.Infof("sealed block: %d  digest: %s  transactions: %d", block.Number, block.Digest, len(block.Transactions))
}

// Balance - indexed account balance including pending transactions
func (l *Ledger) Balance(accountId string) float64 {
	l.RLock()
	defer l.RUnlock()

	return l.balances[accountId]
}

// ReplayBalance - recompute a balance over the full chain and pending buffer
//
// the audit path: O(total transactions), must always agree with Balance
func (l *Ledger) ReplayBalance(accountId string) float64 {
	l.RLock()
	defer l.RUnlock()

	balance := 0.0
	for _, block := range l.chain {
		for _, tx := range block.Transactions {
			if tx.PayerId == accountId {
				balance -= tx.Amount
			}
			if tx.PayeeId == accountId {
				balance += tx.Amount
			}
		}
	}
	for _, tx := range l.pending {
		if tx.PayerId == accountId {
			balance -= tx.Amount
		}
		if tx.PayeeId == accountId {
			balance += tx.Amount
		}
	}
	return balance
}

// VerifyIntegrity - recompute every block digest and check every link
//
// pure verification, no repair; returns the number of the first
// offending block together with fault.IntegrityViolation
func (l *Ledger) VerifyIntegrity() (uint64, error) {
	l.RLock()
	defer l.RUnlock()

	for i := 1; i < len(l.chain); i += 1 {
		block := l.chain[i]
		if block.Recompute() != block.Digest {
			l.log.Criticalf("block %d: digest mismatch", block.Number)
			return block.Number, fault.IntegrityViolation
		}
		if block.PreviousBlock != l.chain[i-1].Digest {
			l.log.Criticalf("block %d: broken link to block %d", block.Number, l.chain[i-1].Number)
			return block.Number, fault.IntegrityViolation
		}
		// the block digest only covers transaction ids, so the field
		// content of each transaction is checked against its own id
		for _, tx := range block.Transactions {
			if !tx.Verify() {
				l.log.Criticalf("block %d: transaction %s: id mismatch", block.Number, tx.TxId)
				return block.Number, fault.IntegrityViolation
			}
		}
	}
	return 0, nil
}

// Height - number of blocks in the chain, genesis included
func (l *Ledger) Height() uint64 {
	l.RLock()
	defer l.RUnlock()

	return uint64(len(l.chain))
}

// Block - copy of a single block by number
func (l *Ledger) Block(number uint64) (blockrecord.Block, error) {
	l.RLock()
	defer l.RUnlock()

	if number < blockrecord.GenesisBlockNumber || number > uint64(len(l.chain)) {
		return blockrecord.Block{}, fault.BlockNotFound
	}

	block := l.chain[number-1]
	txs := make([]transactionrecord.Transaction, len(block.Transactions))
	copy(txs, block.Transactions)
	block.Transactions = txs
	return block, nil
}

// PendingCount - transactions waiting to be sealed
func (l *Ledger) PendingCount() int {
	l.RLock()
	defer l.RUnlock()

	return len(l.pending)
}

// BatchThreshold - the configured sealing threshold
func (l *Ledger) BatchThreshold() int {
	return l.batchThreshold
}
