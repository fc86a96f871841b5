// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2021 UPI Core Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transactionrecord

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/upicore/upicored/digest"
	"github.com/upicore/upicored/fault"
)

// Transaction - a single transfer of an amount from a payer account to
// a payee account
//
// immutable once constructed; ownership passes to the ledger's pending
// buffer and from there to the sealed block
type Transaction struct {
	PayerId   string       `json:"payerId"`
	PayeeId   string       `json:"payeeId"`
	Amount    float64      `json:"amount"`
	Timestamp time.Time    `json:"timestamp"`
	Sequence  uint64       `json:"sequence,string"`
	TxId      digest.Digest `json:"txId"`
}

// New - create a transaction and derive its id
//
// the amount must be a positive finite number; any other value is the
// caller supplying garbage and is rejected before the record exists
func New(payerId string, payeeId string, amount float64, timestamp time.Time, sequence uint64) (Transaction, error) {

	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Transaction{}, fault.InvalidAmount
	}

	tx := Transaction{
		PayerId:   payerId,
		PayeeId:   payeeId,
		Amount:    amount,
		Timestamp: timestamp,
		Sequence:  sequence,
	}
	tx.TxId = digest.NewDigest(tx.pack())
	return tx, nil
}

// pack the fields for hashing
func (tx Transaction) pack() []byte {
	buffer := make([]byte, 0, len(tx.PayerId)+len(tx.PayeeId)+24)
	buffer = append(buffer, tx.PayerId...)
	buffer = append(buffer, tx.PayeeId...)

	scratch := make([]byte, 8)
	binary.BigEndian.PutUint64(scratch, uint64(tx.Timestamp.UnixNano()))
	buffer = append(buffer, scratch...)
	binary.BigEndian.PutUint64(scratch, math.Float64bits(tx.Amount))
	buffer = append(buffer, scratch...)
	binary.BigEndian.PutUint64(scratch, tx.Sequence)
	buffer = append(buffer, scratch...)

	return buffer
}

// Verify - check the stored id against a recomputation
func (tx Transaction) Verify() bool {
	return tx.TxId == digest.NewDigest(tx.pack())
}

// String - transaction id in its external hex form
func (tx Transaction) String() string {
	return tx.TxId.String()
}
