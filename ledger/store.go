// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2021 UPI Core Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"encoding/json"
	"os"

	"github.com/upicore/upicored/blockrecord"
	"github.com/upicore/upicored/fault"
	"github.com/upicore/upicored/transactionrecord"
)

// the version marker to check the data file
// exact match is required
const chainFileVersion = "upi-chain v1.0"

// chainFile is the basic structure for backup and restore of the chain
type chainFile struct {
	Version        string                          `json:"version"`
	BatchThreshold int                             `json:"batchThreshold"`
	Blocks         []blockrecord.Block             `json:"blocks"`
	Pending        []transactionrecord.Transaction `json:"pending"`
}

// SaveToFile - backup the whole chain and pending buffer
//
// the previous file survives as ".bk" and the data is staged through
// ".new" so a failed save never destroys the last good backup
func (l *Ledger) SaveToFile(fileName string) error {
	l.RLock()
	data := chainFile{
		Version:        chainFileVersion,
		BatchThreshold: l.batchThreshold,
		Blocks:         l.chain,
		Pending:        l.pending,
	}

	tempFile := fileName + ".new"
	previousFile := fileName + ".bk"

	os.Remove(tempFile)

	f, err := os.OpenFile(tempFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if nil != err {
		l.RUnlock()
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	err = enc.Encode(data)
	f.Close()
	l.RUnlock()
	if nil != err {
		return err
	}

	err = os.Remove(previousFile)
	if nil != err && !os.IsNotExist(err) {
		return err
	}
	err = os.Rename(fileName, previousFile)
	if nil != err && !os.IsNotExist(err) {
		return err
	}
	if err := os.Rename(tempFile, fileName); nil != err {
		return err
	}

	l.log.Infof("saved chain: %s  blocks: %d  pending: %d", fileName, len(data.Blocks), len(data.Pending))
	return nil
}

// LoadFromFile - restore a ledger from a backup file
//
// the restored chain is fully re-verified, balances and the sequence
// counter are rebuilt by replay; a tampered file is rejected
func LoadFromFile(fileName string) (*Ledger, error) {

	f, err := os.OpenFile(fileName, os.O_RDONLY, 0600)
	if nil != err {
		return nil, err
	}
	defer f.Close()

	var data chainFile
	if err := json.NewDecoder(f).Decode(&data); nil != err {
		return nil, fault.InvalidChainFile
	}

	if chainFileVersion != data.Version {
		return nil, fault.InvalidChainFile
	}
	if 0 == len(data.Blocks) || !data.Blocks[0].IsGenesis() {
		return nil, fault.InvalidChainFile
	}
	if data.Blocks[0].Digest != data.Blocks[0].Recompute() {
		return nil, fault.InvalidChainFile
	}

	// the digest does not cover the block number, so the numbering
	// must be checked separately or a renumbered file would load
	for i := 1; i < len(data.Blocks); i += 1 {
		if data.Blocks[i].Number != data.Blocks[i-1].Number+1 {
			return nil, fault.InvalidChainFile
		}
	}

	l := New(data.BatchThreshold)
	l.chain = data.Blocks
	l.pending = data.Pending

	if _, err := l.VerifyIntegrity(); nil != err {
		return nil, err
	}

	// rebuild the balance index and the sequence counter by replay
	for _, block := range l.chain {
		for _, tx := range block.Transactions {
			l.balances[tx.PayerId] -= tx.Amount
			l.balances[tx.PayeeId] += tx.Amount
			if tx.Sequence > l.sequence {
				l.sequence = tx.Sequence
			}
		}
	}
	for _, tx := range l.pending {
		if !tx.Verify() {
			return nil, fault.InvalidChainFile
		}
		l.balances[tx.PayerId] -= tx.Amount
		l.balances[tx.PayeeId] += tx.Amount
		if tx.Sequence > l.sequence {
			l.sequence = tx.Sequence
		}
	}

	l.log.Infof("restored chain: %s  blocks: %d  pending: %d", fileName, len(l.chain), len(l.pending))
	return l, nil
}
