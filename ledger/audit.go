// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2021 UPI Core Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/upicore/upicored/background"
)

// periodic chain verification
type auditor struct {
	log      *logger.L
	ledger   *Ledger
	interval time.Duration
}

// NewAuditor - a background process that re-verifies the chain
//
// an integrity violation is fatal: it is logged at critical level and
// the auditor halts rather than attempting any repair
func NewAuditor(l *Ledger, interval time.Duration) background.Process {
	if interval <= 0 {
		interval = time.Minute
	}
	return &auditor{
		log:      logger.New("audit"),
		ledger:   l,
		interval: interval,
	}
}

func (a *auditor) Run(args interface{}, shutdown <-chan struct{}) {
	a.log.Infof("starting: interval: %s", a.interval)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			number, err := a.ledger.VerifyIntegrity()
			if nil != err {
				a.log.Criticalf("chain corrupt at block: %d  error: %s", number, err)
				a.log.Flush()
				return
			}
			a.log.Debugf("chain verified: height: %d", a.ledger.Height())

		case <-shutdown:
			a.log.Info("shutting down…")
			return
		}
	}
}
