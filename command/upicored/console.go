// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2021 UPI Core Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/bitmark-inc/logger"

	"github.com/upicore/upicored/account"
	"github.com/upicore/upicored/ledger"
	"github.com/upicore/upicored/terminal"
)

// runConsole - the interactive payment terminal on stdin
//
// closes done when stdin ends or the quit command is given
func runConsole(log *logger.L, session *terminal.Session, registry *account.Registry, l *ledger.Ledger, done chan<- struct{}) {
	defer close(done)

	fmt.Printf("upicored console, \"help\" lists commands\n")

	scanner := bufio.NewScanner(os.Stdin)

	for prompt(session); scanner.Scan(); prompt(session) {
		fields := strings.Fields(scanner.Text())
		if 0 == len(fields) {
			continue
		}

		command := strings.ToLower(fields[0])
		arguments := fields[1:]
		log.Debugf("console: %s", command)

		switch command {
		case "register":
			consoleRegister(registry, arguments)

		case "login":
			if 2 != len(arguments) {
				fmt.Printf("usage: login MID PASSWORD\n")
				continue
			}
			if err := session.BindMerchant(arguments[0], arguments[1]); nil != err {
				fmt.Printf("error: %s\n", err)
				continue
			}
			name, _ := registry.DisplayName(arguments[0])
			fmt.Printf("terminal bound to merchant: %s\n", name)

		case "logout":
			session.Logout()
			fmt.Printf("terminal released\n")

		case "token", "qr":
			token, err := session.IssueToken()
			if nil != err {
				fmt.Printf("error: %s\n", err)
				continue
			}
			fmt.Printf("payment token: %s\n", token)

		case "pay":
			if 4 != len(arguments) {
				fmt.Printf("usage: pay TOKEN UID AMOUNT PIN\n")
				continue
			}
			amount, err := strconv.ParseFloat(arguments[2], 64)
			if nil != err {
				fmt.Printf("error: amount: %q error: %s\n", arguments[2], err)
				continue
			}
			txId, err := session.SubmitPayment(arguments[0], arguments[1], amount, arguments[3])
			if nil != err {
				fmt.Printf("payment failed: %s\n", err)
				continue
			}
			fmt.Printf("payment recorded: %s\n", txId)

		case "balance":
			if 1 != len(arguments) {
				fmt.Printf("usage: balance ACCOUNT\n")
				continue
			}
			balance, err := registry.Balance(arguments[0])
			if nil != err {
				fmt.Printf("error: %s\n", err)
				continue
			}
			fmt.Printf("balance: %.2f\n", balance)

		case "mmid":
			if 1 != len(arguments) {
				fmt.Printf("usage: mmid UID\n")
				continue
			}
			mmid, err := registry.MMID(arguments[0])
			if nil != err {
				fmt.Printf("error: %s\n", err)
				continue
			}
			fmt.Printf("mmid: %s\n", mmid)

		case "block":
			if 1 != len(arguments) {
				fmt.Printf("usage: block NUMBER\n")
				continue
			}
			number, err := strconv.ParseUint(arguments[0], 10, 64)
			if nil != err {
				fmt.Printf("error: block number: %q error: %s\n", arguments[0], err)
				continue
			}
			block, err := l.Block(number)
			if nil != err {
				fmt.Printf("error: %s\n", err)
				continue
			}
			fmt.Printf("block: %d  digest: %s  previous: %s  transactions: %d\n",
				block.Number, block.Digest, block.PreviousBlock, len(block.Transactions))
			for _, tx := range block.Transactions {
				fmt.Printf("  %s  %s -> %s  %.2f\n", tx.TxId, tx.PayerId, tx.PayeeId, tx.Amount)
			}

		case "chain":
			fmt.Printf("height: %d  pending: %d  batch threshold: %d\n",
				l.Height(), l.PendingCount(), l.BatchThreshold())

		case "audit":
			blockNumber, err := l.VerifyIntegrity()
			if nil != err {
				fmt.Printf("chain integrity violation at block: %d\n", blockNumber)
				continue
			}
			fmt.Printf("chain verified: height: %d\n", l.Height())

		case "help", "h", "?":
			consoleHelp()

		case "quit", "exit", "q":
			return

		default:
			fmt.Printf("error: no such command: %q\n", command)
		}
	}
}

func prompt(session *terminal.Session) {
	if mid, ok := session.BoundMerchant(); ok {
		fmt.Printf("%s> ", mid)
	} else {
		fmt.Printf("> ")
	}
}

func consoleRegister(registry *account.Registry, arguments []string) {

	kind := ""
	if len(arguments) > 0 {
		kind = strings.ToLower(arguments[0])
		arguments = arguments[1:]
	}

	switch kind {
	case "user":
		if 5 != len(arguments) {
			fmt.Printf("usage: register user NAME PASSWORD MOBILE PIN BALANCE\n")
			return
		}
		balance, err := strconv.ParseFloat(arguments[4], 64)
		if nil != err {
			fmt.Printf("error: balance: %q error: %s\n", arguments[4], err)
			return
		}
		uid, err := registry.RegisterUser(arguments[0], arguments[1], arguments[2], arguments[3], balance)
		if nil != err {
			fmt.Printf("error: %s\n", err)
			return
		}
		mmid, _ := registry.MMID(uid)
		fmt.Printf("registered user: %s\n", arguments[0])
		fmt.Printf("  uid:  %s\n", uid)
		fmt.Printf("  mmid: %s\n", mmid)

	case "merchant":
		if 3 != len(arguments) {
			fmt.Printf("usage: register merchant NAME PASSWORD BALANCE\n")
			return
		}
		balance, err := strconv.ParseFloat(arguments[2], 64)
		if nil != err {
			fmt.Printf("error: balance: %q error: %s\n", arguments[2], err)
			return
		}
		mid, err := registry.RegisterMerchant(arguments[0], arguments[1], balance)
		if nil != err {
			fmt.Printf("error: %s\n", err)
			return
		}
		fmt.Printf("registered merchant: %s\n", arguments[0])
		fmt.Printf("  mid: %s\n", mid)

	default:
		fmt.Printf("usage: register user|merchant ...\n")
	}
}

func consoleHelp() {
	fmt.Printf("commands:\n\n")
	fmt.Printf("  register user NAME PASSWORD MOBILE PIN BALANCE - open a user account\n")
	fmt.Printf("  register merchant NAME PASSWORD BALANCE        - open a merchant account\n")
	fmt.Printf("  login MID PASSWORD                             - bind a merchant to this terminal\n")
	fmt.Printf("  logout                                         - release the terminal\n")
	fmt.Printf("  token                                          - issue a payment token for the bound merchant\n")
	fmt.Printf("  pay TOKEN UID AMOUNT PIN                       - pay a merchant token from a user account\n")
	fmt.Printf("  balance ACCOUNT                                - account balance (uid or mid)\n")
	fmt.Printf("  mmid UID                                       - mobile money identifier of a user\n")
	fmt.Printf("  block NUMBER                                   - show one block\n")
	fmt.Printf("  chain                                          - chain height and pending count\n")
	fmt.Printf("  audit                                          - verify chain integrity\n")
	fmt.Printf("  quit                                           - save the chain and exit\n")
}
