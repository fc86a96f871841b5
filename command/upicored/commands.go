// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2021 UPI Core Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"strconv"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/logger"

	"github.com/upicore/upicored/configuration"
	"github.com/upicore/upicored/fault"
	"github.com/upicore/upicored/ledger"
)

const (
	tokenKeyFilename = "token.key"
	tokenKeyBytes    = 32
)

// setup command handler
//
// commands that run to create the sealing key file; these commands
// cannot access any internal state or the configuration file
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "gen-key", "key":
		keyFilename := tokenKeyFilename
		if len(arguments) >= 1 && "" != arguments[0] {
			keyFilename = arguments[0]
		}

		if _, err := os.Stat(keyFilename); nil == err {
			fmt.Printf("generate key: %q error: %s\n", keyFilename, fault.KeyFileAlreadyExists)
			exitwithstatus.Exit(1)
		}

		secret := make([]byte, tokenKeyBytes)
		if _, err := rand.Read(secret); nil != err {
			fmt.Printf("generate key: %q error: %s\n", keyFilename, err)
			exitwithstatus.Exit(1)
		}

		if err := ioutil.WriteFile(keyFilename, []byte(hex.EncodeToString(secret)), 0600); nil != err {
			os.Remove(keyFilename)
			fmt.Printf("generate key: %q error: %s\n", keyFilename, err)
			exitwithstatus.Exit(1)
		}

		fmt.Printf("generated sealing key: %q\n", keyFilename)

	case "start", "run":
		return false // continue processing

	case "config-test", "cfg":
		return false // defer processing until configuration is read

	case "audit", "a", "block", "b":
		return false // defer processing until the chain is restored

	case "version", "v":
		fmt.Printf("%s\n", version)

	default:
		switch command {
		case "help", "h", "?":
		case "", " ":
			fmt.Printf("error: missing command\n")
		default:
			fmt.Printf("error: no such command: %q\n", command)
		}
		fmt.Printf("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [[command|help] arguments...]\n\n", program)

		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help               (h)   - display this message\n\n")
		fmt.Printf("  version            (v)   - display version string\n\n")

		fmt.Printf("  gen-key [FILE]     (key) - create a new sealing key in: %q\n", tokenKeyFilename)
		fmt.Printf("\n")

		fmt.Printf("  start              (run) - just run the program, same as no arguments\n")
		fmt.Printf("                             for convenience when passing script arguments\n")
		fmt.Printf("\n")

		fmt.Printf("  config-test        (cfg) - just check the configuration file\n")
		fmt.Printf("\n")

		fmt.Printf("  audit              (a)   - verify the integrity of the restored chain\n")
		fmt.Printf("\n")

		fmt.Printf("  block S [E]        (b)   - dump block(s) as JSON structures to stdout\n")
		fmt.Printf("\n")

		exitwithstatus.Exit(1)
	}

	// indicate processing complete and perform normal exit from main
	return true
}

// configuration file enquiry commands
// have configuration file read and decoded, but nothing else
func processConfigCommand(arguments []string, options *configuration.Configuration) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "config-test", "cfg":
		b, err := json.Marshal(options)
		if nil != err {
			exitwithstatus.Message("error: %s", err)
		}
		var out bytes.Buffer
		json.Indent(&out, b, "", "  ")
		out.WriteTo(os.Stdout)
		os.Stdout.WriteString("\n")

	default: // unknown commands fall through to data command
		return false
	}

	// indicate processing complete and perform normal exit from main
	return true
}

// data command handler
// the chain is restored so these commands can access it
func processDataCommand(log *logger.L, arguments []string, l *ledger.Ledger) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "audit", "a":
		blockNumber, err := l.VerifyIntegrity()
		if nil != err {
			fmt.Printf("chain integrity violation at block: %d\n", blockNumber)
			exitwithstatus.Exit(1)
		}
		fmt.Printf("chain verified: height: %d  pending: %d\n", l.Height(), l.PendingCount())

	case "block", "b":
		if len(arguments) < 1 {
			exitwithstatus.Message("error: missing block number")
		}
		start, err := strconv.ParseUint(arguments[0], 10, 64)
		if nil != err {
			exitwithstatus.Message("error: block number: %q error: %s", arguments[0], err)
		}
		end := start
		if len(arguments) >= 2 {
			end, err = strconv.ParseUint(arguments[1], 10, 64)
			if nil != err {
				exitwithstatus.Message("error: block number: %q error: %s", arguments[1], err)
			}
		}
		for number := start; number <= end; number += 1 {
			block, err := l.Block(number)
			if nil != err {
				exitwithstatus.Message("error: block: %d error: %s", number, err)
			}
			b, err := json.MarshalIndent(block, "", "  ")
			if nil != err {
				exitwithstatus.Message("error: %s", err)
			}
			os.Stdout.Write(b)
			os.Stdout.WriteString("\n")
		}

	default:
		return false
	}

	// indicate processing complete and perform normal exit from main
	return true
}
