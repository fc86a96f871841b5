// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2021 UPI Core Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/bitmark-inc/logger"
	"github.com/urfave/cli"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {

	app := cli.NewApp()
	app.Name = "upicore-cli"
	app.Usage = "offline tools for upicored data and key files"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "setup",
			Usage:     "initialise a upicored data directory",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "dir, d",
					Value: ".",
					Usage: " data directory `DIR`",
				},
				cli.StringFlag{
					Name:  "issuer, i",
					Value: "",
					Usage: "*issuing bank code `CODE`",
				},
			},
			Action: runSetup,
		},
		{
			Name:      "decode",
			Usage:     "decode a payment token back to its merchant id",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "key-file, k",
					Value: "",
					Usage: "*sealing key `FILE`",
				},
				cli.StringFlag{
					Name:  "token, t",
					Value: "",
					Usage: "*payment `TOKEN` to decode",
				},
				cli.IntFlag{
					Name:  "window, w",
					Value: 0,
					Usage: " freshness window in `SECONDS`",
				},
			},
			Action: runDecode,
		},
		{
			Name:      "audit",
			Usage:     "verify the integrity of a chain backup file",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "data-file, f",
					Value: "",
					Usage: "*chain backup `FILE`",
				},
			},
			Action: runAudit,
		},
		{
			Name:      "balance",
			Usage:     "replay an account balance from a chain backup file",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "data-file, f",
					Value: "",
					Usage: "*chain backup `FILE`",
				},
				cli.StringFlag{
					Name:  "account, a",
					Value: "",
					Usage: "*account identifier (uid or mid) `ACCOUNT`",
				},
			},
			Action: runBalance,
		},
		{
			Name:      "history",
			Usage:     "list the blocks of a chain backup file",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "data-file, f",
					Value: "",
					Usage: "*chain backup `FILE`",
				},
				cli.IntFlag{
					Name:  "count, c",
					Value: 20,
					Usage: " maximum blocks to output `COUNT`",
				},
			},
			Action: runHistory,
		},
		{
			Name:  "version",
			Usage: "display upicore-cli version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	// the ledger and codec packages log through channels, so a
	// quiet throwaway log is set up before any command runs
	logDirectory := ""
	app.Before = func(c *cli.Context) error {
		dir, err := ioutil.TempDir("", app.Name)
		if nil != err {
			return err
		}
		logDirectory = dir
		return logger.Initialise(logger.Configuration{
			Directory: dir,
			File:      "cli.log",
			Size:      100000,
			Count:     10,
			Levels: map[string]string{
				logger.DefaultTag: "critical",
			},
		})
	}
	app.After = func(c *cli.Context) error {
		logger.Finalise()
		if "" != logDirectory {
			os.RemoveAll(logDirectory)
		}
		return nil
	}

	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}
