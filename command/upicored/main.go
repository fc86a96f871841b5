// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2021 UPI Core Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/upicore/upicored/account"
	"github.com/upicore/upicored/background"
	"github.com/upicore/upicored/configuration"
	"github.com/upicore/upicored/ledger"
	"github.com/upicore/upicored/terminal"
	"github.com/upicore/upicored/vmid"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	// these commands do not require the configuration
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := configuration.GetConfiguration(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// these commands require the configuration and
	// perform enquiries on the configuration
	if len(arguments) > 0 && processConfigCommand(arguments, theConfiguration) {
		return
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)

	// ------------------
	// start of real main
	// ------------------

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if err != nil {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	// restore the chain from the data file of a previous run,
	// or anchor a new one on genesis
	var theLedger *ledger.Ledger
	if _, err := os.Stat(theConfiguration.DataFile); nil == err {
		theLedger, err = ledger.LoadFromFile(theConfiguration.DataFile)
		if nil != err {
			log.Criticalf("chain restore error: %s", err)
			exitwithstatus.Message("%s: failed to restore chain from: %q  error: %s", program, theConfiguration.DataFile, err)
		}
		log.Infof("restored chain: height: %d", theLedger.Height())
	} else {
		theLedger = ledger.New(theConfiguration.BatchThreshold)
	}

	registry, err := account.NewRegistry(theConfiguration.IssuerCode, theLedger)
	if nil != err {
		log.Criticalf("registry error: %s", err)
		exitwithstatus.Message("%s: registry error: %s", program, err)
	}

	codec, err := vmid.NewCodec(theConfiguration.KeyFile, theConfiguration.TokenWindowDuration())
	if nil != err {
		log.Criticalf("codec error: %s", err)
		exitwithstatus.Message("%s: codec error: %s  (run: %s gen-key %q)", program, err, program, theConfiguration.KeyFile)
	}

	// these commands run against the restored chain
	if len(arguments) > 0 && processDataCommand(log, arguments, theLedger) {
		return
	}

	watcher, err := codec.NewRotationWatcher()
	if nil != err {
		log.Criticalf("rotation watcher error: %s", err)
		exitwithstatus.Message("%s: rotation watcher error: %s", program, err)
	}

	processes := background.Processes{
		watcher,
		ledger.NewAuditor(theLedger, theConfiguration.AuditIntervalDuration()),
	}
	bg := background.Start(processes, nil)
	defer bg.Stop()

	// the interactive terminal owns stdin; a signal or its quit
	// command ends the run
	session := terminal.NewSession(registry, codec)
	consoleDone := make(chan struct{})
	go runConsole(log, session, registry, theLedger, consoleDone)

	sigChannel := make(chan os.Signal, 1)
	signal.Notify(sigChannel, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChannel:
		log.Infof("signal: %v", sig)
	case <-consoleDone:
		log.Info("console finished")
	}

	if err := theLedger.SaveToFile(theConfiguration.DataFile); nil != err {
		log.Criticalf("chain save error: %s", err)
		exitwithstatus.Message("%s: failed to save chain to: %q  error: %s", program, theConfiguration.DataFile, err)
	}
	log.Info("shutting down…")
}
