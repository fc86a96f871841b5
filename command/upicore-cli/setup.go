// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2021 UPI Core Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"text/template"

	"github.com/urfave/cli"

	"github.com/upicore/upicored/fault"
)

const (
	configFilename = "upicored.conf"
	keyFilename    = "token.key"
	keyBytes       = 32
)

// the initial configuration file
//
// every value matches a built-in default except the issuer code
var configTemplate = template.Must(template.New("config").Parse(
	`-- upicored.conf  -*- mode: lua -*-

local M = {}

-- all relative paths are resolved against this directory
-- "." means the directory containing this file
M.data_directory = "."

-- issuing bank identification
M.issuer_code = "{{.IssuerCode}}"

-- pending transactions are sealed into a block at this count
M.batch_threshold = 5

-- sealing key for payment tokens
-- replace the file content to rotate the key
M.key_file = "token.key"

-- payment token freshness window in seconds
M.token_window = 300

-- chain backup file, written on shutdown
M.data_file = "ledger.json"

-- periodic chain integrity audit in seconds
M.audit_interval = 60

M.logging = {
    directory = "log",
    file = "upicored.log",
    size = 1048576,
    count = 10,
    console = false,
    levels = {
        DEFAULT = "info",
    },
}

return M
`))

// create a configuration file and a sealing key in one directory
func runSetup(c *cli.Context) error {

	issuerCode := c.String("issuer")
	if "" == issuerCode {
		return fault.RequiredIssuerCode
	}

	dir := c.String("dir")
	if err := os.MkdirAll(dir, 0700); nil != err {
		return err
	}

	configFile := filepath.Join(dir, configFilename)
	keyFile := filepath.Join(dir, keyFilename)

	// do not overwrite an existing installation
	if _, err := os.Stat(configFile); nil == err {
		return fmt.Errorf("not overwriting existing configuration: %q", configFile)
	}
	if _, err := os.Stat(keyFile); nil == err {
		return fault.KeyFileAlreadyExists
	}

	f, err := os.OpenFile(configFile, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if nil != err {
		return err
	}
	err = configTemplate.Execute(f, struct{ IssuerCode string }{IssuerCode: issuerCode})
	f.Close()
	if nil != err {
		os.Remove(configFile)
		return err
	}

	secret := make([]byte, keyBytes)
	if _, err := rand.Read(secret); nil != err {
		os.Remove(configFile)
		return err
	}
	if err := ioutil.WriteFile(keyFile, []byte(hex.EncodeToString(secret)), 0600); nil != err {
		os.Remove(configFile)
		os.Remove(keyFile)
		return err
	}

	fmt.Fprintf(c.App.Writer, "created configuration: %q\n", configFile)
	fmt.Fprintf(c.App.Writer, "created sealing key:   %q\n", keyFile)
	return nil
}
