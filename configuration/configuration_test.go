// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2021 UPI Core Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/upicore/upicored/configuration"
	"github.com/upicore/upicored/fault"
	"github.com/upicore/upicored/ledger"
	"github.com/upicore/upicored/vmid"
)

// write a Lua config into a fresh directory and return the file name
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir, err := ioutil.TempDir("", "configuration-test")
	if nil != err {
		t.Fatalf("temp dir error: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	fileName := filepath.Join(dir, "upicored.conf")
	if err := ioutil.WriteFile(fileName, []byte(content), 0600); nil != err {
		t.Fatalf("write config error: %v", err)
	}
	return fileName
}

const minimalConfig = `
local M = {}
M.data_directory = "."
M.issuer_code = "UPIC0001234"
return M
`

func TestMinimalConfiguration(t *testing.T) {
	fileName := writeConfig(t, minimalConfig)

	options, err := configuration.GetConfiguration(fileName)
	assert.Nil(t, err, "configuration error")

	assert.Equal(t, "UPIC0001234", options.IssuerCode, "issuer code")
	assert.Equal(t, ledger.DefaultBatchThreshold, options.BatchThreshold, "batch threshold default")
	assert.Equal(t, vmid.DefaultWindow, options.TokenWindowDuration(), "token window default")
	assert.Equal(t, time.Minute, options.AuditIntervalDuration(), "audit interval default")

	dir := filepath.Dir(fileName)
	assert.Equal(t, filepath.Join(dir, "token.key"), options.KeyFile, "key file path")
	assert.Equal(t, filepath.Join(dir, "ledger.json"), options.DataFile, "data file path")
	assert.Equal(t, filepath.Join(dir, "log"), options.Logging.Directory, "log directory path")

	info, err := os.Stat(options.Logging.Directory)
	assert.Nil(t, err, "log directory was not created")
	assert.True(t, info.IsDir(), "log directory is not a directory")
}

func TestComputedConfiguration(t *testing.T) {
	fileName := writeConfig(t, `
local M = {}
M.data_directory = "."
M.issuer_code = "UPIC" .. "9999999"
M.batch_threshold = 2 * 4
M.key_file = "secrets/sealing.key"
M.token_window = 90
M.audit_interval = 5
M.logging = {
    file = "node.log",
    levels = {
        DEFAULT = "debug",
    },
}
return M
`)

	options, err := configuration.GetConfiguration(fileName)
	assert.Nil(t, err, "configuration error")

	assert.Equal(t, "UPIC9999999", options.IssuerCode, "issuer code")
	assert.Equal(t, 8, options.BatchThreshold, "batch threshold")
	assert.Equal(t, 90*time.Second, options.TokenWindowDuration(), "token window")
	assert.Equal(t, 5*time.Second, options.AuditIntervalDuration(), "audit interval")
	assert.Equal(t, "node.log", options.Logging.File, "log file")
	assert.Equal(t, "debug", options.Logging.Levels["DEFAULT"], "log level")

	dir := filepath.Dir(fileName)
	assert.Equal(t, filepath.Join(dir, "secrets", "sealing.key"), options.KeyFile, "key file path")
}

func TestConfigurationValidation(t *testing.T) {
	testData := []struct {
		name    string
		content string
		err     error
	}{
		{
			name: "missing issuer code",
			content: `
local M = {}
M.data_directory = "."
return M
`,
			err: fault.RequiredIssuerCode,
		},
		{
			name: "zero batch threshold",
			content: `
local M = {}
M.data_directory = "."
M.issuer_code = "UPIC0001234"
M.batch_threshold = 0
return M
`,
			err: fault.InvalidBatchSize,
		},
		{
			name: "blank key file",
			content: `
local M = {}
M.data_directory = "."
M.issuer_code = "UPIC0001234"
M.key_file = ""
return M
`,
			err: fault.RequiredKeyFile,
		},
		{
			name: "negative token window",
			content: `
local M = {}
M.data_directory = "."
M.issuer_code = "UPIC0001234"
M.token_window = -1
return M
`,
			err: fault.InvalidDuration,
		},
		{
			name: "missing data directory",
			content: `
local M = {}
M.issuer_code = "UPIC0001234"
return M
`,
			err: fault.InvalidDataDirectory,
		},
		{
			name: "not a table",
			content: `
return 42
`,
			err: fault.InvalidConfigFile,
		},
	}

	for i, item := range testData {
		fileName := writeConfig(t, item.content)
		_, err := configuration.GetConfiguration(fileName)
		assert.Equal(t, item.err, err, "%d: %s", i, item.name)
	}
}

func TestParseRequiresStructPointer(t *testing.T) {
	fileName := writeConfig(t, minimalConfig)

	var notAStruct int
	err := configuration.ParseConfigurationFile(fileName, &notAStruct)
	assert.Equal(t, fault.InvalidStructPointer, err, "non-struct accepted")

	err = configuration.ParseConfigurationFile(fileName, configuration.Configuration{})
	assert.Equal(t, fault.InvalidStructPointer, err, "non-pointer accepted")
}

func TestMissingConfigurationFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "configuration-test")
	assert.Nil(t, err, "temp dir error")
	defer os.RemoveAll(dir)

	_, err = configuration.GetConfiguration(filepath.Join(dir, "no-such.conf"))
	assert.NotNil(t, err, "missing file accepted")
}
