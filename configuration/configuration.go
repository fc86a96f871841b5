// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2021 UPI Core Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"os"
	"path/filepath"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/upicore/upicored/fault"
	"github.com/upicore/upicored/ledger"
	"github.com/upicore/upicored/vmid"
)

// basic defaults (directories and files are relative to the "DataDirectory" from the configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultKeyFile  = "token.key"
	defaultDataFile = "ledger.json"

	defaultLogDirectory = "log"
	defaultLogFile      = "upicored.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size
)

// to hold log levels
type LoglevelMap map[string]string

var defaultLogLevels = LoglevelMap{
	logger.DefaultTag: "info",
}

// Configuration - the assembled settings for one ledger node
type Configuration struct {
	DataDirectory string `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string `gluamapper:"pidfile" json:"pidfile"`

	IssuerCode     string `gluamapper:"issuer_code" json:"issuer_code"`
	BatchThreshold int    `gluamapper:"batch_threshold" json:"batch_threshold"`
	DataFile       string `gluamapper:"data_file" json:"data_file"`

	KeyFile     string `gluamapper:"key_file" json:"key_file"`
	TokenWindow int    `gluamapper:"token_window" json:"token_window"` // seconds

	AuditInterval int `gluamapper:"audit_interval" json:"audit_interval"` // seconds

	Logging logger.Configuration `gluamapper:"logging" json:"logging"`
}

// TokenWindowDuration - the token freshness window as a duration
func (c *Configuration) TokenWindowDuration() time.Duration {
	return time.Duration(c.TokenWindow) * time.Second
}

// AuditIntervalDuration - the audit period as a duration
func (c *Configuration) AuditIntervalDuration() time.Duration {
	return time.Duration(c.AuditInterval) * time.Second
}

// GetConfiguration - read, decode and verify the configuration
func GetConfiguration(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{

		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default

		BatchThreshold: ledger.DefaultBatchThreshold,
		DataFile:       defaultDataFile,

		KeyFile:     defaultKeyFile,
		TokenWindow: int(vmid.DefaultWindow / time.Second),

		AuditInterval: 60,

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	if err := ParseConfigurationFile(configurationFileName, options); nil != err {
		return nil, err
	}

	if "" == options.IssuerCode {
		return nil, fault.RequiredIssuerCode
	}
	if options.BatchThreshold <= 0 {
		return nil, fault.InvalidBatchSize
	}
	if "" == options.KeyFile {
		return nil, fault.RequiredKeyFile
	}
	if "" == options.DataFile {
		return nil, fault.InvalidChainFile
	}
	if options.TokenWindow < 0 || options.AuditInterval < 0 {
		return nil, fault.InvalidDuration
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fault.InvalidDataDirectory
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = filepath.Clean(options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	fileInfo, err := os.Stat(options.DataDirectory)
	if nil != err {
		return nil, err
	}
	if !fileInfo.IsDir() {
		return nil, fault.InvalidDataDirectory
	}

	// force all relevant items to be absolute paths
	// if not, assign them to the data directory
	mustBeAbsolute := []*string{
		&options.KeyFile,
		&options.DataFile,
		&options.Logging.Directory,
	}
	for _, f := range mustBeAbsolute {
		*f = ensureAbsolute(options.DataDirectory, *f)
	}

	// optional absolute paths i.e. blank or an absolute path
	if "" != options.PidFile {
		options.PidFile = ensureAbsolute(options.DataDirectory, options.PidFile)
	}

	// create the log directory if it does not already exist
	if err := os.MkdirAll(options.Logging.Directory, 0700); nil != err {
		return nil, err
	}

	// done
	return options, nil
}

// ensureAbsolute - prepend the directory to any relative file path
func ensureAbsolute(directory string, filePath string) string {
	if !filepath.IsAbs(filePath) {
		filePath = filepath.Join(directory, filePath)
	}
	return filepath.Clean(filePath)
}
