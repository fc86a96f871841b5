// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2021 UPI Core Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type NotFoundError GenericError
type ProcessError GenericError

// common errors - keep in alphabetic order
var (
	AccountAlreadyExists = ExistsError("account already exists")
	AccountNotFound      = NotFoundError("account not found")
	BlockNotFound        = NotFoundError("block not found")
	CryptoFailed         = ProcessError("crypto failed")
	IntegrityViolation   = ProcessError("chain integrity violation")
	InvalidAmount        = InvalidError("amount is not a positive finite number")
	InvalidBatchSize     = InvalidError("batch size is invalid")
	InvalidChainFile     = InvalidError("chain file is invalid")
	InvalidConfigFile    = InvalidError("configuration file must return a table")
	InvalidCredentials   = InvalidError("invalid credentials")
	InvalidDataDirectory = InvalidError("data directory is invalid")
	InvalidDuration      = InvalidError("duration is invalid")
	InvalidIdentifier    = InvalidError("identifier length is invalid")
	InvalidKeyLength     = InvalidError("key length is invalid")
	InvalidStructPointer = InvalidError("invalid struct pointer")
	InsufficientFunds    = ProcessError("insufficient funds")
	KeyFileAlreadyExists = ExistsError("key file already exists")
	MerchantNotFound     = NotFoundError("merchant not found")
	NoMerchantBound      = ProcessError("no merchant is bound")
	RateLimiting         = ProcessError("rate limiting")
	RequiredIssuerCode   = InvalidError("issuer code is required")
	RequiredKeyFile      = InvalidError("key file is required")
	RequiredMobile       = InvalidError("mobile number is required")
	RequiredName         = InvalidError("name is required")
	RequiredPassword     = InvalidError("password is required")
	RequiredPin          = InvalidError("pin is required")
	TokenAlreadyUsed     = ProcessError("token already used")
	TokenDecodeFailed    = InvalidError("token decode failed")
	TokenExpired         = ProcessError("token expired")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }

// determine the class of an error
func IsErrExists(e error) bool   { _, ok := e.(ExistsError); return ok }
func IsErrInvalid(e error) bool  { _, ok := e.(InvalidError); return ok }
func IsErrNotFound(e error) bool { _, ok := e.(NotFoundError); return ok }
func IsErrProcess(e error) bool  { _, ok := e.(ProcessError); return ok }
