// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2021 UPI Core Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"math"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/upicore/upicored/digest"
	"github.com/upicore/upicored/fault"
	"github.com/upicore/upicored/ledger"
)

// identifier sizes - external compatibility contract
const (
	IdentifierLength          = 16 // UID and MID: lowercase hex
	SecondaryIdentifierLength = 7  // MMID
)

// authentication attempt limiting
const (
	attemptInterval = time.Second
	attemptBurst    = 10
)

type userRecord struct {
	name   string
	mobile string
	mmid   string

	passwordSalt *salt
	passwordHash [32]byte
	pinSalt      *salt
	pinHash      [32]byte

	limiter *rate.Limiter
}

type merchantRecord struct {
	name string

	passwordSalt *salt
	passwordHash [32]byte

	limiter *rate.Limiter
}

// Registry - identity records and the sole ledger writer
type Registry struct {
	sync.RWMutex // to allow locking

	log *logger.L

	issuerCode string
	issuerId   string
	ledger     *ledger.Ledger

	users     map[string]*userRecord
	merchants map[string]*merchantRecord
	mmidIndex map[string]string
}

// NewRegistry - create a registry bound to its ledger
//
// the issuer code seeds every identifier derivation and names the
// issuance account that funds initial balances
func NewRegistry(issuerCode string, l *ledger.Ledger) (*Registry, error) {
	if "" == issuerCode {
		return nil, fault.RequiredIssuerCode
	}

	r := &Registry{
		log:        logger.New("account"),
		issuerCode: issuerCode,
		issuerId:   deriveIdentifier(issuerCode),
		ledger:     l,
		users:      make(map[string]*userRecord),
		merchants:  make(map[string]*merchantRecord),
		mmidIndex:  make(map[string]string),
	}
	r.log.Infof("registry: issuer account: %s", r.issuerId)
	return r, nil
}

// uid/mid: leading hex of the digest over the concatenated parts
func deriveIdentifier(parts ...string) string {
	data := []byte{}
	for _, part := range parts {
		data = append(data, part...)
	}
	return digest.NewDigest(data).String()[:IdentifierLength]
}

// RegisterUser - derive a UID and store the user record
//
// uid = digest(name ‖ password ‖ issuer code), so registering the same
// name and password twice is a duplicate account
func (r *Registry) RegisterUser(name string, password string, mobile string, pin string, initialBalance float64) (string, error) {
	switch {
	case "" == name:
		return "", fault.RequiredName
	case "" == password:
		return "", fault.RequiredPassword
	case "" == mobile:
		return "", fault.RequiredMobile
	case "" == pin:
		return "", fault.RequiredPin
	}
	if initialBalance < 0 || math.IsNaN(initialBalance) || math.IsInf(initialBalance, 0) {
		return "", fault.InvalidAmount
	}

	r.Lock()
	defer r.Unlock()

	uid := deriveIdentifier(name, password, r.issuerCode)
	if r.exists(uid) {
		return "", fault.AccountAlreadyExists
	}

	mmid := digest.NewDigest([]byte(uid + mobile)).String()[:SecondaryIdentifierLength]

	passwordSalt, err := makeSalt()
	if nil != err {
		return "", err
	}
	passwordHash, err := deriveCredential(password, passwordSalt)
	if nil != err {
		return "", err
	}
	pinSalt, err := makeSalt()
	if nil != err {
		return "", err
	}
	pinHash, err := deriveCredential(pin, pinSalt)
	if nil != err {
		return "", err
	}

	r.users[uid] = &userRecord{
		name:         name,
		mobile:       mobile,
		mmid:         mmid,
		passwordSalt: passwordSalt,
		passwordHash: passwordHash,
		pinSalt:      pinSalt,
		pinHash:      pinHash,
		limiter:      rate.NewLimiter(rate.Every(attemptInterval), attemptBurst),
	}
	r.mmidIndex[mmid] = uid

	if err := r.fund(uid, initialBalance); nil != err {
		delete(r.users, uid)
		delete(r.mmidIndex, mmid)
		return "", err
	}

	r.log.Infof("registered user: %s  mmid: %s", uid, mmid)
	return uid, nil
}

// RegisterMerchant - derive a MID and store the merchant record
func (r *Registry) RegisterMerchant(name string, password string, initialBalance float64) (string, error) {
	switch {
	case "" == name:
		return "", fault.RequiredName
	case "" == password:
		return "", fault.RequiredPassword
	}
	if initialBalance < 0 || math.IsNaN(initialBalance) || math.IsInf(initialBalance, 0) {
		return "", fault.InvalidAmount
	}

	r.Lock()
	defer r.Unlock()

	mid := deriveIdentifier(name, password, r.issuerCode)
	if r.exists(mid) {
		return "", fault.AccountAlreadyExists
	}

	passwordSalt, err := makeSalt()
	if nil != err {
		return "", err
	}
	passwordHash, err := deriveCredential(password, passwordSalt)
	if nil != err {
		return "", err
	}

	r.merchants[mid] = &merchantRecord{
		name:         name,
		passwordSalt: passwordSalt,
		passwordHash: passwordHash,
		limiter:      rate.NewLimiter(rate.Every(attemptInterval), attemptBurst),
	}

	if err := r.fund(mid, initialBalance); nil != err {
		delete(r.merchants, mid)
		return "", err
	}

	r.log.Infof("registered merchant: %s", mid)
	return mid, nil
}

// internal: must hold lock
//
// an initial balance enters through the chain as an issuance transfer
// so that chain-derived balances stay authoritative
func (r *Registry) fund(accountId string, initialBalance float64) error {
	if 0 == initialBalance {
		return nil
	}
	_, err := r.ledger.Append(r.issuerId, accountId, initialBalance, time.Now())
	return err
}

// internal: must hold lock or read lock
func (r *Registry) exists(accountId string) bool {
	if _, ok := r.users[accountId]; ok {
		return true
	}
	if _, ok := r.merchants[accountId]; ok {
		return true
	}
	return accountId == r.issuerId
}

// AuthenticateUser - check a UID and PIN pair
//
// a missing account and a wrong PIN are indistinguishable to the
// caller; attempts beyond the per-account burst are refused outright
func (r *Registry) AuthenticateUser(uid string, pin string) error {
	r.RLock()
	user, ok := r.users[uid]
	r.RUnlock()

	if !ok {
		return fault.InvalidCredentials
	}
	if !user.limiter.Allow() {
		r.log.Warnf("rate limited: %s", uid)
		return fault.RateLimiting
	}
	if !matchCredential(pin, user.pinSalt, user.pinHash) {
		return fault.InvalidCredentials
	}
	return nil
}

// VerifyUserPIN - boolean form of AuthenticateUser for login surfaces
func (r *Registry) VerifyUserPIN(uid string, pin string) bool {
	return nil == r.AuthenticateUser(uid, pin)
}

// AuthenticateMerchant - check a MID and password pair
func (r *Registry) AuthenticateMerchant(mid string, password string) error {
	r.RLock()
	merchant, ok := r.merchants[mid]
	r.RUnlock()

	if !ok {
		return fault.InvalidCredentials
	}
	if !merchant.limiter.Allow() {
		r.log.Warnf("rate limited: %s", mid)
		return fault.RateLimiting
	}
	if !matchCredential(password, merchant.passwordSalt, merchant.passwordHash) {
		return fault.InvalidCredentials
	}
	return nil
}

// VerifyMerchantPassword - boolean form of AuthenticateMerchant
func (r *Registry) VerifyMerchantPassword(mid string, password string) bool {
	return nil == r.AuthenticateMerchant(mid, password)
}

// ProcessTransaction - validate and commit a payment
//
// validation order: credentials, merchant, amount, funds; a failure at
// any step leaves the ledger untouched
func (r *Registry) ProcessTransaction(uid string, mid string, amount float64, pin string) (string, error) {

	if err := r.AuthenticateUser(uid, pin); nil != err {
		return "", err
	}

	r.RLock()
	_, ok := r.merchants[mid]
	r.RUnlock()
	if !ok {
		return "", fault.MerchantNotFound
	}

	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "", fault.InvalidAmount
	}

	tx, err := r.ledger.Transfer(uid, mid, amount, time.Now())
	if nil != err {
		return "", err
	}

	r.log.Infof("payment: %s  payer: %s  payee: %s  amount: %f", tx.TxId, uid, mid, amount)
	return tx.TxId.String(), nil
}

// Balance - chain-derived balance of a registered account
func (r *Registry) Balance(accountId string) (float64, error) {
	r.RLock()
	ok := r.exists(accountId)
	r.RUnlock()

	if !ok {
		return 0, fault.AccountNotFound
	}
	return r.ledger.Balance(accountId), nil
}

// UserByMMID - resolve the secondary identifier to a UID
func (r *Registry) UserByMMID(mmid string) (string, error) {
	r.RLock()
	defer r.RUnlock()

	uid, ok := r.mmidIndex[mmid]
	if !ok {
		return "", fault.AccountNotFound
	}
	return uid, nil
}

// MMID - the secondary identifier of a user
func (r *Registry) MMID(uid string) (string, error) {
	r.RLock()
	defer r.RUnlock()

	user, ok := r.users[uid]
	if !ok {
		return "", fault.AccountNotFound
	}
	return user.mmid, nil
}

// DisplayName - registered name of a user or merchant
func (r *Registry) DisplayName(accountId string) (string, error) {
	r.RLock()
	defer r.RUnlock()

	if user, ok := r.users[accountId]; ok {
		return user.name, nil
	}
	if merchant, ok := r.merchants[accountId]; ok {
		return merchant.name, nil
	}
	return "", fault.AccountNotFound
}

// HasMerchant - existence check without authentication
func (r *Registry) HasMerchant(mid string) bool {
	r.RLock()
	defer r.RUnlock()

	_, ok := r.merchants[mid]
	return ok
}

// IssuerId - the account that mints initial balances
func (r *Registry) IssuerId() string {
	return r.issuerId
}
