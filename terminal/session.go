// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2021 UPI Core Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package terminal

import (
	"sync"
	"time"

	"github.com/upicore/upicored/account"
	"github.com/upicore/upicored/fault"
	"github.com/upicore/upicored/vmid"
)

// Session - point-of-sale state for one merchant login
//
// states: unbound → bound (merchant login) → unbound (logout)
type Session struct {
	sync.Mutex // to allow locking

	registry *account.Registry
	codec    *vmid.Codec
	boundMid string
}

// NewSession - create an unbound session
func NewSession(registry *account.Registry, codec *vmid.Codec) *Session {
	return &Session{
		registry: registry,
		codec:    codec,
	}
}

// BindMerchant - attach a merchant to this session
//
// the credential check is the registry's; the session only records the
// binding
func (s *Session) BindMerchant(mid string, password string) error {
	if err := s.registry.AuthenticateMerchant(mid, password); nil != err {
		return err
	}

	s.Lock()
	s.boundMid = mid
	s.Unlock()
	return nil
}

// Logout - clear the binding
func (s *Session) Logout() {
	s.Lock()
	s.boundMid = ""
	s.Unlock()
}

// BoundMerchant - the current binding, if any
func (s *Session) BoundMerchant() (string, bool) {
	s.Lock()
	defer s.Unlock()

	return s.boundMid, "" != s.boundMid
}

// IssueToken - seal the bound merchant into a transport token
//
// the caller renders the token into a scannable code; rendering is not
// this package's concern
func (s *Session) IssueToken() (string, error) {
	mid, ok := s.BoundMerchant()
	if !ok {
		return "", fault.NoMerchantBound
	}
	return s.codec.Encode(mid, time.Now())
}

// SubmitPayment - decode a scanned token and forward the payment
func (s *Session) SubmitPayment(token string, payerId string, amount float64, pin string) (string, error) {
	mid, err := s.codec.Decode(token)
	if nil != err {
		return "", err
	}
	if !s.registry.HasMerchant(mid) {
		return "", fault.MerchantNotFound
	}
	return s.registry.ProcessTransaction(payerId, mid, amount, pin)
}

// MerchantBalance - balance of the bound merchant
func (s *Session) MerchantBalance() (float64, error) {
	mid, ok := s.BoundMerchant()
	if !ok {
		return 0, fault.NoMerchantBound
	}
	return s.registry.Balance(mid)
}
