// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2021 UPI Core Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package terminal_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"

	"github.com/upicore/upicored/account"
	"github.com/upicore/upicored/fault"
	"github.com/upicore/upicored/ledger"
	"github.com/upicore/upicored/terminal"
	"github.com/upicore/upicored/vmid"
)

func TestMain(m *testing.M) {
	dir, err := ioutil.TempDir("", "terminal-test")
	if nil != err {
		panic(err)
	}
	err = logger.Initialise(logger.Configuration{
		Directory: dir,
		File:      "test.log",
		Size:      50000,
		Count:     10,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	})
	if nil != err {
		panic(err)
	}

	rc := m.Run()

	logger.Finalise()
	os.RemoveAll(dir)
	os.Exit(rc)
}

type fixture struct {
	registry *account.Registry
	codec    *vmid.Codec
	session  *terminal.Session
	uid      string
	mid      string
}

func setup(t *testing.T) *fixture {
	t.Helper()

	dir, err := ioutil.TempDir("", "terminal-key")
	if nil != err {
		t.Fatalf("temp dir error: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	keyFile := filepath.Join(dir, "token.key")
	if err := ioutil.WriteFile(keyFile, []byte("0123456789abcdef0123456789abcdef"), 0600); nil != err {
		t.Fatalf("write key error: %v", err)
	}

	registry, err := account.NewRegistry("UPIC0001234", ledger.New(0))
	if nil != err {
		t.Fatalf("new registry error: %v", err)
	}
	codec, err := vmid.NewCodec(keyFile, 0)
	if nil != err {
		t.Fatalf("new codec error: %v", err)
	}

	uid, err := registry.RegisterUser("alice", "hunter2", "5550100200", "1234", 100)
	if nil != err {
		t.Fatalf("register user error: %v", err)
	}
	mid, err := registry.RegisterMerchant("shop", "secret", 0)
	if nil != err {
		t.Fatalf("register merchant error: %v", err)
	}

	return &fixture{
		registry: registry,
		codec:    codec,
		session:  terminal.NewSession(registry, codec),
		uid:      uid,
		mid:      mid,
	}
}

func TestUnboundSession(t *testing.T) {
	f := setup(t)

	_, bound := f.session.BoundMerchant()
	assert.False(t, bound, "new session is bound")

	_, err := f.session.IssueToken()
	assert.Equal(t, fault.NoMerchantBound, err, "unbound session issued a token")

	_, err = f.session.MerchantBalance()
	assert.Equal(t, fault.NoMerchantBound, err, "unbound session has a merchant balance")
}

func TestBindMerchant(t *testing.T) {
	f := setup(t)

	err := f.session.BindMerchant(f.mid, "wrong")
	assert.Equal(t, fault.InvalidCredentials, err, "wrong password bound")
	_, bound := f.session.BoundMerchant()
	assert.False(t, bound, "failed bind left the session bound")

	assert.Nil(t, f.session.BindMerchant(f.mid, "secret"), "bind error")
	mid, bound := f.session.BoundMerchant()
	assert.True(t, bound, "session not bound after login")
	assert.Equal(t, f.mid, mid, "bound to wrong merchant")

	f.session.Logout()
	_, bound = f.session.BoundMerchant()
	assert.False(t, bound, "logout did not unbind")
	_, err = f.session.IssueToken()
	assert.Equal(t, fault.NoMerchantBound, err, "token issued after logout")
}

// sessions must not share merchant bindings
func TestSessionIsolation(t *testing.T) {
	f := setup(t)
	otherMid, err := f.registry.RegisterMerchant("cafe", "beans", 0)
	assert.Nil(t, err, "register merchant error")

	one := terminal.NewSession(f.registry, f.codec)
	two := terminal.NewSession(f.registry, f.codec)

	assert.Nil(t, one.BindMerchant(f.mid, "secret"), "bind one error")
	assert.Nil(t, two.BindMerchant(otherMid, "beans"), "bind two error")

	boundOne, _ := one.BoundMerchant()
	boundTwo, _ := two.BoundMerchant()
	assert.Equal(t, f.mid, boundOne, "session one rebound")
	assert.Equal(t, otherMid, boundTwo, "session two rebound")

	two.Logout()
	_, stillBound := one.BoundMerchant()
	assert.True(t, stillBound, "logout of one session unbound another")
}

// register alice with 100, shop with 0; bind, issue, pay 30; 70 / 30
func TestEndToEndPayment(t *testing.T) {
	f := setup(t)

	assert.Nil(t, f.session.BindMerchant(f.mid, "secret"), "bind error")

	token, err := f.session.IssueToken()
	assert.Nil(t, err, "issue token error")
	assert.Equal(t, vmid.TokenLength, len(token), "wrong token length")

	txId, err := f.session.SubmitPayment(token, f.uid, 30, "1234")
	assert.Nil(t, err, "payment error")
	assert.Equal(t, 64, len(txId), "wrong transaction id length")

	balance, err := f.registry.Balance(f.uid)
	assert.Nil(t, err, "balance error")
	assert.Equal(t, 70.0, balance, "payer balance after payment")

	balance, err = f.session.MerchantBalance()
	assert.Nil(t, err, "merchant balance error")
	assert.Equal(t, 30.0, balance, "merchant balance after payment")
}

// payment flows from the token, not from the session state
func TestSubmitPaymentWithoutBinding(t *testing.T) {
	f := setup(t)

	assert.Nil(t, f.session.BindMerchant(f.mid, "secret"), "bind error")
	token, err := f.session.IssueToken()
	assert.Nil(t, err, "issue token error")
	f.session.Logout()

	_, err = f.session.SubmitPayment(token, f.uid, 10, "1234")
	assert.Nil(t, err, "unbound submit failed")

	balance, _ := f.registry.Balance(f.mid)
	assert.Equal(t, 10.0, balance, "merchant balance after unbound submit")
}

func TestSubmitPaymentFailures(t *testing.T) {
	f := setup(t)
	assert.Nil(t, f.session.BindMerchant(f.mid, "secret"), "bind error")

	_, err := f.session.SubmitPayment("not-a-token", f.uid, 10, "1234")
	assert.Equal(t, fault.TokenDecodeFailed, err, "garbage token accepted")

	token, _ := f.session.IssueToken()
	_, err = f.session.SubmitPayment(token, f.uid, 10, "9999")
	assert.Equal(t, fault.InvalidCredentials, err, "wrong pin accepted")

	// the failed attempt burned the token; re-encoding within the
	// same second yields the identical token, so a retry is a replay
	_, err = f.session.SubmitPayment(token, f.uid, 10, "1234")
	assert.Equal(t, fault.TokenAlreadyUsed, err, "token reused after a failed attempt")

	balance, _ := f.registry.Balance(f.uid)
	assert.Equal(t, 100.0, balance, "failed submissions moved money")

	// overdraw needs an unburned token
	g := setup(t)
	assert.Nil(t, g.session.BindMerchant(g.mid, "secret"), "bind error")
	token, _ = g.session.IssueToken()
	_, err = g.session.SubmitPayment(token, g.uid, 1000, "1234")
	assert.Equal(t, fault.InsufficientFunds, err, "overdraw accepted")

	balance, _ = g.registry.Balance(g.uid)
	assert.Equal(t, 100.0, balance, "overdraw moved money")
}
