// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2021 UPI Core Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vmid

import (
	"encoding/binary"
	"encoding/hex"
	"io/ioutil"
	"sync"
	"time"

	"github.com/bitmark-inc/go-argon2"
	"github.com/bitmark-inc/logger"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/sha3"

	"github.com/upicore/upicored/account"
	"github.com/upicore/upicored/fault"
)

// token geometry
const (
	nonceSize     = 24
	plaintextSize = account.IdentifierLength + 8 // merchant id ‖ big-endian unix seconds

	// TokenLength - hex characters in every token
	TokenLength = 2 * (nonceSize + plaintextSize + secretbox.Overhead)
)

// freshness
const (
	DefaultWindow = 5 * time.Minute
	clockSkew     = time.Minute
)

// the provisioned secret must carry enough entropy to be worth stretching
const minimumKeyFileSize = 32

// salt for stretching the key file content; fixed so the derived key
// is stable across restarts for an unchanged secret
var keySalt = []byte("vmid-key-v1-salt")

// Codec - seals and opens virtual merchant id tokens
type Codec struct {
	sync.RWMutex // to allow locking

	log     *logger.L
	keyFile string
	window  time.Duration
	key     [32]byte
	seen    *gocache.Cache

	// replaced in tests
	now func() time.Time
}

// NewCodec - create a codec keyed from a secret file
//
// a zero or negative window selects the default
func NewCodec(keyFile string, window time.Duration) (*Codec, error) {
	if "" == keyFile {
		return nil, fault.RequiredKeyFile
	}
	if window <= 0 {
		window = DefaultWindow
	}

	c := &Codec{
		log:     logger.New("vmid"),
		keyFile: keyFile,
		window:  window,
		seen:    gocache.New(window, 2*window),
		now:     time.Now,
	}
	if err := c.reloadKey(); nil != err {
		return nil, err
	}
	return c, nil
}

// read the secret file and stretch it into the sealing key
//
// called at construction and again by the rotation watcher; tokens
// issued under a previous key fail authentication after rotation
func (c *Codec) reloadKey() error {
	secret, err := ioutil.ReadFile(c.keyFile)
	if nil != err {
		return err
	}
	if len(secret) < minimumKeyFileSize {
		return fault.InvalidKeyLength
	}

	ctx := &argon2.Context{
		Iterations:  5,
		Memory:      1 << 16,
		Parallelism: 4,
		HashLen:     32,
		Mode:        argon2.ModeArgon2i,
		Version:     argon2.Version13,
	}
	hash, err := argon2.Hash(ctx, secret, keySalt)
	if nil != err {
		return fault.CryptoFailed
	}

	c.Lock()
	copy(c.key[:], hash)
	c.Unlock()

	c.log.Info("sealing key loaded")
	return nil
}

// Encode - seal a merchant id and timestamp into a token
func (c *Codec) Encode(merchantId string, timestamp time.Time) (string, error) {
	if account.IdentifierLength != len(merchantId) {
		return "", fault.InvalidIdentifier
	}

	plaintext := make([]byte, 0, plaintextSize)
	plaintext = append(plaintext, merchantId...)
	scratch := make([]byte, 8)
	binary.BigEndian.PutUint64(scratch, uint64(timestamp.Unix()))
	plaintext = append(plaintext, scratch...)

	c.RLock()
	key := c.key
	c.RUnlock()

	// deterministic synthetic nonce: unique per (merchant, timestamp)
	// pair, repeatable for the same pair
	nonce := deriveNonce(&key, plaintext)

	sealed := secretbox.Seal(nonce[:], plaintext, &nonce, &key)
	return hex.EncodeToString(sealed), nil
}

// Decode - the exact inverse of Encode
//
// recovers the merchant id from an authentic, fresh, unused token;
// anything else is rejected: forged or truncated tokens as a decode
// failure, out-of-window timestamps as expiry, repeats as replay
func (c *Codec) Decode(token string) (string, error) {
	if TokenLength != len(token) {
		return "", fault.TokenDecodeFailed
	}
	sealed, err := hex.DecodeString(token)
	if nil != err {
		return "", fault.TokenDecodeFailed
	}

	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])

	c.RLock()
	key := c.key
	c.RUnlock()

	plaintext, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, &key)
	if !ok || plaintextSize != len(plaintext) {
		return "", fault.TokenDecodeFailed
	}

	merchantId := string(plaintext[:account.IdentifierLength])
	issued := time.Unix(int64(binary.BigEndian.Uint64(plaintext[account.IdentifierLength:])), 0)

	age := c.now().Sub(issued)
	if age > c.window || age < -clockSkew {
		return "", fault.TokenExpired
	}

	if _, found := c.seen.Get(token); found {
		return "", fault.TokenAlreadyUsed
	}
	c.seen.Set(token, struct{}{}, gocache.DefaultExpiration)

	return merchantId, nil
}

// Window - the configured freshness window
func (c *Codec) Window() time.Duration {
	return c.window
}

func deriveNonce(key *[32]byte, plaintext []byte) [nonceSize]byte {
	buffer := make([]byte, 0, len(key)+len(plaintext))
	buffer = append(buffer, key[:]...)
	buffer = append(buffer, plaintext...)
	sum := sha3.Sum256(buffer)

	var nonce [nonceSize]byte
	copy(nonce[:], sum[:nonceSize])
	return nonce
}
