// Package fixtures builds the deterministic signer keys spec.md §8's
// end-to-end scenario is written against. Derivation is grounded on the
// teacher's core/wallet.go (SLIP-0010-like hardened HMAC-SHA512 derivation
// over ed25519, via github.com/tyler-smith/go-bip39 for seed handling), cut
// down to exactly the shape the scenario needs: a single hardened level
// keyed off a plain passphrase seed, not the wallet's full BIP-39
// mnemonic/account/index/address scheme, since this domain derives
// addresses from DeriveAddress(family, pubkey), not the wallet's own
// RIPEMD-160 account address.
package fixtures

import (
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"errors"

	bip39 "github.com/tyler-smith/go-bip39"
)

const (
	hardenedOffset uint32 = 0x80000000
	masterHMACKey         = "ed25519 seed"
)

// MasterKey holds the root key material derived from a passphrase. Child
// keys are derived from it with ChildKey; MasterKey itself signs nothing.
type MasterKey struct {
	key   []byte
	chain []byte
}

// MasterKeyFromPassphrase seeds a MasterKey from an arbitrary passphrase,
// via BIP-39's seed KDF (no mnemonic wordlist involved — passphrase stands
// in for the mnemonic). This matches spec.md §8's literal
// `master seeded from "bfdgafgaertaehtaha43514r<aefag"`.
func MasterKeyFromPassphrase(passphrase string) *MasterKey {
	seed := bip39.NewSeed(passphrase, "")
	i := hmacSHA512([]byte(masterHMACKey), seed)
	return &MasterKey{key: i[:32], chain: i[32:]}
}

// ChildKey derives ed25519 key pair index under the master key, always as
// a hardened child: ed25519 has no defined unhardened derivation.
func (m *MasterKey) ChildKey(index uint32) (*SignerKey, error) {
	key, _, err := derivePrivate(m.key, m.chain, index|hardenedOffset)
	if err != nil {
		return nil, err
	}
	priv := ed25519.NewKeyFromSeed(key)
	return &SignerKey{Private: priv, Public: priv.Public().(ed25519.PublicKey)}, nil
}

// SignerKey is one derived ed25519 key pair, usable both to sign a
// transaction's payload and, via its Public field, to compute the
// addresses that transaction is authorized to touch.
type SignerKey struct {
	Private ed25519.PrivateKey
	Public  ed25519.PublicKey
}

// Sign returns the ed25519 signature over msg.
func (k *SignerKey) Sign(msg []byte) []byte {
	return ed25519.Sign(k.Private, msg)
}

func derivePrivate(parentKey, parentChain []byte, index uint32) (key, chain []byte, err error) {
	if index < hardenedOffset {
		return nil, nil, errors.New("fixtures: non-hardened derivation not supported for ed25519")
	}
	data := make([]byte, 1+32+4)
	copy(data[1:], parentKey)
	binary.BigEndian.PutUint32(data[33:], index)
	i := hmacSHA512(parentChain, data)
	return i[:32], i[32:], nil
}

func hmacSHA512(key, data []byte) []byte {
	h := hmac.New(sha512.New, key)
	h.Write(data)
	return h.Sum(nil)
}
