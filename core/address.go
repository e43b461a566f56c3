package core

// Address codec. Grounded on the hashing idiom of the teacher's
// core/wallet.go (HMAC-SHA512 derivation, hex-encoded addresses) generalized
// to spec's 70-hex-char family-prefixed addresses. SHA-512 is stdlib
// (crypto/sha512): the retrieved pack has no third-party SHA-512
// implementation anywhere — the teacher itself hashes with stdlib
// crypto/sha256 throughout core/ledger.go and core/transactions.go, so stdlib
// here follows the pack's own idiom rather than filling a gap one could fill
// with a library.

import (
	"crypto/sha512"
	"encoding/hex"
)

// Family identifies the namespace a state address belongs to.
type Family string

const (
	FamilyMeasurement Family = "MEASUREMENT"
	FamilyGGO         Family = "GGO"
	FamilySettlement  Family = "SETTLEMENT"
)

// FamilyVersion is the only transaction-family version this processor
// understands (spec.md §4.3, §6).
const FamilyVersion = "0.1"

// AddressLength is the length, in hex characters, of a state address: a
// 6-char family prefix followed by 64 hex chars derived from a public key.
const AddressLength = 70

// FamilyPrefix returns the first six hex characters of SHA-512(name) — the
// namespace prefix every address of that family shares.
func FamilyPrefix(name Family) string {
	sum := sha512.Sum512([]byte(name))
	return hex.EncodeToString(sum[:])[:6]
}

// keyTail returns the first 64 hex characters of SHA-512(publicKey) — the
// owner-derived tail shared by every family's address for that key.
func keyTail(publicKey []byte) string {
	sum := sha512.Sum512(publicKey)
	return hex.EncodeToString(sum[:])[:64]
}

// DeriveAddress computes the canonical address of publicKey within family.
func DeriveAddress(family Family, publicKey []byte) string {
	return FamilyPrefix(family) + keyTail(publicKey)
}

// CheckOwner reports whether address is the canonical address of publicKey
// within family — the self-authentication check spec.md calls "identity is
// authorization" (§9): recompute and compare, never consult an ACL.
func CheckOwner(address string, family Family, publicKey []byte) bool {
	return address == DeriveAddress(family, publicKey)
}

// sameTail reports whether two addresses share the same 64-char key-derived
// tail regardless of family prefix — used to bind a consumer's settlement
// address to their consumption-measurement address (spec.md §4.9).
func sameTail(a, b string) bool {
	if len(a) != AddressLength || len(b) != AddressLength {
		return false
	}
	return a[6:] == b[6:]
}

// decodeSignerPublicKey decodes the hex-encoded signer public key carried on
// a transaction header. The host guarantees this is well-formed (signature
// verification already happened below this layer); a decode failure here is
// therefore an internal condition, not a domain one.
func decodeSignerPublicKey(hexKey string) ([]byte, error) {
	return hex.DecodeString(hexKey)
}
