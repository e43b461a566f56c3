package fixtures

// Builders for signed transactions matching spec.md §8's literal scenario,
// grounded on original_source's test/mocks.py shape: a small helper that
// marshals a payload and wraps it with the signer's public key, rather than
// each test hand-assembling core.Transaction from scratch.

import (
	"encoding/hex"
	"encoding/json"

	"github.com/project-origin/ggo-ledger/core"
)

// Tx builds a core.Transaction for family/version, JSON-encoding payload
// and attaching signer's hex-encoded public key as the header's signer.
func Tx(signer *SignerKey, family string, payload any) (*core.Transaction, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &core.Transaction{
		Header: core.TransactionHeader{
			SignerPublicKey: hex.EncodeToString(signer.Public),
			FamilyName:      family,
			FamilyVersion:   core.FamilyVersion,
		},
		Payload: data,
	}, nil
}

// PublicKeyHex returns signer's hex-encoded ed25519 public key, the form
// every TransactionHeader.SignerPublicKey and address derivation expects.
func PublicKeyHex(signer *SignerKey) string {
	return hex.EncodeToString(signer.Public)
}
