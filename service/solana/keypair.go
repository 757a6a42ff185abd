package solana

import (
	"bytes"
	"crypto/ed25519"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// LoadKeypair decodes a base58-encoded ed25519 keypair (32-byte seed followed
// by the 32-byte public key, as printed by solana-keygen and most wallets).
// It is a pure transformation: no I/O, no logging of key material.
//
// Failure kinds:
//   - KindInvalidEncoding when the string is not valid base58
//   - KindInvalidKeyLength when the decoded length is not 64 bytes
//   - KindKeyConstruction when the public half does not match the seed
func LoadKeypair(encoded string) (solana.PrivateKey, error) {
	raw, err := base58.Decode(encoded)
	if err != nil {
		return nil, wrapError(KindInvalidEncoding, err, "secret key is not valid base58")
	}

	if len(raw) != ed25519.PrivateKeySize {
		return nil, newError(KindInvalidKeyLength,
			"secret key decoded to %d bytes, expected %d", len(raw), ed25519.PrivateKeySize)
	}

	// The trailing 32 bytes must be the public key derived from the seed,
	// otherwise signing would produce signatures the cluster rejects.
	derived := ed25519.NewKeyFromSeed(raw[:ed25519.SeedSize])
	if !bytes.Equal(derived[ed25519.SeedSize:], raw[ed25519.SeedSize:]) {
		return nil, newError(KindKeyConstruction,
			"public key does not match the seed-derived key")
	}

	return solana.PrivateKey(raw), nil
}

// ParseAddress parses a base58-encoded account address. Malformed input
// fails with KindInvalidAddress before any network call is made.
func ParseAddress(encoded string) (solana.PublicKey, error) {
	pub, err := solana.PublicKeyFromBase58(encoded)
	if err != nil {
		return solana.PublicKey{}, wrapError(KindInvalidAddress, err, "invalid account address %q", encoded)
	}
	return pub, nil
}
