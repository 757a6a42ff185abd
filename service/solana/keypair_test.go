package solana

import (
	"crypto/ed25519"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testKeypair builds a deterministic 64-byte ed25519 keypair from a seed
// byte, returning the raw bytes and the base58 encoding wallets would emit.
func testKeypair(seedByte byte) ([]byte, string) {
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = seedByte
	}
	priv := ed25519.NewKeyFromSeed(seed)
	return priv, base58.Encode(priv)
}

func TestLoadKeypair_ValidKey(t *testing.T) {
	raw, encoded := testKeypair(0x42)

	key, err := LoadKeypair(encoded)
	require.NoError(t, err)
	require.Len(t, []byte(key), ed25519.PrivateKeySize)

	// The derived public address must be the trailing 32 bytes of the key.
	assert.Equal(t, raw[ed25519.SeedSize:], key.PublicKey().Bytes())
}

func TestLoadKeypair_Pure(t *testing.T) {
	_, encoded := testKeypair(0x07)

	first, err := LoadKeypair(encoded)
	require.NoError(t, err)
	second, err := LoadKeypair(encoded)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, first.PublicKey(), second.PublicKey())
}

func TestLoadKeypair_InvalidEncoding(t *testing.T) {
	// 0, O, I and l are not in the base58 alphabet.
	_, err := LoadKeypair("not-valid-base58-0OIl")
	require.Error(t, err)
	assert.Equal(t, KindInvalidEncoding, KindOf(err))
}

func TestLoadKeypair_WrongLength(t *testing.T) {
	// 63 bytes instead of 64: always InvalidKeyLength regardless of content.
	raw, _ := testKeypair(0x42)
	truncated := base58.Encode(raw[:63])

	_, err := LoadKeypair(truncated)
	require.Error(t, err)
	assert.Equal(t, KindInvalidKeyLength, KindOf(err))

	// Same for a short arbitrary payload.
	_, err = LoadKeypair(base58.Encode([]byte("short")))
	require.Error(t, err)
	assert.Equal(t, KindInvalidKeyLength, KindOf(err))
}

func TestLoadKeypair_MismatchedPublicHalf(t *testing.T) {
	raw, _ := testKeypair(0x42)
	corrupted := make([]byte, len(raw))
	copy(corrupted, raw)
	corrupted[ed25519.SeedSize] ^= 0xff

	_, err := LoadKeypair(base58.Encode(corrupted))
	require.Error(t, err)
	assert.Equal(t, KindKeyConstruction, KindOf(err))
}

func TestParseAddress_Malformed(t *testing.T) {
	_, err := ParseAddress("definitely-not-an-address")
	require.Error(t, err)
	assert.Equal(t, KindInvalidAddress, KindOf(err))
}

func TestParseAddress_Valid(t *testing.T) {
	pub, err := ParseAddress("11111111111111111111111111111111")
	require.NoError(t, err)
	assert.Equal(t, "11111111111111111111111111111111", pub.String())
}
