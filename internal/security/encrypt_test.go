// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package security

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// =============================================================================
// KEY DERIVATION TESTS
// =============================================================================

// TestDeriveKey_Deterministic tests that PBKDF2 key derivation is deterministic.
func TestDeriveKey_Deterministic(t *testing.T) {
	material := []byte("machine_key_material_for_tests!!")
	salt := []byte("test_salt_value!")

	key1 := DeriveKey(material, salt)
	key2 := DeriveKey(material, salt)
	require.True(t, bytes.Equal(key1, key2), "Same material/salt should derive same key")

	key3 := DeriveKey(material, []byte("different_salt!!"))
	require.False(t, bytes.Equal(key1, key3), "Different salt should derive different key")

	key4 := DeriveKey([]byte("other material"), salt)
	require.False(t, bytes.Equal(key1, key4), "Different material should derive different key")
}

// TestDeriveKey_Length tests that derived keys are AES-256 sized.
func TestDeriveKey_Length(t *testing.T) {
	key := DeriveKey([]byte("material"), []byte("salt"))
	require.Equal(t, KeySize, len(key), "Derived key should be %d bytes (256 bits)", KeySize)
}

// =============================================================================
// KEEPER TESTS
// =============================================================================

// TestKeeper_RoundTrip tests that encrypted values decrypt back to the original.
func TestKeeper_RoundTrip(t *testing.T) {
	keeper, err := NewKeeper(t.TempDir())
	require.NoError(t, err)

	plaintexts := []string{
		"sk-or-v1-abc123",
		"short",
		strings.Repeat("long-key-", 100),
		"unicode: héllo wörld 日本語",
	}

	for _, pt := range plaintexts {
		enc, err := keeper.EncryptString(pt)
		require.NoError(t, err)
		require.True(t, IsEncrypted(enc), "Encrypted value should carry the prefix")
		require.NotContains(t, enc, pt, "Ciphertext must not contain plaintext")

		dec, err := keeper.DecryptString(enc)
		require.NoError(t, err)
		require.Equal(t, pt, dec)
	}
}

// TestKeeper_EmptyString tests that empty credentials are stored as-is.
func TestKeeper_EmptyString(t *testing.T) {
	keeper, err := NewKeeper(t.TempDir())
	require.NoError(t, err)

	enc, err := keeper.EncryptString("")
	require.NoError(t, err)
	require.Equal(t, "", enc)
}

// TestKeeper_PlaintextPassthrough tests that values without the ENC: prefix
// are returned unchanged.
func TestKeeper_PlaintextPassthrough(t *testing.T) {
	keeper, err := NewKeeper(t.TempDir())
	require.NoError(t, err)

	dec, err := keeper.DecryptString("sk-or-v1-legacy-plaintext")
	require.NoError(t, err)
	require.Equal(t, "sk-or-v1-legacy-plaintext", dec)
}

// TestKeeper_NonceUniqueness tests that encrypting the same plaintext twice
// yields different ciphertexts.
func TestKeeper_NonceUniqueness(t *testing.T) {
	keeper, err := NewKeeper(t.TempDir())
	require.NoError(t, err)

	enc1, err := keeper.EncryptString("same plaintext")
	require.NoError(t, err)
	enc2, err := keeper.EncryptString("same plaintext")
	require.NoError(t, err)
	require.NotEqual(t, enc1, enc2, "Nonce reuse would repeat ciphertexts")
}

// TestKeeper_Tampering tests that modified ciphertext fails authentication.
func TestKeeper_Tampering(t *testing.T) {
	keeper, err := NewKeeper(t.TempDir())
	require.NoError(t, err)

	enc, err := keeper.Encrypt([]byte("sensitive"))
	require.NoError(t, err)

	enc[len(enc)-1] ^= 0xFF
	_, err = keeper.Decrypt(enc)
	require.ErrorIs(t, err, ErrDecryptionFailed)
}

// TestKeeper_ShortCiphertext tests that truncated input is rejected.
func TestKeeper_ShortCiphertext(t *testing.T) {
	keeper, err := NewKeeper(t.TempDir())
	require.NoError(t, err)

	_, err = keeper.Decrypt([]byte("short"))
	require.ErrorIs(t, err, ErrInvalidCiphertext)
}

// TestKeeper_KeyPersistence tests that a new Keeper over the same directory
// can decrypt values written by the previous one.
func TestKeeper_KeyPersistence(t *testing.T) {
	dir := t.TempDir()

	k1, err := NewKeeper(dir)
	require.NoError(t, err)
	enc, err := k1.EncryptString("persisted secret")
	require.NoError(t, err)

	k2, err := NewKeeper(dir)
	require.NoError(t, err)
	dec, err := k2.DecryptString(enc)
	require.NoError(t, err)
	require.Equal(t, "persisted secret", dec)
}

// TestKeeper_KeyFilePermissions tests that the key file is owner-only.
func TestKeeper_KeyFilePermissions(t *testing.T) {
	dir := t.TempDir()
	_, err := NewKeeper(dir)
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(dir, "machine.key"))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm(), "Key file must be 0600")
}

// TestZeroBytes tests that sensitive buffers are wiped.
func TestZeroBytes(t *testing.T) {
	b := []byte{1, 2, 3, 4}
	ZeroBytes(b)
	for i, v := range b {
		require.Zero(t, v, "byte %d not zeroed", i)
	}
}
