// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/crypto/pbkdf2"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// EncryptedPrefix marks a value as encrypted (format: ENC:base64(nonce|ciphertext|tag))
const EncryptedPrefix = "ENC:"

// NonceSize is the size of the nonce/IV for AES-GCM (12 bytes / 96 bits)
const NonceSize = 12

// KeySize is the size of the AES-256 key (32 bytes / 256 bits)
const KeySize = 32

// SaltSize is the size of the salt for key derivation (32 bytes)
const SaltSize = 32

// PBKDF2Iterations is the number of iterations for PBKDF2 key derivation.
// OWASP 2023 recommends 600,000+ for PBKDF2-SHA-256 to provide adequate
// resistance against brute-force attacks with modern hardware.
const PBKDF2Iterations = 600000

// keyFileName holds the random machine key material inside the data directory.
const keyFileName = "machine.key"

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrInvalidCiphertext indicates the ciphertext format is invalid
	ErrInvalidCiphertext = errors.New("invalid ciphertext format")
	// ErrDecryptionFailed indicates decryption failed (wrong key or tampered data)
	ErrDecryptionFailed = errors.New("decryption failed: authentication tag mismatch")
)

// =============================================================================
// SECURITY HELPER FUNCTIONS
// =============================================================================

// ZeroBytes securely zeros sensitive byte slices to prevent memory disclosure.
// SECURITY: Zero key material to prevent memory disclosure via crash dumps.
func ZeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// DeriveKey derives an AES-256 key from key material and a salt using
// PBKDF2-SHA-256.
func DeriveKey(material, salt []byte) []byte {
	return pbkdf2.Key(material, salt, PBKDF2Iterations, KeySize, sha256.New)
}

// IsEncrypted checks if a string value is encrypted (has ENC: prefix).
func IsEncrypted(value string) bool {
	return strings.HasPrefix(value, EncryptedPrefix)
}

// =============================================================================
// KEEPER
// =============================================================================

// Keeper encrypts and decrypts credential strings using AES-256-GCM with a
// key derived from per-machine key material stored on disk.
type Keeper struct {
	mu     sync.RWMutex
	aead   cipher.AEAD
	keyDir string
}

// NewKeeper opens (or creates) the key material under dir and returns a ready
// Keeper. The key file and the directory are created with restrictive
// permissions on first use.
func NewKeeper(dir string) (*Keeper, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create key directory: %w", err)
	}

	material, salt, err := loadOrCreateKeyMaterial(filepath.Join(dir, keyFileName))
	if err != nil {
		return nil, err
	}

	key := DeriveKey(material, salt)
	// SECURITY: Zero key material to prevent memory disclosure
	defer ZeroBytes(key)
	defer ZeroBytes(material)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &Keeper{aead: aead, keyDir: dir}, nil
}

// loadOrCreateKeyMaterial reads the key file, generating it when absent.
// File layout: salt (32 bytes) followed by random key material (32 bytes).
func loadOrCreateKeyMaterial(path string) (material, salt []byte, err error) {
	data, err := os.ReadFile(path)
	if err == nil {
		if len(data) != SaltSize+KeySize {
			return nil, nil, ErrInvalidCiphertext
		}
		return data[SaltSize:], data[:SaltSize], nil
	}
	if !os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("failed to read key file: %w", err)
	}

	buf := make([]byte, SaltSize+KeySize)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return nil, nil, fmt.Errorf("failed to generate key material: %w", err)
	}
	// SECURITY: 0600 so only the owner can read the key material.
	if err := os.WriteFile(path, buf, 0600); err != nil {
		return nil, nil, fmt.Errorf("failed to write key file: %w", err)
	}
	return buf[SaltSize:], buf[:SaltSize], nil
}

// Encrypt encrypts plaintext using AES-256-GCM.
// Returns: nonce || ciphertext || tag
func (k *Keeper) Encrypt(plaintext []byte) ([]byte, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return k.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt decrypts ciphertext encrypted with AES-256-GCM.
// Input format: nonce || ciphertext || tag
func (k *Keeper) Decrypt(ciphertext []byte) ([]byte, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if len(ciphertext) < NonceSize {
		return nil, ErrInvalidCiphertext
	}

	nonce := ciphertext[:NonceSize]
	plaintext, err := k.aead.Open(nil, nonce, ciphertext[NonceSize:], nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

// EncryptString encrypts a string and returns base64-encoded ciphertext with
// the ENC: prefix. Empty strings are stored as-is.
func (k *Keeper) EncryptString(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	ciphertext, err := k.Encrypt([]byte(plaintext))
	if err != nil {
		return "", err
	}
	return EncryptedPrefix + base64.StdEncoding.EncodeToString(ciphertext), nil
}

// DecryptString decrypts a base64-encoded string with ENC: prefix.
// Values without the prefix are returned unchanged so plaintext keys from
// older state files still load.
func (k *Keeper) DecryptString(ciphertext string) (string, error) {
	if !strings.HasPrefix(ciphertext, EncryptedPrefix) {
		return ciphertext, nil
	}

	encoded := strings.TrimPrefix(ciphertext, EncryptedPrefix)
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("invalid base64 encoding: %w", err)
	}

	plaintext, err := k.Decrypt(data)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
