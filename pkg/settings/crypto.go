// Copyright 2026 The eliza-go Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package settings implements the runtime settings store with secrets that
// are opaque at rest.
//
// Two on-disk formats are recognized when reading:
//
//	v1 (legacy):  ivHex:cipherHex              AES-256-CBC, PKCS#7, 16-byte IV
//	v2 (current): v2:ivHex:cipherHex:tagHex    AES-256-GCM, 12-byte IV, 16-byte tag
//
// The key for both is SHA-256(salt). Writes always produce v2 with a fresh
// random IV. Decryption is fail-open: a value that structurally looks like
// ciphertext but does not decrypt under the current salt is returned
// unchanged, so plain values that happen to match the hex:hex shape still
// round-trip.
package settings

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	// v2Prefix marks the current encryption format.
	v2Prefix = "v2:"

	// v2AAD binds v2 ciphertexts to the settings store.
	v2AAD = "elizaos:settings:v2"

	v1IVSize  = aes.BlockSize
	v2IVSize  = 12
	v2TagSize = 16

	// defaultSalt is the development sentinel. It is rejected in production
	// unless explicitly allowed.
	defaultSalt = "secretsalt"
)

// Environment keys consumed by the settings store.
const (
	EnvSecretSalt       = "SECRET_SALT"
	EnvNodeEnv          = "NODE_ENV"
	EnvAllowDefaultSalt = "ELIZA_ALLOW_DEFAULT_SECRET_SALT"
)

// ErrDefaultSaltInProduction is returned by GetSalt when the sentinel salt
// is used with NODE_ENV=production.
var ErrDefaultSaltInProduction = errors.New("SECRET_SALT must be set in production")

// GetSalt reads the encryption salt from the environment. The default
// development salt is rejected in production unless
// ELIZA_ALLOW_DEFAULT_SECRET_SALT is set to true.
func GetSalt() (string, error) {
	salt := os.Getenv(EnvSecretSalt)
	if salt == "" {
		salt = defaultSalt
	}
	if salt == defaultSalt && os.Getenv(EnvNodeEnv) == "production" {
		if !strings.EqualFold(os.Getenv(EnvAllowDefaultSalt), "true") {
			return "", ErrDefaultSaltInProduction
		}
	}
	return salt, nil
}

// deriveKey derives the 32-byte AES key from the salt.
func deriveKey(salt string) []byte {
	sum := sha256.Sum256([]byte(salt))
	return sum[:]
}

// isHex reports whether s is non-empty and consists only of hex digits.
func isHex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// looksEncrypted performs structural checks distinguishing ciphertext from
// plain strings. A plain value matching the v1 hex:hex shape is
// indistinguishable from ciphertext here; decryption failure falls back to
// returning the value unchanged.
func looksEncrypted(value string) bool {
	if strings.HasPrefix(value, v2Prefix) {
		parts := strings.Split(value, ":")
		return len(parts) == 4 &&
			len(parts[1]) == v2IVSize*2 && isHex(parts[1]) &&
			isHex(parts[2]) &&
			len(parts[3]) == v2TagSize*2 && isHex(parts[3])
	}

	parts := strings.Split(value, ":")
	return len(parts) == 2 &&
		len(parts[0]) == v1IVSize*2 && isHex(parts[0]) &&
		isHex(parts[1]) && len(parts[1])%2 == 0
}

// EncryptStringValue encrypts a plaintext setting as a v2 string. Values
// already in v2 form are returned unchanged, making encryption idempotent.
func EncryptStringValue(value, salt string) (string, error) {
	if strings.HasPrefix(value, v2Prefix) && looksEncrypted(value) {
		return value, nil
	}

	block, err := aes.NewCipher(deriveKey(salt))
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to create GCM: %w", err)
	}

	iv := make([]byte, v2IVSize)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("failed to generate IV: %w", err)
	}

	sealed := gcm.Seal(nil, iv, []byte(value), []byte(v2AAD))
	ciphertext := sealed[:len(sealed)-v2TagSize]
	tag := sealed[len(sealed)-v2TagSize:]

	return fmt.Sprintf("%s%s:%s:%s", v2Prefix,
		hex.EncodeToString(iv),
		hex.EncodeToString(ciphertext),
		hex.EncodeToString(tag)), nil
}

// DecryptStringValue decrypts a stored setting. Values that are not
// structurally ciphertext, or that fail to decrypt under the given salt, are
// returned unchanged.
func DecryptStringValue(value, salt string) string {
	if !looksEncrypted(value) {
		return value
	}

	var plaintext string
	var err error
	if strings.HasPrefix(value, v2Prefix) {
		plaintext, err = decryptV2(value, salt)
	} else {
		plaintext, err = decryptV1(value, salt)
	}
	if err != nil {
		return value
	}
	return plaintext
}

func decryptV2(value, salt string) (string, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 4 {
		return "", fmt.Errorf("malformed v2 value")
	}

	iv, err := hex.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("malformed v2 IV: %w", err)
	}
	ciphertext, err := hex.DecodeString(parts[2])
	if err != nil {
		return "", fmt.Errorf("malformed v2 ciphertext: %w", err)
	}
	tag, err := hex.DecodeString(parts[3])
	if err != nil {
		return "", fmt.Errorf("malformed v2 tag: %w", err)
	}

	block, err := aes.NewCipher(deriveKey(salt))
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	plaintext, err := gcm.Open(nil, iv, append(ciphertext, tag...), []byte(v2AAD))
	if err != nil {
		return "", fmt.Errorf("v2 decryption failed: %w", err)
	}
	return string(plaintext), nil
}

func decryptV1(value, salt string) (string, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("malformed v1 value")
	}

	iv, err := hex.DecodeString(parts[0])
	if err != nil || len(iv) != v1IVSize {
		return "", fmt.Errorf("malformed v1 IV")
	}
	ciphertext, err := hex.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("malformed v1 ciphertext: %w", err)
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", fmt.Errorf("v1 ciphertext is not block-aligned")
	}

	block, err := aes.NewCipher(deriveKey(salt))
	if err != nil {
		return "", err
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := pkcs7Unpad(plaintext)
	if err != nil {
		return "", fmt.Errorf("v1 decryption failed: %w", err)
	}
	return string(unpadded), nil
}

func pkcs7Unpad(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty plaintext")
	}
	pad := int(data[len(data)-1])
	if pad == 0 || pad > aes.BlockSize || pad > len(data) {
		return nil, fmt.Errorf("invalid padding")
	}
	for _, b := range data[len(data)-pad:] {
		if int(b) != pad {
			return nil, fmt.Errorf("invalid padding")
		}
	}
	return data[:len(data)-pad], nil
}

// MigrateEncryptedStringValue re-encrypts a legacy v1 value as v2. Values
// already in v2 form pass through unchanged, so migration is idempotent.
// Plain strings are encrypted.
func MigrateEncryptedStringValue(value, salt string) (string, error) {
	if strings.HasPrefix(value, v2Prefix) && looksEncrypted(value) {
		return value, nil
	}
	if looksEncrypted(value) {
		plaintext, err := decryptV1(value, salt)
		if err != nil {
			// Not ours after all; leave it as found.
			return value, nil
		}
		return EncryptStringValue(plaintext, salt)
	}
	return EncryptStringValue(value, salt)
}
