package settings

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encryptV1 builds a legacy ciphertext the way the old store wrote it:
// AES-256-CBC with PKCS#7 padding and a 16-byte IV.
func encryptV1(t *testing.T, plaintext, salt string) string {
	t.Helper()

	block, err := aes.NewCipher(deriveKey(salt))
	require.NoError(t, err)

	iv := make([]byte, aes.BlockSize)
	_, err = rand.Read(iv)
	require.NoError(t, err)

	pad := aes.BlockSize - len(plaintext)%aes.BlockSize
	padded := append([]byte(plaintext), make([]byte, pad)...)
	for i := len(plaintext); i < len(padded); i++ {
		padded[i] = byte(pad)
	}

	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return fmt.Sprintf("%s:%s", hex.EncodeToString(iv), hex.EncodeToString(ciphertext))
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		plaintext string
	}{
		{name: "short secret", plaintext: "super-secret"},
		{name: "empty string", plaintext: ""},
		{name: "unicode", plaintext: "p@sswörd-ñ"},
		{name: "long value", plaintext: strings.Repeat("abc123", 200)},
		{name: "colon separated", plaintext: "user:pass:host"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encrypted, err := EncryptStringValue(tt.plaintext, "test-salt")
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(encrypted, "v2:"))

			decrypted := DecryptStringValue(encrypted, "test-salt")
			assert.Equal(t, tt.plaintext, decrypted)
		})
	}
}

func TestEncryptIsIdempotentOnV2(t *testing.T) {
	encrypted, err := EncryptStringValue("value", "test-salt")
	require.NoError(t, err)

	again, err := EncryptStringValue(encrypted, "test-salt")
	require.NoError(t, err)
	assert.Equal(t, encrypted, again)
}

func TestDecryptWithWrongSaltReturnsOriginal(t *testing.T) {
	encrypted, err := EncryptStringValue("super-secret", "test-salt")
	require.NoError(t, err)

	// Tampered key: GCM authentication fails, fail-open returns the stored
	// form unchanged rather than garbage.
	result := DecryptStringValue(encrypted, "other-salt")
	assert.Equal(t, encrypted, result)
}

func TestDecryptPlainValuesPassThrough(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{name: "plain word", value: "hello"},
		{name: "url", value: "https://example.com/path"},
		{name: "colon but not hex", value: "user:password"},
		{name: "v2-ish but malformed", value: "v2:zz:zz:zz"},
		{name: "empty", value: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.value, DecryptStringValue(tt.value, "test-salt"))
		})
	}
}

func TestDecryptLegacyV1(t *testing.T) {
	encrypted := encryptV1(t, "legacy-secret", "test-salt")

	assert.True(t, looksEncrypted(encrypted))
	assert.Equal(t, "legacy-secret", DecryptStringValue(encrypted, "test-salt"))
}

func TestDecryptLegacyV1WrongSaltReturnsOriginal(t *testing.T) {
	encrypted := encryptV1(t, "legacy-secret", "test-salt")

	// CBC with the wrong key almost always yields invalid padding. The
	// hex:hex shape is ambiguous by construction, so fail-open applies.
	result := DecryptStringValue(encrypted, "other-salt")
	if result != encrypted && result != "legacy-secret" {
		t.Errorf("DecryptStringValue with wrong salt = %q, want original ciphertext", result)
	}
}

func TestMigrateV1ToV2(t *testing.T) {
	v1 := encryptV1(t, "legacy-secret", "test-salt")

	migrated, err := MigrateEncryptedStringValue(v1, "test-salt")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(migrated, "v2:"))
	assert.Equal(t, "legacy-secret", DecryptStringValue(migrated, "test-salt"))

	// Idempotent: migrating a v2 value returns it unchanged.
	again, err := MigrateEncryptedStringValue(migrated, "test-salt")
	require.NoError(t, err)
	assert.Equal(t, migrated, again)
}

func TestMigratePlainValueEncrypts(t *testing.T) {
	migrated, err := MigrateEncryptedStringValue("plain-value", "test-salt")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(migrated, "v2:"))
	assert.Equal(t, "plain-value", DecryptStringValue(migrated, "test-salt"))
}

func TestLooksEncrypted(t *testing.T) {
	v2, err := EncryptStringValue("x", "test-salt")
	require.NoError(t, err)

	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{name: "v2 ciphertext", value: v2, want: true},
		{name: "v1 shape", value: strings.Repeat("ab", 16) + ":" + strings.Repeat("cd", 16), want: true},
		{name: "short iv", value: "abcd:" + strings.Repeat("cd", 16), want: false},
		{name: "plain", value: "hello world", want: false},
		{name: "odd ciphertext length", value: strings.Repeat("ab", 16) + ":abc", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, looksEncrypted(tt.value))
		})
	}
}

func TestGetSaltProduction(t *testing.T) {
	t.Setenv(EnvSecretSalt, "")
	t.Setenv(EnvNodeEnv, "production")
	t.Setenv(EnvAllowDefaultSalt, "")

	_, err := GetSalt()
	assert.ErrorIs(t, err, ErrDefaultSaltInProduction)

	t.Setenv(EnvAllowDefaultSalt, "true")
	salt, err := GetSalt()
	require.NoError(t, err)
	assert.Equal(t, "secretsalt", salt)

	t.Setenv(EnvSecretSalt, "real-salt")
	t.Setenv(EnvAllowDefaultSalt, "")
	salt, err = GetSalt()
	require.NoError(t, err)
	assert.Equal(t, "real-salt", salt)
}
