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

package settings

import (
	"log/slog"
	"strings"
	"sync"
)

// Store holds runtime settings. String values whose stored form is
// ciphertext are transparently decrypted on read. Mutation uses a single
// writer lock; readers see a consistent snapshot.
type Store struct {
	mu     sync.RWMutex
	values map[string]any
	salt   string
	logger *slog.Logger
}

// NewStore creates a store encrypting with the given salt.
func NewStore(salt string) *Store {
	return &Store{
		values: make(map[string]any),
		salt:   salt,
		logger: slog.Default(),
	}
}

// NewStoreFromEnv creates a store using the salt from the environment,
// applying the production sentinel check.
func NewStoreFromEnv() (*Store, error) {
	salt, err := GetSalt()
	if err != nil {
		return nil, err
	}
	return NewStore(salt), nil
}

// Load seeds the store with the given values, typically character settings
// merged with secrets. Existing keys are overwritten.
func (s *Store) Load(values map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range values {
		s.values[k] = v
	}
}

// Get returns the setting for key with transparent decryption. Decrypted
// plaintext equal to "true" or "false" (case-insensitive) is coerced to a
// boolean. Non-string values pass through as stored. Returns nil when the
// key is absent.
func (s *Store) Get(key string) any {
	s.mu.RLock()
	value, ok := s.values[key]
	s.mu.RUnlock()
	if !ok {
		return nil
	}

	str, isString := value.(string)
	if !isString {
		return value
	}

	plaintext := DecryptStringValue(str, s.salt)
	switch strings.ToLower(plaintext) {
	case "true":
		return true
	case "false":
		return false
	}
	return plaintext
}

// GetString returns the decrypted setting as a string, or "" when absent or
// not a string.
func (s *Store) GetString(key string) string {
	if v, ok := s.Get(key).(string); ok {
		return v
	}
	return ""
}

// Set stores a value as given, without encryption.
func (s *Store) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// SetSecret encrypts the value as v2 before storing it.
func (s *Store) SetSecret(key, value string) error {
	encrypted, err := EncryptStringValue(value, s.salt)
	if err != nil {
		return err
	}
	s.Set(key, encrypted)
	return nil
}

// Has reports whether the key is present.
func (s *Store) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.values[key]
	return ok
}

// Delete removes the key.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

// Keys returns all setting keys.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	return keys
}

// Migrate re-encrypts every legacy v1 string value to v2 in place. Values
// that fail to migrate are left as found and logged.
func (s *Store) Migrate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range s.values {
		str, ok := value.(string)
		if !ok || !looksEncrypted(str) || strings.HasPrefix(str, v2Prefix) {
			continue
		}
		migrated, err := MigrateEncryptedStringValue(str, s.salt)
		if err != nil {
			s.logger.Warn("failed to migrate setting", "key", key, "error", err)
			continue
		}
		s.values[key] = migrated
	}
}
