// Package keys loads the payer key. Files hold either the Solana CLI JSON
// byte array or a base58 encoded secret.
package keys

import (
	"bytes"
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// LoadKeypairFile reads and parses the key stored at path.
func LoadKeypairFile(path string) (solana.PrivateKey, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("keypair path is required")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keypair file: %w", err)
	}
	key, err := ParsePrivateKey(raw)
	if err != nil {
		return nil, fmt.Errorf("keypair file %s: %w", path, err)
	}
	return key, nil
}

// ParsePrivateKey accepts a JSON array of 64 bytes, a JSON array of a
// 32 byte seed, or a base58 string of either length.
func ParsePrivateKey(raw []byte) (solana.PrivateKey, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("key material is empty")
	}

	var decoded []byte
	if trimmed[0] == '[' {
		var values []int
		if err := json.Unmarshal(trimmed, &values); err != nil {
			return nil, fmt.Errorf("invalid JSON key array: %w", err)
		}
		decoded = make([]byte, len(values))
		for index, value := range values {
			if value < 0 || value > 255 {
				return nil, fmt.Errorf("key byte %d out of range: %d", index, value)
			}
			decoded[index] = byte(value)
		}
	} else {
		var err error
		decoded, err = base58.Decode(strings.Trim(string(trimmed), "\""))
		if err != nil {
			return nil, fmt.Errorf("invalid base58 key: %w", err)
		}
	}

	return fromBytes(decoded)
}

func fromBytes(decoded []byte) (solana.PrivateKey, error) {
	switch len(decoded) {
	case ed25519.SeedSize:
		return solana.PrivateKey(ed25519.NewKeyFromSeed(decoded)), nil
	case ed25519.PrivateKeySize:
		expected := ed25519.NewKeyFromSeed(decoded[:ed25519.SeedSize])
		if !bytes.Equal(expected[ed25519.SeedSize:], decoded[ed25519.SeedSize:]) {
			return nil, fmt.Errorf("public key half does not match the secret seed")
		}
		return solana.PrivateKey(decoded), nil
	default:
		return nil, fmt.Errorf("key must be %d or %d bytes, got %d", ed25519.SeedSize, ed25519.PrivateKeySize, len(decoded))
	}
}

// WriteKeypairFile stores key in the Solana CLI JSON format with owner-only
// permissions.
func WriteKeypairFile(path string, key solana.PrivateKey) error {
	if len(key) != ed25519.PrivateKeySize {
		return fmt.Errorf("key must be %d bytes, got %d", ed25519.PrivateKeySize, len(key))
	}
	values := make([]int, len(key))
	for index, value := range key {
		values[index] = int(value)
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return os.WriteFile(path, encoded, 0o600)
}
