package signer

import (
	"bytes"
	"crypto/ed25519"
	"encoding/base64"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// SignedTransaction is a transaction carrying the payer signature, along
// with its wire encoding.
type SignedTransaction struct {
	Transaction *solana.Transaction
	Signature   solana.Signature
	Raw         []byte
}

// Base64 returns the wire encoding as sent to /broadcast.
func (s *SignedTransaction) Base64() string {
	return base64.StdEncoding.EncodeToString(s.Raw)
}

// Signer holds one payer key. It is immutable and safe for concurrent use.
type Signer struct {
	key       solana.PrivateKey
	publicKey solana.PublicKey
}

// New validates key and returns a Signer for it.
func New(key solana.PrivateKey) (*Signer, error) {
	if len(key) != ed25519.PrivateKeySize {
		return nil, &SigningError{
			Reason: fmt.Sprintf("private key must be %d bytes, got %d", ed25519.PrivateKeySize, len(key)),
		}
	}
	derived := ed25519.NewKeyFromSeed(key[:ed25519.SeedSize])
	if !bytes.Equal(derived[ed25519.SeedSize:], key[ed25519.SeedSize:]) {
		return nil, &SigningError{Reason: "private key public half does not match its seed"}
	}

	owned := make(solana.PrivateKey, len(key))
	copy(owned, key)
	return &Signer{key: owned, publicKey: owned.PublicKey()}, nil
}

// PublicKey returns the payer address.
func (s *Signer) PublicKey() solana.PublicKey {
	return s.publicKey
}

// Sign returns a copy of tx with the signer's slot filled. tx itself is
// left untouched.
func (s *Signer) Sign(tx *solana.Transaction) (*SignedTransaction, error) {
	if tx == nil {
		return nil, &SigningError{Reason: "transaction is required"}
	}

	header := tx.Message.Header
	required := int(header.NumRequiredSignatures)
	if required == 0 {
		return nil, &SigningError{Reason: "transaction declares no required signers"}
	}
	if required > len(tx.Message.AccountKeys) {
		return nil, &SigningError{
			Reason: fmt.Sprintf("transaction requires %d signers but lists %d account keys", required, len(tx.Message.AccountKeys)),
		}
	}

	slot := -1
	for index, account := range tx.Message.AccountKeys[:required] {
		if account.Equals(s.publicKey) {
			slot = index
			break
		}
	}
	if slot < 0 {
		return nil, &SigningError{
			Reason: fmt.Sprintf("key %s is not a required signer", s.publicKey),
		}
	}

	if len(tx.Signatures) > required {
		return nil, &SigningError{
			Reason: fmt.Sprintf("transaction carries %d signatures for %d required signers", len(tx.Signatures), required),
		}
	}
	signatures := make([]solana.Signature, required)
	copy(signatures, tx.Signatures)
	if signatures[slot] != (solana.Signature{}) {
		return nil, &SigningError{
			Reason: fmt.Sprintf("signature slot %d for %s is already filled", slot, s.publicKey),
		}
	}

	message, err := tx.Message.MarshalBinary()
	if err != nil {
		return nil, &SigningError{Reason: "failed to serialize message", Cause: err}
	}
	signature, err := s.key.Sign(message)
	if err != nil {
		return nil, &SigningError{Reason: "failed to sign message", Cause: err}
	}
	signatures[slot] = signature

	signed := &solana.Transaction{
		Signatures: signatures,
		Message:    tx.Message,
	}
	raw, err := signed.MarshalBinary()
	if err != nil {
		return nil, &SigningError{Reason: "failed to serialize signed transaction", Cause: err}
	}

	return &SignedTransaction{
		Transaction: signed,
		Signature:   signature,
		Raw:         raw,
	}, nil
}

// Sign signs tx with key. See Signer.Sign.
func Sign(tx *solana.Transaction, key solana.PrivateKey) (*SignedTransaction, error) {
	s, err := New(key)
	if err != nil {
		return nil, err
	}
	return s.Sign(tx)
}
