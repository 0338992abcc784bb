package signer

import (
	"bytes"
	"crypto/ed25519"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/custody-labs/ledger-sdk-go/pkg/ledgertest"
)

func TestSignProducesVerifiableSignature(t *testing.T) {
	t.Parallel()

	key := ledgertest.NewKey(t)
	tx := ledgertest.UnsignedTransaction(t, key.PublicKey(), ledgertest.FixtureOptions{})

	signed, err := Sign(tx, key)
	require.NoError(t, err)

	message, err := tx.Message.MarshalBinary()
	require.NoError(t, err)
	require.True(t, ed25519.Verify(ed25519.PublicKey(key.PublicKey().Bytes()), message, signed.Signature[:]))
	require.NoError(t, signed.Transaction.VerifySignatures())
	require.Equal(t, signed.Signature, signed.Transaction.Signatures[0])
}

func TestSignKeepsMessageBytesIdentical(t *testing.T) {
	t.Parallel()

	for _, versioned := range []bool{false, true} {
		key := ledgertest.NewKey(t)
		raw := ledgertest.UnsignedTransactionBytes(t, key.PublicKey(), ledgertest.FixtureOptions{Versioned: versioned})

		tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
		require.NoError(t, err)

		signed, err := Sign(tx, key)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(signed.Raw), len(raw))
		require.Equal(t, ledgertest.MessageBytes(t, raw), ledgertest.MessageBytes(t, signed.Raw))
		// One signature slot, so only the slot bytes may differ.
		require.Equal(t, raw[1+64:], signed.Raw[1+64:])
	}
}

func TestSignDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	key := ledgertest.NewKey(t)
	tx := ledgertest.UnsignedTransaction(t, key.PublicKey(), ledgertest.FixtureOptions{})
	before, err := tx.MarshalBinary()
	require.NoError(t, err)

	_, err = Sign(tx, key)
	require.NoError(t, err)

	after, err := tx.MarshalBinary()
	require.NoError(t, err)
	require.True(t, bytes.Equal(before, after))
	require.Equal(t, solana.Signature{}, tx.Signatures[0])
}

func TestSignRejectsKeyOutsideRequiredSigners(t *testing.T) {
	t.Parallel()

	payer := ledgertest.NewKey(t)
	stranger := ledgertest.NewKey(t)
	tx := ledgertest.UnsignedTransaction(t, payer.PublicKey(), ledgertest.FixtureOptions{})

	_, err := Sign(tx, stranger)
	var signingErr *SigningError
	require.ErrorAs(t, err, &signingErr)
	require.Contains(t, signingErr.Reason, "not a required signer")
}

func TestSignRefusesSecondSignature(t *testing.T) {
	t.Parallel()

	key := ledgertest.NewKey(t)
	tx := ledgertest.UnsignedTransaction(t, key.PublicKey(), ledgertest.FixtureOptions{})

	signed, err := Sign(tx, key)
	require.NoError(t, err)

	_, err = Sign(signed.Transaction, key)
	var signingErr *SigningError
	require.ErrorAs(t, err, &signingErr)
	require.Contains(t, signingErr.Reason, "already filled")
}

func TestSignFillsOnlyOwnSlot(t *testing.T) {
	t.Parallel()

	payer := ledgertest.NewKey(t)
	coSigner := ledgertest.NewKey(t)
	tx := ledgertest.UnsignedTransaction(t, payer.PublicKey(), ledgertest.FixtureOptions{
		CoSigners: []solana.PublicKey{coSigner.PublicKey()},
	})
	require.EqualValues(t, 2, tx.Message.Header.NumRequiredSignatures)

	signer, err := New(coSigner)
	require.NoError(t, err)
	signed, err := signer.Sign(tx)
	require.NoError(t, err)
	require.Len(t, signed.Transaction.Signatures, 2)
	require.Equal(t, solana.Signature{}, signed.Transaction.Signatures[0])
	require.Equal(t, signed.Signature, signed.Transaction.Signatures[1])

	both, err := Sign(signed.Transaction, payer)
	require.NoError(t, err)
	require.NoError(t, both.Transaction.VerifySignatures())
}

func TestSignNormalisesMissingSignatureSlots(t *testing.T) {
	t.Parallel()

	key := ledgertest.NewKey(t)
	tx := ledgertest.UnsignedTransaction(t, key.PublicKey(), ledgertest.FixtureOptions{})
	tx.Signatures = nil

	signed, err := Sign(tx, key)
	require.NoError(t, err)
	require.Len(t, signed.Transaction.Signatures, 1)
}

func TestSignRejectsExtraSignatures(t *testing.T) {
	t.Parallel()

	key := ledgertest.NewKey(t)
	tx := ledgertest.UnsignedTransaction(t, key.PublicKey(), ledgertest.FixtureOptions{})
	tx.Signatures = append(tx.Signatures, solana.Signature{})

	_, err := Sign(tx, key)
	var signingErr *SigningError
	require.ErrorAs(t, err, &signingErr)
}

func TestNewRejectsBadKeys(t *testing.T) {
	t.Parallel()

	_, err := New(solana.PrivateKey(make([]byte, 10)))
	require.Error(t, err)

	key := ledgertest.NewKey(t)
	tampered := append(solana.PrivateKey(nil), key...)
	tampered[63] ^= 0xff
	_, err = New(tampered)
	require.Error(t, err)

	_, err = Sign(nil, key)
	require.Error(t, err)
}

func TestSignerPublicKeyAndBase64(t *testing.T) {
	t.Parallel()

	key := ledgertest.NewKey(t)
	signer, err := New(key)
	require.NoError(t, err)
	require.Equal(t, key.PublicKey(), signer.PublicKey())

	signed, err := signer.Sign(ledgertest.UnsignedTransaction(t, key.PublicKey(), ledgertest.FixtureOptions{}))
	require.NoError(t, err)
	require.NotEmpty(t, signed.Base64())
}
