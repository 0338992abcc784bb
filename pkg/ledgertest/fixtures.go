package ledgertest

import (
	"encoding/base64"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// MemoProgramID is the program the fixture instruction targets.
var MemoProgramID = solana.MustPublicKeyFromBase58("MemoSq4gqABAXKb96qnH8TyNs3HUdg4pGD9vTLBXNYg")

// FixtureOptions shapes an unsigned fixture transaction.
type FixtureOptions struct {
	// CoSigners are extra required signers placed after the payer.
	CoSigners []solana.PublicKey
	Memo      string
	Versioned bool
}

// UnsignedTransaction builds a transaction paid by payer with every
// signature slot left zeroed, the shape the builder service returns.
func UnsignedTransaction(t testing.TB, payer solana.PublicKey, options FixtureOptions) *solana.Transaction {
	t.Helper()

	memo := options.Memo
	if memo == "" {
		memo = "ledger fixture"
	}
	accounts := solana.AccountMetaSlice{solana.Meta(payer).SIGNER().WRITE()}
	for _, coSigner := range options.CoSigners {
		accounts = append(accounts, solana.Meta(coSigner).SIGNER())
	}

	var blockhash solana.Hash
	for index := range blockhash {
		blockhash[index] = byte(index + 1)
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{solana.NewInstruction(MemoProgramID, accounts, []byte(memo))},
		blockhash,
		solana.TransactionPayer(payer),
	)
	if err != nil {
		t.Fatalf("failed to build fixture transaction: %v", err)
	}
	if options.Versioned {
		tx.Message.SetVersion(solana.MessageVersionV0)
	}
	tx.Signatures = make([]solana.Signature, tx.Message.Header.NumRequiredSignatures)
	return tx
}

// UnsignedTransactionBytes returns the wire bytes of UnsignedTransaction.
func UnsignedTransactionBytes(t testing.TB, payer solana.PublicKey, options FixtureOptions) []byte {
	t.Helper()

	raw, err := UnsignedTransaction(t, payer, options).MarshalBinary()
	if err != nil {
		t.Fatalf("failed to encode fixture transaction: %v", err)
	}
	return raw
}

// UnsignedTransactionBase64 returns the fixture as the builder would send it.
func UnsignedTransactionBase64(t testing.TB, payer solana.PublicKey, options FixtureOptions) string {
	t.Helper()
	return base64.StdEncoding.EncodeToString(UnsignedTransactionBytes(t, payer, options))
}

// MessageBytes returns the serialized message of a wire transaction.
func MessageBytes(t testing.TB, raw []byte) []byte {
	t.Helper()

	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		t.Fatalf("failed to decode transaction: %v", err)
	}
	message, err := tx.Message.MarshalBinary()
	if err != nil {
		t.Fatalf("failed to encode message: %v", err)
	}
	return message
}

// NewKey returns a fresh ed25519 key.
func NewKey(t testing.TB) solana.PrivateKey {
	t.Helper()

	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	return key
}
