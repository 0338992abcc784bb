package derive

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
)

// TreasurySeed is the fixed seed of the treasury program-derived address.
const TreasurySeed = "treasury"

// ParseAddress decodes a base58 address. field names the value in errors.
func ParseAddress(field string, value string) (solana.PublicKey, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return solana.PublicKey{}, &DerivationError{Input: field, Cause: errors.New("address is required")}
	}
	address, err := solana.PublicKeyFromBase58(trimmed)
	if err != nil {
		return solana.PublicKey{}, &DerivationError{Input: field, Cause: err}
	}
	return address, nil
}

// TreasuryAccount derives the treasury address and bump for mint under
// program.
func TreasuryAccount(mint solana.PublicKey, program solana.PublicKey) (solana.PublicKey, uint8, error) {
	if mint.IsZero() {
		return solana.PublicKey{}, 0, &DerivationError{Input: "mint", Cause: errors.New("mint is the zero address")}
	}
	if program.IsZero() {
		return solana.PublicKey{}, 0, &DerivationError{Input: "program", Cause: errors.New("program is the zero address")}
	}

	address, bump, err := solana.FindProgramAddress(
		[][]byte{[]byte(TreasurySeed), mint.Bytes()},
		program,
	)
	if err != nil {
		return solana.PublicKey{}, 0, &DerivationError{Input: "treasury", Cause: err}
	}
	return address, bump, nil
}

// TreasuryAccountFromStrings is TreasuryAccount over base58 inputs.
func TreasuryAccountFromStrings(mint string, program string) (solana.PublicKey, error) {
	mintKey, err := ParseAddress("mint", mint)
	if err != nil {
		return solana.PublicKey{}, err
	}
	programKey, err := ParseAddress("program", program)
	if err != nil {
		return solana.PublicKey{}, err
	}
	address, _, err := TreasuryAccount(mintKey, programKey)
	return address, err
}

// AssociatedTokenAccount returns the token account address of owner for
// mint. It does not check that the account exists.
func AssociatedTokenAccount(owner solana.PublicKey, mint solana.PublicKey) (solana.PublicKey, error) {
	if owner.IsZero() {
		return solana.PublicKey{}, &DerivationError{Input: "owner", Cause: errors.New("owner is the zero address")}
	}
	if mint.IsZero() {
		return solana.PublicKey{}, &DerivationError{Input: "mint", Cause: errors.New("mint is the zero address")}
	}
	address, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return solana.PublicKey{}, &DerivationError{
			Input: "associated token account",
			Cause: fmt.Errorf("owner %s, mint %s: %w", owner, mint, err),
		}
	}
	return address, nil
}
