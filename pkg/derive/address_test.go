package derive

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

var (
	testMint    = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
	testProgram = solana.MustPublicKeyFromBase58("Fg6PaFpoGXkYsidMpWTK6W2BeZ7FEfcYkg476zPFsLnS")
)

func TestTreasuryAccountIsDeterministic(t *testing.T) {
	t.Parallel()

	first, firstBump, err := TreasuryAccount(testMint, testProgram)
	require.NoError(t, err)
	second, secondBump, err := TreasuryAccount(testMint, testProgram)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, firstBump, secondBump)

	recreated, err := solana.CreateProgramAddress(
		[][]byte{[]byte("treasury"), testMint.Bytes(), {firstBump}},
		testProgram,
	)
	require.NoError(t, err)
	require.Equal(t, first, recreated)
}

func TestTreasuryAccountDependsOnBothInputs(t *testing.T) {
	t.Parallel()

	base, _, err := TreasuryAccount(testMint, testProgram)
	require.NoError(t, err)

	otherMint, _, err := TreasuryAccount(solana.SPLAssociatedTokenAccountProgramID, testProgram)
	require.NoError(t, err)
	otherProgram, _, err := TreasuryAccount(testMint, solana.TokenProgramID)
	require.NoError(t, err)

	require.NotEqual(t, base, otherMint)
	require.NotEqual(t, base, otherProgram)
	require.NotEqual(t, otherMint, otherProgram)
}

func TestTreasuryAccountFromStrings(t *testing.T) {
	t.Parallel()

	expected, _, err := TreasuryAccount(testMint, testProgram)
	require.NoError(t, err)

	address, err := TreasuryAccountFromStrings(" "+testMint.String()+" ", testProgram.String())
	require.NoError(t, err)
	require.Equal(t, expected, address)
}

func TestTreasuryAccountRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		mint    string
		program string
		input   string
	}{
		{name: "empty mint", mint: "", program: testProgram.String(), input: "mint"},
		{name: "malformed mint", mint: "not-base58-0OIl", program: testProgram.String(), input: "mint"},
		{name: "malformed program", mint: testMint.String(), program: "abc", input: "program"},
		{name: "zero program", mint: testMint.String(), program: solana.PublicKey{}.String(), input: "program"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := TreasuryAccountFromStrings(tc.mint, tc.program)
			var derivationErr *DerivationError
			require.ErrorAs(t, err, &derivationErr)
			require.Equal(t, tc.input, derivationErr.Input)
		})
	}
}

func TestAssociatedTokenAccount(t *testing.T) {
	t.Parallel()

	owner := solana.MustPublicKeyFromBase58("9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM")
	address, err := AssociatedTokenAccount(owner, testMint)
	require.NoError(t, err)

	expected, _, err := solana.FindProgramAddress(
		[][]byte{owner.Bytes(), solana.TokenProgramID.Bytes(), testMint.Bytes()},
		solana.SPLAssociatedTokenAccountProgramID,
	)
	require.NoError(t, err)
	require.Equal(t, expected, address)

	_, err = AssociatedTokenAccount(solana.PublicKey{}, testMint)
	require.Error(t, err)
}
