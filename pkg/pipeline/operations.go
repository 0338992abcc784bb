package pipeline

import (
	"errors"

	"github.com/gagliardetto/solana-go"

	"github.com/custody-labs/ledger-sdk-go/pkg/ledgerapi"
)

// Operation is one of CreateUser, MintToTreasury, TransferFromTreasury or
// DepositToUser.
type Operation interface {
	Name() string
	Route() string
	payload(payer solana.PublicKey) (any, error)
}

var (
	_ Operation = CreateUser{}
	_ Operation = MintToTreasury{}
	_ Operation = TransferFromTreasury{}
	_ Operation = DepositToUser{}
)

// CreateUser registers a user id in the ledger.
type CreateUser struct {
	UserID ledgerapi.UserID
}

func (CreateUser) Name() string  { return "createUser" }
func (CreateUser) Route() string { return ledgerapi.RouteCreateUser }

func (op CreateUser) payload(payer solana.PublicKey) (any, error) {
	if op.UserID.IsZero() {
		return nil, errors.New("user id is required")
	}
	return createUserPayload{
		PayerPubkey: payer.String(),
		UserID:      op.UserID.String(),
	}, nil
}

// MintToTreasury mints Amount into the treasury account.
type MintToTreasury struct {
	Mint   solana.PublicKey
	Amount ledgerapi.Amount
}

func (MintToTreasury) Name() string  { return "mintToTreasury" }
func (MintToTreasury) Route() string { return ledgerapi.RouteMint }

func (op MintToTreasury) payload(payer solana.PublicKey) (any, error) {
	if err := requireMintAndAmount(op.Mint, op.Amount); err != nil {
		return nil, err
	}
	return mintPayload{
		PayerPubkey: payer.String(),
		MintPubkey:  op.Mint.String(),
		Amount:      uint64(op.Amount),
	}, nil
}

// TransferFromTreasury moves Amount between ledger users. FromID and ToID
// are sent as given.
type TransferFromTreasury struct {
	Mint             solana.PublicKey
	FromID           ledgerapi.UserID
	ToID             ledgerapi.UserID
	Amount           ledgerapi.Amount
	FromTokenAccount solana.PublicKey
	ToTokenAccount   solana.PublicKey
}

func (TransferFromTreasury) Name() string  { return "transferFromTreasury" }
func (TransferFromTreasury) Route() string { return ledgerapi.RouteTransfer }

func (op TransferFromTreasury) payload(payer solana.PublicKey) (any, error) {
	if err := requireMintAndAmount(op.Mint, op.Amount); err != nil {
		return nil, err
	}
	if op.FromID.IsZero() {
		return nil, errors.New("from id is required")
	}
	if op.ToID.IsZero() {
		return nil, errors.New("to id is required")
	}
	if op.FromTokenAccount.IsZero() {
		return nil, errors.New("from token account is required")
	}
	if op.ToTokenAccount.IsZero() {
		return nil, errors.New("to token account is required")
	}
	return transferPayload{
		PayerPubkey:      payer.String(),
		MintPubkey:       op.Mint.String(),
		FromID:           op.FromID.String(),
		ToID:             op.ToID.String(),
		Amount:           uint64(op.Amount),
		FromTokenAccount: op.FromTokenAccount.String(),
		ToTokenAccount:   op.ToTokenAccount.String(),
	}, nil
}

// DepositToUser credits Amount from UserTokenAccount to a ledger user.
type DepositToUser struct {
	Mint             solana.PublicKey
	UserID           ledgerapi.UserID
	Amount           ledgerapi.Amount
	UserTokenAccount solana.PublicKey
}

func (DepositToUser) Name() string  { return "depositToUser" }
func (DepositToUser) Route() string { return ledgerapi.RouteDeposit }

func (op DepositToUser) payload(payer solana.PublicKey) (any, error) {
	if err := requireMintAndAmount(op.Mint, op.Amount); err != nil {
		return nil, err
	}
	if op.UserID.IsZero() {
		return nil, errors.New("user id is required")
	}
	if op.UserTokenAccount.IsZero() {
		return nil, errors.New("user token account is required")
	}
	return depositPayload{
		PayerPubkey:      payer.String(),
		MintPubkey:       op.Mint.String(),
		UserID:           op.UserID.String(),
		Amount:           uint64(op.Amount),
		UserTokenAccount: op.UserTokenAccount.String(),
	}, nil
}

func requireMintAndAmount(mint solana.PublicKey, amount ledgerapi.Amount) error {
	if mint.IsZero() {
		return errors.New("mint is required")
	}
	if amount == 0 {
		return errors.New("amount must be positive")
	}
	return nil
}

type createUserPayload struct {
	PayerPubkey string `json:"payer_pubkey"`
	UserID      string `json:"user_id"`
}

type mintPayload struct {
	PayerPubkey string `json:"payer_pubkey"`
	MintPubkey  string `json:"mint_pubkey"`
	Amount      uint64 `json:"amount"`
}

type transferPayload struct {
	PayerPubkey      string `json:"payer_pubkey"`
	MintPubkey       string `json:"mint_pubkey"`
	FromID           string `json:"from_id"`
	ToID             string `json:"to_id"`
	Amount           uint64 `json:"amount"`
	FromTokenAccount string `json:"from_token_account"`
	ToTokenAccount   string `json:"to_token_account"`
}

type depositPayload struct {
	PayerPubkey      string `json:"payer_pubkey"`
	MintPubkey       string `json:"mint_pubkey"`
	UserID           string `json:"user_id"`
	Amount           uint64 `json:"amount"`
	UserTokenAccount string `json:"user_token_account"`
}
