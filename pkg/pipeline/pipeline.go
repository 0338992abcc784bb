package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/custody-labs/ledger-sdk-go/pkg/ledgerapi"
	"github.com/custody-labs/ledger-sdk-go/pkg/signer"
)

// Transport is the part of ledgerapi.Client the pipeline drives.
type Transport interface {
	BuildUnsigned(ctx context.Context, route string, payload any) (*ledgerapi.UnsignedTransaction, error)
	Broadcast(ctx context.Context, signedTxBase64 string) (ledgerapi.ConfirmationHandle, error)
}

// TransactionSigner signs with the payer key.
type TransactionSigner interface {
	PublicKey() solana.PublicKey
	Sign(tx *solana.Transaction) (*signer.SignedTransaction, error)
}

var (
	_ Transport         = (*ledgerapi.Client)(nil)
	_ TransactionSigner = (*signer.Signer)(nil)
)

type Config struct {
	API      Transport
	Signer   TransactionSigner
	Observer Observer
	Logger   *zap.Logger
}

// Pipeline executes operations one at a time.
type Pipeline struct {
	api      Transport
	signer   TransactionSigner
	observer Observer
	logger   *zap.Logger

	mu sync.Mutex
}

// New creates a new Pipeline.
func New(config Config) (*Pipeline, error) {
	if config.API == nil {
		return nil, fmt.Errorf("ledger API transport is required")
	}
	if config.Signer == nil {
		return nil, fmt.Errorf("signer is required")
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		api:      config.API,
		signer:   config.Signer,
		observer: config.Observer,
		logger:   logger,
	}, nil
}

// Payer returns the address that signs and pays for every operation.
func (p *Pipeline) Payer() solana.PublicKey {
	return p.signer.PublicKey()
}

// Execute runs op through build, sign and broadcast. The returned Record
// is Confirmed on success and Failed otherwise; in that case the error is
// an *OperationError naming the state the run stopped in.
func (p *Pipeline) Execute(ctx context.Context, op Operation) (Record, error) {
	if op == nil {
		return Record{}, errors.New("operation is required")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	record := Record{Operation: op.Name(), Route: op.Route()}
	p.transition(&record, StateRequested)

	payload, err := op.payload(p.signer.PublicKey())
	if err != nil {
		return p.fail(record, fmt.Errorf("invalid %s payload: %w", op.Name(), err))
	}

	unsigned, err := p.api.BuildUnsigned(ctx, op.Route(), payload)
	if err != nil {
		return p.fail(record, err)
	}
	if unsigned == nil || unsigned.Transaction == nil {
		return p.fail(record, &ledgerapi.MalformedResponseError{Route: op.Route(), Field: "tx"})
	}
	p.transition(&record, StateUnsignedReceived)

	signed, err := p.signer.Sign(unsigned.Transaction)
	if err != nil {
		return p.fail(record, err)
	}
	p.transition(&record, StateSigned)

	p.transition(&record, StateBroadcast)
	handle, err := p.api.Broadcast(ctx, signed.Base64())
	if err != nil {
		return p.fail(record, err)
	}
	if handle.String() != signed.Signature.String() {
		p.logger.Debug("service reported a different signature",
			zap.String("operation", record.Operation),
			zap.String("local", signed.Signature.String()),
			zap.String("remote", handle.String()),
		)
	}

	record.Signature = handle
	p.transition(&record, StateConfirmed)
	p.logger.Info("ledger operation confirmed",
		zap.String("operation", record.Operation),
		zap.String("signature", handle.String()),
	)
	return record, nil
}

// CreateUser registers userID.
func (p *Pipeline) CreateUser(ctx context.Context, userID ledgerapi.UserID) (ledgerapi.ConfirmationHandle, error) {
	record, err := p.Execute(ctx, CreateUser{UserID: userID})
	return record.Signature, err
}

// MintToTreasury mints amount into the treasury.
func (p *Pipeline) MintToTreasury(
	ctx context.Context,
	mint solana.PublicKey,
	amount ledgerapi.Amount,
) (ledgerapi.ConfirmationHandle, error) {
	record, err := p.Execute(ctx, MintToTreasury{Mint: mint, Amount: amount})
	return record.Signature, err
}

// TransferFromTreasury runs a transfer operation.
func (p *Pipeline) TransferFromTreasury(ctx context.Context, op TransferFromTreasury) (ledgerapi.ConfirmationHandle, error) {
	record, err := p.Execute(ctx, op)
	return record.Signature, err
}

// DepositToUser runs a deposit operation.
func (p *Pipeline) DepositToUser(ctx context.Context, op DepositToUser) (ledgerapi.ConfirmationHandle, error) {
	record, err := p.Execute(ctx, op)
	return record.Signature, err
}

func (p *Pipeline) transition(record *Record, next State) {
	record.State = next
	p.logger.Debug("ledger operation state",
		zap.String("operation", record.Operation),
		zap.String("route", record.Route),
		zap.Stringer("state", next),
	)
	if p.observer != nil {
		p.observer(*record)
	}
}

func (p *Pipeline) fail(record Record, cause error) (Record, error) {
	failedAt := record.State
	p.transition(&record, StateFailed)
	p.logger.Debug("ledger operation failed",
		zap.String("operation", record.Operation),
		zap.Stringer("state", failedAt),
		zap.Error(cause),
	)
	return record, &OperationError{Operation: record.Operation, State: failedAt, Cause: cause}
}
