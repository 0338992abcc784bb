package derive

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/custody-labs/ledger-sdk-go/pkg/signer"
)

const (
	DefaultConfirmTimeout = 60 * time.Second
	DefaultPollInterval   = 500 * time.Millisecond
)

// ChainRPC is the subset of the chain JSON-RPC API the deriver needs.
type ChainRPC interface {
	GetAccountInfo(ctx context.Context, account solana.PublicKey) (*rpc.GetAccountInfoResult, error)
	GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error)
	SendTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts rpc.TransactionOpts) (solana.Signature, error)
	GetSignatureStatuses(ctx context.Context, searchTransactionHistory bool, signatures ...solana.Signature) (*rpc.GetSignatureStatusesResult, error)
}

var _ ChainRPC = (*rpc.Client)(nil)

type Config struct {
	RPC            ChainRPC
	ConfirmTimeout time.Duration
	PollInterval   time.Duration
	Logger         *zap.Logger
}

// Deriver resolves user token accounts, creating them when missing.
type Deriver struct {
	rpc            ChainRPC
	confirmTimeout time.Duration
	pollInterval   time.Duration
	logger         *zap.Logger
}

// NewDeriver creates a new Deriver.
func NewDeriver(config Config) (*Deriver, error) {
	if config.RPC == nil {
		return nil, fmt.Errorf("chain RPC client is required")
	}
	confirmTimeout := config.ConfirmTimeout
	if confirmTimeout <= 0 {
		confirmTimeout = DefaultConfirmTimeout
	}
	pollInterval := config.PollInterval
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Deriver{
		rpc:            config.RPC,
		confirmTimeout: confirmTimeout,
		pollInterval:   pollInterval,
		logger:         logger,
	}, nil
}

// ResolveUserTokenAccount returns owner's token account for mint. When the
// account does not exist yet, payer funds and signs its creation and the
// call returns once the creation is confirmed.
func (d *Deriver) ResolveUserTokenAccount(
	ctx context.Context,
	owner solana.PublicKey,
	mint solana.PublicKey,
	payer *signer.Signer,
) (solana.PublicKey, error) {
	if payer == nil {
		return solana.PublicKey{}, &DerivationError{Input: "payer", Cause: errors.New("payer is required")}
	}
	account, err := AssociatedTokenAccount(owner, mint)
	if err != nil {
		return solana.PublicKey{}, err
	}

	exists, err := d.accountExists(ctx, account)
	if err != nil {
		return solana.PublicKey{}, err
	}
	if exists {
		d.logger.Debug("token account exists", zap.Stringer("account", account))
		return account, nil
	}

	signature, err := d.createAssociatedTokenAccount(ctx, owner, mint, payer)
	if err != nil {
		return solana.PublicKey{}, err
	}
	if err := d.waitForConfirmation(ctx, signature); err != nil {
		return solana.PublicKey{}, err
	}

	d.logger.Info("created token account",
		zap.Stringer("account", account),
		zap.Stringer("owner", owner),
		zap.Stringer("mint", mint),
		zap.Stringer("signature", signature),
	)
	return account, nil
}

func (d *Deriver) accountExists(ctx context.Context, account solana.PublicKey) (bool, error) {
	info, err := d.rpc.GetAccountInfo(ctx, account)
	if errors.Is(err, rpc.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, &DerivationError{
			Input: "token account lookup",
			Cause: fmt.Errorf("account %s: %w", account, err),
		}
	}
	return info != nil && info.Value != nil, nil
}

func (d *Deriver) createAssociatedTokenAccount(
	ctx context.Context,
	owner solana.PublicKey,
	mint solana.PublicKey,
	payer *signer.Signer,
) (solana.Signature, error) {
	instruction, err := associatedtokenaccount.NewCreateInstruction(payer.PublicKey(), owner, mint).ValidateAndBuild()
	if err != nil {
		return solana.Signature{}, &DerivationError{Input: "token account creation", Cause: err}
	}

	latest, err := d.rpc.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Signature{}, &DerivationError{Input: "token account creation", Cause: fmt.Errorf("failed to fetch blockhash: %w", err)}
	}
	if latest == nil || latest.Value == nil {
		return solana.Signature{}, &DerivationError{Input: "token account creation", Cause: errors.New("empty blockhash response")}
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{instruction},
		latest.Value.Blockhash,
		solana.TransactionPayer(payer.PublicKey()),
	)
	if err != nil {
		return solana.Signature{}, &DerivationError{Input: "token account creation", Cause: err}
	}
	signed, err := payer.Sign(tx)
	if err != nil {
		return solana.Signature{}, &DerivationError{Input: "token account creation", Cause: err}
	}

	signature, err := d.rpc.SendTransactionWithOpts(ctx, signed.Transaction, rpc.TransactionOpts{
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return solana.Signature{}, &DerivationError{Input: "token account creation", Cause: fmt.Errorf("failed to send transaction: %w", err)}
	}
	d.logger.Debug("sent token account creation", zap.Stringer("signature", signature))
	return signature, nil
}

var errNotConfirmed = errors.New("transaction not confirmed yet")

func (d *Deriver) waitForConfirmation(ctx context.Context, signature solana.Signature) error {
	ctx, cancel := context.WithTimeout(ctx, d.confirmTimeout)
	defer cancel()

	poll := func() error {
		result, err := d.rpc.GetSignatureStatuses(ctx, false, signature)
		if err != nil {
			d.logger.Debug("signature status lookup failed", zap.Error(err))
			return err
		}
		if result == nil || len(result.Value) == 0 || result.Value[0] == nil {
			return errNotConfirmed
		}
		status := result.Value[0]
		if status.Err != nil {
			return backoff.Permanent(fmt.Errorf("transaction %s failed: %v", signature, status.Err))
		}
		switch status.ConfirmationStatus {
		case rpc.ConfirmationStatusConfirmed, rpc.ConfirmationStatusFinalized:
			return nil
		default:
			return errNotConfirmed
		}
	}

	err := backoff.Retry(poll, backoff.WithContext(backoff.NewConstantBackOff(d.pollInterval), ctx))
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() != nil {
		return &DerivationError{
			Input: "token account confirmation",
			Cause: fmt.Errorf("transaction %s not confirmed within %s: %w", signature, d.confirmTimeout, err),
		}
	}
	return &DerivationError{Input: "token account confirmation", Cause: err}
}
