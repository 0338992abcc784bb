package queries

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/custody-labs/ledger-sdk-go/pkg/ledgerapi"
)

const DefaultRetryInterval = 250 * time.Millisecond

// Querier is the part of ledgerapi.Client used for reads.
type Querier interface {
	Query(ctx context.Context, method string, route string, payload any, target any) error
}

var _ Querier = (*ledgerapi.Client)(nil)

// RetryPolicy bounds retries of failed reads. The zero value performs a
// single attempt. Only transport failures and 429/5xx responses are
// retried.
type RetryPolicy struct {
	MaxRetries      uint64
	InitialInterval time.Duration
}

type Config struct {
	API    Querier
	Retry  RetryPolicy
	Logger *zap.Logger
}

type Queries struct {
	api    Querier
	retry  RetryPolicy
	logger *zap.Logger
}

// New creates a new Queries.
func New(config Config) (*Queries, error) {
	if config.API == nil {
		return nil, fmt.Errorf("ledger API client is required")
	}
	retry := config.Retry
	if retry.InitialInterval <= 0 {
		retry.InitialInterval = DefaultRetryInterval
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Queries{api: config.API, retry: retry, logger: logger}, nil
}

type balanceUserRequest struct {
	UserID string `json:"user_id"`
}

type userBalanceResponse struct {
	Free   *ledgerapi.Amount `json:"free_balance"`
	Frozen *ledgerapi.Amount `json:"frozen_balance"`
}

type tokenAmountResponse struct {
	Amount   *ledgerapi.Amount `json:"amount"`
	Decimals *uint8            `json:"decimals"`
}

// BalanceOfUser returns the free and frozen balance of userID.
func (q *Queries) BalanceOfUser(ctx context.Context, userID ledgerapi.UserID) (ledgerapi.UserBalance, error) {
	if userID.IsZero() {
		return ledgerapi.UserBalance{}, fmt.Errorf("user id is required")
	}

	var response userBalanceResponse
	err := q.query(ctx, http.MethodPost, ledgerapi.RouteBalanceUser, balanceUserRequest{UserID: userID.String()}, &response)
	if err != nil {
		return ledgerapi.UserBalance{}, err
	}
	if response.Free == nil {
		return ledgerapi.UserBalance{}, missingField(ledgerapi.RouteBalanceUser, "free_balance", response)
	}
	if response.Frozen == nil {
		return ledgerapi.UserBalance{}, missingField(ledgerapi.RouteBalanceUser, "frozen_balance", response)
	}
	return ledgerapi.UserBalance{Free: *response.Free, Frozen: *response.Frozen}, nil
}

// TotalSupply returns the mint's outstanding supply.
func (q *Queries) TotalSupply(ctx context.Context) (ledgerapi.TokenAmount, error) {
	return q.tokenAmount(ctx, ledgerapi.RouteTotalSupply)
}

// BalanceOfTreasury returns the treasury account balance.
func (q *Queries) BalanceOfTreasury(ctx context.Context) (ledgerapi.TokenAmount, error) {
	return q.tokenAmount(ctx, ledgerapi.RouteBalanceTreasury)
}

func (q *Queries) tokenAmount(ctx context.Context, route string) (ledgerapi.TokenAmount, error) {
	var response tokenAmountResponse
	if err := q.query(ctx, http.MethodGet, route, nil, &response); err != nil {
		return ledgerapi.TokenAmount{}, err
	}
	if response.Amount == nil {
		return ledgerapi.TokenAmount{}, missingField(route, "amount", response)
	}
	if response.Decimals == nil {
		return ledgerapi.TokenAmount{}, missingField(route, "decimals", response)
	}
	return ledgerapi.TokenAmount{Amount: *response.Amount, Decimals: *response.Decimals}, nil
}

func (q *Queries) query(ctx context.Context, method string, route string, payload any, target any) error {
	attempt := 0
	var lastErr error
	operation := func() error {
		attempt++
		err := q.api.Query(ctx, method, route, payload, target)
		lastErr = err
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		q.logger.Warn("retrying ledger query",
			zap.String("route", route),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = q.retry.InitialInterval
	policy.MaxElapsedTime = 0
	bounded := backoff.WithContext(backoff.WithMaxRetries(policy, q.retry.MaxRetries), ctx)
	if err := backoff.RetryNotify(operation, bounded, notify); err != nil {
		// Prefer the typed query error over a bare context error.
		if lastErr != nil {
			return lastErr
		}
		return err
	}
	return nil
}

func retryable(err error) bool {
	var transportErr *ledgerapi.TransportError
	if errors.As(err, &transportErr) {
		return true
	}
	var serviceErr *ledgerapi.ServiceError
	return errors.As(err, &serviceErr) && serviceErr.Temporary()
}

func missingField(route string, field string, response any) error {
	body, _ := json.Marshal(response)
	return &ledgerapi.MalformedResponseError{Route: route, Field: field, Body: string(body)}
}
