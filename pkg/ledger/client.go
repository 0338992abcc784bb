package ledger

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/custody-labs/ledger-sdk-go/pkg/config"
	"github.com/custody-labs/ledger-sdk-go/pkg/derive"
	"github.com/custody-labs/ledger-sdk-go/pkg/keys"
	"github.com/custody-labs/ledger-sdk-go/pkg/ledgerapi"
	"github.com/custody-labs/ledger-sdk-go/pkg/pipeline"
	"github.com/custody-labs/ledger-sdk-go/pkg/queries"
	"github.com/custody-labs/ledger-sdk-go/pkg/signer"
)

type Options struct {
	Settings config.Settings
	Key      solana.PrivateKey
	// HTTPClient replaces the ledger API transport.
	HTTPClient *http.Client
	// ChainRPC replaces the JSON-RPC client built from Settings.RPC.
	ChainRPC derive.ChainRPC
	Observer pipeline.Observer
	Logger   *zap.Logger
}

// Client is the entry point for ledger operations.
type Client struct {
	settings config.Settings
	signer   *signer.Signer
	api      *ledgerapi.Client
	pipeline *pipeline.Pipeline
	queries  *queries.Queries
	deriver  *derive.Deriver
	logger   *zap.Logger
}

// Open loads settings from configPath, reads the payer key they point to
// and returns a Client.
func Open(configPath string, logger *zap.Logger) (*Client, error) {
	settings, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	key, err := keys.LoadKeypairFile(settings.Keypair.Path)
	if err != nil {
		return nil, err
	}
	return New(Options{Settings: settings, Key: key, Logger: logger})
}

// New creates a new Client.
func New(options Options) (*Client, error) {
	settings := options.Settings
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	payer, err := signer.New(options.Key)
	if err != nil {
		return nil, err
	}

	api, err := ledgerapi.NewClient(ledgerapi.Config{
		BaseURL:    settings.API.URL,
		HTTPClient: options.HTTPClient,
		Timeout:    settings.API.Timeout.Std(),
		APIKey:     settings.API.APIKey,
		Logger:     logger.Named("api"),
	})
	if err != nil {
		return nil, err
	}

	operations, err := pipeline.New(pipeline.Config{
		API:      api,
		Signer:   payer,
		Observer: options.Observer,
		Logger:   logger.Named("pipeline"),
	})
	if err != nil {
		return nil, err
	}

	reads, err := queries.New(queries.Config{
		API:    api,
		Retry:  queries.RetryPolicy{MaxRetries: settings.API.QueryRetries},
		Logger: logger.Named("queries"),
	})
	if err != nil {
		return nil, err
	}

	chain := options.ChainRPC
	if chain == nil {
		endpoint, err := settings.RPCEndpoint()
		if err != nil {
			return nil, err
		}
		chain = rpc.New(endpoint)
	}
	deriver, err := derive.NewDeriver(derive.Config{
		RPC:            chain,
		ConfirmTimeout: settings.RPC.ConfirmTimeout.Std(),
		Logger:         logger.Named("derive"),
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		settings: settings,
		signer:   payer,
		api:      api,
		pipeline: operations,
		queries:  reads,
		deriver:  deriver,
		logger:   logger,
	}, nil
}

func (c *Client) Settings() config.Settings {
	return c.settings
}

// Payer returns the address that signs every operation.
func (c *Client) Payer() solana.PublicKey {
	return c.signer.PublicKey()
}

func (c *Client) Pipeline() *pipeline.Pipeline {
	return c.pipeline
}

func (c *Client) Queries() *queries.Queries {
	return c.queries
}

// Mint returns the configured mint.
func (c *Client) Mint() (solana.PublicKey, error) {
	return derive.ParseAddress("mint.pubkey", c.settings.Mint.Pubkey)
}

// TreasuryAccount derives the treasury of the configured mint and program.
func (c *Client) TreasuryAccount() (solana.PublicKey, error) {
	return derive.TreasuryAccountFromStrings(c.settings.Mint.Pubkey, c.settings.Program.ID)
}

// ResolveUserTokenAccount returns owner's token account for the configured
// mint, creating it at the payer's expense when missing.
func (c *Client) ResolveUserTokenAccount(ctx context.Context, owner solana.PublicKey) (solana.PublicKey, error) {
	mint, err := c.Mint()
	if err != nil {
		return solana.PublicKey{}, err
	}
	return c.deriver.ResolveUserTokenAccount(ctx, owner, mint, c.signer)
}

func (c *Client) CreateUser(ctx context.Context, userID ledgerapi.UserID) (ledgerapi.ConfirmationHandle, error) {
	return c.pipeline.CreateUser(ctx, userID)
}

func (c *Client) MintToTreasury(ctx context.Context, amount ledgerapi.Amount) (ledgerapi.ConfirmationHandle, error) {
	mint, err := c.Mint()
	if err != nil {
		return "", err
	}
	return c.pipeline.MintToTreasury(ctx, mint, amount)
}

// Transfer describes a treasury transfer. FromTokenAccount defaults to
// the treasury account.
type Transfer struct {
	FromID           ledgerapi.UserID
	ToID             ledgerapi.UserID
	Amount           ledgerapi.Amount
	FromTokenAccount solana.PublicKey
	ToTokenAccount   solana.PublicKey
}

func (c *Client) TransferFromTreasury(ctx context.Context, transfer Transfer) (ledgerapi.ConfirmationHandle, error) {
	mint, err := c.Mint()
	if err != nil {
		return "", err
	}
	from := transfer.FromTokenAccount
	if from.IsZero() {
		from, err = c.TreasuryAccount()
		if err != nil {
			return "", err
		}
	}
	return c.pipeline.TransferFromTreasury(ctx, pipeline.TransferFromTreasury{
		Mint:             mint,
		FromID:           transfer.FromID,
		ToID:             transfer.ToID,
		Amount:           transfer.Amount,
		FromTokenAccount: from,
		ToTokenAccount:   transfer.ToTokenAccount,
	})
}

func (c *Client) DepositToUser(
	ctx context.Context,
	userID ledgerapi.UserID,
	amount ledgerapi.Amount,
	userTokenAccount solana.PublicKey,
) (ledgerapi.ConfirmationHandle, error) {
	mint, err := c.Mint()
	if err != nil {
		return "", err
	}
	return c.pipeline.DepositToUser(ctx, pipeline.DepositToUser{
		Mint:             mint,
		UserID:           userID,
		Amount:           amount,
		UserTokenAccount: userTokenAccount,
	})
}

func (c *Client) BalanceOfUser(ctx context.Context, userID ledgerapi.UserID) (ledgerapi.UserBalance, error) {
	return c.queries.BalanceOfUser(ctx, userID)
}

func (c *Client) TotalSupply(ctx context.Context) (ledgerapi.TokenAmount, error) {
	return c.queries.TotalSupply(ctx)
}

func (c *Client) BalanceOfTreasury(ctx context.Context) (ledgerapi.TokenAmount, error) {
	return c.queries.BalanceOfTreasury(ctx)
}

// ParseUserID accepts either a human id of at most 32 bytes or the base64
// wire form of a padded id.
func ParseUserID(value string) (ledgerapi.UserID, error) {
	trimmed := strings.TrimSpace(value)
	if decoded, err := ledgerapi.UserIDFromBase64(trimmed); err == nil {
		return decoded, nil
	}
	return ledgerapi.NewUserID(trimmed)
}
