package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/custody-labs/ledger-sdk-go/pkg/config"
	"github.com/custody-labs/ledger-sdk-go/pkg/keys"
	"github.com/custody-labs/ledger-sdk-go/pkg/ledger"
	"github.com/custody-labs/ledger-sdk-go/pkg/ledgerapi"
	"github.com/custody-labs/ledger-sdk-go/pkg/logging"
	"github.com/custody-labs/ledger-sdk-go/pkg/queries"
)

const (
	ConfigKey    = "config"
	APIURLKey    = "api-url"
	KeypairKey   = "keypair"
	LogLevelKey  = "log-level"
	LogFormatKey = "log-format"

	UserIDKey           = "user-id"
	FromIDKey           = "from-id"
	ToIDKey             = "to-id"
	AmountKey           = "amount"
	FromTokenAccountKey = "from-token-account"
	ToTokenAccountKey   = "to-token-account"
	TokenAccountKey     = "user-token-account"
	OwnerKey            = "owner"
	CreateKey           = "create"
	MintAmountKey       = "mint-amount"
	DepositAmountKey    = "deposit-amount"

	DefaultMintAmount    = 1_000_000
	DefaultDepositAmount = 100_000
)

func AddGlobalFlags(flags *pflag.FlagSet) {
	flags.String(ConfigKey, config.DefaultPath, "Path to the TOML settings file; ignored when the default file is absent")
	flags.String(APIURLKey, "", "Ledger service URL, overriding the settings file")
	flags.String(KeypairKey, "", "Payer keypair file, overriding the settings file")
	flags.String(LogLevelKey, "info", logging.LevelDescription)
	flags.String(LogFormatKey, logging.AutoString, logging.FormatDescription)
}

type GlobalConfig struct {
	ConfigPath  string
	APIURL      string
	KeypairPath string
	LogLevel    string
	LogFormat   string
}

func ParseGlobalFlags(flags *pflag.FlagSet) (*GlobalConfig, error) {
	configPath, err := flags.GetString(ConfigKey)
	if err != nil {
		return nil, err
	}
	if !flags.Changed(ConfigKey) {
		if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
			configPath = ""
		}
	}

	apiURL, err := flags.GetString(APIURLKey)
	if err != nil {
		return nil, err
	}

	keypairPath, err := flags.GetString(KeypairKey)
	if err != nil {
		return nil, err
	}

	logLevel, err := flags.GetString(LogLevelKey)
	if err != nil {
		return nil, err
	}

	logFormat, err := flags.GetString(LogFormatKey)
	if err != nil {
		return nil, err
	}

	return &GlobalConfig{
		ConfigPath:  configPath,
		APIURL:      apiURL,
		KeypairPath: keypairPath,
		LogLevel:    logLevel,
		LogFormat:   logFormat,
	}, nil
}

// environment is what every command needs before talking to the ledger.
type environment struct {
	settings config.Settings
	keypair  string
	logger   *zap.Logger
}

func loadEnvironment(c *cobra.Command) (*environment, error) {
	global, err := ParseGlobalFlags(c.Flags())
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(global.LogLevel, global.LogFormat, c.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	settings, err := config.Load(global.ConfigPath)
	if err != nil {
		return nil, err
	}
	if global.APIURL != "" {
		settings.API.URL = global.APIURL
		if err := settings.Validate(); err != nil {
			return nil, err
		}
	}

	keypair := settings.Keypair.Path
	if global.KeypairPath != "" {
		keypair = global.KeypairPath
	}
	return &environment{settings: settings, keypair: keypair, logger: logger}, nil
}

func openClient(c *cobra.Command) (*ledger.Client, error) {
	env, err := loadEnvironment(c)
	if err != nil {
		return nil, err
	}
	key, err := keys.LoadKeypairFile(env.keypair)
	if err != nil {
		return nil, err
	}
	client, err := ledger.New(ledger.Options{
		Settings: env.settings,
		Key:      key,
		Logger:   env.logger,
	})
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(c.OutOrStdout(), "Payer:", client.Payer())
	return client, nil
}

// openQueries builds a read-only client; no key is needed.
func openQueries(c *cobra.Command) (*queries.Queries, error) {
	env, err := loadEnvironment(c)
	if err != nil {
		return nil, err
	}
	api, err := ledgerapi.NewClient(ledgerapi.Config{
		BaseURL: env.settings.API.URL,
		Timeout: env.settings.API.Timeout.Std(),
		APIKey:  env.settings.API.APIKey,
		Logger:  env.logger.Named("api"),
	})
	if err != nil {
		return nil, err
	}
	return queries.New(queries.Config{
		API:    api,
		Retry:  queries.RetryPolicy{MaxRetries: env.settings.API.QueryRetries},
		Logger: env.logger.Named("queries"),
	})
}

func parseUserIDFlag(flags *pflag.FlagSet, key string, required bool) (ledgerapi.UserID, error) {
	value, err := flags.GetString(key)
	if err != nil {
		return ledgerapi.UserID{}, err
	}
	if strings.TrimSpace(value) == "" {
		if required {
			return ledgerapi.UserID{}, fmt.Errorf("--%s is required", key)
		}
		return randomUserID()
	}
	return ledger.ParseUserID(value)
}

// randomUserID uses the 32 hex digits of a v4 UUID, which fill the id
// exactly.
func randomUserID() (ledgerapi.UserID, error) {
	return ledgerapi.NewUserID(strings.ReplaceAll(uuid.NewString(), "-", ""))
}

func parseAmountFlag(flags *pflag.FlagSet, key string) (ledgerapi.Amount, error) {
	amount, err := flags.GetUint64(key)
	if err != nil {
		return 0, err
	}
	if amount == 0 {
		return 0, fmt.Errorf("--%s must be positive", key)
	}
	return ledgerapi.Amount(amount), nil
}
