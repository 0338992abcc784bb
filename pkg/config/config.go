package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/naoina/toml"

	"github.com/custody-labs/ledger-sdk-go/pkg/ledgerapi"
	"github.com/custody-labs/ledger-sdk-go/pkg/shared"
)

const (
	DefaultPath           = "config.toml"
	DefaultKeypairPath    = "keys/full.json"
	DefaultConfirmTimeout = 60 * time.Second
)

// Duration is a time.Duration written as a string such as "30s".
type Duration time.Duration

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

type APISettings struct {
	URL          string   `toml:"url"`
	Timeout      Duration `toml:"timeout"`
	APIKey       string   `toml:"api_key"`
	QueryRetries uint64   `toml:"query_retries"`
}

type RPCSettings struct {
	Cluster        string   `toml:"cluster"`
	URL            string   `toml:"url"`
	ConfirmTimeout Duration `toml:"confirm_timeout"`
}

type ProgramSettings struct {
	ID string `toml:"id"`
}

type MintSettings struct {
	Pubkey string `toml:"pubkey"`
}

type KeypairSettings struct {
	Path string `toml:"path"`
}

type Settings struct {
	API     APISettings     `toml:"api"`
	RPC     RPCSettings     `toml:"rpc"`
	Program ProgramSettings `toml:"program"`
	Mint    MintSettings    `toml:"mint"`
	Keypair KeypairSettings `toml:"keypair"`
}

// Default returns the settings used for anything a file leaves out.
func Default() Settings {
	return Settings{
		API: APISettings{
			URL:     ledgerapi.DefaultBaseURL,
			Timeout: Duration(ledgerapi.DefaultTimeout),
		},
		RPC: RPCSettings{
			Cluster:        shared.ClusterDevnet,
			ConfirmTimeout: Duration(DefaultConfirmTimeout),
		},
		Keypair: KeypairSettings{Path: DefaultKeypairPath},
	}
}

// Unknown keys are errors so typos in the file do not go unnoticed.
var tomlSettings = toml.Config{
	NormFieldName: toml.DefaultConfig.NormFieldName,
	FieldToKey:    toml.DefaultConfig.FieldToKey,
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

// Decode reads TOML from r on top of the values already in settings.
func Decode(r io.Reader, settings *Settings) error {
	return tomlSettings.NewDecoder(bufio.NewReader(r)).Decode(settings)
}

// Load reads path, applies environment overrides and validates the
// result. An empty path skips the file.
func Load(path string) (Settings, error) {
	settings := Default()
	if strings.TrimSpace(path) != "" {
		if err := loadFile(path, &settings); err != nil {
			return Settings{}, err
		}
	}
	settings.ApplyOverrides(shared.OverridesFromEnv())
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

func loadFile(path string, settings *Settings) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	err = Decode(f, settings)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(path + ", " + err.Error())
	}
	return err
}

// ApplyOverrides replaces settings with every non-empty override.
func (s *Settings) ApplyOverrides(overrides shared.EnvOverrides) {
	if overrides.APIURL != "" {
		s.API.URL = overrides.APIURL
	}
	if overrides.APIKey != "" {
		s.API.APIKey = overrides.APIKey
	}
	if overrides.RPCURL != "" {
		s.RPC.URL = overrides.RPCURL
	}
	if overrides.Cluster != "" {
		s.RPC.Cluster = overrides.Cluster
	}
	if overrides.ProgramID != "" {
		s.Program.ID = overrides.ProgramID
	}
	if overrides.MintPubkey != "" {
		s.Mint.Pubkey = overrides.MintPubkey
	}
	if overrides.KeypairPath != "" {
		s.Keypair.Path = overrides.KeypairPath
	}
}

// Validate checks the format of every value that is set. Program and mint
// may be empty; ProgramID and MintPubkey report them missing on use.
func (s *Settings) Validate() error {
	if err := validateHTTPURL("api.url", s.API.URL); err != nil {
		return err
	}
	if s.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}

	cluster, err := shared.NormalizeCluster(s.RPC.Cluster)
	if err != nil {
		return fmt.Errorf("rpc.cluster: %w", err)
	}
	s.RPC.Cluster = cluster
	if strings.TrimSpace(s.RPC.URL) != "" {
		if err := validateHTTPURL("rpc.url", s.RPC.URL); err != nil {
			return err
		}
	}
	if s.RPC.ConfirmTimeout <= 0 {
		return fmt.Errorf("rpc.confirm_timeout must be positive")
	}

	if strings.TrimSpace(s.Program.ID) != "" {
		if _, err := s.ProgramID(); err != nil {
			return err
		}
	}
	if strings.TrimSpace(s.Mint.Pubkey) != "" {
		if _, err := s.MintPubkey(); err != nil {
			return err
		}
	}
	return nil
}

// ProgramID parses program.id.
func (s Settings) ProgramID() (solana.PublicKey, error) {
	return parseKey("program.id", s.Program.ID)
}

// MintPubkey parses mint.pubkey.
func (s Settings) MintPubkey() (solana.PublicKey, error) {
	return parseKey("mint.pubkey", s.Mint.Pubkey)
}

// RPCEndpoint returns rpc.url, or the cluster's public endpoint when unset.
func (s Settings) RPCEndpoint() (string, error) {
	if endpoint := strings.TrimSpace(s.RPC.URL); endpoint != "" {
		return endpoint, nil
	}
	return shared.DefaultRPCEndpoint(s.RPC.Cluster)
}

func parseKey(field string, value string) (solana.PublicKey, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return solana.PublicKey{}, fmt.Errorf("%s is required", field)
	}
	key, err := solana.PublicKeyFromBase58(trimmed)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%s: invalid base58 address: %w", field, err)
	}
	return key, nil
}

func validateHTTPURL(field string, value string) error {
	parsed, err := url.Parse(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s: scheme must be http or https", field)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s: host is required", field)
	}
	return nil
}
