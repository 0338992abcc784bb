package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custody-labs/ledger-sdk-go/pkg/keys"
	"github.com/custody-labs/ledger-sdk-go/pkg/ledgerapi"
	"github.com/custody-labs/ledger-sdk-go/pkg/ledgertest"
)

const (
	testProgramID  = "Fg6PaFpoGXkYsidMpWTK6W2BeZ7FEfcYkg476zPFsLnS"
	testMint       = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	fixedSignature = "4Nd1mBQtrMJVYVfKf2PJy9NZUZdTAsp7D4xWLs4gDB4T"
)

func clearLedgerEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"LEDGER_API_URL", "LEDGER_API_KEY", "LEDGER_RPC_URL", "SOLANA_RPC_URL",
		"LEDGER_CLUSTER", "SOLANA_CLUSTER", "LEDGER_PROGRAM_ID", "LEDGER_MINT_PUBKEY",
		"LEDGER_KEYPAIR_PATH",
	} {
		t.Setenv(key, "")
	}
}

// newChainServer answers getAccountInfo as if every token account existed.
func newChainServer(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		var call struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		if err := json.NewDecoder(request.Body).Decode(&call); err != nil {
			t.Errorf("invalid JSON-RPC request: %v", err)
			return
		}
		if call.Method != "getAccountInfo" {
			t.Errorf("unexpected JSON-RPC method %s", call.Method)
			return
		}
		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"jsonrpc":"2.0","id":` + string(call.ID) + `,"result":{"context":{"slot":1},"value":{"data":["","base64"],"executable":false,"lamports":2039280,"owner":"TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA","rentEpoch":0}}}`))
	}))
	t.Cleanup(server.Close)
	return server
}

type cli struct {
	ledger *ledgertest.Server
	config string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	clearLedgerEnv(t)

	dir := t.TempDir()
	key := ledgertest.NewKey(t)
	keyPath := filepath.Join(dir, "full.json")
	require.NoError(t, keys.WriteKeypairFile(keyPath, key))

	ledgerServer := ledgertest.NewServer(t)
	encoded := ledgertest.UnsignedTransactionBase64(t, key.PublicKey(), ledgertest.FixtureOptions{})
	for _, route := range []string{ledgerapi.RouteCreateUser, ledgerapi.RouteMint, ledgerapi.RouteTransfer, ledgerapi.RouteDeposit} {
		ledgerServer.RespondTx(route, encoded)
	}
	ledgerServer.RespondJSON(ledgerapi.RouteBroadcast, http.StatusOK, map[string]string{"sig": fixedSignature})
	ledgerServer.RespondJSON(ledgerapi.RouteBalanceUser, http.StatusOK, map[string]any{"free_balance": 100000, "frozen_balance": 0})
	ledgerServer.RespondJSON(ledgerapi.RouteTotalSupply, http.StatusOK, map[string]any{"amount": "1000000", "decimals": 6})
	ledgerServer.RespondJSON(ledgerapi.RouteBalanceTreasury, http.StatusOK, map[string]any{"amount": "900000", "decimals": 6})

	chain := newChainServer(t)
	configPath := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
[api]
url = "`+ledgerServer.URL+`"

[rpc]
url = "`+chain.URL+`"

[program]
id = "`+testProgramID+`"

[mint]
pubkey = "`+testMint+`"

[keypair]
path = "`+keyPath+`"
`), 0o600))

	return &cli{ledger: ledgerServer, config: configPath}
}

func (c *cli) run(args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := rootCommand(&stdout, &stderr)
	cmd.SetArgs(append(args, "--config", c.config, "--log-format", "plain", "--log-level", "warn"))
	err := cmd.Execute()
	return stdout.String(), err
}

func TestDemoRunsFullSequence(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("demo", "--user-id", "example_user")
	require.NoError(t, err)
	require.Contains(t, out, "CreateUser sig: "+fixedSignature)
	require.Contains(t, out, "Deposit sig: "+fixedSignature)
	require.Contains(t, out, "User balance: free=100000, frozen=0")
	require.Contains(t, out, "Total supply: 1000000 (decimals=6) = 1.000000")
	require.Contains(t, out, "Treasury balance: 900000 (decimals=6) = 0.900000")

	require.Equal(t, []string{
		ledgerapi.RouteCreateUser, ledgerapi.RouteBroadcast,
		ledgerapi.RouteMint, ledgerapi.RouteBroadcast,
		ledgerapi.RouteDeposit, ledgerapi.RouteBroadcast,
		ledgerapi.RouteBalanceUser,
		ledgerapi.RouteTotalSupply,
		ledgerapi.RouteBalanceTreasury,
	}, c.ledger.Routes())
	require.Equal(t, "ZXhhbXBsZV91c2VyAAAAAAAAAAAAAAAAAAAAAAAAAAA=", c.ledger.Calls()[0].Body["user_id"])
}

func TestDemoStopsAtFirstFailure(t *testing.T) {
	c := newCLI(t)
	c.ledger.RespondJSON(ledgerapi.RouteMint, http.StatusInternalServerError, map[string]string{"error": "mint authority missing"})

	out, err := c.run("demo")
	require.Error(t, err)
	require.Contains(t, err.Error(), "mint authority missing")
	require.Contains(t, out, "CreateUser sig:")
	require.NotContains(t, out, "Deposit sig:")
	require.Equal(t, []string{ledgerapi.RouteCreateUser, ledgerapi.RouteBroadcast, ledgerapi.RouteMint}, c.ledger.Routes())
}

func TestCreateUserGeneratesRandomID(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("create-user")
	require.NoError(t, err)

	userID, err := ledgerapi.UserIDFromBase64(c.ledger.Calls()[0].Body["user_id"].(string))
	require.NoError(t, err)
	require.Len(t, userID.Text(), ledgerapi.UserIDSize)
	require.Equal(t, strings.ToLower(userID.Text()), userID.Text())
}

func TestQueryCommandsNeedNoKey(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("total-supply", "--keypair", filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	require.Equal(t, "Total supply: 1000000 (decimals=6) = 1.000000\n", out)

	out, err = c.run("balance-user", "--user-id", "example_user")
	require.NoError(t, err)
	require.Contains(t, out, "free=100000")
}

func TestTransferCommand(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("transfer", "--from-id", "desk", "--to-id", "erin", "--amount", "5")
	require.NoError(t, err)
	require.Contains(t, out, "Transfer sig: "+fixedSignature)

	body := c.ledger.Calls()[0].Body
	require.Equal(t, float64(5), body["amount"])
	require.NotEqual(t, body["from_id"], body["to_id"])
}

func TestAccountsCommand(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("accounts")
	require.NoError(t, err)
	require.Contains(t, out, "Treasury account:")
	require.Contains(t, out, "Token account:")
	require.Empty(t, c.ledger.Calls())
}

func TestCommandValidation(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("balance-user")
	require.EqualError(t, err, "--user-id is required")

	_, err = c.run("mint", "--amount", "0")
	require.EqualError(t, err, "--amount must be positive")

	_, err = c.run("deposit", "--user-id", strings.Repeat("x", 40))
	require.Error(t, err)
	require.Empty(t, c.ledger.Calls())
}
