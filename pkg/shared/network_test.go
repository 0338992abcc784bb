package shared

import (
	"testing"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCluster(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"", ClusterDevnet},
		{"   ", ClusterDevnet},
		{"devnet", ClusterDevnet},
		{"DEVNET", ClusterDevnet},
		{"  testnet  ", ClusterTestnet},
		{"mainnet", ClusterMainnetBeta},
		{"Mainnet-Beta", ClusterMainnetBeta},
		{"localhost", ClusterLocalnet},
		{"localnet", ClusterLocalnet},
	}

	for _, tc := range cases {
		result, err := NormalizeCluster(tc.input)
		require.NoError(t, err, "input %q", tc.input)
		require.Equal(t, tc.expected, result, "input %q", tc.input)
	}
}

func TestNormalizeClusterUnsupported(t *testing.T) {
	_, err := NormalizeCluster("previewnet")
	require.Error(t, err)
}

func TestDefaultRPCEndpoint(t *testing.T) {
	endpoint, err := DefaultRPCEndpoint("mainnet")
	require.NoError(t, err)
	require.Equal(t, rpc.MainNetBeta_RPC, endpoint)

	endpoint, err = DefaultRPCEndpoint("")
	require.NoError(t, err)
	require.Equal(t, rpc.DevNet_RPC, endpoint)

	endpoint, err = DefaultRPCEndpoint("localnet")
	require.NoError(t, err)
	require.Equal(t, rpc.LocalNet_RPC, endpoint)

	_, err = DefaultRPCEndpoint("badnet")
	require.Error(t, err)
}
