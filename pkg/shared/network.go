package shared

import (
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go/rpc"
)

const (
	ClusterMainnetBeta = "mainnet-beta"
	ClusterDevnet      = "devnet"
	ClusterTestnet     = "testnet"
	ClusterLocalnet    = "localnet"
)

// NormalizeCluster maps a user supplied cluster name onto one of the
// supported cluster constants. An empty value selects devnet.
func NormalizeCluster(cluster string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(cluster))
	switch normalized {
	case "":
		return ClusterDevnet, nil
	case "mainnet", ClusterMainnetBeta:
		return ClusterMainnetBeta, nil
	case ClusterDevnet, ClusterTestnet:
		return normalized, nil
	case ClusterLocalnet, "localhost":
		return ClusterLocalnet, nil
	default:
		return "", fmt.Errorf("unsupported cluster %q", cluster)
	}
}

// DefaultRPCEndpoint returns the public JSON-RPC endpoint of a cluster.
func DefaultRPCEndpoint(cluster string) (string, error) {
	normalized, err := NormalizeCluster(cluster)
	if err != nil {
		return "", err
	}

	switch normalized {
	case ClusterMainnetBeta:
		return rpc.MainNetBeta_RPC, nil
	case ClusterTestnet:
		return rpc.TestNet_RPC, nil
	case ClusterLocalnet:
		return rpc.LocalNet_RPC, nil
	default:
		return rpc.DevNet_RPC, nil
	}
}
