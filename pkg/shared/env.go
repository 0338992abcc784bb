package shared

import (
	"bufio"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

// EnvOverrides holds settings read from the environment. Empty fields mean
// "not set" and leave the file value in place.
type EnvOverrides struct {
	APIURL      string
	APIKey      string
	RPCURL      string
	Cluster     string
	ProgramID   string
	MintPubkey  string
	KeypairPath string
}

var dotenvLoadOnce sync.Once

// OverridesFromEnv reads the LEDGER_* variables, loading a .env file first
// when one is present.
func OverridesFromEnv() EnvOverrides {
	loadDotEnvIfPresent()

	return EnvOverrides{
		APIURL:      firstNonEmptyEnv("LEDGER_API_URL"),
		APIKey:      firstNonEmptyEnv("LEDGER_API_KEY"),
		RPCURL:      firstNonEmptyEnv("LEDGER_RPC_URL", "SOLANA_RPC_URL"),
		Cluster:     firstNonEmptyEnv("LEDGER_CLUSTER", "SOLANA_CLUSTER"),
		ProgramID:   firstNonEmptyEnv("LEDGER_PROGRAM_ID"),
		MintPubkey:  firstNonEmptyEnv("LEDGER_MINT_PUBKEY"),
		KeypairPath: firstNonEmptyEnv("LEDGER_KEYPAIR_PATH"),
	}
}

// IsEmpty reports whether no override was found.
func (o EnvOverrides) IsEmpty() bool {
	return o == EnvOverrides{}
}

func loadDotEnvIfPresent() {
	dotenvLoadOnce.Do(func() {
		for _, candidate := range dotenvCandidates() {
			if _, err := os.Stat(candidate); err == nil {
				loadDotEnvFile(candidate)
				return
			}
		}
	})
}

// dotenvCandidates lists .env paths from the working directory and from this
// source file's directory up to the filesystem root, without duplicates.
func dotenvCandidates() []string {
	starts := make([]string, 0, 2)
	if cwd, err := os.Getwd(); err == nil {
		starts = append(starts, cwd)
	}
	if _, currentFile, _, ok := runtime.Caller(0); ok {
		starts = append(starts, filepath.Dir(currentFile))
	}

	seen := make(map[string]struct{})
	candidates := make([]string, 0)
	for _, start := range starts {
		for current := start; ; {
			candidate := filepath.Join(current, ".env")
			if _, exists := seen[candidate]; !exists {
				seen[candidate] = struct{}{}
				candidates = append(candidates, candidate)
			}
			parent := filepath.Dir(current)
			if parent == current {
				break
			}
			current = parent
		}
	}
	return candidates
}

func loadDotEnvFile(path string) bool {
	file, err := os.Open(path)
	if err != nil {
		return false
	}
	defer file.Close()

	loadedAny := false
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		key, value, ok := parseDotEnvLine(scanner.Text())
		if !ok {
			continue
		}
		if strings.TrimSpace(os.Getenv(key)) != "" {
			continue
		}
		if err := os.Setenv(key, value); err == nil {
			loadedAny = true
		}
	}
	return loadedAny
}

func parseDotEnvLine(raw string) (string, string, bool) {
	line := strings.TrimSpace(raw)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	line = strings.TrimSpace(strings.TrimPrefix(line, "export "))

	key, value, found := strings.Cut(line, "=")
	if !found {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	if !isValidEnvKey(key) {
		return "", "", false
	}

	value = strings.TrimSpace(value)
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			value = value[1 : len(value)-1]
		}
	}
	return key, value, true
}

func isValidEnvKey(key string) bool {
	if key == "" {
		return false
	}
	for index, character := range key {
		switch {
		case character >= 'A' && character <= 'Z',
			character >= 'a' && character <= 'z',
			character == '_':
		case index > 0 && character >= '0' && character <= '9':
		default:
			return false
		}
	}
	return true
}

func firstNonEmptyEnv(keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			return value
		}
	}
	return ""
}
