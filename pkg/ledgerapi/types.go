package ledgerapi

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gagliardetto/solana-go"
)

const (
	RouteCreateUser      = "create_user"
	RouteMint            = "mint"
	RouteTransfer        = "transfer"
	RouteDeposit         = "deposit"
	RouteBroadcast       = "broadcast"
	RouteBalanceUser     = "balance_user"
	RouteTotalSupply     = "total_supply"
	RouteBalanceTreasury = "balance_treasury"
)

// UserIDSize is the fixed width of a ledger user identifier.
const UserIDSize = 32

// UserID is a ledger user identifier: the UTF-8 bytes of a human string,
// right-padded with zero bytes. On the wire it is standard base64.
type UserID [UserIDSize]byte

// NewUserID pads value to UserIDSize bytes. Values longer than UserIDSize
// bytes are rejected rather than truncated.
func NewUserID(value string) (UserID, error) {
	var id UserID
	if value == "" {
		return id, fmt.Errorf("user id is required")
	}
	if len(value) > UserIDSize {
		return id, fmt.Errorf("user id %q is %d bytes, at most %d allowed", value, len(value), UserIDSize)
	}
	copy(id[:], value)
	return id, nil
}

// UserIDFromBase64 decodes the wire form of an identifier.
func UserIDFromBase64(encoded string) (UserID, error) {
	var id UserID
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return id, fmt.Errorf("user id must be base64: %w", err)
	}
	if len(raw) != UserIDSize {
		return id, fmt.Errorf("user id must decode to %d bytes, got %d", UserIDSize, len(raw))
	}
	copy(id[:], raw)
	return id, nil
}

// String returns the base64 wire form.
func (id UserID) String() string {
	return base64.StdEncoding.EncodeToString(id[:])
}

// Text returns the human string with the zero padding removed.
func (id UserID) Text() string {
	return string(bytes.TrimRight(id[:], "\x00"))
}

func (id UserID) IsZero() bool {
	return id == UserID{}
}

func (id UserID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *UserID) UnmarshalText(text []byte) error {
	decoded, err := UserIDFromBase64(string(text))
	if err != nil {
		return err
	}
	*id = decoded
	return nil
}

// Amount is a token quantity in the mint's smallest unit.
type Amount uint64

// UnmarshalJSON accepts both JSON numbers and decimal strings, since the
// service reports u64 values as strings to stay clear of float precision.
func (a *Amount) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	if text == "null" {
		return fmt.Errorf("amount is null")
	}
	if unquoted, err := strconv.Unquote(text); err == nil {
		text = strings.TrimSpace(unquoted)
	}
	parsed, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %s: %w", string(data), err)
	}
	*a = Amount(parsed)
	return nil
}

// TokenAmount pairs a raw amount with the mint's decimals.
type TokenAmount struct {
	Amount   Amount `json:"amount"`
	Decimals uint8  `json:"decimals"`
}

// UIAmount scales the raw amount by the decimals. Display only.
func (t TokenAmount) UIAmount() float64 {
	return float64(t.Amount) / math.Pow10(int(t.Decimals))
}

// String renders the exact decimal quantity, e.g. 1000000 with 6 decimals
// is "1.000000".
func (t TokenAmount) String() string {
	digits := strconv.FormatUint(uint64(t.Amount), 10)
	places := int(t.Decimals)
	if places == 0 {
		return digits
	}
	if len(digits) <= places {
		digits = strings.Repeat("0", places-len(digits)+1) + digits
	}
	return digits[:len(digits)-places] + "." + digits[len(digits)-places:]
}

// UserBalance is a user's ledger balance split into spendable and frozen.
type UserBalance struct {
	Free   Amount `json:"free_balance"`
	Frozen Amount `json:"frozen_balance"`
}

// ConfirmationHandle is the transaction signature returned by /broadcast.
type ConfirmationHandle string

func (h ConfirmationHandle) String() string {
	return string(h)
}

// Signature parses the handle as a base58 transaction signature.
func (h ConfirmationHandle) Signature() (solana.Signature, error) {
	return solana.SignatureFromBase58(string(h))
}

// UnsignedTransaction is a builder response. Raw holds the exact bytes the
// service returned; Transaction is their decoded form.
type UnsignedTransaction struct {
	Route       string
	Raw         []byte
	Transaction *solana.Transaction
}

func (u *UnsignedTransaction) Base64() string {
	return base64.StdEncoding.EncodeToString(u.Raw)
}

type buildResponse struct {
	Tx *string `json:"tx"`
}

type broadcastRequest struct {
	Tx string `json:"tx"`
}

type broadcastResponse struct {
	Sig *string `json:"sig"`
}

var _ json.Unmarshaler = (*Amount)(nil)
