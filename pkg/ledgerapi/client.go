package ledgerapi

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL   = "http://127.0.0.1:5000"
	DefaultUserAgent = "ledger-sdk-go"
	DefaultTimeout   = 30 * time.Second
)

type Config struct {
	BaseURL string
	// HTTPClient replaces the default client. Its own Timeout applies and
	// Config.Timeout is ignored.
	HTTPClient         *http.Client
	Timeout            time.Duration
	APIKey             string
	Headers            map[string]string
	DisableCompression bool
	Logger             *zap.Logger
}

type Client struct {
	baseURL     string
	httpClient  *http.Client
	apiKey      string
	headers     map[string]string
	compression bool
	logger      *zap.Logger
}

// NewClient creates a new Client.
func NewClient(config Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(config.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	parsedBaseURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ledger API base URL: %w", err)
	}
	if parsedBaseURL.Scheme != "http" && parsedBaseURL.Scheme != "https" {
		return nil, fmt.Errorf("invalid ledger API base URL: scheme must be http or https")
	}
	if strings.TrimSpace(parsedBaseURL.Host) == "" {
		return nil, fmt.Errorf("invalid ledger API base URL: host is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		timeout := config.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	headers := map[string]string{}
	for key, value := range config.Headers {
		if strings.TrimSpace(key) != "" && strings.TrimSpace(value) != "" {
			headers[strings.TrimSpace(key)] = strings.TrimSpace(value)
		}
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:     strings.TrimRight(parsedBaseURL.String(), "/"),
		httpClient:  httpClient,
		apiKey:      strings.TrimSpace(config.APIKey),
		headers:     headers,
		compression: !config.DisableCompression,
		logger:      logger,
	}, nil
}

// BaseURL returns the normalized service URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// BuildUnsigned asks the service to build the transaction for route and
// decodes the returned blob. The service is expected to answer with
// {"tx": "<base64>"}.
func (c *Client) BuildUnsigned(
	ctx context.Context,
	route string,
	payload any,
) (*UnsignedTransaction, error) {
	normalizedRoute := normalizeRoute(route)
	if normalizedRoute == "" {
		return nil, fmt.Errorf("route is required")
	}
	if payload == nil {
		return nil, fmt.Errorf("payload is required for /%s", normalizedRoute)
	}

	var response buildResponse
	body, err := c.doJSON(ctx, http.MethodPost, normalizedRoute, payload, &response)
	if err != nil {
		return nil, err
	}
	if response.Tx == nil || strings.TrimSpace(*response.Tx) == "" {
		return nil, &MalformedResponseError{Route: normalizedRoute, Field: "tx", Body: body}
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(*response.Tx))
	if err != nil {
		return nil, &MalformedResponseError{
			Route: normalizedRoute,
			Field: "tx",
			Body:  body,
			Cause: fmt.Errorf("transaction is not base64: %w", err),
		}
	}

	transaction, err := DecodeTransaction(raw)
	if err != nil {
		return nil, &MalformedResponseError{Route: normalizedRoute, Field: "tx", Cause: err}
	}

	c.logger.Debug("received unsigned transaction",
		zap.String("route", normalizedRoute),
		zap.Int("bytes", len(raw)),
		zap.Bool("versioned", transaction.Message.IsVersioned()),
		zap.Uint8("requiredSignatures", transaction.Message.Header.NumRequiredSignatures),
	)

	return &UnsignedTransaction{
		Route:       normalizedRoute,
		Raw:         raw,
		Transaction: transaction,
	}, nil
}

// Broadcast submits a signed transaction and returns the signature the
// service reports for it.
func (c *Client) Broadcast(ctx context.Context, signedTxBase64 string) (ConfirmationHandle, error) {
	encoded := strings.TrimSpace(signedTxBase64)
	if encoded == "" {
		return "", fmt.Errorf("signed transaction is required")
	}

	var response broadcastResponse
	body, err := c.doJSON(ctx, http.MethodPost, RouteBroadcast, broadcastRequest{Tx: encoded}, &response)
	if err != nil {
		return "", err
	}
	if response.Sig == nil || strings.TrimSpace(*response.Sig) == "" {
		return "", &MalformedResponseError{Route: RouteBroadcast, Field: "sig", Body: body}
	}

	handle := ConfirmationHandle(strings.TrimSpace(*response.Sig))
	c.logger.Info("transaction broadcast", zap.String("signature", handle.String()))
	return handle, nil
}

// Query performs a read-only call and decodes the JSON body into target.
// GET requests carry no body.
func (c *Client) Query(
	ctx context.Context,
	method string,
	route string,
	payload any,
	target any,
) error {
	normalizedRoute := normalizeRoute(route)
	if normalizedRoute == "" {
		return fmt.Errorf("route is required")
	}
	switch method {
	case http.MethodGet:
		if payload != nil {
			return fmt.Errorf("GET /%s does not take a payload", normalizedRoute)
		}
	case http.MethodPost:
	default:
		return fmt.Errorf("unsupported query method %q", method)
	}
	if target == nil {
		return fmt.Errorf("query target is required")
	}

	_, err := c.doJSON(ctx, method, normalizedRoute, payload, target)
	return err
}

// DecodeTransaction parses wire bytes into a legacy or versioned
// transaction.
func DecodeTransaction(raw []byte) (*solana.Transaction, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("transaction bytes are empty")
	}
	decoder := bin.NewBinDecoder(raw)
	transaction, err := solana.TransactionFromDecoder(decoder)
	if err != nil {
		return nil, fmt.Errorf("failed to decode transaction: %w", err)
	}
	if remaining := decoder.Remaining(); remaining > 0 {
		return nil, fmt.Errorf("transaction has %d trailing bytes", remaining)
	}
	if len(transaction.Message.AccountKeys) == 0 {
		return nil, fmt.Errorf("transaction has no account keys")
	}
	if int(transaction.Message.Header.NumRequiredSignatures) > len(transaction.Message.AccountKeys) {
		return nil, fmt.Errorf(
			"transaction requires %d signatures but lists %d account keys",
			transaction.Message.Header.NumRequiredSignatures,
			len(transaction.Message.AccountKeys),
		)
	}
	return transaction, nil
}

func (c *Client) doJSON(
	ctx context.Context,
	method string,
	route string,
	payload any,
	target any,
) (string, error) {
	body, err := c.do(ctx, method, route, payload)
	if err != nil {
		return "", err
	}
	trimmed := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, target); err != nil {
		return trimmed, &MalformedResponseError{
			Route: route,
			Body:  trimmed,
			Cause: fmt.Errorf("failed to decode response: %w", err),
		}
	}
	return trimmed, nil
}

func (c *Client) do(ctx context.Context, method string, route string, payload any) ([]byte, error) {
	var requestBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode /%s payload: %w", route, err)
		}
		requestBody = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.resolveURL(route), requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	request.Header.Set("Accept", "application/json")
	request.Header.Set("User-Agent", DefaultUserAgent)
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if c.compression {
		request.Header.Set("Accept-Encoding", "br, gzip")
	}
	if c.apiKey != "" {
		request.Header.Set("x-api-key", c.apiKey)
	}
	for key, value := range c.headers {
		request.Header.Set(key, value)
	}

	started := time.Now()
	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, &TransportError{Method: method, Route: route, Cause: err}
	}
	defer response.Body.Close()

	encoding := strings.ToLower(strings.TrimSpace(response.Header.Get("Content-Encoding")))
	c.logger.Debug("ledger API call",
		zap.String("method", method),
		zap.String("route", route),
		zap.Int("status", response.StatusCode),
		zap.Duration("elapsed", time.Since(started)),
	)

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, &ServiceError{
			Route:      route,
			Status:     response.StatusCode,
			StatusText: response.Status,
			Body:       strings.TrimSpace(string(errorBody(encoding, response.Body))),
		}
	}

	reader, err := decodedBody(encoding, response.Body)
	if err != nil {
		return nil, &MalformedResponseError{Route: route, Cause: err}
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		if encoding != "" && encoding != "identity" {
			return nil, &MalformedResponseError{
				Route: route,
				Cause: fmt.Errorf("failed to decode %s response body: %w", encoding, err),
			}
		}
		return nil, &TransportError{Method: method, Route: route, Cause: err}
	}
	return body, nil
}

// errorBody reads a non-2xx body for diagnostics only. When the declared
// encoding cannot be decoded the raw bytes are returned instead.
func errorBody(encoding string, body io.Reader) []byte {
	raw, err := io.ReadAll(body)
	if err != nil {
		return raw
	}
	reader, err := decodedBody(encoding, bytes.NewReader(raw))
	if err != nil {
		return raw
	}
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return raw
	}
	return decoded
}

func decodedBody(encoding string, body io.Reader) (io.Reader, error) {
	switch encoding {
	case "", "identity":
		return body, nil
	case "br":
		return brotli.NewReader(body), nil
	case "gzip":
		return gzip.NewReader(body)
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", encoding)
	}
}

func (c *Client) resolveURL(route string) string {
	return c.baseURL + "/" + route
}

func normalizeRoute(route string) string {
	return strings.Trim(strings.TrimSpace(route), "/")
}
