// Package starling is an HTTP client for the Starling Bank public API (v2).
package starling

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	// DefaultBaseURL is the production Starling API endpoint.
	DefaultBaseURL = "https://api.starlingbank.com/api/v2"

	// TimestampFormat is ISO-8601 UTC at second precision, the wire
	// format Starling expects for feed window parameters.
	TimestampFormat = "2006-01-02T15:04:05Z"

	defaultTimeout = 30 * time.Second
	userAgent      = "starsync"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Client issues authenticated GET requests against the Starling API.
// It is stateless and safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)

// NewClient creates a Starling API client. An empty baseURL selects
// the production endpoint.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    baseURL,
	}
}

// Account is a Starling account record.
type Account struct {
	AccountUID      string `json:"accountUid" validate:"required"`
	Name            string `json:"name" validate:"required"`
	AccountType     string `json:"accountType"`
	Currency        string `json:"currency" validate:"required"`
	CreatedAt       string `json:"createdAt"`
	DefaultCategory string `json:"defaultCategory" validate:"required"`
}

type accountsEnvelope struct {
	Accounts []Account `json:"accounts"`
}

// Amount is a monetary amount in minor units.
type Amount struct {
	Currency   string `json:"currency" validate:"required"`
	MinorUnits int64  `json:"minorUnits"`
}

// Transaction is a Starling feed item.
type Transaction struct {
	FeedItemUID      string `json:"feedItemUid" validate:"required"`
	TransactionTime  string `json:"transactionTime" validate:"required"`
	CounterPartyName string `json:"counterPartyName"`
	Direction        string `json:"direction" validate:"required,oneof=IN OUT"`
	SourceAmount     Amount `json:"sourceAmount"`
	Reference        string `json:"reference"`
	Status           string `json:"status"`
}

type feedEnvelope struct {
	FeedItems []Transaction `json:"feedItems"`
}

// FormatTimestamp renders t in the Starling wire format.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}

// FetchAccounts returns all accounts visible to the bearer token.
func (c *Client) FetchAccounts(ctx context.Context, token string) ([]Account, error) {
	const path = "/accounts"

	var envelope accountsEnvelope
	if err := c.get(ctx, token, path, nil, &envelope); err != nil {
		return nil, err
	}

	for i := range envelope.Accounts {
		if err := validate.Struct(&envelope.Accounts[i]); err != nil {
			return nil, &SchemaError{Path: path, Err: fmt.Errorf("account %d: %w", i, err)}
		}
	}

	return envelope.Accounts, nil
}

// FetchTransactions returns feed items for the account's default
// category within [start, end].
func (c *Client) FetchTransactions(ctx context.Context, token, accountUID, categoryUID string, start, end time.Time) ([]Transaction, error) {
	path := fmt.Sprintf("/feed/account/%s/category/%s/transactions-between", accountUID, categoryUID)
	params := url.Values{
		"minTransactionTimestamp": {FormatTimestamp(start)},
		"maxTransactionTimestamp": {FormatTimestamp(end)},
	}

	var envelope feedEnvelope
	if err := c.get(ctx, token, path, params, &envelope); err != nil {
		return nil, err
	}

	for i := range envelope.FeedItems {
		if err := validate.Struct(&envelope.FeedItems[i]); err != nil {
			return nil, &SchemaError{Path: path, Err: fmt.Errorf("feed item %d: %w", i, err)}
		}
	}

	return envelope.FeedItems, nil
}

// get performs an authenticated GET and decodes the response body into out.
func (c *Client) get(ctx context.Context, token, path string, params url.Values, out any) error {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &FetchError{Path: path, Err: err}
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &FetchError{Path: path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &FetchError{Path: path, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &FetchError{Path: path, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &SchemaError{Path: path, Err: err}
	}

	return nil
}
