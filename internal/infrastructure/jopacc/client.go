// Package jopacc wraps outbound calls to the Jordan Open Banking gateway.
//
// Every call attaches the fixed security header set and surfaces failures
// without substituting local fallback data: the platform must never present
// stale or synthetic figures as live financial data.
package jopacc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	defaultTimeout = 30 * time.Second

	accountsPath     = "/ais/v1/accounts"
	fxRatesPath      = "/fx/v1/rates"
	applicationsPath = "/fps/v1/applications"
	confirmIBANPath  = "/ibans/v1/confirmation"
)

var (
	// ErrUpstreamUnavailable covers transport failures, timeouts, and any
	// non-2xx gateway response. Mapped to 503 at the HTTP boundary.
	ErrUpstreamUnavailable = errors.New("open banking gateway unavailable")

	// ErrUpstreamFormat covers 2xx responses whose payload cannot be parsed
	// into the normalized model.
	ErrUpstreamFormat = errors.New("open banking gateway returned malformed data")
)

var (
	upstreamMeter       = otel.Meter("dinarx/jopacc")
	upstreamDuration, _ = upstreamMeter.Float64Histogram("jopacc.call.duration",
		metric.WithDescription("Gateway call duration in seconds"),
		metric.WithUnit("s"),
	)
	upstreamTotal, _ = upstreamMeter.Int64Counter("jopacc.call.total",
		metric.WithDescription("Total gateway calls by endpoint and outcome"),
	)
)

// Options configures the gateway client.
type Options struct {
	BaseURL     string
	APIToken    string
	FinancialID string
	Signature   string
	Timeout     time.Duration
}

// Client handles communication with the Open Banking gateway.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiToken    string
	financialID string
	signature   string
	headers     HeaderSource
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)

// NewClient creates a gateway client. headers may be nil, in which case the
// production UUID/clock source is used.
func NewClient(opts Options, headers HeaderSource) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if headers == nil {
		headers = NewHeaderSource()
	}
	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL:     opts.BaseURL,
		apiToken:    opts.APIToken,
		financialID: opts.FinancialID,
		signature:   opts.Signature,
		headers:     headers,
	}
}

type accountsEnvelope struct {
	Accounts []Account `json:"accounts"`
}

type transactionsEnvelope struct {
	Transactions []Transaction `json:"transactions"`
}

type offersEnvelope struct {
	Offers []Offer `json:"offers"`
}

// ListAccounts fetches the linked accounts for a customer.
func (c *Client) ListAccounts(ctx context.Context, customerID string) ([]Account, error) {
	var envelope accountsEnvelope
	if err := c.do(ctx, http.MethodGet, accountsPath, customerID, nil, nil, &envelope); err != nil {
		return nil, err
	}

	for _, acc := range envelope.Accounts {
		if acc.AccountID == "" {
			return nil, fmt.Errorf("%w: account entry missing account_id", ErrUpstreamFormat)
		}
	}
	return envelope.Accounts, nil
}

// GetBalance fetches the balance for one account. This endpoint is scoped by
// account id alone; the customer header is intentionally omitted.
func (c *Client) GetBalance(ctx context.Context, accountID string) (*Balance, error) {
	path := accountsPath + "/" + url.PathEscape(accountID) + "/balance"

	var balance Balance
	if err := c.do(ctx, http.MethodGet, path, "", nil, nil, &balance); err != nil {
		return nil, err
	}
	if balance.AccountID == "" {
		balance.AccountID = accountID
	}
	return &balance, nil
}

// ListTransactions fetches recent transactions for one account.
func (c *Client) ListTransactions(ctx context.Context, customerID, accountID string, limit int) ([]Transaction, error) {
	path := accountsPath + "/" + url.PathEscape(accountID) + "/transactions"
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var envelope transactionsEnvelope
	if err := c.do(ctx, http.MethodGet, path, customerID, query, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Transactions, nil
}

// ListOffers fetches the product offers available against one account.
func (c *Client) ListOffers(ctx context.Context, customerID, accountID string) ([]Offer, error) {
	path := "/fps/v1/accounts/" + url.PathEscape(accountID) + "/offers"

	var envelope offersEnvelope
	if err := c.do(ctx, http.MethodGet, path, customerID, nil, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Offers, nil
}

// GetLoanEligibility fetches the credit scoring result for one account.
func (c *Client) GetLoanEligibility(ctx context.Context, customerID, accountID string) (*LoanEligibility, error) {
	path := "/fps/v1/accounts/" + url.PathEscape(accountID) + "/eligibility"

	var eligibility LoanEligibility
	if err := c.do(ctx, http.MethodGet, path, customerID, nil, nil, &eligibility); err != nil {
		return nil, err
	}

	if eligibility.CreditScore < 300 || eligibility.CreditScore > 850 {
		return nil, fmt.Errorf("%w: credit score %d out of range", ErrUpstreamFormat, eligibility.CreditScore)
	}
	switch eligibility.Eligibility {
	case EligibilityPoor, EligibilityFair, EligibilityGood, EligibilityExcellent:
	default:
		return nil, fmt.Errorf("%w: unknown eligibility band %q", ErrUpstreamFormat, eligibility.Eligibility)
	}

	eligibility.AccountID = accountID
	eligibility.CustomerID = customerID
	return &eligibility, nil
}

// SubmitLoanApplication submits a loan application for the customer.
func (c *Client) SubmitLoanApplication(ctx context.Context, customerID string, application LoanApplication) (*LoanApplicationReceipt, error) {
	application.CustomerID = customerID

	var receipt LoanApplicationReceipt
	if err := c.do(ctx, http.MethodPost, applicationsPath, customerID, nil, application, &receipt); err != nil {
		return nil, err
	}
	if receipt.ApplicationID == "" {
		return nil, fmt.Errorf("%w: application receipt missing application_id", ErrUpstreamFormat)
	}
	return &receipt, nil
}

// GetExchangeRates fetches current FX rates for a base currency.
func (c *Client) GetExchangeRates(ctx context.Context, baseCurrency string) (*ExchangeRates, error) {
	query := url.Values{}
	if baseCurrency != "" {
		query.Set("base_currency", baseCurrency)
	}

	var rates ExchangeRates
	if err := c.do(ctx, http.MethodGet, fxRatesPath, "", query, nil, &rates); err != nil {
		return nil, err
	}
	if rates.BaseCurrency == "" || len(rates.Rates) == 0 {
		return nil, fmt.Errorf("%w: rates response missing base currency or rates", ErrUpstreamFormat)
	}
	return &rates, nil
}

// ConfirmIBAN asks the gateway to confirm an IBAN against account details.
func (c *Client) ConfirmIBAN(ctx context.Context, customerID string, confirmation IBANConfirmation) (*IBANConfirmationResult, error) {
	var result IBANConfirmationResult
	if err := c.do(ctx, http.MethodPost, confirmIBANPath, customerID, nil, confirmation, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// do executes one gateway call. customerID is attached as x-customer-id when
// non-empty; endpoints that are account-scoped pass "". The idempotency key
// and interaction id are generated fresh per call, never reused.
func (c *Client) do(ctx context.Context, method, path, customerID string, query url.Values, body, out any) error {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-financial-id", c.financialID)
	req.Header.Set("x-jws-signature", c.signature)
	req.Header.Set("x-idempotency-key", c.headers.IdempotencyKey())
	req.Header.Set("x-interaction-id", c.headers.InteractionID())
	req.Header.Set("x-auth-date", c.headers.AuthDate())
	if customerID != "" {
		req.Header.Set("x-customer-id", customerID)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record(ctx, path, "transport_error", start)
		return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.record(ctx, path, "read_error", start)
		return fmt.Errorf("%w: failed to read response body: %v", ErrUpstreamUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.record(ctx, path, strconv.Itoa(resp.StatusCode), start)
		return fmt.Errorf("%w: %s %s returned status %d", ErrUpstreamUnavailable, method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			c.record(ctx, path, "format_error", start)
			return fmt.Errorf("%w: %v", ErrUpstreamFormat, err)
		}
	}

	c.record(ctx, path, "ok", start)
	return nil
}

func (c *Client) record(ctx context.Context, path, outcome string, start time.Time) {
	attrs := metric.WithAttributes(
		attribute.String("jopacc.path", path),
		attribute.String("jopacc.outcome", outcome),
	)
	upstreamDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	upstreamTotal.Add(ctx, 1, attrs)
}
