package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"park-price-tiers/internal/pricing"
)

const defaultBaseURL = "https://api.disneylandparis.com/prices-calendar/api/v2/prices/ticket-price-calendar"

// ProductCodes identifies one sellable ticket product on the source side.
type ProductCodes struct {
	ProductType      string `json:"productType"`
	AdultProductCode string `json:"adultProductCode"`
	ChildProductCode string `json:"childProductCode"`
}

// ProductCatalog maps the supported product types to their source codes.
var ProductCatalog = map[string]ProductCodes{
	"1-day-1-park":  {ProductType: "1-day-1-park", AdultProductCode: "TKITK6001A", ChildProductCode: "TKITK6001C"},
	"1-day-2-parks": {ProductType: "1-day-2-parks", AdultProductCode: "TKITHL001A", ChildProductCode: "TKITHL001C"},
	"2-day-2-parks": {ProductType: "2-day-2-parks", AdultProductCode: "TKITHS002A", ChildProductCode: "TKITHS002C"},
	"3-day-2-parks": {ProductType: "3-day-2-parks", AdultProductCode: "TKITHS003A", ChildProductCode: "TKITHS003C"},
	"4-day-2-parks": {ProductType: "4-day-2-parks", AdultProductCode: "TKITHS004A", ChildProductCode: "TKITHS004C"},
}

// KnownProductTypes lists the catalog keys in a stable order.
func KnownProductTypes() []string {
	types := make([]string, 0, len(ProductCatalog))
	for pt := range ProductCatalog {
		types = append(types, pt)
	}
	sort.Strings(types)
	return types
}

// DisneyOptions parameterise the pricing calendar client.
type DisneyOptions struct {
	BaseURL      string
	Market       string
	Currency     string
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
	UserAgent    string
}

// Disney fetches the ticket price calendar from the park pricing API.
type Disney struct {
	opts    DisneyOptions
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
}

// NewDisney constructs a pricing calendar fetcher.
func NewDisney(opts DisneyOptions, logger zerolog.Logger) *Disney {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = 2 * time.Second
	}
	if opts.Market == "" {
		opts.Market = "en-int"
	}
	if opts.Currency == "" {
		opts.Currency = "EUR"
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Disney{
		opts:    opts,
		logger:  logger.With().Str("component", "price_fetcher").Logger(),
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

type calendarRequest struct {
	Market                 string                 `json:"market"`
	Currency               string                 `json:"currency"`
	StartDate              string                 `json:"startDate"`
	EndDate                string                 `json:"endDate"`
	Products               []ProductCodes         `json:"products"`
	EligibilityInformation eligibilityInformation `json:"eligibilityInformation"`
}

type eligibilityInformation struct {
	SalesChannel        string   `json:"salesChannel"`
	MembershipType      string   `json:"membershipType"`
	MasterCategoryCodes []string `json:"masterCategoryCodes"`
}

type errorResponse struct {
	ErrorType   string `json:"errorType"`
	Description string `json:"description"`
	Message     string `json:"message"`
}

// FetchPrices retrieves the pricing calendar for [start, end] and the given
// product types. Transient failures are retried up to MaxRetries with a
// linear backoff; the last failure surfaces to the caller.
func (d *Disney) FetchPrices(ctx context.Context, start, end time.Time, productTypes []string) (pricing.Calendar, json.RawMessage, error) {
	if end.Before(start) {
		return pricing.Calendar{}, nil, errors.New("end date must not precede start date")
	}
	if len(productTypes) == 0 {
		productTypes = KnownProductTypes()
	}

	products := make([]ProductCodes, 0, len(productTypes))
	for _, pt := range productTypes {
		codes, ok := ProductCatalog[pt]
		if !ok {
			return pricing.Calendar{}, nil, fmt.Errorf("unknown product type %q", pt)
		}
		products = append(products, codes)
	}

	payload := calendarRequest{
		Market:    d.opts.Market,
		Currency:  d.opts.Currency,
		StartDate: start.Format(pricing.DateLayout),
		EndDate:   end.Format(pricing.DateLayout),
		Products:  products,
		EligibilityInformation: eligibilityInformation{
			SalesChannel:        "DIRECT",
			MembershipType:      "",
			MasterCategoryCodes: []string{"EVENT", " TICKET", " TKTEXPERI"},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return pricing.Calendar{}, nil, fmt.Errorf("marshal calendar request: %w", err)
	}

	d.logger.Info().
		Str("start", payload.StartDate).
		Str("end", payload.EndDate).
		Int("products", len(products)).
		Msg("fetching pricing calendar")

	var lastErr error
	for attempt := 1; attempt <= d.opts.MaxRetries; attempt++ {
		raw, attemptErr := d.doRequest(ctx, body)
		if attemptErr == nil {
			cal, parseErr := pricing.ParseCalendar(raw)
			if parseErr != nil {
				return pricing.Calendar{}, nil, parseErr
			}
			d.logger.Info().Int("days", len(cal.Calendar)).Msg("fetched pricing calendar")
			return cal, raw, nil
		}

		lastErr = attemptErr
		d.logger.Warn().Err(attemptErr).
			Int("attempt", attempt).
			Int("max_retries", d.opts.MaxRetries).
			Msg("calendar fetch attempt failed")

		if attempt == d.opts.MaxRetries {
			break
		}
		if err := sleepContext(ctx, d.opts.RetryBackoff*time.Duration(attempt)); err != nil {
			return pricing.Calendar{}, nil, err
		}
	}

	return pricing.Calendar{}, nil, fmt.Errorf("fetch prices after %d attempts: %w", d.opts.MaxRetries, lastErr)
}

func (d *Disney) doRequest(ctx context.Context, body []byte) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create calendar request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if ua := strings.TrimSpace(d.opts.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	} else {
		req.Header.Set("User-Agent", "parkwatcher/1.0")
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, parseHTTPError(resp.StatusCode, payload)
	}
	return json.RawMessage(payload), nil
}

func parseHTTPError(status int, payload []byte) error {
	var apiErr errorResponse
	if err := json.Unmarshal(payload, &apiErr); err == nil {
		if apiErr.Description != "" {
			return fmt.Errorf("pricing api error (%d): %s", status, apiErr.Description)
		}
		if apiErr.Message != "" {
			return fmt.Errorf("pricing api error (%d): %s", status, apiErr.Message)
		}
		if apiErr.ErrorType != "" {
			return fmt.Errorf("pricing api error (%d): %s", status, apiErr.ErrorType)
		}
	}
	if len(payload) > 0 {
		return fmt.Errorf("pricing api error (%d): %s", status, strings.TrimSpace(string(payload)))
	}
	return fmt.Errorf("pricing api error (%d)", status)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// DefaultDateRange returns today plus monthsAhead months of lookahead,
// matching the source's rolling pricing window.
func DefaultDateRange(monthsAhead int) (time.Time, time.Time) {
	if monthsAhead <= 0 {
		monthsAhead = 12
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	return today, today.AddDate(0, 0, monthsAhead*30)
}

var _ PriceFetcher = (*Disney)(nil)
