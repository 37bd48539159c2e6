package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mekedron/geopoint/internal/domain"
)

const (
	defaultNominatimURL = "https://nominatim.openstreetmap.org/search"
	defaultUserAgent    = "geopoint-cli-go/1.0"
	maxErrorBodyPreview = 400
)

// ErrLocationLookup is returned when geocoding fails.
var ErrLocationLookup = errors.New("error when trying to get location")

// HTTPClient is implemented by http.Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// LookupError carries HTTP context for a failed geocoding call.
type LookupError struct {
	Address    string
	StatusCode int
	Body       string
	Cause      error
}

func (e *LookupError) Error() string {
	parts := []string{ErrLocationLookup.Error()}
	if e.Address != "" {
		parts = append(parts, fmt.Sprintf("address=%q", e.Address))
	}
	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}
	if body := compactBodyPreview(e.Body); body != "" {
		parts = append(parts, fmt.Sprintf("body=%q", body))
	}
	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause=%v", e.Cause))
	}
	return strings.Join(parts, "; ")
}

func (e *LookupError) Unwrap() error {
	return ErrLocationLookup
}

func compactBodyPreview(body string) string {
	body = strings.Join(strings.Fields(body), " ")
	if len(body) <= maxErrorBodyPreview {
		return body
	}
	cut := maxErrorBodyPreview
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return body[:cut] + "..."
}

// Client resolves addresses to WGS84 coordinates.
type Client struct {
	httpClient HTTPClient
	baseURL    string
	userAgent  string
}

// Option applies Client options.
type Option func(*Client)

// WithHTTPClient replaces default HTTP client.
func WithHTTPClient(httpClient HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL points the client at another Nominatim search endpoint.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(baseURL); trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithUserAgent overrides the User-Agent header Nominatim requires.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(userAgent); trimmed != "" {
			c.userAgent = trimmed
		}
	}
}

type coordinate float64

func (c *coordinate) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		value, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return fmt.Errorf("parse coordinate %q: %w", text, err)
		}
		*c = coordinate(value)
		return nil
	}

	var value float64
	if err := json.Unmarshal(data, &value); err == nil {
		*c = coordinate(value)
		return nil
	}

	return fmt.Errorf("coordinate must be a string or number")
}

type nominatimResult struct {
	Lat         coordinate `json:"lat"`
	Lon         coordinate `json:"lon"`
	DisplayName string     `json:"display_name"`
}

// NewClient creates a location client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultNominatimURL,
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get resolves an address using OSM Nominatim. Nominatim answers in WGS84.
func (c *Client) Get(ctx context.Context, address string) (domain.Location, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return domain.Location{}, &LookupError{Cause: errors.New("address is empty")}
	}
	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return domain.Location{}, fmt.Errorf("parse base url: %w", err)
	}
	query := endpoint.Query()
	query.Set("q", address)
	query.Set("format", "json")
	query.Set("limit", "1")
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return domain.Location{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	started := time.Now()
	res, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Location{}, &LookupError{Address: address, Cause: err}
	}
	defer func() {
		_ = res.Body.Close()
	}()
	slog.Debug("nominatim lookup", "address", address, "status", res.StatusCode, "elapsed", time.Since(started))

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return domain.Location{}, &LookupError{Address: address, StatusCode: res.StatusCode, Body: string(body)}
	}

	var payload []nominatimResult
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return domain.Location{}, &LookupError{Address: address, StatusCode: res.StatusCode, Cause: err}
	}
	if len(payload) == 0 {
		return domain.Location{}, &LookupError{Address: address, StatusCode: res.StatusCode, Cause: errors.New("no results")}
	}
	return domain.Location{
		Lat: float64(payload[0].Lat),
		Lon: float64(payload[0].Lon),
	}, nil
}
