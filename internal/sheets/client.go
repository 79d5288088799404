package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/TCU-DCDA/cdex-inventory-app/internal/config"
	"github.com/TCU-DCDA/cdex-inventory-app/internal/inventory"
)

// Store is the set of operations the sync coordinator needs from the backend.
// Reads never fail from the caller's point of view and writes report success
// unless the request could not be built.
type Store interface {
	FetchEquipment(ctx context.Context) []inventory.EquipmentItem
	FetchCheckouts(ctx context.Context) []inventory.CheckoutRecord
	AddCheckout(ctx context.Context, rec inventory.CheckoutRecord) bool
	MarkAsReturned(ctx context.Context, checkoutID int) bool
	UpdateEquipment(ctx context.Context, equipmentID int, available bool) bool
	IsConfigured() bool
}

// Ensure Client implements Store at compile time.
var _ Store = (*Client)(nil)

var errEmptyGrid = errors.New("range returned no rows")

// Options tune a Client. The zero value is usable.
type Options struct {
	// HTTPClient overrides the default client with its request timeout.
	HTTPClient *http.Client
	// WriteLimiter paces script endpoint posts.
	WriteLimiter *rate.Limiter
	// OnFallback is called whenever a read substitutes the built-in data.
	OnFallback func(table string, err error)
	Logger     *slog.Logger
}

// Client talks to the values API for reads and the script endpoint for writes.
type Client struct {
	apiBase        *url.URL
	scriptURL      *url.URL
	sheetID        string
	apiKey         string
	equipmentRange string
	checkoutsRange string
	configured     bool

	http       *http.Client
	userAgent  string
	limiter    *rate.Limiter
	onFallback func(table string, err error)
	log        *slog.Logger
}

const (
	defaultAPIBase   = "https://sheets.googleapis.com"
	defaultUserAgent = "cdex/0.1"
	requestTimeout   = 10 * time.Second

	writeInterval = 200 * time.Millisecond
	writeBurst    = 5
)

// NewClient builds a Client from the sheet settings.
func NewClient(cfg config.Sheets, opts Options) (*Client, error) {
	base, err := parseBaseURL(cfg.APIBase)
	if err != nil {
		return nil, err
	}

	var script *url.URL
	if cfg.WritesConfigured() {
		script, err = url.Parse(strings.TrimSpace(cfg.ScriptURL))
		if err != nil {
			return nil, fmt.Errorf("parse script_url %q: %w", cfg.ScriptURL, err)
		}
	}

	c := &Client{
		apiBase:        base,
		scriptURL:      script,
		sheetID:        strings.TrimSpace(cfg.SheetID),
		apiKey:         strings.TrimSpace(cfg.APIKey),
		equipmentRange: cfg.EquipmentRange,
		checkoutsRange: cfg.CheckoutsRange,
		configured:     cfg.IsConfigured(),
		http:           opts.HTTPClient,
		userAgent:      defaultUserAgent,
		limiter:        opts.WriteLimiter,
		onFallback:     opts.OnFallback,
		log:            opts.Logger,
	}
	if c.equipmentRange == "" {
		c.equipmentRange = "Equipment!A:E"
	}
	if c.checkoutsRange == "" {
		c.checkoutsRange = "Checkouts!A:M"
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: requestTimeout}
	}
	if c.limiter == nil {
		c.limiter = rate.NewLimiter(rate.Every(writeInterval), writeBurst)
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	return c, nil
}

// IsConfigured reports whether real read credentials were supplied.
func (c *Client) IsConfigured() bool {
	return c != nil && c.configured
}

// FetchEquipment reads the equipment table, substituting the built-in
// catalog on any failure or an empty range.
func (c *Client) FetchEquipment(ctx context.Context) []inventory.EquipmentItem {
	grid, err := c.fetchGrid(ctx, c.equipmentRange)
	if err != nil {
		c.fallback(TableEquipment, err)
		return FallbackEquipment()
	}
	return ParseEquipment(grid)
}

// FetchCheckouts reads the checkout table, substituting the built-in records
// on any failure or an empty range.
func (c *Client) FetchCheckouts(ctx context.Context) []inventory.CheckoutRecord {
	grid, err := c.fetchGrid(ctx, c.checkoutsRange)
	if err != nil {
		c.fallback(TableCheckouts, err)
		return FallbackCheckouts()
	}
	return ParseCheckouts(grid)
}

// AddCheckout posts a new checkout. The id is left for the backend to assign.
func (c *Client) AddCheckout(ctx context.Context, rec inventory.CheckoutRecord) bool {
	rec.ID = 0
	return c.post(ctx, WriteRequest{Action: ActionAddCheckout, Checkout: &rec})
}

// MarkAsReturned posts a check-in for the given checkout id.
func (c *Client) MarkAsReturned(ctx context.Context, checkoutID int) bool {
	return c.post(ctx, WriteRequest{Action: ActionMarkReturned, CheckoutID: checkoutID})
}

// UpdateEquipment posts a direct availability change for one item.
func (c *Client) UpdateEquipment(ctx context.Context, equipmentID int, available bool) bool {
	return c.post(ctx, WriteRequest{Action: ActionUpdateEquipment, EquipmentID: equipmentID, Available: &available})
}

func (c *Client) fetchGrid(ctx context.Context, rng string) ([][]any, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	rel := &url.URL{
		Path:     "/v4/spreadsheets/" + c.sheetID + "/values/" + rng,
		RawQuery: url.Values{"key": {c.apiKey}}.Encode(),
	}
	reqURL := c.apiBase.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("values %s returned status %d", rng, resp.StatusCode)
	}
	var payload ValueRange
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(payload.Values) == 0 {
		return nil, errEmptyGrid
	}
	return payload.Values, nil
}

func (c *Client) fallback(table string, err error) {
	c.log.Warn("using fallback data", slog.String("table", table), slog.String("error", err.Error()))
	if c.onFallback != nil {
		c.onFallback(table, err)
	}
}

// post sends one write. Delivery problems are logged and swallowed: the
// caller's local state is the source of truth and the next refresh shows
// whether the write landed.
func (c *Client) post(ctx context.Context, payload WriteRequest) bool {
	if c == nil {
		return false
	}
	logger := c.log.With(slog.String("action", payload.Action))
	if c.scriptURL == nil {
		logger.Warn("write endpoint not configured, skipping remote write")
		return true
	}

	body, err := json.Marshal(payload)
	if err != nil {
		logger.Error("encode write request", slog.String("error", err.Error()))
		return false
	}
	requestID := uuid.NewString()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.scriptURL.String(), bytes.NewReader(body))
	if err != nil {
		logger.Error("create write request", slog.String("error", err.Error()))
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-Id", requestID)
	logger = logger.With(slog.String("request_id", requestID))

	if err := c.limiter.Wait(ctx); err != nil {
		logger.Warn("write not sent", slog.String("error", err.Error()))
		return true
	}

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Warn("write failed", slog.String("error", err.Error()))
		return true
	}
	defer func() { _ = resp.Body.Close() }()

	var result WriteResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &result)
	}
	switch {
	case resp.StatusCode >= 400:
		logger.Warn("write rejected", slog.Int("status", resp.StatusCode), slog.String("error", result.Error))
	case result.Error != "":
		logger.Warn("write rejected", slog.String("error", result.Error))
	default:
		logger.Info("write sent", slog.Int("status", resp.StatusCode), slog.Int("id", result.ID))
	}
	return true
}

func parseBaseURL(apiBase string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBase)
	if trimmed == "" {
		trimmed = defaultAPIBase
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_base %q: %w", apiBase, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
