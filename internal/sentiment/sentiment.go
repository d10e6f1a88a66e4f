package sentiment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"RSIDashboard/internal/logger"
	"RSIDashboard/internal/model"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// DefaultURL is the alternative.me Fear & Greed endpoint.
const DefaultURL = "https://api.alternative.me/fng/"

// ErrMalformed is returned when the response does not carry a usable reading.
var ErrMalformed = errors.New("malformed sentiment response")

// Config configures the Fear & Greed client.
type Config struct {
	URL     string
	Timeout time.Duration
	Proxy   string
	Logger  *zerolog.Logger
}

// Client reads the market-wide Fear & Greed index.
type Client struct {
	url  string
	http *resty.Client
	log  *zerolog.Logger
}

// NewClient creates a new sentiment client.
func NewClient(cfg Config) *Client {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	client := resty.New().SetTimeout(cfg.Timeout)
	if cfg.Proxy != "" {
		client.SetProxy(cfg.Proxy)
	}
	return &Client{url: cfg.URL, http: client, log: cfg.Logger}
}

// Get fetches the latest reading.
func (c *Client) Get(ctx context.Context) (model.Sentiment, error) {
	resp, err := c.http.R().SetContext(ctx).Get(c.url)
	if err != nil {
		return model.Sentiment{}, fmt.Errorf("fetch sentiment: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return model.Sentiment{}, fmt.Errorf("fetch sentiment: status %d", resp.StatusCode())
	}
	return Parse(resp.Body())
}

// Fetch is Get with failures degraded to the unavailable reading.
func (c *Client) Fetch(ctx context.Context) model.Sentiment {
	s, err := c.Get(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("fear and greed index unavailable")
		return model.UnavailableSentiment()
	}
	return s
}

// Parse reads {"data":[{"value":"<int>","value_classification":"<label>"}]}.
func Parse(body []byte) (model.Sentiment, error) {
	if !gjson.ValidBytes(body) {
		return model.Sentiment{}, ErrMalformed
	}
	entry := gjson.GetBytes(body, "data.0")
	if !entry.Exists() {
		return model.Sentiment{}, fmt.Errorf("%w: no data entry", ErrMalformed)
	}
	raw := entry.Get("value")
	value, err := strconv.Atoi(raw.String())
	if err != nil {
		return model.Sentiment{}, fmt.Errorf("%w: value %q", ErrMalformed, raw.String())
	}
	label := entry.Get("value_classification")
	if !label.Exists() {
		return model.Sentiment{}, fmt.Errorf("%w: missing classification", ErrMalformed)
	}
	return model.Sentiment{Value: &value, Classification: label.String()}, nil
}
