package exchange

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"RSIDashboard/internal/logger"
	"RSIDashboard/internal/model"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// request is a GET path with query parameters.
type request struct {
	path   string
	params map[string]string
}

// candleQuery carries everything a venue needs to build a candle request.
type candleQuery struct {
	native   string
	interval string
	tf       model.Timeframe
	limit    int
	now      time.Time
}

// dialect describes one venue's REST surface.
type dialect struct {
	name      string
	baseURL   string
	intervals map[model.Timeframe]string

	markets      request
	parseMarkets func(gjson.Result) map[string]string // unified symbol -> native id
	ticker       func(native string) request
	parseTicker  func(gjson.Result) (float64, error)
	candles      func(candleQuery) request
	parseCandles func(gjson.Result) []model.OHLCV
	// checkError inspects a 200 response for a venue-level error code.
	checkError func(gjson.Result) error
}

type restClient struct {
	d    dialect
	http *resty.Client
	log  *zerolog.Logger
	now  func() time.Time

	mu      sync.Mutex
	symbols map[string]struct{}
	native  map[string]string
}

func newRESTClient(d dialect, opts Options) *restClient {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := resty.New().
		SetBaseURL(d.baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "rsi-dashboard/1.0")
	if opts.Proxy != "" {
		client.SetProxy(opts.Proxy)
	}
	if opts.Retries > 0 {
		client.SetRetryCount(opts.Retries).
			SetRetryWaitTime(500 * time.Millisecond).
			SetRetryMaxWaitTime(3 * time.Second)
	}

	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &restClient{d: d, http: client, log: log, now: now}
}

func (c *restClient) Name() string { return c.d.name }

func (c *restClient) get(ctx context.Context, req request) (gjson.Result, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(req.params).
		Get(req.path)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%s %s: %w", c.d.name, req.path, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return gjson.Result{}, fmt.Errorf("%s %s: status %d, body: %s", c.d.name, req.path, resp.StatusCode(), resp.String())
	}
	body := resp.Body()
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("%s %s: invalid json response", c.d.name, req.path)
	}
	res := gjson.ParseBytes(body)
	if c.d.checkError != nil {
		if err := c.d.checkError(res); err != nil {
			return gjson.Result{}, fmt.Errorf("%s %s: %w", c.d.name, req.path, err)
		}
	}
	return res, nil
}

// LoadMarkets holds the lock for the whole load so concurrent workers share one request.
func (c *restClient) LoadMarkets(ctx context.Context) (map[string]struct{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.symbols != nil {
		return c.symbols, nil
	}

	res, err := c.get(ctx, c.d.markets)
	if err != nil {
		return nil, fmt.Errorf("load markets: %w", err)
	}
	native := c.d.parseMarkets(res)
	symbols := make(map[string]struct{}, len(native))
	for s := range native {
		symbols[s] = struct{}{}
	}
	c.native = native
	c.symbols = symbols
	c.log.Debug().Str("exchange", c.d.name).Int("markets", len(symbols)).Msg("markets loaded")
	return symbols, nil
}

func (c *restClient) nativeID(ctx context.Context, symbol string) (string, error) {
	if _, err := c.LoadMarkets(ctx); err != nil {
		return "", err
	}
	c.mu.Lock()
	id, ok := c.native[symbol]
	c.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("%s: %w: %s", c.d.name, ErrUnknownSymbol, symbol)
	}
	return id, nil
}

func (c *restClient) FetchTicker(ctx context.Context, symbol string) (float64, error) {
	id, err := c.nativeID(ctx, symbol)
	if err != nil {
		return 0, err
	}
	res, err := c.get(ctx, c.d.ticker(id))
	if err != nil {
		return 0, fmt.Errorf("fetch ticker: %w", err)
	}
	price, err := c.d.parseTicker(res)
	if err != nil {
		return 0, fmt.Errorf("%s fetch ticker %s: %w", c.d.name, symbol, err)
	}
	return price, nil
}

func (c *restClient) FetchOHLCV(ctx context.Context, symbol string, tf model.Timeframe, limit int) ([]model.OHLCV, error) {
	interval, ok := c.d.intervals[tf]
	if !ok {
		return nil, fmt.Errorf("%s: %w: %s", c.d.name, ErrUnsupportedTimeframe, tf)
	}
	id, err := c.nativeID(ctx, symbol)
	if err != nil {
		return nil, err
	}
	res, err := c.get(ctx, c.d.candles(candleQuery{
		native:   id,
		interval: interval,
		tf:       tf,
		limit:    limit,
		now:      c.now(),
	}))
	if err != nil {
		return nil, fmt.Errorf("fetch ohlcv %s: %w", tf, err)
	}

	bars := c.d.parseCandles(res)
	// Ensure chronological order
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	if limit > 0 && len(bars) > limit {
		bars = bars[len(bars)-limit:]
	}
	return bars, nil
}

// columns maps candle fields to positions in an array-shaped row.
type columns struct {
	time, open, high, low, close, volume int
}

// parseRows decodes array-shaped candle rows. Numeric strings are accepted.
func parseRows(rows gjson.Result, cols columns, toTime func(int64) time.Time) []model.OHLCV {
	arr := rows.Array()
	bars := make([]model.OHLCV, 0, len(arr))
	for _, row := range arr {
		fields := row.Array()
		if len(fields) <= maxIndex(cols) {
			continue
		}
		bars = append(bars, model.OHLCV{
			Time:   toTime(fields[cols.time].Int()),
			Open:   fields[cols.open].Float(),
			High:   fields[cols.high].Float(),
			Low:    fields[cols.low].Float(),
			Close:  fields[cols.close].Float(),
			Volume: fields[cols.volume].Float(),
		})
	}
	return bars
}

func maxIndex(c columns) int {
	m := c.time
	for _, v := range []int{c.open, c.high, c.low, c.close, c.volume} {
		if v > m {
			m = v
		}
	}
	return m
}

func unixSeconds(v int64) time.Time { return time.Unix(v, 0).UTC() }
func unixMillis(v int64) time.Time  { return time.UnixMilli(v).UTC() }

// positivePrice reads a price field, rejecting missing or non-positive values.
func positivePrice(v gjson.Result) (float64, error) {
	if !v.Exists() {
		return 0, fmt.Errorf("price missing from response")
	}
	p := v.Float()
	if p <= 0 {
		return 0, fmt.Errorf("invalid price %q", v.String())
	}
	return p, nil
}
