package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/peterldowns/testy/assert"
)

func TestRecorder_Exposition(t *testing.T) {
	r := New()
	r.ObserveRun(3 * time.Second)
	r.CoinProcessed(true)
	r.CoinProcessed(false)
	r.Resolved("kucoin")
	r.ExchangeError("binance", "markets")
	r.CacheRefresh(errors.New("boom"))
	r.ObserveHTTP("/api/signals", "GET", 200, 20*time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	assert.NoError(t, err)
	text := string(body)

	for _, want := range []string{
		`rsiboard_pipeline_run_duration_seconds_count 1`,
		`rsiboard_pipeline_coins_total{result="ok"} 1`,
		`rsiboard_pipeline_coins_total{result="error"} 1`,
		`rsiboard_exchange_resolved_total{exchange="kucoin"} 1`,
		`rsiboard_exchange_errors_total{exchange="binance",op="markets"} 1`,
		`rsiboard_cache_refreshes_total{result="error"} 1`,
		`rsiboard_http_requests_total{method="GET",route="/api/signals",status="200"} 1`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("expected exposition to contain %q", want)
		}
	}
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	r.ObserveRun(time.Second)
	r.CoinProcessed(true)
	r.Resolved("binance")
	r.ExchangeError("binance", "ticker")
	r.CacheRefresh(nil)
	r.ObserveHTTP("/", "GET", 200, time.Millisecond)
}

func TestNew_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.CoinProcessed(true)
	families, err := b.Gatherer().Gather()
	assert.NoError(t, err)
	for _, f := range families {
		if f.GetName() == "rsiboard_pipeline_coins_total" {
			t.Errorf("expected no samples on an unused registry")
		}
	}
}
