package exchange

import (
	"fmt"
	"strconv"
	"time"

	"RSIDashboard/internal/model"

	"github.com/tidwall/gjson"
)

const kucoinOK = "200000"

func kucoinDialect() dialect {
	return dialect{
		name:    "kucoin",
		baseURL: "https://api.kucoin.com",
		intervals: map[model.Timeframe]string{
			model.FourHour: "4hour",
			model.OneDay:   "1day",
			model.OneWeek:  "1week",
		},
		markets: request{path: "/api/v2/symbols"},
		parseMarkets: func(res gjson.Result) map[string]string {
			out := make(map[string]string)
			res.Get("data").ForEach(func(_, s gjson.Result) bool {
				base, quote := s.Get("baseCurrency").String(), s.Get("quoteCurrency").String()
				if base != "" && quote != "" {
					out[model.Symbol(base, quote)] = s.Get("symbol").String()
				}
				return true
			})
			return out
		},
		ticker: func(native string) request {
			return request{path: "/api/v1/market/orderbook/level1", params: map[string]string{"symbol": native}}
		},
		parseTicker: func(res gjson.Result) (float64, error) {
			return positivePrice(res.Get("data.price"))
		},
		// The candle endpoint takes a time range instead of a count.
		candles: func(q candleQuery) request {
			start := q.now.Add(-q.tf.Duration() * time.Duration(q.limit))
			return request{path: "/api/v1/market/candles", params: map[string]string{
				"symbol":  q.native,
				"type":    q.interval,
				"startAt": strconv.FormatInt(start.Unix(), 10),
				"endAt":   strconv.FormatInt(q.now.Unix(), 10),
			}}
		},
		// Rows are [time, open, close, high, low, volume, turnover], newest first.
		parseCandles: func(res gjson.Result) []model.OHLCV {
			return parseRows(res.Get("data"), columns{time: 0, open: 1, close: 2, high: 3, low: 4, volume: 5}, unixSeconds)
		},
		checkError: func(res gjson.Result) error {
			if code := res.Get("code").String(); code != kucoinOK {
				return fmt.Errorf("api error %s: %s", code, res.Get("msg").String())
			}
			return nil
		},
	}
}
