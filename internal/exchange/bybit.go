package exchange

import (
	"fmt"
	"strconv"

	"RSIDashboard/internal/model"

	"github.com/tidwall/gjson"
)

func bybitDialect() dialect {
	return dialect{
		name:    "bybit",
		baseURL: "https://api.bybit.com",
		intervals: map[model.Timeframe]string{
			model.FourHour: "240",
			model.OneDay:   "D",
			model.OneWeek:  "W",
		},
		markets: request{path: "/v5/market/instruments-info", params: map[string]string{"category": "spot"}},
		parseMarkets: func(res gjson.Result) map[string]string {
			out := make(map[string]string)
			res.Get("result.list").ForEach(func(_, s gjson.Result) bool {
				base, quote := s.Get("baseCoin").String(), s.Get("quoteCoin").String()
				if base != "" && quote != "" {
					out[model.Symbol(base, quote)] = s.Get("symbol").String()
				}
				return true
			})
			return out
		},
		ticker: func(native string) request {
			return request{path: "/v5/market/tickers", params: map[string]string{"category": "spot", "symbol": native}}
		},
		parseTicker: func(res gjson.Result) (float64, error) {
			return positivePrice(res.Get("result.list.0.lastPrice"))
		},
		candles: func(q candleQuery) request {
			return request{path: "/v5/market/kline", params: map[string]string{
				"category": "spot",
				"symbol":   q.native,
				"interval": q.interval,
				"limit":    strconv.Itoa(q.limit),
			}}
		},
		// Rows are [start, open, high, low, close, volume, turnover], newest first.
		parseCandles: func(res gjson.Result) []model.OHLCV {
			return parseRows(res.Get("result.list"), columns{time: 0, open: 1, high: 2, low: 3, close: 4, volume: 5}, unixMillis)
		},
		checkError: func(res gjson.Result) error {
			if code := res.Get("retCode").Int(); code != 0 {
				return fmt.Errorf("api error %d: %s", code, res.Get("retMsg").String())
			}
			return nil
		},
	}
}
