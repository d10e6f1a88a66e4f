package exchange

import (
	"strconv"

	"RSIDashboard/internal/model"

	"github.com/tidwall/gjson"
)

func gateioDialect() dialect {
	return dialect{
		name:    "gateio",
		baseURL: "https://api.gateio.ws/api/v4",
		intervals: map[model.Timeframe]string{
			model.FourHour: "4h",
			model.OneDay:   "1d",
			model.OneWeek:  "7d",
		},
		markets: request{path: "/spot/currency_pairs"},
		parseMarkets: func(res gjson.Result) map[string]string {
			out := make(map[string]string)
			res.ForEach(func(_, s gjson.Result) bool {
				base, quote := s.Get("base").String(), s.Get("quote").String()
				if base != "" && quote != "" {
					out[model.Symbol(base, quote)] = s.Get("id").String()
				}
				return true
			})
			return out
		},
		ticker: func(native string) request {
			return request{path: "/spot/tickers", params: map[string]string{"currency_pair": native}}
		},
		parseTicker: func(res gjson.Result) (float64, error) {
			return positivePrice(res.Get("0.last"))
		},
		candles: func(q candleQuery) request {
			return request{path: "/spot/candlesticks", params: map[string]string{
				"currency_pair": q.native,
				"interval":      q.interval,
				"limit":         strconv.Itoa(q.limit),
			}}
		},
		// Rows are [time, quote volume, close, high, low, open, ...].
		parseCandles: func(res gjson.Result) []model.OHLCV {
			return parseRows(res, columns{time: 0, volume: 1, close: 2, high: 3, low: 4, open: 5}, unixSeconds)
		},
	}
}
