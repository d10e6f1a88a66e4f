package exchange

import (
	"strconv"

	"RSIDashboard/internal/model"

	"github.com/tidwall/gjson"
)

func binanceDialect() dialect {
	return dialect{
		name:    "binance",
		baseURL: "https://api.binance.com",
		intervals: map[model.Timeframe]string{
			model.FourHour: "4h",
			model.OneDay:   "1d",
			model.OneWeek:  "1w",
		},
		markets:      request{path: "/api/v3/exchangeInfo"},
		parseMarkets: parseExchangeInfo,
		ticker: func(native string) request {
			return request{path: "/api/v3/ticker/price", params: map[string]string{"symbol": native}}
		},
		parseTicker: func(res gjson.Result) (float64, error) {
			return positivePrice(res.Get("price"))
		},
		candles: func(q candleQuery) request {
			return request{path: "/api/v3/klines", params: map[string]string{
				"symbol":   q.native,
				"interval": q.interval,
				"limit":    strconv.Itoa(q.limit),
			}}
		},
		parseCandles: func(res gjson.Result) []model.OHLCV {
			return parseRows(res, columns{time: 0, open: 1, high: 2, low: 3, close: 4, volume: 5}, unixMillis)
		},
	}
}

// MEXC mirrors the Binance spot API apart from the weekly interval code.
func mexcDialect() dialect {
	d := binanceDialect()
	d.name = "mexc"
	d.baseURL = "https://api.mexc.com"
	d.intervals = map[model.Timeframe]string{
		model.FourHour: "4h",
		model.OneDay:   "1d",
		model.OneWeek:  "1W",
	}
	return d
}

func parseExchangeInfo(res gjson.Result) map[string]string {
	out := make(map[string]string)
	res.Get("symbols").ForEach(func(_, s gjson.Result) bool {
		base, quote := s.Get("baseAsset").String(), s.Get("quoteAsset").String()
		if base != "" && quote != "" {
			out[model.Symbol(base, quote)] = s.Get("symbol").String()
		}
		return true
	})
	return out
}
