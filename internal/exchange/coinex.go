package exchange

import (
	"fmt"
	"strconv"

	"RSIDashboard/internal/model"

	"github.com/tidwall/gjson"
)

func coinexDialect() dialect {
	return dialect{
		name:    "coinex",
		baseURL: "https://api.coinex.com",
		intervals: map[model.Timeframe]string{
			model.FourHour: "4hour",
			model.OneDay:   "1day",
			model.OneWeek:  "1week",
		},
		markets: request{path: "/v2/spot/market"},
		parseMarkets: func(res gjson.Result) map[string]string {
			out := make(map[string]string)
			res.Get("data").ForEach(func(_, s gjson.Result) bool {
				base, quote := s.Get("base_ccy").String(), s.Get("quote_ccy").String()
				if base != "" && quote != "" {
					out[model.Symbol(base, quote)] = s.Get("market").String()
				}
				return true
			})
			return out
		},
		ticker: func(native string) request {
			return request{path: "/v2/spot/ticker", params: map[string]string{"market": native}}
		},
		parseTicker: func(res gjson.Result) (float64, error) {
			return positivePrice(res.Get("data.0.last"))
		},
		candles: func(q candleQuery) request {
			return request{path: "/v2/spot/kline", params: map[string]string{
				"market": q.native,
				"period": q.interval,
				"limit":  strconv.Itoa(q.limit),
			}}
		},
		parseCandles: func(res gjson.Result) []model.OHLCV {
			arr := res.Get("data").Array()
			bars := make([]model.OHLCV, 0, len(arr))
			for _, k := range arr {
				bars = append(bars, model.OHLCV{
					Time:   unixMillis(k.Get("created_at").Int()),
					Open:   k.Get("open").Float(),
					High:   k.Get("high").Float(),
					Low:    k.Get("low").Float(),
					Close:  k.Get("close").Float(),
					Volume: k.Get("volume").Float(),
				})
			}
			return bars
		},
		checkError: func(res gjson.Result) error {
			if code := res.Get("code").Int(); code != 0 {
				return fmt.Errorf("api error %d: %s", code, res.Get("message").String())
			}
			return nil
		},
	}
}
