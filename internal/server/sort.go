package server

import (
	"sort"
	"strconv"
	"strings"

	"RSIDashboard/internal/model"
)

// sortKey extracts a comparable value from a signal. A nil numeric key sorts after every value.
type sortKey struct {
	text    func(*model.Signal) string
	numeric func(*model.Signal) *float64
}

var sortKeys = map[string]sortKey{
	"coin":     {text: func(s *model.Signal) string { return s.Coin }},
	"trend":    {text: func(s *model.Signal) string { return string(s.Trend) }},
	"entry":    {text: func(s *model.Signal) string { return string(s.Entry) }},
	"position": {text: func(s *model.Signal) string { return string(s.Position) }},
	"price":    {numeric: parsePrice},
	"rsi_1w":   {numeric: func(s *model.Signal) *float64 { return s.SpotMacroRSI }},
	"rsi_1d":   {numeric: func(s *model.Signal) *float64 { return s.SwingMacroRSI }},
	"rsi_4h":   {numeric: func(s *model.Signal) *float64 { return s.MicroRSI }},
}

func parsePrice(s *model.Signal) *float64 {
	v, err := strconv.ParseFloat(s.CurrentPrice, 64)
	if err != nil {
		return nil
	}
	return &v
}

// SortRecords returns a sorted copy of records. Failure records and missing values stay last in both orders.
func SortRecords(records []model.Record, column string, desc bool) []model.Record {
	key, ok := sortKeys[column]
	out := append([]model.Record(nil), records...)
	if !ok {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.OK() || !b.OK() {
			return a.OK() && !b.OK()
		}
		if key.numeric != nil {
			x, y := key.numeric(a.Signal), key.numeric(b.Signal)
			if x == nil || y == nil {
				return x != nil && y == nil
			}
			if desc {
				return *x > *y
			}
			return *x < *y
		}
		x := strings.ToLower(key.text(a.Signal))
		y := strings.ToLower(key.text(b.Signal))
		if desc {
			return x > y
		}
		return x < y
	})
	return out
}
