package icons

import (
	"errors"
	"os"
	"strings"

	"RSIDashboard/internal/logger"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// DefaultBaseURL is the CoinMarketCap 64x64 icon directory.
const DefaultBaseURL = "https://s2.coinmarketcap.com/static/img/coins/64x64/"

// DefaultKey is used for coins without a known icon id.
const DefaultKey = "default"

// Lookup maps coin identifiers to CoinMarketCap icon ids.
type Lookup struct {
	baseURL string
	ids     map[string]string
}

// New builds a lookup from an in-memory mapping.
func New(baseURL string, ids map[string]string) *Lookup {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if ids == nil {
		ids = map[string]string{}
	}
	return &Lookup{baseURL: baseURL, ids: ids}
}

// Load reads a JSON object such as {"BTC": 1, "ETH": "1027"}. A missing or
// invalid file yields an empty lookup so every icon falls back to the default.
func Load(path, baseURL string, log *zerolog.Logger) *Lookup {
	if log == nil {
		log = logger.Nop()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Warn().Str("path", path).Msg("coin icon id file not found, using default icons")
		} else {
			log.Warn().Err(err).Str("path", path).Msg("coin icon id file unreadable, using default icons")
		}
		return New(baseURL, nil)
	}
	ids, ok := Parse(data)
	if !ok {
		log.Warn().Str("path", path).Msg("coin icon id file is not a JSON object, using default icons")
		return New(baseURL, nil)
	}
	log.Debug().Int("coins", len(ids)).Msg("coin icon ids loaded")
	return New(baseURL, ids)
}

// Parse decodes the id mapping. Numeric and string ids are both accepted.
func Parse(data []byte) (map[string]string, bool) {
	if !gjson.ValidBytes(data) {
		return nil, false
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, false
	}
	ids := make(map[string]string)
	root.ForEach(func(key, value gjson.Result) bool {
		switch value.Type {
		case gjson.Number:
			ids[key.String()] = value.Raw
		case gjson.String:
			if value.String() != "" {
				ids[key.String()] = value.String()
			}
		}
		return true
	})
	return ids, true
}

// ID returns the icon id for coin, or DefaultKey.
func (l *Lookup) ID(coin string) string {
	if id, ok := l.ids[coin]; ok {
		return id
	}
	return DefaultKey
}

// URL builds the icon URL for coin.
func (l *Lookup) URL(coin string) string {
	return l.baseURL + l.ID(coin) + ".png"
}

// Len returns the number of known ids.
func (l *Lookup) Len() int { return len(l.ids) }
