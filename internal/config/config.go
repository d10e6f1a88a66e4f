package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"RSIDashboard/internal/logger"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultCoins is the coin universe scanned when none is configured.
var DefaultCoins = []string{
	"ZEPH", "XRP", "XMR", "XLM", "WIN", "WIF", "VET", "TRVL", "TRUMP", "TIA",
	"TAI", "SOLAMA", "SLP", "SHIB", "SGB", "SEI", "SAND", "SAGA", "RSR", "BTC",
	"ROSE", "QNT", "PEPE", "PDEX", "PASG", "ORDI", "ORAI", "NEIRO", "MYRO", "MLN",
	"MEE", "MAZZE", "MANA", "LTC", "LOOKS", "LINK", "KSM", "KIP", "JASMY", "IOTA",
	"HUAHUA", "HOT", "HERO", "HBAR", "GPT", "GALA", "FLR", "FIRO", "FIL", "FET",
	"EXVG", "EWT", "ETH", "ETC", "EOS", "ENS", "ENJ", "DVPN", "DOT", "DOGE",
	"DGB", "DFI", "CVX", "CSPR", "CRV", "CELO", "CAT", "BCH", "BABYDOGE", "AVAX",
	"AVA", "ARB", "APE", "ALGO", "AKT", "ADA", "ACT", "AAVE", "1INCH",
}

// DefaultExchanges is the resolver priority order.
var DefaultExchanges = []string{"binance", "kucoin", "gateio", "coinex", "mexc", "bybit"}

// DefaultQuotes is the quote asset preference order.
var DefaultQuotes = []string{"USDT", "USD"}

// Config holds all application configuration.
type Config struct {
	Coins          []string      `yaml:"coins" validate:"required,min=1,dive,required"`
	Exchanges      []string      `yaml:"exchanges" validate:"required,min=1,dive,oneof=binance kucoin gateio coinex mexc bybit"`
	Quotes         []string      `yaml:"quotes" validate:"required,min=1,dive,required"`
	Workers        int           `yaml:"workers" default:"10" validate:"gte=1,lte=64"`
	RequestTimeout time.Duration `yaml:"request_timeout" default:"30s" validate:"gt=0"`
	Proxy          string        `yaml:"proxy"`

	Cache struct {
		TTL   time.Duration `yaml:"ttl" default:"5m" validate:"gt=0"`
		Redis RedisConfig   `yaml:"redis"`
	} `yaml:"cache"`
	Sentiment struct {
		URL string `yaml:"url" default:"https://api.alternative.me/fng/" validate:"required,url"`
	} `yaml:"sentiment"`
	Icons struct {
		File    string `yaml:"file" default:"coin_ids.json"`
		BaseURL string `yaml:"base_url" default:"https://s2.coinmarketcap.com/static/img/coins/64x64/" validate:"required,url"`
	} `yaml:"icons"`
	HTTP struct {
		Host            string        `yaml:"host" default:"0.0.0.0"`
		Port            int           `yaml:"port" default:"5000" validate:"gte=1,lte=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"120s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"http"`
	Log      logger.Config `yaml:"log"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path" default:"data/rsi_dashboard.db"`
	} `yaml:"database"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
}

// RedisConfig configures the optional shared snapshot store.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr" default:"localhost:6379" validate:"required_if=Enabled true"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key" default:"rsiboard:signals"`
}

// SetDefaults fills the list defaults that struct tags cannot express cleanly.
func (c *Config) SetDefaults() {
	if len(c.Coins) == 0 {
		c.Coins = append([]string(nil), DefaultCoins...)
	}
	if len(c.Exchanges) == 0 {
		c.Exchanges = append([]string(nil), DefaultExchanges...)
	}
	if len(c.Quotes) == 0 {
		c.Quotes = append([]string(nil), DefaultQuotes...)
	}
}

// Load reads .env and the YAML file at path, then applies defaults and environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)

	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Cache.Redis.Enabled = true
		cfg.Cache.Redis.Addr = v
	}
	if v := os.Getenv("COINS"); v != "" {
		cfg.Coins = SplitList(v)
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.Port = port
		}
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if ttl, err := time.ParseDuration(v); err == nil {
			cfg.Cache.TTL = ttl
		}
	}
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// TelegramEnabled reports whether both telegram credentials are present.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// SplitList parses a comma separated list, upper-casing and dropping empty entries.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.ToUpper(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
