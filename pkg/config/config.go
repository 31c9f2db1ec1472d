package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"production"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080" validate:"gt=0,lte=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console" validate:"oneof=console json"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`
	Scanner struct {
		Currency         string        `yaml:"vs_currency" default:"usd" validate:"required"`
		RankMin          int           `yaml:"rank_min" default:"40" validate:"gte=1"`
		RankMax          int           `yaml:"rank_max" default:"100" validate:"gtefield=RankMin"`
		TopN             int           `yaml:"top_n" default:"250" validate:"gte=1"`
		RateLimitPause   time.Duration `yaml:"rate_limit_pause" default:"600ms"`
		RequestTimeout   time.Duration `yaml:"request_timeout" default:"30s"`
		Min1hPct         float64       `yaml:"min_1h_pct" default:"2.0"`
		Min24hPct        float64       `yaml:"min_24h_pct" default:"3.0"`
		VolumeMultiplier float64       `yaml:"volume_multiplier" default:"1.4" validate:"gt=0"`
		Interval         time.Duration `yaml:"interval"` // 0 = single scan, then exit
	} `yaml:"scanner"`
	CoinGecko struct {
		BaseURL string `yaml:"base_url" default:"https://api.coingecko.com/api/v3" validate:"url"`
	} `yaml:"coingecko"`
	Funding struct {
		Enabled  bool          `yaml:"enabled" default:"true"`
		Venue    string        `yaml:"venue" default:"binance"`
		BaseURL  string        `yaml:"base_url" default:"https://fapi.binance.com" validate:"url"`
		CacheTTL time.Duration `yaml:"cache_ttl" default:"10m"`
	} `yaml:"funding"`
	SMTP struct {
		Server     string        `yaml:"server" default:"smtp.gmail.com"`
		Port       int           `yaml:"port" default:"587"`
		User       string        `yaml:"user"`
		Password   string        `yaml:"password"`
		Recipient  string        `yaml:"recipient"`
		SenderName string        `yaml:"sender_name"`
		Timeout    time.Duration `yaml:"timeout" default:"30s"`
	} `yaml:"smtp"`
	Kafka struct {
		Brokers []string `yaml:"brokers"`
		Topic   string   `yaml:"topic" default:"coinsentry.candidates"`
	} `yaml:"kafka"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr" default:"localhost:6379"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
}

// Load reads a YAML configuration file, applies struct defaults and
// validates the result.
func Load(path string) (*Config, error) {
	c, err := parse(path)
	if err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment
// variables before validation. Env names follow the operator-facing
// convention of the scanner deployment (RANK_MIN, SMTP_USER, ...).
func LoadWithEnv(path string) (*Config, error) {
	c, err := parse(path)
	if err != nil {
		return nil, err
	}

	c.applyEnv()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

func parse(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	return &c, nil
}

func (c *Config) applyEnv() {
	if v, ok := envInt("RANK_MIN"); ok {
		c.Scanner.RankMin = v
	}
	if v, ok := envInt("RANK_MAX"); ok {
		c.Scanner.RankMax = v
	}
	if v, ok := envInt("TOP_N"); ok {
		c.Scanner.TopN = v
	}
	if v, ok := envFloat("API_RATE_LIMIT_SECONDS"); ok {
		c.Scanner.RateLimitPause = time.Duration(v * float64(time.Second))
	}
	if v, ok := envFloat("MIN_1H_PCT"); ok {
		c.Scanner.Min1hPct = v
	}
	if v, ok := envFloat("MIN_24H_PCT"); ok {
		c.Scanner.Min24hPct = v
	}
	if v, ok := envFloat("VOLUME_MULTIPLIER"); ok {
		c.Scanner.VolumeMultiplier = v
	}
	if v := os.Getenv("SMTP_SERVER"); v != "" {
		c.SMTP.Server = v
	}
	if v, ok := envInt("SMTP_PORT"); ok {
		c.SMTP.Port = v
	}
	if v := os.Getenv("SMTP_USER"); v != "" {
		c.SMTP.User = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		c.SMTP.Password = v
	}
	if v := os.Getenv("EMAIL_RECIPIENT"); v != "" {
		c.SMTP.Recipient = v
	}
	if v := os.Getenv("SENDER_NAME"); v != "" {
		c.SMTP.SenderName = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Enabled = true
		c.Redis.Addr = v
	}
	if c.SMTP.SenderName == "" {
		c.SMTP.SenderName = c.SMTP.User
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if ok := asValidationErrors(err, &verrs); ok && len(verrs) > 0 {
			e := verrs[0]
			return fmt.Errorf("field %s failed rule %q", e.Namespace(), e.Tag())
		}
		return err
	}
	if c.Scanner.TopN < c.Scanner.RankMax {
		return fmt.Errorf("scanner.top_n (%d) must cover scanner.rank_max (%d)", c.Scanner.TopN, c.Scanner.RankMax)
	}
	return nil
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	if verrs, ok := err.(validator.ValidationErrors); ok {
		*target = verrs
		return true
	}
	return false
}

func envInt(name string) (int, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envFloat(name string) (float64, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
