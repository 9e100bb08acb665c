package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Bank sources.
const (
	SourceFile     = "file"
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
)

type Config struct {
	Env  string `yaml:"env"`
	Bank struct {
		Source   string `yaml:"source"`
		Location string `yaml:"location"`
		ID       string `yaml:"id"`
		TTL      string `yaml:"ttl"`
		Timeout  string `yaml:"timeout"`
	} `yaml:"bank"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		TiePolicy    string `yaml:"tie_policy"`
		CollapsePure *bool  `yaml:"collapse_pure"`
		BonusMin     int    `yaml:"bonus_min"`
		BonusMax     int    `yaml:"bonus_max"`
	} `yaml:"quiz"`
	Card struct {
		OutDir    string `yaml:"out_dir"`
		AssetRoot string `yaml:"asset_root"`
		Watermark string `yaml:"watermark"`
	} `yaml:"card"`
	Log struct {
		Path   string `yaml:"path"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	cfg := Config{Env: "local"}
	cfg.Bank.Source = SourceFile
	cfg.Bank.Location = "data"
	cfg.Bank.ID = "archetypes.json"
	cfg.Bank.TTL = "10m"
	cfg.Bank.Timeout = "5s"
	cfg.Redis.TTL = "168h"
	cfg.Quiz.TiePolicy = "max"
	cfg.Quiz.BonusMin = 3
	cfg.Quiz.BonusMax = 5
	cfg.Card.OutDir = "."
	cfg.Card.AssetRoot = "."
	cfg.Card.Watermark = "spicetheory.quiz"
	return cfg
}

// Load reads YAML config from path over the defaults, then applies .env and
// environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Env = v
	}
	if v := os.Getenv("SPICE_BANK"); v != "" {
		cfg.Bank.Location = v
	}
	if v := os.Getenv("SPICE_BANK_ID"); v != "" {
		cfg.Bank.ID = v
	}
	if v := os.Getenv("SPICE_BANK_SOURCE"); v != "" {
		cfg.Bank.Source = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = db
		}
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.URL = v
	}
}

// CollapsePure reports the configured pure-collapse policy, defaulting to true.
func (c Config) CollapsePure() bool {
	if c.Quiz.CollapsePure == nil {
		return true
	}
	return *c.Quiz.CollapsePure
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
