package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Server    ServerConfig    `envPrefix:"SERVER_"`
	Search    SearchConfig    `envPrefix:"SEARCH_"`
	Cache     CacheConfig     `envPrefix:"CACHE_"`
	Stores    StoresConfig    `envPrefix:"STORES_"`
	Alternate AlternateConfig `envPrefix:"ALTERNATE_"`
	Database  DatabaseConfig  `envPrefix:"DATABASE_"`
	Kafka     KafkaConfig     `envPrefix:"KAFKA_"`
	LLM       LLMConfig       `envPrefix:"LLM_"`
}

type ServerConfig struct {
	Addr        string `env:"ADDR" envDefault:":8080"`
	Service     string `env:"SERVICE" envDefault:"shop-assistant"`
	StatsDAddr  string `env:"STATSD_ADDR"`
	EnablePprof bool   `env:"PPROF" envDefault:"false"`
}

// SearchConfig holds every knob of the product search pipeline.
type SearchConfig struct {
	FetchTimeout       time.Duration `env:"FETCH_TIMEOUT" envDefault:"3s"`
	StoreTimeout       time.Duration `env:"STORE_TIMEOUT" envDefault:"4s"`
	Deadline           time.Duration `env:"DEADLINE" envDefault:"8s"`
	AlternateReserve   time.Duration `env:"ALTERNATE_RESERVE" envDefault:"2s"`
	Retries            int           `env:"RETRIES" envDefault:"1"`
	RetryBackoff       time.Duration `env:"RETRY_BACKOFF" envDefault:"300ms"`
	MaxStores          int           `env:"MAX_STORES" envDefault:"2"`
	CandidatesPerStore int           `env:"CANDIDATES_PER_STORE" envDefault:"5"`
	MaxResults         int           `env:"MAX_RESULTS" envDefault:"15"`
	StoreRPS           float64       `env:"STORE_RPS" envDefault:"2"`
	UserAgent          string        `env:"USER_AGENT" envDefault:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"`
}

type CacheConfig struct {
	// Backend is either "memory" or "redis".
	Backend   string        `env:"BACKEND" envDefault:"memory"`
	TTL       time.Duration `env:"TTL" envDefault:"6h"`
	Capacity  int           `env:"CAPACITY" envDefault:"500"`
	CacheMock bool          `env:"CACHE_MOCK" envDefault:"false"`
	RedisAddr string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisDB   int           `env:"REDIS_DB" envDefault:"0"`
	RedisPass string        `env:"REDIS_PASSWORD"`
}

type StoresConfig struct {
	// File overrides the embedded store list when set.
	File string `env:"FILE"`
}

type AlternateConfig struct {
	// Provider is one of "none", "googlecse" or "serpapi".
	Provider     string        `env:"PROVIDER" envDefault:"none"`
	GoogleAPIKey string        `env:"GOOGLE_API_KEY"`
	GoogleCX     string        `env:"GOOGLE_CX"`
	GoogleURL    string        `env:"GOOGLE_URL" envDefault:"https://www.googleapis.com/customsearch/v1"`
	SerpAPIKey   string        `env:"SERPAPI_KEY"`
	Country      string        `env:"COUNTRY" envDefault:"eg"`
	Timeout      time.Duration `env:"TIMEOUT" envDefault:"3s"`
}

type DatabaseConfig struct {
	Enabled  bool     `env:"ENABLED" envDefault:"false"`
	Hosts    []string `env:"HOSTS" envSeparator:"," envDefault:"localhost:27017"`
	Direct   bool     `env:"DIRECT" envDefault:"true"`
	Username string   `env:"USERNAME"`
	Password string   `env:"PASSWORD"`
	AuthDB   string   `env:"AUTH_DB" envDefault:"admin"`
	Database string   `env:"DATABASE" envDefault:"shop_assistant"`
}

type KafkaConfig struct {
	Enabled bool     `env:"ENABLED" envDefault:"false"`
	Brokers []string `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	Topic   string   `env:"TOPIC" envDefault:"shop-assistant.search"`
}

type LLMConfig struct {
	GoogleAIAPIKey string        `env:"GOOGLE_AI_API_KEY"`
	Model          string        `env:"MODEL" envDefault:"googleai/gemini-2.0-flash"`
	Timeout        time.Duration `env:"TIMEOUT" envDefault:"10s"`
	HistoryLimit   int           `env:"HISTORY_LIMIT" envDefault:"6"`
}

// Enabled reports whether an LLM backend is configured.
func (c LLMConfig) Enabled() bool {
	return c.GoogleAIAPIKey != ""
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.Search.normalize()
	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	switch c.Alternate.Provider {
	case "none", "googlecse", "serpapi":
	default:
		return fmt.Errorf("unknown alternate provider %q", c.Alternate.Provider)
	}
	if c.Search.Deadline <= 0 {
		return fmt.Errorf("search deadline must be positive")
	}
	return nil
}

// normalize clamps values to the ranges the pipeline supports.
func (s *SearchConfig) normalize() {
	s.Retries = clamp(s.Retries, 0, 2)
	s.CandidatesPerStore = clamp(s.CandidatesPerStore, 1, 10)
	if s.MaxStores < 0 {
		s.MaxStores = 0
	}
	if s.MaxResults <= 0 {
		s.MaxResults = 15
	}
	if s.StoreTimeout > s.Deadline {
		s.StoreTimeout = s.Deadline
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
