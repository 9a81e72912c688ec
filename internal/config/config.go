package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration
type Config struct {
	API       APIConfig       `yaml:"api"`
	Routing   RoutingConfig   `yaml:"routing"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Search    SearchConfig    `yaml:"search"`
	Storage   StorageConfig   `yaml:"storage"`
	Cache     CacheConfig     `yaml:"cache"`
	Events    EventsConfig    `yaml:"events"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// APIConfig represents HTTP server configuration
type APIConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	EnableCORS     bool          `yaml:"enable_cors"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	AllowedMethods []string      `yaml:"allowed_methods"`
	AllowedHeaders []string      `yaml:"allowed_headers"`
	EnableMetrics  bool          `yaml:"enable_metrics"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	MaxRequestSize int64         `yaml:"max_request_size"`
}

// RoutingConfig controls how queries are routed between the knowledge
// base and web search.
type RoutingConfig struct {
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	TopK                int     `yaml:"top_k"`
}

// EmbeddingConfig selects the embedding provider.
type EmbeddingConfig struct {
	Provider     string `yaml:"provider"` // "hash" or "openai"
	Dimensions   int    `yaml:"dimensions"`
	OpenAIAPIKey string `yaml:"openai_api_key"`
}

// SearchConfig holds web search provider credentials.
type SearchConfig struct {
	TavilyAPIKey string        `yaml:"tavily_api_key"`
	ExaAPIKey    string        `yaml:"exa_api_key"`
	SerperAPIKey string        `yaml:"serper_api_key"`
	Timeout      time.Duration `yaml:"timeout"`
}

// StorageConfig selects the persistence driver.
type StorageConfig struct {
	Driver  string `yaml:"driver"` // "memory" or "sqlite"
	DataDir string `yaml:"data_dir"`
}

// CacheConfig represents the Redis solution cache configuration
type CacheConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl"`
}

// EventsConfig represents Kafka event publishing configuration
type EventsConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Brokers      []string      `yaml:"brokers"`
	ClientID     string        `yaml:"client_id"`
	BatchSize    int           `yaml:"batch_size"`
	BatchTimeout time.Duration `yaml:"batch_timeout"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load loads configuration from file
func Load() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg := Default()

	data, err := os.ReadFile(configPath)
	if err != nil {
		log.Printf("Config file not found, using defaults: %v", err)
		applyEnv(cfg)
		return cfg
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		log.Fatalf("Failed to parse config file: %v", err)
	}

	applyEnv(cfg)
	return cfg
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		API: APIConfig{
			Host:           "0.0.0.0",
			Port:           8000,
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   30 * time.Second,
			IdleTimeout:    60 * time.Second,
			EnableCORS:     true,
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
			EnableMetrics:  true,
			RequestTimeout: 30 * time.Second,
			MaxRequestSize: 1 << 20,
		},
		Routing: RoutingConfig{
			SimilarityThreshold: 0.7,
			TopK:                3,
		},
		Embedding: EmbeddingConfig{
			Provider:   "hash",
			Dimensions: 384,
		},
		Search: SearchConfig{
			Timeout: 10 * time.Second,
		},
		Storage: StorageConfig{
			Driver:  "memory",
			DataDir: "data",
		},
		Cache: CacheConfig{
			Addr:   "localhost:6379",
			Prefix: "mathroute",
			TTL:    5 * time.Minute,
		},
		Events: EventsConfig{
			Brokers:      []string{"localhost:9092"},
			ClientID:     "mathroute-events",
			BatchSize:    100,
			BatchTimeout: 10 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
	}
}

// applyEnv lets secrets come from the environment instead of the file.
func applyEnv(cfg *Config) {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.Embedding.OpenAIAPIKey = key
	}
	if key := os.Getenv("TAVILY_API_KEY"); key != "" {
		cfg.Search.TavilyAPIKey = key
	}
	if key := os.Getenv("EXA_API_KEY"); key != "" {
		cfg.Search.ExaAPIKey = key
	}
	if key := os.Getenv("SERPER_API_KEY"); key != "" {
		cfg.Search.SerperAPIKey = key
	}
	if pw := os.Getenv("REDIS_PASSWORD"); pw != "" {
		cfg.Cache.Password = pw
	}
}
