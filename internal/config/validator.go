package config

import (
	"fmt"
	"strings"
)

// Validate performs comprehensive validation of the configuration
func (c *Config) Validate() error {
	if err := c.validateAPI(); err != nil {
		return fmt.Errorf("api config error: %v", err)
	}

	if err := c.validateRouting(); err != nil {
		return fmt.Errorf("routing config error: %v", err)
	}

	if err := c.validateEmbedding(); err != nil {
		return fmt.Errorf("embedding config error: %v", err)
	}

	if err := c.validateStorage(); err != nil {
		return fmt.Errorf("storage config error: %v", err)
	}

	if err := c.validateEvents(); err != nil {
		return fmt.Errorf("events config error: %v", err)
	}

	if err := c.validateLogging(); err != nil {
		return fmt.Errorf("logging config error: %v", err)
	}

	return nil
}

func (c *Config) validateAPI() error {
	if c.API.Port <= 0 || c.API.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}

	if c.API.EnableCORS && len(c.API.AllowedOrigins) == 0 {
		return fmt.Errorf("allowed_origins is required when CORS is enabled")
	}

	return nil
}

func (c *Config) validateRouting() error {
	if c.Routing.SimilarityThreshold < 0 || c.Routing.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity_threshold must be between 0 and 1")
	}

	if c.Routing.TopK <= 0 {
		return fmt.Errorf("top_k must be greater than 0")
	}

	return nil
}

func (c *Config) validateEmbedding() error {
	provider := strings.ToLower(c.Embedding.Provider)
	if provider != "hash" && provider != "openai" {
		return fmt.Errorf("invalid provider: %s (must be hash or openai)", c.Embedding.Provider)
	}

	if provider == "openai" && c.Embedding.OpenAIAPIKey == "" {
		return fmt.Errorf("openai_api_key is required when provider is openai")
	}

	if c.Embedding.Dimensions <= 0 {
		return fmt.Errorf("dimensions must be greater than 0")
	}

	return nil
}

func (c *Config) validateStorage() error {
	driver := strings.ToLower(c.Storage.Driver)
	if driver != "memory" && driver != "sqlite" {
		return fmt.Errorf("invalid driver: %s (must be memory or sqlite)", c.Storage.Driver)
	}

	if driver == "sqlite" && c.Storage.DataDir == "" {
		return fmt.Errorf("data_dir is required when driver is sqlite")
	}

	return nil
}

func (c *Config) validateEvents() error {
	if !c.Events.Enabled {
		return nil
	}

	if len(c.Events.Brokers) == 0 {
		return fmt.Errorf("brokers is required when events are enabled")
	}

	for _, broker := range c.Events.Brokers {
		if !strings.Contains(broker, ":") {
			return fmt.Errorf("invalid broker format: %s (expected host:port)", broker)
		}
	}

	if c.Events.ClientID == "" {
		return fmt.Errorf("client_id is required when events are enabled")
	}

	return nil
}

func (c *Config) validateLogging() error {
	level := strings.ToLower(c.Logging.Level)
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

	if !validLevels[level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", level)
	}

	format := strings.ToLower(c.Logging.Format)
	validFormats := map[string]bool{"json": true, "text": true}

	if !validFormats[format] {
		return fmt.Errorf("invalid log format: %s (must be json or text)", format)
	}

	return nil
}

// Addr returns the host:port the HTTP server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.API.Host, c.API.Port)
}
