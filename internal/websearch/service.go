// Package websearch provides the fallback path for problems the knowledge
// base cannot answer: external search clients with a static mock default,
// and a template that shapes search hits into a solution document.
package websearch

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/mathroute/pkg/models"
)

// Searcher finds mathematical content for a query
type Searcher interface {
	Search(ctx context.Context, query string) ([]models.SearchResult, error)
	Name() string
}

// Config carries API keys for the external search providers. With no keys
// configured the service serves static mock results.
type Config struct {
	TavilyAPIKey string `yaml:"tavily_api_key"`
	ExaAPIKey    string `yaml:"exa_api_key"`
	SerperAPIKey string `yaml:"serper_api_key"`
	Timeout      time.Duration `yaml:"timeout"`
}

// Service tries each configured provider in order and falls back to mock
// results when none is configured or all fail.
type Service struct {
	providers []Searcher
}

// NewService builds the provider chain from config. Tavily is preferred for
// academic content, then Exa, then Serper.
func NewService(config Config) *Service {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	client := &http.Client{Timeout: timeout}

	var providers []Searcher
	if config.TavilyAPIKey != "" {
		providers = append(providers, &TavilyClient{apiKey: config.TavilyAPIKey, httpClient: client})
	}
	if config.ExaAPIKey != "" {
		providers = append(providers, &ExaClient{apiKey: config.ExaAPIKey, httpClient: client})
	}
	if config.SerperAPIKey != "" {
		providers = append(providers, &SerperClient{apiKey: config.SerperAPIKey, httpClient: client})
	}

	return &Service{providers: providers}
}

// Search returns results from the first provider that answers, or the mock
// result set when no provider is available.
func (s *Service) Search(ctx context.Context, query string) []models.SearchResult {
	for _, provider := range s.providers {
		results, err := provider.Search(ctx, query)
		if err != nil {
			log.Printf("Web search via %s failed: %v", provider.Name(), err)
			continue
		}
		if len(results) > 0 {
			return results
		}
	}
	return MockResults(query)
}

// CheckConnection reports search availability for the status endpoint.
func (s *Service) CheckConnection() string {
	if len(s.providers) > 0 {
		return "connected"
	}
	return "no_api_key"
}
