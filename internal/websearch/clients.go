package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mathroute/pkg/models"
)

const (
	tavilyURL = "https://api.tavily.com/search"
	exaURL    = "https://api.exa.ai/search"
	serperURL = "https://google.serper.dev/search"
)

// TavilyClient searches via the Tavily API, scoped to academic math domains.
type TavilyClient struct {
	apiKey     string
	httpClient *http.Client
}

func (c *TavilyClient) Name() string { return "tavily" }

func (c *TavilyClient) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	payload := map[string]interface{}{
		"query":               fmt.Sprintf("mathematics %s step by step solution", query),
		"search_depth":        "advanced",
		"include_answer":      true,
		"include_raw_content": true,
		"max_results":         5,
		"include_domains": []string{
			"mathworld.wolfram.com",
			"khanacademy.org",
			"math.stackexchange.com",
			"brilliant.org",
			"mit.edu",
			"stanford.edu",
		},
	}

	var response struct {
		Results []struct {
			Title   string  `json:"title"`
			Content string  `json:"content"`
			URL     string  `json:"url"`
			Score   float64 `json:"score"`
		} `json:"results"`
	}

	if err := postJSON(ctx, c.httpClient, tavilyURL, map[string]string{
		"Authorization": "Bearer " + c.apiKey,
	}, payload, &response); err != nil {
		return nil, err
	}

	results := make([]models.SearchResult, 0, len(response.Results))
	for _, r := range response.Results {
		relevance := r.Score
		if relevance == 0 {
			relevance = 0.5
		}
		results = append(results, models.SearchResult{
			Title:     r.Title,
			Content:   r.Content,
			URL:       r.URL,
			Relevance: relevance,
		})
	}
	return results, nil
}

// ExaClient searches via the Exa API.
type ExaClient struct {
	apiKey     string
	httpClient *http.Client
}

func (c *ExaClient) Name() string { return "exa" }

func (c *ExaClient) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	payload := map[string]interface{}{
		"query":         fmt.Sprintf("mathematics %s", query),
		"type":          "keyword",
		"useAutoprompt": true,
		"numResults":    5,
		"contents": map[string]interface{}{
			"text":       true,
			"highlights": map[string]int{"numSentences": 3},
		},
	}

	var response struct {
		Results []struct {
			Title string  `json:"title"`
			Text  string  `json:"text"`
			URL   string  `json:"url"`
			Score float64 `json:"score"`
		} `json:"results"`
	}

	if err := postJSON(ctx, c.httpClient, exaURL, map[string]string{
		"Authorization": "Bearer " + c.apiKey,
	}, payload, &response); err != nil {
		return nil, err
	}

	results := make([]models.SearchResult, 0, len(response.Results))
	for _, r := range response.Results {
		relevance := r.Score
		if relevance == 0 {
			relevance = 0.5
		}
		results = append(results, models.SearchResult{
			Title:     r.Title,
			Content:   r.Text,
			URL:       r.URL,
			Relevance: relevance,
		})
	}
	return results, nil
}

// SerperClient searches via the Serper API.
type SerperClient struct {
	apiKey     string
	httpClient *http.Client
}

func (c *SerperClient) Name() string { return "serper" }

func (c *SerperClient) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	payload := map[string]interface{}{
		"q":   fmt.Sprintf("mathematics %s step by step solution", query),
		"num": 5,
	}

	var response struct {
		Organic []struct {
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
			Link    string `json:"link"`
		} `json:"organic"`
	}

	if err := postJSON(ctx, c.httpClient, serperURL, map[string]string{
		"X-API-KEY": c.apiKey,
	}, payload, &response); err != nil {
		return nil, err
	}

	results := make([]models.SearchResult, 0, len(response.Organic))
	for _, r := range response.Organic {
		results = append(results, models.SearchResult{
			Title:     r.Title,
			Content:   r.Snippet,
			URL:       r.Link,
			Relevance: 0.7,
		})
	}
	return results, nil
}

func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, payload, target interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
