package knowledge

import (
	"sort"
	"strings"
	"sync"

	"github.com/mathroute/internal/embedding"
	"github.com/mathroute/pkg/models"
)

// Entry is one stored problem/solution pair. Entries are immutable once
// inserted; the store owns them for the life of the process.
type Entry struct {
	Problem   string
	Solution  models.Solution
	Category  models.Category
	Keywords  []string
	Embedding []float64
}

// Match is one similarity search result, ephemeral per query.
type Match struct {
	Problem    string          `json:"problem"`
	Solution   models.Solution `json:"solution"`
	Category   models.Category `json:"category"`
	Similarity float64         `json:"similarity"`
	Source     string          `json:"source"`
	Keywords   []string        `json:"keywords"`
}

// Store holds the in-memory knowledge base. Searches are read-only and may
// run concurrently; inserts are serialized by the mutex. Every search is a
// full scan, which is acceptable because the store stays small.
type Store struct {
	mu       sync.RWMutex
	provider embedding.Provider
	entries  []Entry
}

// NewStore creates a store seeded with the built-in sample problems.
func NewStore(provider embedding.Provider) *Store {
	s := &Store{provider: provider}
	for _, seed := range seedProblems() {
		s.Insert(seed.Problem, seed.Solution, seed.Category)
	}
	return s
}

// NewEmptyStore creates a store with no seed data.
func NewEmptyStore(provider embedding.Provider) *Store {
	return &Store{provider: provider}
}

// Insert embeds the problem text and appends a new immutable entry. The
// entry is visible to every subsequent search.
func (s *Store) Insert(problem string, solution models.Solution, category models.Category) {
	problem = strings.ToLower(problem)
	entry := Entry{
		Problem:   problem,
		Solution:  solution,
		Category:  category,
		Keywords:  extractKeywords(problem),
		Embedding: s.provider.Embed(problem),
	}

	s.mu.Lock()
	s.entries = append(s.entries, entry)
	s.mu.Unlock()
}

// SearchSimilar embeds the query, scores it against every entry and returns
// at most limit matches sorted by descending similarity. Ties keep insertion
// order. The store is never mutated.
func (s *Store) SearchSimilar(query string, limit int) []Match {
	if limit <= 0 {
		return nil
	}

	queryVector := s.provider.Embed(strings.ToLower(query))

	s.mu.RLock()
	matches := make([]Match, 0, len(s.entries))
	for _, entry := range s.entries {
		matches = append(matches, Match{
			Problem:    entry.Problem,
			Solution:   entry.Solution,
			Category:   entry.Category,
			Similarity: embedding.CosineSimilarity(queryVector, entry.Embedding),
			Source:     string(models.SourceKnowledgeBase),
			Keywords:   entry.Keywords,
		})
	}
	s.mu.RUnlock()

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// ProblemsByCategory returns all entries in the given category.
func (s *Store) ProblemsByCategory(category models.Category) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Entry
	for _, entry := range s.entries {
		if strings.EqualFold(string(entry.Category), string(category)) {
			out = append(out, entry)
		}
	}
	return out
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Stats counts stored entries per category.
func (s *Store) Stats() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]int{"total": len(s.entries)}
	for _, entry := range s.entries {
		stats[string(entry.Category)]++
	}
	return stats
}

// mathTerms feed per-entry keyword extraction.
var mathTerms = []string{
	"solve", "find", "calculate", "compute", "determine",
	"equation", "derivative", "integral", "limit",
	"triangle", "circle", "area", "volume", "angle",
	"matrix", "vector", "system", "polynomial",
}

func extractKeywords(text string) []string {
	lower := strings.ToLower(text)
	var keywords []string
	for _, term := range mathTerms {
		if strings.Contains(lower, term) {
			keywords = append(keywords, term)
		}
	}
	return keywords
}
