package semcache

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/katnyeung/beans-finder-sub000/pkg/embedding"
)

// Cache is a semantic response cache: queries are matched by embedding
// similarity, not by exact text. Each stored entry keeps its own vector;
// entries are never merged or updated, they only expire.
type Cache struct {
	embedder  embedding.EmbeddingProvider
	entries   *gocache.Cache
	threshold float64
	enabled   bool
	logger    *log.Logger
}

type entry struct {
	vector     []float32
	contextKey string
	payload    []byte
}

func NewCache(embedder embedding.EmbeddingProvider, threshold float64, ttl time.Duration, enabled bool, logger *log.Logger) *Cache {
	return &Cache{
		embedder:  embedder,
		entries:   gocache.New(ttl, ttl/2),
		threshold: threshold,
		enabled:   enabled,
		logger:    logger,
	}
}

// Lookup embeds the query and scans live entries for the best cosine match
// within the same conversational context. The query vector is returned so
// a later Store does not pay for a second embedding call.
//
// A disabled cache answers miss without embedding. An embedding failure is
// an error, not a silent miss: the caller decides how to proceed.
func (c *Cache) Lookup(ctx context.Context, query, contextKey string) ([]byte, []float32, error) {
	if !c.enabled {
		return nil, nil, nil
	}

	vector, err := c.embedder.Generate(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("cache lookup embedding: %w", err)
	}

	var bestPayload []byte
	bestScore := -1.0
	for _, item := range c.entries.Items() {
		e, ok := item.Object.(entry)
		if !ok || e.contextKey != contextKey {
			continue
		}
		score := CosineSimilarity(vector, e.vector)
		if score > bestScore {
			bestScore = score
			bestPayload = e.payload
		}
	}

	if bestScore >= c.threshold {
		c.logger.Printf("[SEMCACHE] hit at similarity %.4f", bestScore)
		return bestPayload, vector, nil
	}
	return nil, vector, nil
}

// Store records a served response under the query vector. Pass the vector
// returned by Lookup; a nil vector means the query was never embedded and
// the entry is skipped.
func (c *Cache) Store(query, contextKey string, vector []float32, payload []byte) {
	if !c.enabled || len(vector) == 0 {
		return
	}
	c.entries.SetDefault(uuid.NewString(), entry{
		vector:     vector,
		contextKey: contextKey,
		payload:    payload,
	})
	c.logger.Printf("[SEMCACHE] stored response for %q", query)
}

// Len reports live entries, expired ones included until the janitor runs.
func (c *Cache) Len() int {
	return c.entries.ItemCount()
}

// CosineSimilarity is the exact dot(a,b)/(|a||b|) formula. Mismatched
// lengths and zero vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
