package semcache

import (
	"context"
	"errors"
	"io"
	"log"
	"math"
	"testing"
	"time"
)

// fakeEmbedder answers from a fixed text-to-vector table.
type fakeEmbedder struct {
	vectors map[string][]float32
	err     error
	calls   int
}

func (f *fakeEmbedder) Generate(_ context.Context, text string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vectors[text], nil
}

func (f *fakeEmbedder) Dimension() int { return 3 }

func testCache(embedder *fakeEmbedder, threshold float64, enabled bool) *Cache {
	return NewCache(embedder, threshold, time.Hour, enabled, log.New(io.Discard, "", 0))
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical unit vectors", []float32{1, 0, 0}, []float32{1, 0, 0}, 1},
		{"orthogonal", []float32{1, 0, 0}, []float32{0, 1, 0}, 0},
		{"opposite", []float32{1, 0, 0}, []float32{-1, 0, 0}, -1},
		{"zero vector scores zero", []float32{0, 0, 0}, []float32{1, 0, 0}, 0},
		{"both zero", []float32{0, 0, 0}, []float32{0, 0, 0}, 0},
		{"length mismatch", []float32{1, 0}, []float32{1, 0, 0}, 0},
		{"empty", nil, nil, 0},
		{"scaling does not change the score", []float32{2, 0, 0}, []float32{5, 0, 0}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CosineSimilarity = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStoreThenLookupHit(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"fruity coffee":       {1, 0, 0},
		"something fruity":    {0.99, 0.14, 0}, // ~0.99 similarity
		"dark chocolate bomb": {0, 1, 0},
	}}
	cache := testCache(embedder, 0.92, true)

	payload := []byte(`{"outcome":"ok"}`)
	_, vector, err := cache.Lookup(context.Background(), "fruity coffee", "ctx")
	if err != nil {
		t.Fatal(err)
	}
	cache.Store("fruity coffee", "ctx", vector, payload)

	got, _, err := cache.Lookup(context.Background(), "something fruity", "ctx")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(payload) {
		t.Fatalf("expected the stored payload byte-identical, got %q", got)
	}

	miss, _, err := cache.Lookup(context.Background(), "dark chocolate bomb", "ctx")
	if err != nil {
		t.Fatal(err)
	}
	if miss != nil {
		t.Errorf("dissimilar query should miss, got %q", miss)
	}
}

func TestLookupRespectsContextKey(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"fruity coffee": {1, 0, 0},
	}}
	cache := testCache(embedder, 0.92, true)

	_, vector, _ := cache.Lookup(context.Background(), "fruity coffee", "ref-a|")
	cache.Store("fruity coffee", "ref-a|", vector, []byte("answer-a"))

	got, _, err := cache.Lookup(context.Background(), "fruity coffee", "ref-b|")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Error("identical query under a different context must not hit")
	}
}

func TestDisabledCacheNeverEmbeds(t *testing.T) {
	embedder := &fakeEmbedder{}
	cache := testCache(embedder, 0.92, false)

	got, vector, err := cache.Lookup(context.Background(), "anything", "ctx")
	if err != nil || got != nil || vector != nil {
		t.Fatalf("disabled cache should be a silent miss, got %v %v %v", got, vector, err)
	}
	if embedder.calls != 0 {
		t.Errorf("disabled cache embedded anyway: %d calls", embedder.calls)
	}

	cache.Store("anything", "ctx", []float32{1, 0, 0}, []byte("x"))
	if cache.Len() != 0 {
		t.Error("disabled cache stored an entry")
	}
}

func TestLookupPropagatesEmbeddingFailure(t *testing.T) {
	embedder := &fakeEmbedder{err: errors.New("embedding service down")}
	cache := testCache(embedder, 0.92, true)

	_, _, err := cache.Lookup(context.Background(), "query", "ctx")
	if err == nil {
		t.Fatal("expected embedding failure to propagate")
	}
}

func TestStoreSkipsNilVector(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{}}
	cache := testCache(embedder, 0.92, true)

	cache.Store("query", "ctx", nil, []byte("x"))
	if cache.Len() != 0 {
		t.Error("entry stored without a vector")
	}
}

func TestEntriesAreNeverMerged(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"q": {1, 0, 0},
	}}
	cache := testCache(embedder, 0.92, true)

	cache.Store("q", "ctx", []float32{1, 0, 0}, []byte("first"))
	cache.Store("q", "ctx", []float32{1, 0, 0}, []byte("second"))
	if cache.Len() != 2 {
		t.Errorf("expected 2 independent entries, got %d", cache.Len())
	}
}
