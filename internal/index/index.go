// Package index implements an in-memory flat inner-product index over
// L2-normalized embedding vectors. The artifact it loads is produced by
// the external index-build step; the index itself is read-only.
package index

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
)

type artifact struct {
	Dim     int         `json:"dim"`
	Names   []string    `json:"names"`
	Vectors [][]float32 `json:"vectors"`
}

type Hit struct {
	Name  string
	Score float32
}

type Index struct {
	dim     int
	names   []string
	vectors [][]float32
}

// Load reads an index artifact from disk. Vectors are re-normalized so
// that inner product equals cosine similarity even if the build step
// skipped normalization.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read index artifact '%s': %w", path, err)
	}
	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to parse index artifact '%s': %w", path, err)
	}
	return New(a.Dim, a.Names, a.Vectors)
}

func New(dim int, names []string, vectors [][]float32) (*Index, error) {
	if len(names) != len(vectors) {
		return nil, fmt.Errorf("index artifact inconsistent: %d names vs %d vectors", len(names), len(vectors))
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("index artifact is empty")
	}
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("vector %d has dim %d, want %d", i, len(v), dim)
		}
		normalizeInPlace(v)
	}
	return &Index{dim: dim, names: names, vectors: vectors}, nil
}

func (ix *Index) Dim() int { return ix.dim }

func (ix *Index) Len() int { return len(ix.names) }

// Search returns the k entries most similar to query, best first.
// The query is normalized before scoring.
func (ix *Index) Search(query []float32, k int) ([]Hit, error) {
	if len(query) != ix.dim {
		return nil, fmt.Errorf("query has dim %d, want %d", len(query), ix.dim)
	}
	if k <= 0 {
		return nil, nil
	}

	q := make([]float32, len(query))
	copy(q, query)
	normalizeInPlace(q)

	hits := make([]Hit, len(ix.vectors))
	for i, v := range ix.vectors {
		hits[i] = Hit{Name: ix.names[i], Score: dot(q, v)}
	}
	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Score > hits[b].Score
	})
	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

func dot(a, b []float32) float32 {
	var s float32
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func normalizeInPlace(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	n := math.Sqrt(sum)
	if n == 0 {
		return
	}
	for i := range v {
		v[i] = float32(float64(v[i]) / n)
	}
}
