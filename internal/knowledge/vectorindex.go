package knowledge

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrDimension indicates a vector whose length does not match the index
	// dimensionality. This is a construction-time defect, not a condition to
	// recover from at serve time.
	ErrDimension = errors.New("vector dimension mismatch")

	// ErrInvalidK indicates a non-positive neighbor count.
	ErrInvalidK = errors.New("k must be positive")
)

// VectorIndex is a flat inner-product nearest-neighbor index over
// fixed-dimension embeddings. Vectors must be L2-normalized by the caller
// before Add and before Search so that inner product behaves as cosine
// similarity; the index does not normalize internally.
type VectorIndex struct {
	dim     int
	vectors [][]float32
}

// NewVectorIndex creates an empty index for vectors of the given dimension.
func NewVectorIndex(dim int) (*VectorIndex, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: dimension %d", ErrDimension, dim)
	}
	return &VectorIndex{dim: dim}, nil
}

// Dimension returns the fixed vector dimension of the index.
func (ix *VectorIndex) Dimension() int { return ix.dim }

// Len returns the number of stored vectors.
func (ix *VectorIndex) Len() int { return len(ix.vectors) }

// Add appends rows to the index, preserving insertion order. Every vector
// must match the index dimension exactly; on mismatch nothing is appended.
func (ix *VectorIndex) Add(vectors [][]float32) error {
	for i, v := range vectors {
		if len(v) != ix.dim {
			return fmt.Errorf("%w: vector %d has %d dims, index expects %d",
				ErrDimension, i, len(v), ix.dim)
		}
	}
	ix.vectors = append(ix.vectors, vectors...)
	return nil
}

// Search returns the k rows most similar to query by inner product, ordered
// best-first, as parallel score and row-index slices. Searching an empty
// index returns empty slices rather than an error. Fewer than k stored
// vectors yields fewer than k results.
func (ix *VectorIndex) Search(query []float32, k int) ([]float32, []int, error) {
	if k <= 0 {
		return nil, nil, fmt.Errorf("%w: got %d", ErrInvalidK, k)
	}
	if len(query) != ix.dim {
		return nil, nil, fmt.Errorf("%w: query has %d dims, index expects %d",
			ErrDimension, len(query), ix.dim)
	}
	if len(ix.vectors) == 0 {
		return []float32{}, []int{}, nil
	}

	type hit struct {
		score float32
		row   int
	}
	hits := make([]hit, len(ix.vectors))
	for row, v := range ix.vectors {
		var dot float32
		for i := range v {
			dot += v[i] * query[i]
		}
		hits[row] = hit{score: dot, row: row}
	}

	// Descending by score; equal scores keep row order so results are
	// deterministic across runs.
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})

	if k > len(hits) {
		k = len(hits)
	}
	scores := make([]float32, k)
	rows := make([]int, k)
	for i := range k {
		scores[i] = hits[i].score
		rows[i] = hits[i].row
	}
	return scores, rows, nil
}
