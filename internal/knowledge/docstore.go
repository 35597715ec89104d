package knowledge

import (
	"errors"
	"fmt"
)

// ErrRowOutOfRange indicates a row index outside the document store.
var ErrRowOutOfRange = errors.New("row index out of range")

// DocumentStore is a sequential, append-only container of chunks, aligned
// 1:1 with VectorIndex rows by construction order.
type DocumentStore struct {
	chunks []Chunk
}

// NewDocumentStore creates an empty document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{}
}

// Append adds chunks at the end of the store, preserving order.
func (s *DocumentStore) Append(chunks ...Chunk) {
	s.chunks = append(s.chunks, chunks...)
}

// Get returns the chunk at the given row.
func (s *DocumentStore) Get(row int) (Chunk, error) {
	if row < 0 || row >= len(s.chunks) {
		return Chunk{}, fmt.Errorf("%w: %d (store has %d chunks)", ErrRowOutOfRange, row, len(s.chunks))
	}
	return s.chunks[row], nil
}

// Len returns the number of stored chunks.
func (s *DocumentStore) Len() int { return len(s.chunks) }
