// Package ingest builds the retrieval snapshot offline: crawl, chunk, embed,
// index, persist.
package ingest

import "strings"

// Chunking defaults: a 500-word window keeps each chunk inside the embedding
// model's useful input range; 50 words of overlap keep sentences split at a
// boundary retrievable from both sides.
const (
	DefaultChunkWords   = 500
	DefaultChunkOverlap = 50
)

// ChunkWords slices text into word windows of the given size, each
// overlapping its predecessor by overlap words. The final window may be
// shorter. Windows that would be pure subsets of the previous one are not
// emitted.
func ChunkWords(text string, size, overlap int) []string {
	if size <= 0 {
		size = DefaultChunkWords
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	step := size - overlap
	var chunks []string
	for start := 0; start < len(words); start += step {
		end := min(start+size, len(words))
		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
	}
	return chunks
}
