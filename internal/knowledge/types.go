package knowledge

// Source identifies where a chunk's text originated. The zero value is
// treated as SourceWiki everywhere that source matters.
type Source string

// Known chunk sources.
const (
	// SourceWiki marks chunks sliced from crawled wiki pages.
	SourceWiki Source = "wiki"

	// SourceHelpQA marks chunks imported from the help/FAQ feed. These are
	// time-sensitive and usually carry a Date.
	SourceHelpQA Source = "helpqa"
)

// Chunk is the atomic retrievable unit: a bounded slice of source text plus
// the metadata the retriever scores against.
type Chunk struct {
	// Title identifies the originating document. Not unique: a wiki page
	// yields many chunks sharing one title.
	Title string `json:"title"`

	// Content is the chunk text, overlapping its neighbors by a fixed word
	// count (see ingest.ChunkWords).
	Content string `json:"content"`

	// Source tags the chunk origin. Empty means wiki.
	Source Source `json:"source,omitempty"`

	// Date is an ISO-8601 calendar date ("2006-01-02"), present only for
	// time-sensitive sources. Kept as the raw string deliberately: a
	// malformed value must survive to scoring time, where it downgrades to
	// a best-effort unboosted score instead of failing the query.
	Date string `json:"date,omitempty"`
}

// HasDate reports whether the chunk carries a (possibly malformed) date.
func (c Chunk) HasDate() bool {
	return c.Date != ""
}
