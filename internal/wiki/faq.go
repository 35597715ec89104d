package wiki

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/labsmc/wikigpt/internal/knowledge"
)

// ErrInvalidFAQEntry indicates an FAQ entry missing its question or answer.
var ErrInvalidFAQEntry = errors.New("invalid FAQ entry")

// FAQEntry is one help/FAQ item from the feed file.
type FAQEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	// Date is the answer's ISO-8601 date. Passed through verbatim, even
	// when malformed: the retriever owns the degrade policy for bad dates.
	Date string `json:"date,omitempty"`
}

// Chunk converts the entry into a helpqa knowledge chunk. The question
// becomes the title so prompt context lines read "question: answer".
func (e FAQEntry) Chunk() knowledge.Chunk {
	return knowledge.Chunk{
		Title:   e.Question,
		Content: e.Answer,
		Source:  knowledge.SourceHelpQA,
		Date:    e.Date,
	}
}

// LoadFAQ reads a JSON array of FAQ entries from path. Entries without a
// question or answer are rejected: unlike a bad date, an empty answer can
// never be served usefully.
func LoadFAQ(path string) ([]FAQEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading FAQ file: %w", err)
	}

	var entries []FAQEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing FAQ file %s: %w", path, err)
	}

	for i, e := range entries {
		if e.Question == "" || e.Answer == "" {
			return nil, fmt.Errorf("%w: entry %d needs both question and answer", ErrInvalidFAQEntry, i)
		}
	}
	return entries, nil
}
