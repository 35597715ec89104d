package wiki

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// ExtractText reduces rendered MediaWiki HTML to plain text.
//
// Readability extraction runs first: it strips navigation boxes, edit links
// and reference cruft that a plain text dump would keep. Short or unusual
// pages that readability rejects fall back to a full goquery text dump, so
// extraction never loses a page outright.
func ExtractText(html string) (string, error) {
	article, err := readability.FromReader(strings.NewReader(html), nil)
	if err == nil {
		if text := collapseWhitespace(article.TextContent); text != "" {
			return text, nil
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}
	doc.Find("script, style").Remove()
	return collapseWhitespace(doc.Text()), nil
}

// collapseWhitespace flattens all runs of whitespace to single spaces. The
// chunker splits on words, so layout whitespace carries no information here.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
