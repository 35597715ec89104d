// Package wiki fetches knowledge-base sources for ingestion: wiki pages via
// the MediaWiki HTTP API and help/FAQ entries from a local feed file.
package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/labsmc/wikigpt/internal/config"
)

// Client talks to a MediaWiki api.php endpoint. Requests go through a colly
// collector so per-domain parallelism and delay limits apply; crawling a
// community wiki politely matters more than crawling it fast.
type Client struct {
	apiURL string
	base   *colly.Collector
	logger *slog.Logger
}

// NewClient creates a wiki client from the crawl configuration.
func NewClient(cfg config.Wiki, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if _, err := url.Parse(cfg.APIURL); err != nil {
		return nil, fmt.Errorf("parsing wiki API URL: %w", err)
	}

	c := colly.NewCollector(
		colly.AllowURLRevisit(), // api.php is revisited with different params
	)
	c.SetRequestTimeout(time.Duration(cfg.TimeoutMs) * time.Millisecond)
	if err := c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: cfg.Parallelism,
		Delay:       time.Duration(cfg.DelayMs) * time.Millisecond,
	}); err != nil {
		return nil, fmt.Errorf("setting crawl limits: %w", err)
	}

	return &Client{
		apiURL: cfg.APIURL,
		base:   c,
		logger: logger,
	}, nil
}

// allPagesResponse is the action=query list=allpages wire shape.
type allPagesResponse struct {
	Continue struct {
		Apcontinue string `json:"apcontinue"`
	} `json:"continue"`
	Query struct {
		AllPages []struct {
			Title string `json:"title"`
		} `json:"allpages"`
	} `json:"query"`
}

// parseResponse is the action=parse wire shape.
type parseResponse struct {
	Parse struct {
		Title string `json:"title"`
		Text  struct {
			HTML string `json:"*"`
		} `json:"text"`
	} `json:"parse"`
	Error *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

// ListPages returns one batch of page titles plus the continuation token for
// the next batch. An empty token means pagination is exhausted. Pass the
// previous call's token as after ("" for the first call).
func (c *Client) ListPages(ctx context.Context, after string, limit int) ([]string, string, error) {
	params := url.Values{
		"action":  {"query"},
		"list":    {"allpages"},
		"format":  {"json"},
		"aplimit": {fmt.Sprint(limit)},
	}
	if after != "" {
		params.Set("apcontinue", after)
	}

	var resp allPagesResponse
	if err := c.getJSON(ctx, params, &resp); err != nil {
		return nil, "", fmt.Errorf("listing pages: %w", err)
	}

	titles := make([]string, 0, len(resp.Query.AllPages))
	for _, p := range resp.Query.AllPages {
		titles = append(titles, p.Title)
	}
	return titles, resp.Continue.Apcontinue, nil
}

// PageText fetches a page's rendered HTML and reduces it to plain text.
func (c *Client) PageText(ctx context.Context, title string) (string, error) {
	params := url.Values{
		"action": {"parse"},
		"page":   {title},
		"prop":   {"text"},
		"format": {"json"},
	}

	var resp parseResponse
	if err := c.getJSON(ctx, params, &resp); err != nil {
		return "", fmt.Errorf("fetching page %q: %w", title, err)
	}
	if resp.Error != nil {
		return "", fmt.Errorf("fetching page %q: %s (%s)", title, resp.Error.Info, resp.Error.Code)
	}

	text, err := ExtractText(resp.Parse.Text.HTML)
	if err != nil {
		return "", fmt.Errorf("extracting text of %q: %w", title, err)
	}
	return text, nil
}

// getJSON performs one API request and decodes the JSON body into out.
//
// Each call clones the base collector: clones share the rate-limited
// transport but carry their own callbacks, so responses cannot cross wires
// between concurrent calls.
func (c *Client) getJSON(ctx context.Context, params url.Values, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	col := c.base.Clone()

	var body []byte
	var reqErr error
	col.OnResponse(func(r *colly.Response) {
		body = r.Body
	})
	col.OnError(func(r *colly.Response, err error) {
		reqErr = err
	})

	target := c.apiURL + "?" + params.Encode()
	if err := col.Visit(target); err != nil {
		return fmt.Errorf("requesting %s: %w", target, err)
	}
	col.Wait()

	if reqErr != nil {
		return fmt.Errorf("requesting %s: %w", target, reqErr)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", target, err)
	}
	return nil
}
