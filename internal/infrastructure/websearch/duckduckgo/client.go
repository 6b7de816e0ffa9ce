package duckduckgo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/time/rate"

	"github.com/AswanthAllu/agentic/internal/core/domain"
)

const defaultBaseURL = "https://html.duckduckgo.com/html/"

// Client scrapes the DuckDuckGo HTML endpoint. A local limiter keeps the
// request rate under what the endpoint tolerates before it starts
// answering with challenge pages.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func New(baseURL string, requestsPerSecond float64) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = 0.5
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 20 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

func (c *Client) Search(ctx context.Context, query string, maxResults int) (*domain.WebSearchResponse, error) {
	if strings.TrimSpace(query) == "" {
		return &domain.WebSearchResponse{}, nil
	}
	if maxResults <= 0 {
		maxResults = 5
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s?q=%s", c.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; research-bot)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	// DuckDuckGo signals throttling with 202 challenge pages or 403.
	if resp.StatusCode == http.StatusAccepted || resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests {
		return &domain.WebSearchResponse{RateLimited: true},
			domain.WrapError(domain.ErrRateLimited, "web search", fmt.Errorf("status %d", resp.StatusCode))
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("search status: %s", resp.Status)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse search page: %w", err)
	}

	results := parseResults(doc, maxResults)
	return &domain.WebSearchResponse{Results: results}, nil
}

// parseResults walks the DOM for result anchors: a.result__a carries the
// title and destination, a.result__snippet the preview text.
func parseResults(doc *html.Node, limit int) []domain.WebResult {
	var results []domain.WebResult
	var current *domain.WebResult

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if len(results) >= limit && current == nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == "a" {
			classes := attr(n, "class")
			switch {
			case strings.Contains(classes, "result__a"):
				if current != nil && current.Title != "" {
					results = append(results, *current)
				}
				current = &domain.WebResult{
					Title: textContent(n),
					URL:   cleanURL(attr(n, "href")),
				}
			case strings.Contains(classes, "result__snippet"):
				if current != nil {
					current.Snippet = textContent(n)
					results = append(results, *current)
					current = nil
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	if current != nil && current.Title != "" && len(results) < limit {
		results = append(results, *current)
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

// cleanURL unwraps DuckDuckGo's redirect links (/l/?uddg=<encoded>).
func cleanURL(href string) string {
	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := parsed.Query().Get("uddg"); target != "" {
		if decoded, err := url.QueryUnescape(target); err == nil {
			return decoded
		}
	}
	if parsed.Scheme == "" {
		return "https:" + href
	}
	return href
}
