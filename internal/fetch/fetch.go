package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"

	"jobflow/internal/services"
)

const (
	defaultTimeout      = 60 * time.Second
	defaultMinTextChars = 150
	maxBodyBytes        = 8 << 20
)

// Page is a fetched posting.
type Page struct {
	URL    string
	Status int
	Title  string
	HTML   string
	// Text is the visible text with scripts and styles removed and
	// whitespace collapsed.
	Text string
	// Markdown is the cleaned document rendered as Markdown. It is empty when
	// conversion fails.
	Markdown string
}

// Fetcher retrieves a posting page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (Page, error)
}

// Config controls the HTTP fetcher.
type Config struct {
	TimeoutSeconds int
	UserAgent      string
	MinTextChars   int
}

// HTTPFetcher fetches pages with a plain GET. It does not run scripts, so
// postings rendered client-side may come back nearly empty and read as
// unavailable.
type HTTPFetcher struct {
	client       *http.Client
	userAgent    string
	minTextChars int
}

// NewHTTPFetcher constructs a fetcher from cfg.
func NewHTTPFetcher(cfg Config) *HTTPFetcher {
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	minChars := cfg.MinTextChars
	if minChars <= 0 {
		minChars = defaultMinTextChars
	}
	return &HTTPFetcher{
		client:       &http.Client{Timeout: timeout},
		userAgent:    strings.TrimSpace(cfg.UserAgent),
		minTextChars: minChars,
	}
}

// MinTextChars returns the text length below which a page is unavailable.
func (f *HTTPFetcher) MinTextChars() int { return f.minTextChars }

// Fetch downloads url and cleans it. HTTP error statuses are returned as a
// Page, not an error, so callers can classify them with Unavailable.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Page{}, services.Wrap(services.ErrValidation, "fetch", "build request", fmt.Sprintf("Invalid posting URL %q", url), err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	resp, err := f.client.Do(req)
	if err != nil {
		return Page{}, services.Wrap(services.ErrTransient, "fetch", "get", fmt.Sprintf("Unable to fetch %s", url), err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Page{}, services.Wrap(services.ErrTransient, "fetch", "read body", fmt.Sprintf("Unable to read %s", url), err)
	}
	page, err := Clean(string(body))
	if err != nil {
		return Page{}, services.Wrap(services.ErrExternalTool, "fetch", "parse html", fmt.Sprintf("Unable to parse %s", url), err)
	}
	page.URL = url
	page.Status = resp.StatusCode
	return page, nil
}

// Clean extracts the title, visible text, and Markdown rendering of html.
func Clean(html string) (Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Page{}, err
	}
	doc.Find("script, style, noscript").Remove()

	page := Page{HTML: html, Title: strings.TrimSpace(doc.Find("title").First().Text())}
	page.Text = CollapseWhitespace(visibleText(doc.Selection))

	cleaned, err := doc.Html()
	if err == nil {
		if md, convErr := htmltomarkdown.ConvertString(cleaned); convErr == nil {
			page.Markdown = strings.TrimSpace(md)
		}
	}
	return page, nil
}

// visibleText joins the text nodes under sel with spaces so adjacent
// elements in minified markup stay separate words.
func visibleText(sel *goquery.Selection) string {
	var parts []string
	var walk func(*goquery.Selection)
	walk = func(s *goquery.Selection) {
		s.Contents().Each(func(_ int, node *goquery.Selection) {
			switch goquery.NodeName(node) {
			case "#text":
				parts = append(parts, node.Text())
			case "#comment":
			default:
				walk(node)
			}
		})
	}
	walk(sel)
	return strings.Join(parts, " ")
}

// CollapseWhitespace joins the fields of s with single spaces.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
