package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const postingHTML = `<html><head><title>Backend Engineer - Acme</title>
<style>body { color: red; }</style><script>var tracking = 1;</script></head>
<body><h1>Backend Engineer</h1>
<p>Acme is hiring a backend engineer to build payment systems in Go.
You will design APIs, operate services, and mentor teammates across the platform group.</p>
<noscript>Enable JavaScript</noscript></body></html>`

func TestCleanDropsScriptsAndCollapsesWhitespace(t *testing.T) {
	page, err := Clean(postingHTML)
	if err != nil {
		t.Fatalf("Clean returned error: %v", err)
	}
	if page.Title != "Backend Engineer - Acme" {
		t.Fatalf("unexpected title %q", page.Title)
	}
	for _, unwanted := range []string{"tracking", "color: red", "Enable JavaScript", "\n", "  "} {
		if strings.Contains(page.Text, unwanted) {
			t.Fatalf("text still contains %q: %q", unwanted, page.Text)
		}
	}
	if !strings.Contains(page.Text, "Acme is hiring a backend engineer") {
		t.Fatalf("text lost content: %q", page.Text)
	}
	if !strings.Contains(page.Markdown, "# Backend Engineer") {
		t.Fatalf("expected markdown heading, got %q", page.Markdown)
	}
}

func TestCleanSeparatesAdjacentElements(t *testing.T) {
	page, err := Clean(`<html><body><ul><li>Go</li><li>Python</li></ul><p>Remote</p><p>Apply now</p></body></html>`)
	if err != nil {
		t.Fatalf("Clean returned error: %v", err)
	}
	if page.Text != "Go Python Remote Apply now" {
		t.Fatalf("unexpected text %q", page.Text)
	}
}

func TestHTTPFetcherFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "jobflow-test" {
			t.Fatalf("unexpected user agent %q", r.Header.Get("User-Agent"))
		}
		if r.URL.Path == "/gone" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("<html><body>missing</body></html>"))
			return
		}
		_, _ = w.Write([]byte(postingHTML))
	}))
	defer server.Close()

	f := NewHTTPFetcher(Config{UserAgent: "jobflow-test"})
	page, err := f.Fetch(context.Background(), server.URL+"/job")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if page.Status != http.StatusOK || page.URL != server.URL+"/job" || page.HTML != postingHTML {
		t.Fatalf("unexpected page %+v", page)
	}
	if gone, reason := Unavailable(page, f.MinTextChars()); gone {
		t.Fatalf("posting should be available, got %s", reason)
	}

	missing, err := f.Fetch(context.Background(), server.URL+"/gone")
	if err != nil {
		t.Fatalf("Fetch returned error for 404: %v", err)
	}
	if gone, _ := Unavailable(missing, f.MinTextChars()); !gone {
		t.Fatal("404 should be unavailable")
	}
}

func TestUnavailable(t *testing.T) {
	long := strings.Repeat("Great role building things. ", 10)
	cases := []struct {
		name string
		page Page
		want bool
	}{
		{"ok", Page{Status: 200, Text: long}, false},
		{"server error", Page{Status: 503, Text: long}, true},
		{"short", Page{Status: 200, Text: "Loading..."}, true},
		{"removed", Page{Status: 200, Text: long + " This job is no longer accepting applications."}, true},
		{"filled", Page{Status: 200, Text: "Sorry, the Job Has Been Filled. " + long}, true},
	}
	for _, tc := range cases {
		if got, reason := Unavailable(tc.page, 150); got != tc.want {
			t.Fatalf("%s: Unavailable = %v (%s), want %v", tc.name, got, reason, tc.want)
		}
	}
}

func TestFetchRejectsBadURL(t *testing.T) {
	if _, err := NewHTTPFetcher(Config{}).Fetch(context.Background(), "://bad"); err == nil {
		t.Fatal("expected error for invalid URL")
	}
}
