package textutil

import (
	"testing"
	"time"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Acme":                 "acme",
		"Acme, Inc.":           "acme--inc",
		"  Big Tech Co  ":      "big-tech-co",
		"Café Olé":             "café-olé",
		"---":                  "",
		"OpenAI/Research 2026": "openai-research-2026",
	}
	for input, want := range cases {
		if got := Slugify(input); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestSlugifyIsDeterministic(t *testing.T) {
	if Slugify("Stripe") != Slugify("Stripe") {
		t.Fatal("expected identical slugs for identical input")
	}
}

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"2026-02-04", "2026-02-04", true},
		{" 2/4/2026 ", "2026-02-04", true},
		{"02/04/2026", "2026-02-04", true},
		{"2/4/26", "2026-02-04", true},
		{"\u200e2/4/26\u200f", "2026-02-04", true},
		{"13/4/2026", "", false},
		{"2/30/2026", "", false},
		{"2/4/1800", "", false},
		{"Feb 4 2026", "", false},
		{"2026-13-01", "", false},
		{"", "", false},
		{"yesterday", "", false},
	}
	for _, tc := range cases {
		got, ok := NormalizeDate(tc.raw)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("NormalizeDate(%q) = %q,%v want %q,%v", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseLooseDate(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"2026-02-04", "2026-02-04"},
		{"3/4/25", "2025-03-04"},
		{"2026-02-04T23:19:17", "2026-02-04"},
		{"2026-02-04 23:19:17", "2026-02-04"},
		{"February 4, 2026", "2026-02-04"},
	}
	for _, tc := range cases {
		got, ok := ParseLooseDate(tc.raw)
		if !ok {
			t.Fatalf("ParseLooseDate(%q) failed", tc.raw)
		}
		if got.Format(DateLayout) != tc.want {
			t.Fatalf("ParseLooseDate(%q) = %s, want %s", tc.raw, got.Format(DateLayout), tc.want)
		}
	}
	if _, ok := ParseLooseDate("not a date"); ok {
		t.Fatal("expected failure for garbage input")
	}
	if _, ok := ParseLooseDate(""); ok {
		t.Fatal("expected failure for empty input")
	}
}

func TestDatePart(t *testing.T) {
	if got := DatePart("2026-02-04T23:19:17"); got != "2026-02-04" {
		t.Fatalf("DatePart = %q", got)
	}
	if got := DatePart("soon"); got != "" {
		t.Fatalf("DatePart(short) = %q", got)
	}
	if got := DatePart("not-a-date-at-all"); got != "" {
		t.Fatalf("DatePart(garbage) = %q", got)
	}
}

func TestCamelCase(t *testing.T) {
	cases := map[string]string{
		"senior back-end engineer": "SeniorBackEndEngineer",
		"ACME corp":                "AcmeCorp",
		"":                         "Unknown",
		"!!!":                      "Unknown",
	}
	for input, want := range cases {
		if got := CamelCase(input); got != want {
			t.Fatalf("CamelCase(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestTruncateAndExcerpt(t *testing.T) {
	if got := Truncate("héllo world", 5); got != "héllo" {
		t.Fatalf("Truncate = %q", got)
	}
	if got := Truncate("short", 0); got != "short" {
		t.Fatalf("Truncate(0) = %q", got)
	}
	if got := Excerpt("a\n\n b   c", 10); got != "a b c" {
		t.Fatalf("Excerpt = %q", got)
	}
	if got := Excerpt("abcdefghij", 4); got != "abcd..." {
		t.Fatalf("Excerpt clipped = %q", got)
	}
	if got := Excerpt("  ", 4); got != "<empty>" {
		t.Fatalf("Excerpt empty = %q", got)
	}
}

func TestSanitizeFileName(t *testing.T) {
	if got := SanitizeFileName(`Acme: "Staff"/Eng?`, "x"); got != "Acme- Staff-Eng" {
		t.Fatalf("SanitizeFileName = %q", got)
	}
	if got := SanitizeFileName("  ..  ", "fallback"); got != "fallback" {
		t.Fatalf("SanitizeFileName fallback = %q", got)
	}
}

func TestParseLooseDateUsesUTCMidnight(t *testing.T) {
	got, ok := ParseLooseDate("2026-02-04T23:19:17")
	if !ok {
		t.Fatal("expected parse")
	}
	if got.Location() != time.UTC || got.Hour() != 0 {
		t.Fatalf("expected UTC midnight, got %v", got)
	}
}
