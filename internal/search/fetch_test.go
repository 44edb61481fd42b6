package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><head><style>body{color:red}</style><script>alert(1)</script></head>
<body><h1>Acme</h1><p>AI   analytics&nbsp;platform</p></body></html>`)
	}))
	defer ts.Close()

	text, err := Fetch(context.Background(), ts.Client(), ts.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if strings.Contains(text, "alert") || strings.Contains(text, "color:red") {
		t.Errorf("scripts and styles should be stripped, got %q", text)
	}
	if !strings.Contains(text, "Acme") || !strings.Contains(text, "analytics") {
		t.Errorf("text content missing, got %q", text)
	}
}

func TestFetchEmptyURL(t *testing.T) {
	if _, err := Fetch(context.Background(), http.DefaultClient, "  "); err == nil {
		t.Fatal("expected error for empty url")
	}
}

func TestFetchTruncates(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, strings.Repeat("word ", 20000))
	}))
	defer ts.Close()

	text, err := Fetch(context.Background(), ts.Client(), ts.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(text) > maxFetchBytes {
		t.Errorf("len(text) = %d, want <= %d", len(text), maxFetchBytes)
	}
}
