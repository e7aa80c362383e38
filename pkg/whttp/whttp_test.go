package whttp

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendHTTPRequest_ExtractsTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != USER_AGENT {
			t.Errorf("unexpected user agent %q", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, "<html><head><title>\n  Pricing\n</title></head><body></body></html>")
	}))
	defer srv.Close()

	client, err := NewClient("", 0)
	if err != nil {
		t.Fatal(err)
	}
	res, err := SendHTTPRequest(context.Background(), &WHTTPReq{URL: srv.URL}, client)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", res.StatusCode)
	}
	if res.HTTPTitle != "Pricing" {
		t.Fatalf("want title %q, got %q", "Pricing", res.HTTPTitle)
	}
}

func TestSendHTTPRequest_SkipsTitleForNonHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"title":"<title>nope</title>"}`)
	}))
	defer srv.Close()

	client, _ := NewClient("", 0)
	res, err := SendHTTPRequest(context.Background(), &WHTTPReq{URL: srv.URL}, client)
	if err != nil {
		t.Fatal(err)
	}
	if res.HTTPTitle != "" {
		t.Fatalf("expected no title, got %q", res.HTTPTitle)
	}
}

func TestNewClient_BadProxy(t *testing.T) {
	if _, err := NewClient("://bad", 0); err == nil {
		t.Fatal("expected an error for an invalid proxy URL")
	}
}

func TestIsHTML(t *testing.T) {
	for ct, want := range map[string]bool{
		"text/html; charset=utf-8": true,
		"":                         true,
		"application/xhtml+xml":    true,
		"application/pdf":          false,
		"image/png":                false,
	} {
		if got := IsHTML(ct); got != want {
			t.Fatalf("IsHTML(%q): want %v, got %v", ct, want, got)
		}
	}
}
