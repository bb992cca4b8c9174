package httpclient

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRequest_GetReturnsStatusHeadersAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Test", "yes")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"greeting":"hi"}`))
	}))
	defer srv.Close()

	c := New(5 * time.Second)
	resp, err := c.Request("GET", srv.URL, "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != 200 {
		t.Errorf("got status %d, want 200", resp.Status)
	}
	if !resp.Ok() {
		t.Error("expected Ok() to be true for a 200 response")
	}
	if resp.Headers["X-Test"] != "yes" {
		t.Errorf("got header %q, want yes", resp.Headers["X-Test"])
	}
	if resp.JSON == nil {
		t.Fatal("expected a JSON-parsed body")
	}
}

func TestRequest_PostSendsBodyAndHeaders(t *testing.T) {
	var gotBody, gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 1024)
		n, _ := r.Body.Read(buf)
		gotBody = string(buf[:n])
		gotHeader = r.Header.Get("X-Custom")
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := New(5 * time.Second)
	resp, err := c.Request("POST", srv.URL, "payload", map[string]string{"X-Custom": "abc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != http.StatusCreated {
		t.Errorf("got status %d, want 201", resp.Status)
	}
	if gotBody != "payload" {
		t.Errorf("server saw body %q, want payload", gotBody)
	}
	if gotHeader != "abc" {
		t.Errorf("server saw header %q, want abc", gotHeader)
	}
}

func TestRequest_NonHTTPSchemeErrors(t *testing.T) {
	c := New(time.Second)
	if _, err := c.Request("GET", "ftp://example.com/file", "", nil); err == nil {
		t.Fatal("expected a scheme error for a non-http(s) URL")
	}
}

func TestRequest_NonOkStatusIsStillNoError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(5 * time.Second)
	resp, err := c.Request("GET", srv.URL, "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Ok() {
		t.Error("expected Ok() to be false for a 404 response")
	}
}
