package evaluator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTTP_GetResolvesToResponseMap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	}))
	defer srv.Close()

	src := `(await (http-get "` + srv.URL + `"))`
	got := evalSrc(t, src).Inspect()
	if !strings.Contains(got, ":status 200") {
		t.Errorf("got %q, want a map containing :status 200", got)
	}
	if !strings.Contains(got, ":body pong") {
		t.Errorf("got %q, want the response body", got)
	}
}

func TestHTTP_RequestRejectsOnNetworkFailure(t *testing.T) {
	if err := evalErr(t, `(await (http-get "http://127.0.0.1:1"))`); err == nil {
		t.Fatal("expected a connection failure to reject the promise")
	}
}

func TestHTTP_BadSchemeRejects(t *testing.T) {
	if err := evalErr(t, `(await (http-get "ftp://example.com"))`); err == nil {
		t.Fatal("expected a non-http(s) scheme to reject the promise")
	}
}
