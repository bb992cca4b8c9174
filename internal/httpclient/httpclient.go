// Package httpclient is the network boundary behind the `http-request`
// family of builtins (spec.md §4.7's "HTTP client"). It is deliberately
// built on stdlib net/http: no third-party client-side HTTP library
// appears anywhere in the example corpus's import graph (the closest
// relatives, pkg/parsley's own network-facing code, also use plain
// net/http), so there is no ecosystem convention here to follow instead.
package httpclient

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Response is the plain Go shape a Request call returns; the evaluator
// layer converts it into the response map spec.md §4.7 describes
// (:status/:headers/:body/:ok/:url/:json).
type Response struct {
	Status  int
	Headers map[string]string
	Body    string
	URL     string
	JSON    any // non-nil only if Body parses as JSON
}

// Client wraps a *http.Client with the interpreter's configured timeout.
type Client struct {
	http *http.Client
}

// New creates a Client whose requests time out after timeout.
func New(timeout time.Duration) *Client {
	return &Client{http: &http.Client{Timeout: timeout}}
}

// Request performs an HTTP call (spec.md §4.7). method is case-insensitive;
// url must carry an http or https scheme. body may be empty. headers may
// be nil.
func (c *Client) Request(method, rawURL string, body string, headers map[string]string) (*Response, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, &SchemeError{Scheme: parsed.Scheme}
	}

	var bodyReader io.Reader
	if body != "" {
		bodyReader = strings.NewReader(body)
	}
	req, err := http.NewRequest(strings.ToUpper(method), rawURL, bodyReader)
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	out := &Response{
		Status:  resp.StatusCode,
		Headers: make(map[string]string),
		Body:    string(respBody),
		URL:     rawURL,
	}
	for k := range resp.Header {
		out.Headers[k] = resp.Header.Get(k)
	}

	var parsedJSON any
	if json.Unmarshal(respBody, &parsedJSON) == nil {
		out.JSON = parsedJSON
	}
	return out, nil
}

// Ok reports whether the response's status is in the 200-299 range
// (spec.md §4.7).
func (r *Response) Ok() bool {
	return r.Status >= 200 && r.Status < 300
}

// SchemeError reports a non-http(s) URL scheme.
type SchemeError struct {
	Scheme string
}

func (e *SchemeError) Error() string {
	if e.Scheme == "" {
		return "URL must have scheme http or https"
	}
	return "URL scheme " + e.Scheme + " is not http or https"
}
