// Package transport provides the HTTP plumbing the client operations ride
// on: a minimal Do-style collaborator (method + URL + optional body in,
// status + body bytes + transport error out), a default net/http-backed
// implementation, and a JWT bearer-auth decorator.
package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"
)

// mediaType is the JSON:API content type, sent on every request and
// accepted on every response.
const mediaType = "application/vnd.api+json"

// Transport is the collaborator the core's operations depend on: given a
// method, URL, and optional body, it returns the response status code,
// response body bytes, and any transport-level error. The core never sees
// an *http.Request/*http.Response; this package is the only place net/http
// is named.
type Transport interface {
	Do(ctx context.Context, method, url string, body []byte) (status int, respBody []byte, err error)
}

// HTTPTransport is the default [Transport], built on [http.Client]. Auth,
// retries, and tracing are layered in as an [http.RoundTripper] set on
// Client.Transport (see [BearerTransport]), not as a Transport-level
// decorator, since the Do signature carries no headers for a decorator to
// rewrite.
type HTTPTransport struct {
	Client *http.Client
}

// NewHTTPTransport returns a transport with a 30-second client timeout. rt,
// if non-nil, is installed as the underlying [http.RoundTripper] (e.g. a
// [BearerTransport]); nil uses http.DefaultTransport.
func NewHTTPTransport(rt http.RoundTripper) *HTTPTransport {
	return &HTTPTransport{Client: &http.Client{Timeout: 30 * time.Second, Transport: rt}}
}

// Do implements [Transport].
func (t *HTTPTransport) Do(ctx context.Context, method, url string, body []byte) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", mediaType)
	if body != nil {
		req.Header.Set("Content-Type", mediaType)
	}

	client := t.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, respBody, nil
}
