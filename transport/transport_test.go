package transport_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperclient/jsonapi/transport"
)

// TestHTTPTransport_Do_SendsMediaTypeHeaders tests that every request
// carries the JSON:API Accept header, and Content-Type only when a body is
// sent.
func TestHTTPTransport_Do_SendsMediaTypeHeaders(t *testing.T) {
	var gotMethod, gotAccept, gotContentType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotAccept = r.Header.Get("Accept")
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data": null}`))
	}))
	defer srv.Close()

	tr := transport.NewHTTPTransport(nil)
	status, respBody, err := tr.Do(context.Background(), "POST", srv.URL, []byte(`{"data":{}}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, `{"data": null}`, string(respBody))

	assert.Equal(t, "POST", gotMethod)
	assert.Equal(t, "application/vnd.api+json", gotAccept)
	assert.Equal(t, "application/vnd.api+json", gotContentType)
	assert.Equal(t, `{"data":{}}`, string(gotBody))
}

// TestHTTPTransport_Do_NoBodyOmitsContentType tests that a GET with a nil
// body sends no Content-Type header.
func TestHTTPTransport_Do_NoBodyOmitsContentType(t *testing.T) {
	var gotContentTypeSet bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, gotContentTypeSet = r.Header["Content-Type"]
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tr := transport.NewHTTPTransport(nil)
	_, _, err := tr.Do(context.Background(), "GET", srv.URL, nil)
	require.NoError(t, err)
	assert.False(t, gotContentTypeSet)
}

// TestHTTPTransport_Do_UsesDecoratedRoundTripper tests that a custom
// RoundTripper passed to NewHTTPTransport is actually used for the request.
func TestHTTPTransport_Do_UsesDecoratedRoundTripper(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer decorated-token", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tr := transport.NewHTTPTransport(&staticHeaderRoundTripper{header: "Bearer decorated-token"})
	status, _, err := tr.Do(context.Background(), "GET", srv.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
}

type staticHeaderRoundTripper struct {
	header string
}

func (rt *staticHeaderRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", rt.header)
	return http.DefaultTransport.RoundTrip(req)
}
