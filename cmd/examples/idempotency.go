package main

import (
	"net/http"

	"github.com/google/uuid"
)

// idempotencyRoundTripper stamps every POST with a fresh client-generated
// Idempotency-Key header, the same shape of decorator as
// [transport.BearerTransport]: it sits underneath the Do-style transport,
// at the net/http layer, since that is where request headers live.
type idempotencyRoundTripper struct {
	Next http.RoundTripper
}

func (rt *idempotencyRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	next := rt.Next
	if next == nil {
		next = http.DefaultTransport
	}
	if req.Method == http.MethodPost {
		req = req.Clone(req.Context())
		req.Header.Set("Idempotency-Key", uuid.NewString())
	}
	return next.RoundTrip(req)
}
