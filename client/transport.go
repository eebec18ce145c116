package client

import "context"

// Transport is the external collaborator every operation sends its wire
// traffic through: given a method, URL, and optional body, it returns the
// response status code, response body, and any transport-level error. The
// core and client packages never depend on net/http directly; the
// transport package supplies a concrete implementation structurally
// satisfying this interface.
type Transport interface {
	Do(ctx context.Context, method, url string, body []byte) (status int, respBody []byte, err error)
}

// apiErrorRange reports whether status falls in [400, 599], the band
// treated as an API failure whose body is worth parsing for errors[].
func apiErrorRange(status int) bool {
	return status >= 400 && status <= 599
}
