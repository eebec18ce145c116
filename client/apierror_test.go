package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperclient/jsonapi"
)

func newApiErrorTestDeserializer() *jsonapi.Deserializer {
	registry := jsonapi.NewTypeRegistry()
	return jsonapi.NewDeserializer(registry, jsonapi.DashCaseFormatter, jsonapi.NewValueFormatterRegistry())
}

// TestFailureFromResponse_ParseableErrorsYieldsServerError tests that a
// status in [400,599] with a parseable errors[] array yields a ServerError
// carrying every APIError entry.
func TestFailureFromResponse_ParseableErrorsYieldsServerError(t *testing.T) {
	d := newApiErrorTestDeserializer()
	body := []byte(`{"errors": [{"status": "404", "title": "Not Found"}, {"status": "404", "title": "Also Missing"}]}`)

	err := failureFromResponse(d, 404, body)
	var serverErr *jsonapi.ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, 404, serverErr.Code)
	require.Len(t, serverErr.Errors, 2)
	assert.Equal(t, "Not Found", serverErr.Errors[0].Title)
}

// TestFailureFromResponse_UnparseableBodyYieldsNetworkError tests that a
// body which isn't a JSON:API errors document falls back to NetworkError.
func TestFailureFromResponse_UnparseableBodyYieldsNetworkError(t *testing.T) {
	d := newApiErrorTestDeserializer()

	err := failureFromResponse(d, 500, []byte(`not json at all`))
	var netErr *jsonapi.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, 500, netErr.Code)
}

// TestFailureFromResponse_EmptyBodyYieldsNetworkError tests that an empty
// body (common on a bare 5xx with no payload) falls back to NetworkError.
func TestFailureFromResponse_EmptyBodyYieldsNetworkError(t *testing.T) {
	d := newApiErrorTestDeserializer()

	err := failureFromResponse(d, 503, nil)
	var netErr *jsonapi.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, 503, netErr.Code)
}

// TestFailureFromResponse_EmptyErrorsArrayYieldsNetworkError tests that a
// well-formed document with a present but empty errors array still falls
// back to NetworkError, since there is nothing to report as a ServerError.
func TestFailureFromResponse_EmptyErrorsArrayYieldsNetworkError(t *testing.T) {
	d := newApiErrorTestDeserializer()

	err := failureFromResponse(d, 400, []byte(`{"errors": []}`))
	var netErr *jsonapi.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, 400, netErr.Code)
}
