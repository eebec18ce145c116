package transport_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperclient/jsonapi/transport"
)

// capturingRoundTripper records the last request it saw and returns a bare
// 200 response without hitting the network.
type capturingRoundTripper struct {
	gotRequest *http.Request
}

func (rt *capturingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	rt.gotRequest = req
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       http.NoBody,
		Header:     make(http.Header),
	}, nil
}

// TestBearerTransport_RoundTrip_SignsAndAttachesHeader tests that every
// request gets an Authorization: Bearer header carrying a JWT whose claims
// round-trip correctly, including merged custom claims and computed iat/exp.
func TestBearerTransport_RoundTrip_SignsAndAttachesHeader(t *testing.T) {
	next := &capturingRoundTripper{}
	secret := []byte("test-secret")
	bt := transport.NewBearerTransport(next, secret, jwt.MapClaims{"sub": "client-1"})

	req, err := http.NewRequest("GET", "http://example.com/foos", nil)
	require.NoError(t, err)

	resp, err := bt.RoundTrip(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NotNil(t, next.gotRequest)
	authHeader := next.gotRequest.Header.Get("Authorization")
	require.True(t, strings.HasPrefix(authHeader, "Bearer "))
	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

	parsed, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "client-1", claims["sub"])

	iat, err := claims.GetIssuedAt()
	require.NoError(t, err)
	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, iat.Add(time.Hour), exp.Time, time.Second)
}

// TestBearerTransport_RoundTrip_DefaultsNextToDefaultTransport tests that a
// nil Next round-trips against a real server using http.DefaultTransport.
func TestBearerTransport_RoundTrip_DefaultsNextToDefaultTransport(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	bt := transport.NewBearerTransport(nil, []byte("secret"), nil)
	req, err := http.NewRequest("GET", srv.URL, nil)
	require.NoError(t, err)

	resp, err := bt.RoundTrip(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.True(t, strings.HasPrefix(gotAuth, "Bearer "))
}

// TestBearerTransport_RoundTrip_EachCallGetsAFreshToken tests that two
// round trips a moment apart sign distinct tokens (distinct iat claims)
// rather than caching one token across calls.
func TestBearerTransport_RoundTrip_EachCallGetsAFreshToken(t *testing.T) {
	next := &capturingRoundTripper{}
	bt := transport.NewBearerTransport(next, []byte("secret"), nil)

	req, err := http.NewRequest("GET", "http://example.com/foos", nil)
	require.NoError(t, err)

	_, err = bt.RoundTrip(req)
	require.NoError(t, err)
	first := next.gotRequest.Header.Get("Authorization")

	time.Sleep(1100 * time.Millisecond)

	_, err = bt.RoundTrip(req)
	require.NoError(t, err)
	second := next.gotRequest.Header.Get("Authorization")

	assert.NotEqual(t, first, second)
}
