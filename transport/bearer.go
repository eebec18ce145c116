package transport

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// BearerTransport is an [http.RoundTripper] decorator that signs a fresh,
// short-lived, symmetrically-signed JWT on every request and attaches it as
// an Authorization: Bearer header, rather than minting a token once and
// caching it. It decorates at the net/http layer, underneath
// [HTTPTransport], since the Do-style [Transport] interface above it
// carries no headers to rewrite.
type BearerTransport struct {
	Next          http.RoundTripper // defaults to http.DefaultTransport
	Secret        []byte
	SigningMethod jwt.SigningMethod // defaults to HS256
	Claims        jwt.MapClaims     // merged with iat/exp on every request
	TTL           time.Duration     // defaults to 1 hour
}

// NewBearerTransport decorates next (or [http.DefaultTransport] if nil) with
// HS256 JWT bearer auth signed with secret.
func NewBearerTransport(next http.RoundTripper, secret []byte, claims jwt.MapClaims) *BearerTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &BearerTransport{Next: next, Secret: secret, Claims: claims, SigningMethod: jwt.SigningMethodHS256, TTL: time.Hour}
}

// RoundTrip implements [http.RoundTripper].
func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.sign()
	if err != nil {
		return nil, fmt.Errorf("jsonapi/transport: signing bearer token: %w", err)
	}
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+token)
	return t.Next.RoundTrip(req)
}

func (t *BearerTransport) sign() (string, error) {
	method := t.SigningMethod
	if method == nil {
		method = jwt.SigningMethodHS256
	}
	ttl := t.TTL
	if ttl == 0 {
		ttl = time.Hour
	}

	claims := jwt.MapClaims{}
	for k, v := range t.Claims {
		claims[k] = v
	}
	now := time.Now()
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(ttl).Unix()

	jwtToken := jwt.NewWithClaims(method, claims)
	return jwtToken.SignedString(t.Secret)
}
