package backend

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer signs and verifies HS256 JWT bearer tokens whose subject
// is the user id.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates an issuer. Tokens live for ttl.
func NewTokenIssuer(secret []byte, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: secret, ttl: ttl, now: time.Now}
}

// Issue creates a token for userID and returns it with its expiry.
func (ti *TokenIssuer) Issue(userID string) (string, time.Time, error) {
	now := ti.now()
	exp := jwt.NewNumericDate(now.Add(ti.ttl))
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: exp,
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("backend: sign token: %w", err)
	}
	return tok, exp.Time, nil
}

// Verify returns the user a token was issued to.
func (ti *TokenIssuer) Verify(token string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return ti.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ti.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: token has no subject", ErrUnauthorized)
	}
	return claims.Subject, nil
}

// TokenSource supplies bearer tokens to the HTTP client.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func(ctx context.Context) (string, error)

// Token implements TokenSource.
func (f TokenFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// IssuerSource returns a TokenSource minting tokens for userID directly.
func IssuerSource(ti *TokenIssuer, userID string) TokenSource {
	return TokenFunc(func(context.Context) (string, error) {
		tok, _, err := ti.Issue(userID)
		return tok, err
	})
}

// TokenCacheTTL is how long a fetched token is reused. Tokens are issued
// for an hour; refreshing early avoids racing the expiry.
const TokenCacheTTL = 55 * time.Minute

// CachedTokenSource reuses a token until it ages out or is invalidated.
type CachedTokenSource struct {
	src TokenSource
	ttl time.Duration
	now func() time.Time

	mu     sync.Mutex
	token  string
	expiry time.Time
}

// NewCachedTokenSource wraps src with a TokenCacheTTL cache.
func NewCachedTokenSource(src TokenSource) *CachedTokenSource {
	return &CachedTokenSource{src: src, ttl: TokenCacheTTL, now: time.Now}
}

// Token implements TokenSource.
func (c *CachedTokenSource) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.expiry) {
		return c.token, nil
	}
	tok, err := c.src.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	c.token, c.expiry = tok, c.now().Add(c.ttl)
	return tok, nil
}

// Invalidate drops the cached token, e.g. after the server rejected it.
func (c *CachedTokenSource) Invalidate() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}
