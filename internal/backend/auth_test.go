package backend

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenIssuer(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	ti := NewTokenIssuer([]byte("secret"), time.Hour)
	ti.now = func() time.Time { return now }

	tok, exp, err := ti.Issue("user.with.dots")
	if err != nil {
		t.Fatal(err)
	}
	if !exp.Equal(now.Add(time.Hour)) {
		t.Errorf("expiry = %v", exp)
	}
	if strings.Count(tok, ".") != 2 {
		t.Errorf("token %q is not a three-part JWT", tok)
	}

	user, err := ti.Verify(tok)
	if err != nil || user != "user.with.dots" {
		t.Fatalf("Verify() = %q, %v", user, err)
	}

	// Flip a character inside the signature; the last one carries padding bits.
	i := len(tok) - 5
	flipped := byte('A')
	if tok[i] == 'A' {
		flipped = 'B'
	}
	tampered := tok[:i] + string(flipped) + tok[i+1:]

	other := NewTokenIssuer([]byte("other"), time.Hour)
	other.now = ti.now

	noSubject, _, err := ti.Issue("")
	if err != nil {
		t.Fatal(err)
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "mallory",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}
	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "mallory",
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		token string
		at    time.Time
		iss   *TokenIssuer
	}{
		{"garbage", "not-a-token", now, ti},
		{"wrong secret", tok, now, other},
		{"tampered", tampered, now, ti},
		{"expired", tok, now.Add(time.Hour), ti},
		{"no subject", noSubject, now, ti},
		{"alg none", unsigned, now, ti},
		{"no expiry", noExpiry, now, ti},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			at := tt.at
			tt.iss.now = func() time.Time { return at }
			if _, err := tt.iss.Verify(tt.token); !errors.Is(err, ErrUnauthorized) {
				t.Errorf("err = %v, want ErrUnauthorized", err)
			}
		})
	}
}

func TestCachedTokenSource(t *testing.T) {
	now := time.Unix(0, 0)
	fetches := 0
	src := NewCachedTokenSource(TokenFunc(func(context.Context) (string, error) {
		fetches++
		return "tok", nil
	}))
	src.now = func() time.Time { return now }
	ctx := context.Background()

	src.Token(ctx) //nolint:errcheck
	now = now.Add(54 * time.Minute)
	src.Token(ctx) //nolint:errcheck
	if fetches != 1 {
		t.Fatalf("fetches = %d within TTL, want 1", fetches)
	}

	now = now.Add(2 * time.Minute)
	src.Token(ctx) //nolint:errcheck
	if fetches != 2 {
		t.Fatalf("fetches = %d after TTL, want 2", fetches)
	}

	src.Invalidate()
	src.Token(ctx) //nolint:errcheck
	if fetches != 3 {
		t.Fatalf("fetches = %d after Invalidate, want 3", fetches)
	}

	failing := NewCachedTokenSource(TokenFunc(func(context.Context) (string, error) {
		return "", errors.New("identity provider down")
	}))
	if _, err := failing.Token(ctx); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
}
