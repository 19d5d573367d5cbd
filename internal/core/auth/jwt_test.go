package auth

import (
	"errors"
	"testing"
	"time"
)

func newJWTer(secret, issuer string) *JWTer {
	return &JWTer{Secret: []byte(secret), Issuer: issuer, TTL: time.Hour}
}

func TestIssueParseRoundTrip(t *testing.T) {
	j := newJWTer("k", "radar")
	tok, err := j.Issue("u1", "owner")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	c, err := j.Parse(tok)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.UID != "u1" || c.Role != "owner" || c.Subject != "u1" {
		t.Errorf("claims = %+v", c)
	}
}

func TestParseRejects(t *testing.T) {
	good := newJWTer("k", "radar")
	tok, err := good.Issue("u1", "user")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	expired := newJWTer("k", "radar")
	expired.now = func() time.Time { return time.Now().Add(3 * time.Hour) }

	cases := []struct {
		name string
		j    *JWTer
		tok  string
	}{
		{"wrong secret", newJWTer("other", "radar"), tok},
		{"wrong issuer", newJWTer("k", "someone-else"), tok},
		{"expired", expired, tok},
		{"garbage", good, "not.a.token"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.j.Parse(tc.tok); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("err = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestIssueRequiresUID(t *testing.T) {
	if _, err := newJWTer("k", "radar").Issue("", "user"); err == nil {
		t.Fatal("expected error for empty uid")
	}
}
