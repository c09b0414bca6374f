package identity

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestIssueAndParse(t *testing.T) {
	p := NewProvider("secret")
	user := uuid.New()

	token, err := p.IssueToken(user, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	got, err := p.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != user {
		t.Errorf("user = %s, want %s", got, user)
	}
}

func TestParseRejects(t *testing.T) {
	p := NewProvider("secret")
	user := uuid.New()

	past := NewProvider("secret")
	past.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := past.IssueToken(user, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	foreign, err := NewProvider("other").IssueToken(user, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	cases := map[string]string{
		"expired":      expired,
		"wrong secret": foreign,
		"garbage":      "not-a-token",
		"empty":        "",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := p.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("err = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestIssueRejectsNonPositiveTTL(t *testing.T) {
	p := NewProvider("secret")

	for _, ttl := range []time.Duration{0, -time.Minute} {
		if _, err := p.IssueToken(uuid.New(), ttl); !errors.Is(err, ErrInvalidTTL) {
			t.Errorf("ttl %s: err = %v, want ErrInvalidTTL", ttl, err)
		}
	}
}
