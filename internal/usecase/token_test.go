package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/ABDUL-REHMAN392/moviebackend/internal/domain"
)

func newTestCodec(t *testing.T, nowFn func() time.Time) TokenCodec {
	t.Helper()
	codec, err := NewTokenCodecWithClock(TokenConfig{
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	}, nowFn)
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	return codec
}

func TestTokenCodecRequiresSecrets(t *testing.T) {
	if _, err := NewTokenCodec(TokenConfig{AccessSecret: []byte("a")}); err == nil {
		t.Fatal("expected error without refresh secret")
	}
	if _, err := NewTokenCodec(TokenConfig{RefreshSecret: []byte("r")}); err == nil {
		t.Fatal("expected error without access secret")
	}
}

func TestTokenCodecRoundTrip(t *testing.T) {
	codec := newTestCodec(t, time.Now)

	access, err := codec.IssueAccess("account-1")
	if err != nil {
		t.Fatalf("issue access: %v", err)
	}
	sub, err := codec.Verify(access, TokenKindAccess)
	if err != nil {
		t.Fatalf("verify access: %v", err)
	}
	if sub != "account-1" {
		t.Fatalf("subject = %q, want account-1", sub)
	}

	refresh, err := codec.IssueRefresh("account-1")
	if err != nil {
		t.Fatalf("issue refresh: %v", err)
	}
	if sub, err := codec.Verify(refresh, TokenKindRefresh); err != nil || sub != "account-1" {
		t.Fatalf("verify refresh = (%q, %v)", sub, err)
	}
}

func TestTokenCodecKindConfusion(t *testing.T) {
	codec := newTestCodec(t, time.Now)

	access, _ := codec.IssueAccess("account-1")
	if _, err := codec.Verify(access, TokenKindRefresh); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("access-as-refresh err = %v, want ErrTokenInvalid", err)
	}
	refresh, _ := codec.IssueRefresh("account-1")
	if _, err := codec.Verify(refresh, TokenKindAccess); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("refresh-as-access err = %v, want ErrTokenInvalid", err)
	}
}

func TestTokenCodecCrossSecretForgery(t *testing.T) {
	codec := newTestCodec(t, time.Now)
	other, err := NewTokenCodec(TokenConfig{
		AccessSecret:  []byte("other-access"),
		RefreshSecret: []byte("other-refresh"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}

	forged, _ := other.IssueAccess("account-1")
	if _, err := codec.Verify(forged, TokenKindAccess); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("foreign-key token err = %v, want ErrTokenInvalid", err)
	}
}

func TestTokenCodecExpiry(t *testing.T) {
	now := time.Now()
	codec := newTestCodec(t, func() time.Time { return now })

	access, _ := codec.IssueAccess("account-1")
	refresh, _ := codec.IssueRefresh("account-1")

	now = now.Add(16 * time.Minute)
	if _, err := codec.Verify(access, TokenKindAccess); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expired access err = %v, want ErrTokenExpired", err)
	}
	// The refresh token outlives the access token.
	if _, err := codec.Verify(refresh, TokenKindRefresh); err != nil {
		t.Fatalf("refresh still valid: %v", err)
	}

	now = now.Add(8 * 24 * time.Hour)
	if _, err := codec.Verify(refresh, TokenKindRefresh); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expired refresh err = %v, want ErrTokenExpired", err)
	}
}

func TestTokenCodecMintsDistinctTokens(t *testing.T) {
	now := time.Now()
	codec := newTestCodec(t, func() time.Time { return now })

	// Two mints for the same subject under a frozen clock must still
	// produce different strings; supersession compares tokens by value.
	first, err := codec.IssueRefresh("account-1")
	if err != nil {
		t.Fatalf("issue refresh: %v", err)
	}
	second, err := codec.IssueRefresh("account-1")
	if err != nil {
		t.Fatalf("issue refresh: %v", err)
	}
	if first == second {
		t.Fatal("same-second refresh tokens are identical")
	}
	for _, token := range []string{first, second} {
		if sub, err := codec.Verify(token, TokenKindRefresh); err != nil || sub != "account-1" {
			t.Fatalf("verify = (%q, %v)", sub, err)
		}
	}

	a1, _ := codec.IssueAccess("account-1")
	a2, _ := codec.IssueAccess("account-1")
	if a1 == a2 {
		t.Fatal("same-second access tokens are identical")
	}
}

func TestTokenCodecGarbage(t *testing.T) {
	codec := newTestCodec(t, time.Now)
	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := codec.Verify(token, TokenKindAccess); !errors.Is(err, domain.ErrTokenInvalid) {
			t.Fatalf("Verify(%q) err = %v, want ErrTokenInvalid", token, err)
		}
	}
}
