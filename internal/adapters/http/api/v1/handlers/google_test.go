package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/ABDUL-REHMAN392/moviebackend/internal/domain"
	"github.com/ABDUL-REHMAN392/moviebackend/internal/usecase"
)

type mockExchanger struct {
	authCodeURL string
	exchangeFn  func(code string) (domain.FederatedProfile, error)
}

func (m *mockExchanger) AuthCodeURL(string) string { return m.authCodeURL }

func (m *mockExchanger) Exchange(_ context.Context, code string) (domain.FederatedProfile, error) {
	return m.exchangeFn(code)
}

func TestGoogleStartRedirects(t *testing.T) {
	h := NewAuthHandler(testConfig(), &mockSessionService{}, &mockExchanger{authCodeURL: "https://provider.example/consent"})

	c, rec := newContext(t, http.MethodGet, "/", nil)
	if err := h.GoogleStart(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "https://provider.example/consent" {
		t.Fatalf("location = %s", loc)
	}
}

func TestGoogleCallbackSuccess(t *testing.T) {
	exchanger := &mockExchanger{
		exchangeFn: func(code string) (domain.FederatedProfile, error) {
			if code != "auth-code" {
				t.Fatalf("code = %q", code)
			}
			return domain.FederatedProfile{ProviderID: "g1", Email: "ann@x.com", DisplayName: "Ann G"}, nil
		},
	}
	svc := &mockSessionService{
		federatedLoginFn: func(profile domain.FederatedProfile) (*domain.Account, *usecase.Tokens, bool, error) {
			if profile.ProviderID != "g1" {
				t.Fatalf("profile = %+v", profile)
			}
			return testAccount(), testTokens(), false, nil
		},
	}
	h := NewAuthHandler(testConfig(), svc, exchanger)

	c, rec := newContext(t, http.MethodGet, "/?code=auth-code", nil)
	if err := h.GoogleCallback(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, "http://client.example/auth/success?token=") {
		t.Fatalf("location = %s", loc)
	}
	if cookieByName(rec, "refreshToken") == nil {
		t.Fatal("refresh cookie not set on federated login")
	}
}

func TestGoogleCallbackFailureRedirects(t *testing.T) {
	cases := []struct {
		name      string
		target    string
		exchanger *mockExchanger
	}{
		{"missing code", "/", &mockExchanger{}},
		{"exchange failure", "/?code=bad", &mockExchanger{
			exchangeFn: func(string) (domain.FederatedProfile, error) {
				return domain.FederatedProfile{}, errors.New("provider unreachable")
			},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewAuthHandler(testConfig(), &mockSessionService{}, tc.exchanger)
			c, rec := newContext(t, http.MethodGet, tc.target, nil)
			if err := h.GoogleCallback(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusFound {
				t.Fatalf("status = %d, want 302", rec.Code)
			}
			if loc := rec.Header().Get("Location"); loc != "http://client.example/auth/failure" {
				t.Fatalf("location = %s", loc)
			}
		})
	}
}
