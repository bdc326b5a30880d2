package usecase

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ABDUL-REHMAN392/moviebackend/internal/domain"
)

type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// Tokens is the pair handed out after a successful authentication.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// TokenCodec mints and verifies the signed session assertions. Access and
// refresh tokens are signed with independent secrets, so leaking one signing
// key cannot forge the other kind.
type TokenCodec interface {
	IssueAccess(subject string) (string, error)
	IssueRefresh(subject string) (string, error)
	// Verify returns the subject, domain.ErrTokenExpired for an otherwise
	// well-formed token past its expiry, and domain.ErrTokenInvalid for
	// everything else including a kind mismatch.
	Verify(token string, kind TokenKind) (string, error)
}

type TokenConfig struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type tokenCodec struct {
	cfg   TokenConfig
	nowFn func() time.Time
}

func NewTokenCodec(cfg TokenConfig) (TokenCodec, error) {
	return NewTokenCodecWithClock(cfg, time.Now)
}

// NewTokenCodecWithClock exists for tests that need to move time.
func NewTokenCodecWithClock(cfg TokenConfig, nowFn func() time.Time) (TokenCodec, error) {
	if len(cfg.AccessSecret) == 0 || len(cfg.RefreshSecret) == 0 {
		return nil, errors.New("access and refresh signing secrets required")
	}
	if nowFn == nil {
		nowFn = time.Now
	}
	return &tokenCodec{cfg: cfg, nowFn: nowFn}, nil
}

func (c *tokenCodec) IssueAccess(subject string) (string, error) {
	return c.issue(subject, TokenKindAccess, c.cfg.AccessTTL, c.cfg.AccessSecret)
}

func (c *tokenCodec) IssueRefresh(subject string) (string, error) {
	return c.issue(subject, TokenKindRefresh, c.cfg.RefreshTTL, c.cfg.RefreshSecret)
}

func (c *tokenCodec) issue(subject string, kind TokenKind, ttl time.Duration, secret []byte) (string, error) {
	now := c.nowFn().UTC()
	jti, err := generateJTI()
	if err != nil {
		return "", err
	}
	// The jti makes every mint unique even within one clock second, so a
	// newer login always overwrites the refresh slot with a different string.
	claims := jwt.MapClaims{
		"sub":  subject,
		"kind": string(kind),
		"jti":  jti,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func generateJTI() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (c *tokenCodec) Verify(token string, kind TokenKind) (string, error) {
	secret := c.cfg.AccessSecret
	if kind == TokenKindRefresh {
		secret = c.cfg.RefreshSecret
	}
	claims := jwt.MapClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.nowFn),
	)
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.ErrTokenExpired
		}
		return "", domain.ErrTokenInvalid
	}
	if !parsed.Valid {
		return "", domain.ErrTokenInvalid
	}
	if got, _ := claims["kind"].(string); got != string(kind) {
		return "", domain.ErrTokenInvalid
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", domain.ErrTokenInvalid
	}
	return sub, nil
}
