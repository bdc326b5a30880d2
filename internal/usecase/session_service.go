package usecase

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ABDUL-REHMAN392/moviebackend/config"
	"github.com/ABDUL-REHMAN392/moviebackend/internal/adapters/media"
	natsadapter "github.com/ABDUL-REHMAN392/moviebackend/internal/adapters/nats"
	repo "github.com/ABDUL-REHMAN392/moviebackend/internal/adapters/postgres"
	"github.com/ABDUL-REHMAN392/moviebackend/internal/domain"
	pkglog "github.com/ABDUL-REHMAN392/moviebackend/pkg/log"
)

// Service owns the session lifecycle: credential verification, token
// issuance, refresh, revocation and profile writes. Every operation is
// request-scoped; the account store is the only shared state.
type Service interface {
	Register(ctx context.Context, traceID, name, email, password string) (*domain.Account, *Tokens, error)
	Login(ctx context.Context, traceID, email, password string) (*domain.Account, *Tokens, error)
	FederatedLogin(ctx context.Context, traceID string, profile domain.FederatedProfile) (*domain.Account, *Tokens, bool, error)
	Refresh(ctx context.Context, traceID, refreshToken string) (string, error)
	Authenticate(ctx context.Context, traceID, accessToken string) (*domain.Identity, error)
	Logout(ctx context.Context, traceID, accountID string) error
	GetProfile(ctx context.Context, traceID, accountID string) (*domain.Account, error)
	UpdateProfile(ctx context.Context, traceID, accountID, name, email string) (*domain.Account, error)
	RemoveAvatar(ctx context.Context, traceID, accountID string) error
	DeleteAccount(ctx context.Context, traceID, accountID string) error
}

type sessionService struct {
	cfg        *config.Config
	logger     pkglog.Logger
	accounts   repo.AccountRepository
	hasher     Hasher
	codec      TokenCodec
	reconciler *Reconciler
	mediaStore media.Store
	events     natsadapter.EventPublisher
}

func NewSessionService(cfg *config.Config, logger pkglog.Logger, accounts repo.AccountRepository, hasher Hasher, codec TokenCodec, reconciler *Reconciler, mediaStore media.Store, events natsadapter.EventPublisher) Service {
	return &sessionService{cfg: cfg, logger: logger, accounts: accounts, hasher: hasher, codec: codec, reconciler: reconciler, mediaStore: mediaStore, events: events}
}

func (s *sessionService) Register(ctx context.Context, traceID, name, email, password string) (*domain.Account, *Tokens, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, nil, err
	}
	norm := domain.NormalizeEmail(email)
	if err := validateEmail(norm); err != nil {
		return nil, nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, nil, err
	}

	if _, err := s.accounts.FindByEmail(ctx, norm); err == nil {
		return nil, nil, domain.ErrEmailTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, nil, s.dependency(traceID, "email lookup", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, nil, s.dependency(traceID, "password hash", err)
	}
	account := &domain.Account{
		Email:        norm,
		Name:         name,
		PasswordHash: hash,
		AuthMethod:   domain.AuthMethodLocal,
		AvatarURL:    domain.DefaultAvatarURL,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, nil, s.dependency(traceID, "account create", err)
	}

	tokens, err := s.openSession(ctx, traceID, account)
	if err != nil {
		return nil, nil, err
	}
	if s.events != nil {
		s.events.AccountCreated(account.ID, account.Email)
	}
	s.logger.Info().Str("trace_id", traceID).Str("account_id", account.ID).Msg("account registered")
	return account, tokens, nil
}

func (s *sessionService) Login(ctx context.Context, traceID, email, password string) (*domain.Account, *Tokens, error) {
	norm := domain.NormalizeEmail(email)
	account, err := s.accounts.FindByEmail(ctx, norm)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, s.dependency(traceID, "email lookup", err)
	}
	// Federated accounts have no local credential; the failure is reported
	// exactly like a bad password so callers cannot probe auth methods.
	if account.AuthMethod != domain.AuthMethodLocal {
		return nil, nil, domain.ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, account.PasswordHash) {
		return nil, nil, domain.ErrInvalidCredentials
	}

	tokens, err := s.openSession(ctx, traceID, account)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info().Str("trace_id", traceID).Str("account_id", account.ID).Msg("login")
	return account, tokens, nil
}

func (s *sessionService) FederatedLogin(ctx context.Context, traceID string, profile domain.FederatedProfile) (*domain.Account, *Tokens, bool, error) {
	account, created, err := s.reconciler.Reconcile(ctx, profile)
	if err != nil {
		return nil, nil, false, err
	}
	tokens, err := s.openSession(ctx, traceID, account)
	if err != nil {
		return nil, nil, false, err
	}
	if created && s.events != nil {
		s.events.AccountCreated(account.ID, account.Email)
	}
	s.logger.Info().Str("trace_id", traceID).Str("account_id", account.ID).Bool("created", created).Msg("federated login")
	return account, tokens, created, nil
}

// Refresh mints a new access token. The presented refresh token must match
// the account's single stored slot exactly; anything superseded by a newer
// login, a logout or a deletion comes back ErrTokenRevoked. The refresh
// token itself is not rotated here.
func (s *sessionService) Refresh(ctx context.Context, traceID, refreshToken string) (string, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return "", domain.ErrTokenInvalid
	}
	subject, err := s.codec.Verify(refreshToken, TokenKindRefresh)
	if err != nil {
		return "", err
	}
	account, err := s.accounts.FindByID(ctx, subject)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", domain.ErrTokenRevoked
		}
		return "", s.dependency(traceID, "account lookup", err)
	}
	if account.RefreshToken == "" || account.RefreshToken != refreshToken {
		return "", domain.ErrTokenRevoked
	}
	access, err := s.codec.IssueAccess(account.ID)
	if err != nil {
		return "", s.dependency(traceID, "access token issue", err)
	}
	return access, nil
}

// Authenticate is side-effect-free and safe to call on every request.
func (s *sessionService) Authenticate(ctx context.Context, traceID, accessToken string) (*domain.Identity, error) {
	subject, err := s.codec.Verify(accessToken, TokenKindAccess)
	if err != nil {
		return nil, err
	}
	account, err := s.accounts.FindByID(ctx, subject)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, s.dependency(traceID, "account lookup", err)
	}
	return &domain.Identity{ID: account.ID, Email: account.Email, Name: account.Name}, nil
}

// Logout clears the refresh slot. Outstanding access tokens stay valid for
// their remaining lifetime, at most the access TTL.
func (s *sessionService) Logout(ctx context.Context, traceID, accountID string) error {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return domain.ErrAccountNotFound
		}
		return s.dependency(traceID, "account lookup", err)
	}
	account.RefreshToken = ""
	if err := s.accounts.Update(ctx, account); err != nil {
		return s.dependency(traceID, "account update", err)
	}
	s.logger.Info().Str("trace_id", traceID).Str("account_id", accountID).Msg("logout")
	return nil
}

func (s *sessionService) GetProfile(ctx context.Context, traceID, accountID string) (*domain.Account, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, s.dependency(traceID, "account lookup", err)
	}
	return account, nil
}

func (s *sessionService) UpdateProfile(ctx context.Context, traceID, accountID, name, email string) (*domain.Account, error) {
	name = strings.TrimSpace(name)
	email = domain.NormalizeEmail(email)
	if name == "" && email == "" {
		return nil, domain.Invalid("name", "at least one of name or email is required")
	}
	if name != "" {
		if err := validateName(name); err != nil {
			return nil, err
		}
	}
	if email != "" {
		if err := validateEmail(email); err != nil {
			return nil, err
		}
	}

	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, s.dependency(traceID, "account lookup", err)
	}

	// A federated account's email is provider-verified and pinned.
	if email != "" && email != account.Email && account.AuthMethod == domain.AuthMethodFederated {
		return nil, domain.ErrEmailChangeNotAllowed
	}

	changed := false
	if name != "" && name != account.Name {
		account.Name = name
		changed = true
	}
	if email != "" && email != account.Email {
		if _, err := s.accounts.FindByEmail(ctx, email); err == nil {
			return nil, domain.ErrEmailTaken
		} else if !errors.Is(err, repo.ErrNotFound) {
			return nil, s.dependency(traceID, "email lookup", err)
		}
		account.Email = email
		changed = true
	}
	if !changed {
		return nil, domain.ErrNoChanges
	}
	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, s.dependency(traceID, "account update", err)
	}
	s.logger.Info().Str("trace_id", traceID).Str("account_id", accountID).Msg("profile updated")
	return account, nil
}

func (s *sessionService) RemoveAvatar(ctx context.Context, traceID, accountID string) error {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return domain.ErrAccountNotFound
		}
		return s.dependency(traceID, "account lookup", err)
	}
	if account.AvatarID != "" && s.mediaStore != nil {
		if err := s.mediaStore.Delete(ctx, account.AvatarID); err != nil {
			return s.dependency(traceID, "media delete", err)
		}
	}
	account.AvatarID = ""
	account.AvatarURL = domain.DefaultAvatarURL
	if err := s.accounts.Update(ctx, account); err != nil {
		return s.dependency(traceID, "account update", err)
	}
	s.logger.Info().Str("trace_id", traceID).Str("account_id", accountID).Msg("avatar removed")
	return nil
}

// DeleteAccount removes the record, which also kills the refresh slot.
func (s *sessionService) DeleteAccount(ctx context.Context, traceID, accountID string) error {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return domain.ErrAccountNotFound
		}
		return s.dependency(traceID, "account lookup", err)
	}
	if account.AvatarID != "" && s.mediaStore != nil {
		// Orphaned media is tolerable; a half-deleted account is not.
		if err := s.mediaStore.Delete(ctx, account.AvatarID); err != nil {
			s.logger.Warn().Str("trace_id", traceID).Str("account_id", accountID).Err(err).Msg("avatar cleanup failed")
		}
	}
	if err := s.accounts.Delete(ctx, accountID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return domain.ErrAccountNotFound
		}
		return s.dependency(traceID, "account delete", err)
	}
	if s.events != nil {
		s.events.AccountDeleted(account.ID, account.Email)
	}
	s.logger.Info().Str("trace_id", traceID).Str("account_id", accountID).Msg("account deleted")
	return nil
}

// openSession issues a fresh token pair and overwrites the refresh slot,
// implicitly revoking any previous session for the account.
func (s *sessionService) openSession(ctx context.Context, traceID string, account *domain.Account) (*Tokens, error) {
	access, err := s.codec.IssueAccess(account.ID)
	if err != nil {
		return nil, s.dependency(traceID, "access token issue", err)
	}
	refresh, err := s.codec.IssueRefresh(account.ID)
	if err != nil {
		return nil, s.dependency(traceID, "refresh token issue", err)
	}
	now := time.Now()
	account.RefreshToken = refresh
	account.LastLoginAt = &now
	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, s.dependency(traceID, "session persist", err)
	}
	return &Tokens{AccessToken: access, RefreshToken: refresh, ExpiresIn: int64(s.cfg.AccessTTL.Seconds())}, nil
}

func (s *sessionService) dependency(traceID, op string, err error) error {
	s.logger.Error().Str("trace_id", traceID).Str("op", op).Err(err).Msg("dependency failure")
	return domain.ErrDependency
}

func validateName(name string) error {
	// Counted in characters, not bytes, so multibyte names get the full range.
	switch n := utf8.RuneCountInString(name); {
	case n < 2:
		return domain.Invalid("name", "must be at least 2 characters")
	case n > 50:
		return domain.Invalid("name", "cannot exceed 50 characters")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return domain.Invalid("email", "required")
	}
	if !strings.Contains(email, "@") || len(email) > 255 {
		return domain.Invalid("email", "invalid format")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 6 {
		return domain.Invalid("password", "must be at least 6 characters")
	}
	return nil
}
