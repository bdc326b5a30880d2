package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ABDUL-REHMAN392/moviebackend/config"
	repo "github.com/ABDUL-REHMAN392/moviebackend/internal/adapters/postgres"
	"github.com/ABDUL-REHMAN392/moviebackend/internal/domain"
)

type mockAccountRepo struct {
	accounts map[string]*domain.Account
	next     int
}

func newMockAccountRepo() *mockAccountRepo {
	return &mockAccountRepo{accounts: map[string]*domain.Account{}}
}

func (r *mockAccountRepo) Create(_ context.Context, account *domain.Account) error {
	if account.ID == "" {
		r.next++
		account.ID = fmt.Sprintf("account-%d", r.next)
	}
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	copied := *account
	r.accounts[account.ID] = &copied
	return nil
}

func (r *mockAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, a := range r.accounts {
		if a.Email == email {
			copied := *a
			return &copied, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *mockAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	if a, ok := r.accounts[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, repo.ErrNotFound
}

func (r *mockAccountRepo) FindByFederatedID(_ context.Context, federatedID string) (*domain.Account, error) {
	for _, a := range r.accounts {
		if a.FederatedID != nil && *a.FederatedID == federatedID {
			copied := *a
			return &copied, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *mockAccountRepo) Update(_ context.Context, account *domain.Account) error {
	copied := *account
	copied.UpdatedAt = time.Now()
	r.accounts[account.ID] = &copied
	return nil
}

func (r *mockAccountRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.accounts[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.accounts, id)
	return nil
}

var _ repo.AccountRepository = (*mockAccountRepo)(nil)

type mockMediaStore struct {
	deleted []string
	err     error
}

func (m *mockMediaStore) Delete(_ context.Context, publicID string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, publicID)
	return nil
}

type recordingEvents struct {
	created []string
	deleted []string
}

func (r *recordingEvents) AccountCreated(accountID, _ string) {
	r.created = append(r.created, accountID)
}

func (r *recordingEvents) AccountDeleted(accountID, _ string) {
	r.deleted = append(r.deleted, accountID)
}

type testDeps struct {
	accounts *mockAccountRepo
	codec    TokenCodec
	media    *mockMediaStore
	events   *recordingEvents
	cfg      *config.Config
	nowFn    func() time.Time
	now      *time.Time
}

func newTestService(t *testing.T) (Service, *testDeps) {
	t.Helper()
	cfg := &config.Config{
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}
	start := time.Now()
	deps := &testDeps{
		accounts: newMockAccountRepo(),
		media:    &mockMediaStore{},
		events:   &recordingEvents{},
		cfg:      cfg,
		now:      &start,
	}
	deps.nowFn = func() time.Time { return *deps.now }
	codec, err := NewTokenCodecWithClock(TokenConfig{
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
		AccessTTL:     cfg.AccessTTL,
		RefreshTTL:    cfg.RefreshTTL,
	}, deps.nowFn)
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	deps.codec = codec
	svc := NewSessionService(cfg, zerolog.Nop(), deps.accounts, NewBcryptHasher(), codec, NewReconciler(deps.accounts), deps.media, deps.events)
	return svc, deps
}
