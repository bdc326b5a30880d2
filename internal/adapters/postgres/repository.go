package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ABDUL-REHMAN392/moviebackend/internal/domain"
)

// ErrNotFound is what repository lookups return when no row matches. The
// usecase layer translates it into its own kinds; gorm never leaks upward.
var ErrNotFound = errors.New("record not found")

type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	FindByFederatedID(ctx context.Context, federatedID string) (*domain.Account, error)
	Update(ctx context.Context, account *domain.Account) error
	Delete(ctx context.Context, id string) error
}

type accountRepo struct{ db *gorm.DB }

func NewAccountRepository(db *gorm.DB) AccountRepository { return &accountRepo{db: db} }

func (r *accountRepo) Create(ctx context.Context, account *domain.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *accountRepo) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var account domain.Account
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		return nil, mapErr(err)
	}
	return &account, nil
}

func (r *accountRepo) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	var account domain.Account
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&account).Error; err != nil {
		return nil, mapErr(err)
	}
	return &account, nil
}

func (r *accountRepo) FindByFederatedID(ctx context.Context, federatedID string) (*domain.Account, error) {
	var account domain.Account
	if err := r.db.WithContext(ctx).Where("federated_id = ?", federatedID).First(&account).Error; err != nil {
		return nil, mapErr(err)
	}
	return &account, nil
}

func (r *accountRepo) Update(ctx context.Context, account *domain.Account) error {
	return r.db.WithContext(ctx).Save(account).Error
}

func (r *accountRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Account{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func mapErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
