package usecase

import (
	"context"
	"errors"

	repo "github.com/ABDUL-REHMAN392/moviebackend/internal/adapters/postgres"
	"github.com/ABDUL-REHMAN392/moviebackend/internal/domain"
)

// Reconciler decides what a federated profile maps to: an already linked
// account, an existing local account reachable by the same verified email, or
// a brand new federated account.
type Reconciler struct {
	accounts repo.AccountRepository
}

func NewReconciler(accounts repo.AccountRepository) *Reconciler {
	return &Reconciler{accounts: accounts}
}

// Reconcile returns the account plus whether it was created. The provider is
// trusted to have verified the profile email; a profile without one is a
// caller bug (missing email scope) and fails outright.
func (r *Reconciler) Reconcile(ctx context.Context, profile domain.FederatedProfile) (*domain.Account, bool, error) {
	if profile.ProviderID == "" {
		return nil, false, domain.Invalid("provider_id", "required")
	}
	if profile.Email == "" {
		return nil, false, domain.Invalid("email", "provider supplied no verified email")
	}

	// Fast path: already linked.
	account, err := r.accounts.FindByFederatedID(ctx, profile.ProviderID)
	if err == nil {
		return account, false, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, false, domain.ErrDependency
	}

	norm := domain.NormalizeEmail(profile.Email)
	account, err = r.accounts.FindByEmail(ctx, norm)
	if err == nil {
		// Same verified email as an existing local account: link instead of
		// creating a duplicate.
		providerID := profile.ProviderID
		account.FederatedID = &providerID
		account.AuthMethod = domain.AuthMethodFederated
		if profile.AvatarURL != "" {
			account.AvatarURL = profile.AvatarURL
		}
		if err := r.accounts.Update(ctx, account); err != nil {
			return nil, false, domain.ErrDependency
		}
		return account, false, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, false, domain.ErrDependency
	}

	providerID := profile.ProviderID
	avatar := profile.AvatarURL
	if avatar == "" {
		avatar = domain.DefaultAvatarURL
	}
	account = &domain.Account{
		Email:       norm,
		Name:        profile.DisplayName,
		FederatedID: &providerID,
		AuthMethod:  domain.AuthMethodFederated,
		AvatarURL:   avatar,
	}
	if err := r.accounts.Create(ctx, account); err != nil {
		return nil, false, domain.ErrDependency
	}
	return account, true, nil
}
