package tokenverify

import (
	"context"
	"errors"

	"github.com/ABDUL-REHMAN392/moviebackend/internal/domain"
)

// Authenticator resolves an access token into the minimal identity claim.
// Satisfied by the session service; declared here so transport adapters do
// not depend on the usecase package.
type Authenticator interface {
	Authenticate(ctx context.Context, traceID, accessToken string) (*domain.Identity, error)
}

// Verify runs side-effect-free access-token authentication. Errors keep
// their domain kind so each transport can map them to its own status codes.
func Verify(ctx context.Context, auth Authenticator, traceID, token string) (*domain.Identity, error) {
	if auth == nil {
		return nil, domain.ErrTokenInvalid
	}
	if token == "" {
		return nil, domain.ErrTokenInvalid
	}
	return auth.Authenticate(ctx, traceID, token)
}

// Code maps an authentication failure to the stable wire code shared by the
// HTTP and NATS surfaces.
func Code(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, domain.ErrDependency):
		return "dependency_failure"
	default:
		return "invalid_token"
	}
}
