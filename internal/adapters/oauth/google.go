package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/ABDUL-REHMAN392/moviebackend/internal/domain"
)

const googleUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// Exchanger turns an authorization code from the provider callback into a
// federated profile. The reconciliation core never sees OAuth2 details.
type Exchanger interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (domain.FederatedProfile, error)
}

type googleExchanger struct {
	cfg         *oauth2.Config
	userinfoURL string
}

func NewGoogleExchanger(clientID, clientSecret, callbackURL string) Exchanger {
	return &googleExchanger{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"profile", "email"},
			Endpoint:     google.Endpoint,
		},
		userinfoURL: googleUserinfoURL,
	}
}

func (g *googleExchanger) AuthCodeURL(state string) string {
	return g.cfg.AuthCodeURL(state)
}

func (g *googleExchanger) Exchange(ctx context.Context, code string) (domain.FederatedProfile, error) {
	token, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return domain.FederatedProfile{}, fmt.Errorf("code exchange: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userinfoURL, nil)
	if err != nil {
		return domain.FederatedProfile{}, err
	}
	resp, err := g.cfg.Client(ctx, token).Do(req)
	if err != nil {
		return domain.FederatedProfile{}, fmt.Errorf("userinfo fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return domain.FederatedProfile{}, fmt.Errorf("userinfo fetch: status %d", resp.StatusCode)
	}
	var info struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return domain.FederatedProfile{}, fmt.Errorf("userinfo decode: %w", err)
	}
	return domain.FederatedProfile{
		ProviderID:  info.ID,
		Email:       info.Email,
		DisplayName: info.Name,
		AvatarURL:   info.Picture,
	}, nil
}
