package domain

import (
	"strings"
	"time"
)

// DefaultAvatarURL is used for accounts that never uploaded a picture and
// whose identity provider did not supply one.
const DefaultAvatarURL = "https://www.gravatar.com/avatar/?d=mp&f=y"

type AuthMethod string

const (
	AuthMethodLocal     AuthMethod = "local"
	AuthMethodFederated AuthMethod = "federated"
)

// Account is the durable identity record. Email is stored normalized
// (trimmed, lowercased). RefreshToken is a single revocable slot: each login
// overwrites it, which invalidates any previously issued refresh token.
type Account struct {
	ID           string     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	Name         string     `gorm:"not null" json:"name"`
	PasswordHash string     `json:"-"`
	FederatedID  *string    `gorm:"uniqueIndex" json:"-"`
	AuthMethod   AuthMethod `gorm:"type:text;not null;default:local" json:"auth_method"`
	AvatarURL    string     `gorm:"not null" json:"avatar_url"`
	AvatarID     string     `json:"-"`
	RefreshToken string     `json:"-"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Account) TableName() string { return "account" }

// PublicAccount is the outward projection of an Account. Credentials and the
// refresh slot are never part of it; responses must go through Public rather
// than serializing the record directly.
type PublicAccount struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	AuthMethod  AuthMethod `json:"auth_method"`
	AvatarURL   string     `json:"avatar_url"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (a *Account) Public() PublicAccount {
	return PublicAccount{
		ID:          a.ID,
		Email:       a.Email,
		Name:        a.Name,
		AuthMethod:  a.AuthMethod,
		AvatarURL:   a.AvatarURL,
		LastLoginAt: a.LastLoginAt,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// Identity is the minimal claim attached to an authenticated request.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// FederatedProfile is what an OAuth2 exchange yields about the user. Email
// must be present and is trusted as provider-verified.
type FederatedProfile struct {
	ProviderID  string
	Email       string
	DisplayName string
	AvatarURL   string
}

// NormalizeEmail trims and lowercases an address; every comparison and every
// store write goes through it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
