package session

import (
	"errors"
	"slices"
	"time"

	"golang.org/x/oauth2"
)

var (
	// ErrAuth is returned when neither refresh nor interactive authorization produced a credential.
	ErrAuth = errors.New("authorization failed")
	// ErrInteractiveUnavailable is returned when a fresh grant is needed but the flow is disabled.
	ErrInteractiveUnavailable = errors.New("interactive authorization unavailable")
	// ErrNoCredential is returned by a Store that holds nothing yet.
	ErrNoCredential = errors.New("no stored credential")
)

// expiryDelta matches the early-expiry margin oauth2 applies to tokens.
const expiryDelta = 10 * time.Second

// Credential is the persisted OAuth2 bundle.
type Credential struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
	Scopes       []string  `json:"scopes,omitempty"`
}

// NewCredential captures tok together with the scopes it was granted for.
func NewCredential(tok *oauth2.Token, scopes []string) Credential {
	return Credential{
		AccessToken:  tok.AccessToken,
		TokenType:    tok.TokenType,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
		Scopes:       slices.Clone(scopes),
	}
}

// Token returns c as an oauth2 token.
func (c Credential) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		TokenType:    c.TokenType,
		RefreshToken: c.RefreshToken,
		Expiry:       c.Expiry,
	}
}

// Expired reports whether the access token is missing or about to lapse at now.
func (c Credential) Expired(now time.Time) bool {
	if c.AccessToken == "" {
		return true
	}
	if c.Expiry.IsZero() {
		return false
	}
	return !c.Expiry.After(now.Add(expiryDelta))
}

// Covers reports whether every scope in want was granted to c.
func (c Credential) Covers(want []string) bool {
	for _, s := range want {
		if !slices.Contains(c.Scopes, s) {
			return false
		}
	}
	return true
}

func (c Credential) sameToken(tok *oauth2.Token) bool {
	return c.AccessToken == tok.AccessToken &&
		c.RefreshToken == tok.RefreshToken &&
		c.TokenType == tok.TokenType &&
		c.Expiry.Equal(tok.Expiry)
}
