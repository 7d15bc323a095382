package googleauth

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleoauth "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// Scopes required to mirror Google Classroom data and read the user profile.
var Scopes = []string{
	"https://www.googleapis.com/auth/classroom.courses.readonly",
	"https://www.googleapis.com/auth/classroom.rosters.readonly",
	"https://www.googleapis.com/auth/classroom.coursework.students.readonly",
	"https://www.googleapis.com/auth/classroom.coursework.me.readonly",
	"https://www.googleapis.com/auth/classroom.announcements.readonly",
	"https://www.googleapis.com/auth/userinfo.profile",
	"https://www.googleapis.com/auth/userinfo.email",
}

// Tokens is the credential set Google hands back after an exchange or refresh.
type Tokens struct {
	AccessToken  string
	RefreshToken string
	ExpiryDate   time.Time
}

// UserInfo is the Google profile of the authenticating user.
type UserInfo struct {
	ID      string
	Email   string
	Name    string
	Picture string
}

// Client wraps the Google OAuth flow. The underlying oauth2.Config is never
// mutated after construction; every call builds its own token source, so
// concurrent requests cannot leak credentials into each other.
type Client struct {
	config *oauth2.Config
}

func NewClient(clientID, clientSecret, redirectURL string) *Client {
	return &Client{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       Scopes,
			Endpoint:     google.Endpoint,
		},
	}
}

// AuthURL builds the consent URL. Offline access plus the consent prompt are
// required to receive a refresh token.
func (c *Client) AuthURL() string {
	return c.config.AuthCodeURL("state-token",
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// Exchange trades an authorization code for Google tokens.
func (c *Client) Exchange(ctx context.Context, code string) (Tokens, error) {
	tok, err := c.config.Exchange(ctx, code)
	if err != nil {
		return Tokens{}, fmt.Errorf("error obteniendo tokens: %w", err)
	}
	return fromOAuth2Token(tok), nil
}

// Refresh obtains a fresh access token from a stored refresh token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (Tokens, error) {
	source := c.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	tok, err := source.Token()
	if err != nil {
		return Tokens{}, fmt.Errorf("error refrescando token: %w", err)
	}

	tokens := fromOAuth2Token(tok)
	if tokens.RefreshToken == "" {
		tokens.RefreshToken = refreshToken
	}
	return tokens, nil
}

// UserInfo fetches the Google profile for the given access token.
func (c *Client) UserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	svc, err := googleoauth.NewService(ctx, option.WithTokenSource(StaticTokenSource(accessToken)))
	if err != nil {
		return nil, fmt.Errorf("error creando cliente de Google: %w", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("error obteniendo información del usuario: %w", err)
	}

	return &UserInfo{
		ID:      info.Id,
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	}, nil
}

// StaticTokenSource builds a request-scoped token source for an access token.
func StaticTokenSource(accessToken string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
}

func fromOAuth2Token(tok *oauth2.Token) Tokens {
	return Tokens{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiryDate:   tok.Expiry,
	}
}
