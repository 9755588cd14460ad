// Package idp is a client for the external OAuth2 identity provider: userinfo
// lookup for bearer validation, plus authorization-code (PKCE), refresh, and
// revocation calls proxied for the SPA so the client secret stays server-side.
package idp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const defaultHTTPTimeout = 10 * time.Second

// ErrInvalidToken is returned when the provider rejects a bearer token.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims are the verified identity claims from the provider's userinfo endpoint.
type Claims struct {
	Subject     string `json:"sub"`
	Email       string `json:"email"`
	GivenName   string `json:"given_name"`
	FamilyName  string `json:"family_name"`
	AccessLevel string `json:"access_level"`
}

// Client talks to the identity provider.
type Client struct {
	issuer       string
	clientID     string
	clientSecret string
	httpClient   *http.Client
}

// New creates a Client for the provider at issuer (e.g. "https://auth.example.net").
func New(issuer, clientID, clientSecret string) *Client {
	return &Client{
		issuer:       strings.TrimRight(issuer, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: defaultHTTPTimeout},
	}
}

func (c *Client) endpoint() oauth2.Endpoint {
	return oauth2.Endpoint{
		AuthURL:  c.issuer + "/authorize",
		TokenURL: c.issuer + "/token",
	}
}

func (c *Client) oauthConfig(redirectURI string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.clientID,
		ClientSecret: c.clientSecret,
		Endpoint:     c.endpoint(),
		RedirectURL:  redirectURI,
		Scopes:       []string{"openid", "profile", "email"},
	}
}

// UserInfo exchanges a bearer token for verified claims. Any non-success
// provider response maps to ErrInvalidToken; the raw token is never logged.
func (c *Client) UserInfo(ctx context.Context, token string) (*Claims, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.issuer+"/userinfo", nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, ErrInvalidToken
	}

	var claims Claims
	if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

// AuthCodeURL builds the provider authorization URL for the PKCE flow.
// verifier must come from oauth2.GenerateVerifier and be kept for Exchange.
func (c *Client) AuthCodeURL(state, verifier, redirectURI string) string {
	return c.oauthConfig(redirectURI).AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
}

// Exchange redeems an authorization code with its PKCE verifier.
func (c *Client) Exchange(ctx context.Context, code, verifier, redirectURI string) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	tok, err := c.oauthConfig(redirectURI).Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("exchange: %w", err)
	}
	return tok, nil
}

// Refresh redeems a refresh token for a new access token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	src := c.oauthConfig("").TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}
	return tok, nil
}

// Revoke invalidates a token at the provider. Best effort: the provider
// returns 200 even for unknown tokens per RFC 7009.
func (c *Client) Revoke(ctx context.Context, token string) error {
	form := url.Values{
		"token":     {token},
		"client_id": {c.clientID},
	}
	if c.clientSecret != "" {
		form.Set("client_secret", c.clientSecret)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.issuer+"/revoke",
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("revoke: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("revoke: provider returned %d", resp.StatusCode)
	}
	return nil
}
