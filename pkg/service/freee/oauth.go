package freee

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/oauth2"
)

const (
	authorizeEndpointPath = "/public_api/authorize"
	tokenEndpointPath     = "/public_api/token"
)

// oauthConfig builds the grant configuration against the freee accounts
// host. freee expects client credentials in the form body, not basic auth.
func (c *client) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.clientID,
		ClientSecret: c.clientSecret,
		RedirectURL:  c.redirectURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:   c.oauthBaseURL + authorizeEndpointPath,
			TokenURL:  c.oauthBaseURL + tokenEndpointPath,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// oauthContext routes token requests through the client's HTTP client
// so that timeouts and test overrides apply to the grants as well.
func (c *client) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}

func (c *client) AuthorizeURL(state string) string {
	return c.oauthConfig().AuthCodeURL(state)
}

func (c *client) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	if code == "" {
		return nil, goerr.New("authorization code is empty")
	}

	token, err := c.oauthConfig().Exchange(c.oauthContext(ctx), code)
	if err != nil {
		return nil, goerr.Wrap(err, "code exchange failed")
	}

	return tokenResponse(token)
}

func (c *client) RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	if refreshToken == "" {
		return nil, goerr.New("refresh token is empty")
	}

	src := c.oauthConfig().TokenSource(c.oauthContext(ctx), &oauth2.Token{RefreshToken: refreshToken})
	token, err := src.Token()
	if err != nil {
		return nil, goerr.Wrap(err, "token refresh failed")
	}

	return tokenResponse(token)
}

// tokenResponse flattens an oauth2 token back to the wire fields the
// token store persists. On refresh, a response without a refresh token
// carries the previous one forward.
func tokenResponse(token *oauth2.Token) (*TokenResponse, error) {
	if token.AccessToken == "" {
		return nil, goerr.New("token endpoint returned empty access token")
	}

	scope, _ := token.Extra("scope").(string)

	return &TokenResponse{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		ExpiresIn:    token.ExpiresIn,
		Scope:        scope,
	}, nil
}
