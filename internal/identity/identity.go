// Package identity talks to the external OpenID Connect provider. It runs
// the authorization-code flow with PKCE and yields verified identity claims.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// Claims is the verified identity returned by a successful exchange.
type Claims struct {
	Subject  string
	Email    string
	Username string
}

// Provider builds authorization redirects and exchanges codes for claims.
type Provider interface {
	AuthCodeURL(state, verifier string) string
	Exchange(ctx context.Context, code, verifier string) (*Claims, error)
}

// Config holds the client registration at the provider.
type Config struct {
	Issuer       string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// OIDCProvider implements Provider against a discovered OIDC issuer.
type OIDCProvider struct {
	oauth    *oauth2.Config
	verifier *oidc.IDTokenVerifier
}

// NewOIDCProvider discovers the issuer's endpoints and keys.
func NewOIDCProvider(ctx context.Context, cfg Config) (*OIDCProvider, error) {
	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to discover oidc issuer %s: %w", cfg.Issuer, err)
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{oidc.ScopeOpenID, "email", "profile"}
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint:     provider.Endpoint(),
		Scopes:       scopes,
	}
	verifier := provider.Verifier(&oidc.Config{ClientID: cfg.ClientID})
	return newOIDCProvider(oauthCfg, verifier), nil
}

func newOIDCProvider(oauthCfg *oauth2.Config, verifier *oidc.IDTokenVerifier) *OIDCProvider {
	return &OIDCProvider{oauth: oauthCfg, verifier: verifier}
}

// NewVerifier returns a fresh PKCE code verifier.
func NewVerifier() string {
	return oauth2.GenerateVerifier()
}

// AuthCodeURL returns the provider redirect carrying state and the S256
// challenge derived from verifier.
func (p *OIDCProvider) AuthCodeURL(state, verifier string) string {
	return p.oauth.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
}

// Exchange trades code for tokens and verifies the returned ID token.
func (p *OIDCProvider) Exchange(ctx context.Context, code, verifier string) (*Claims, error) {
	token, err := p.oauth.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, errors.New("token response has no id_token")
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify id token: %w", err)
	}

	var extra struct {
		Email             string `json:"email"`
		PreferredUsername string `json:"preferred_username"`
		Nickname          string `json:"nickname"`
	}
	if err := idToken.Claims(&extra); err != nil {
		return nil, fmt.Errorf("failed to decode id token claims: %w", err)
	}
	if extra.Email == "" {
		return nil, errors.New("id token has no email claim")
	}

	username := extra.PreferredUsername
	if username == "" {
		username = extra.Nickname
	}
	return &Claims{
		Subject:  idToken.Subject,
		Email:    extra.Email,
		Username: username,
	}, nil
}
