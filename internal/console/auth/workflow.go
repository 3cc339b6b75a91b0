package auth

import (
	"context"
	"fmt"

	"github.com/aussiebroadwan/console/internal/console/lifecycle"
	"github.com/aussiebroadwan/console/internal/console/tokens"
	"github.com/aussiebroadwan/console/pkg/apiclient"
	"github.com/aussiebroadwan/console/pkg/httpx"
	"github.com/aussiebroadwan/console/pkg/slogx"
)

// API is the part of the gateway this slice calls.
type API interface {
	Authenticate(ctx context.Context, creds apiclient.Credentials) (*apiclient.Response[apiclient.JWTToken], error)
	GetAccount(ctx context.Context) (*apiclient.Response[apiclient.Account], error)
}

// TokenStore persists the bearer credential.
type TokenStore interface {
	Set(ctx context.Context, scope tokens.Scope, token string) error
	Clear(ctx context.Context) error
}

// Service runs the authentication workflows against a store.
type Service struct {
	Dispatcher lifecycle.Dispatcher
	API        API
	Tokens     TokenStore
}

// Authenticate submits credentials as the login operation.
func (s *Service) Authenticate(ctx context.Context, creds apiclient.Credentials) (*apiclient.Response[apiclient.JWTToken], error) {
	return lifecycle.Run(ctx, s.Dispatcher, OpLogin, creds, s.API.Authenticate)
}

// GetAccount fetches the current account as the get-account operation.
func (s *Service) GetAccount(ctx context.Context) (*apiclient.Response[apiclient.Account], error) {
	return lifecycle.Run(ctx, s.Dispatcher, OpGetAccount, struct{}{},
		func(ctx context.Context, _ struct{}) (*apiclient.Response[apiclient.Account], error) {
			return s.API.GetAccount(ctx)
		})
}

// GetSession refreshes the session from the server.
func (s *Service) GetSession(ctx context.Context) error {
	_, err := s.GetAccount(ctx)
	return err
}

// Login authenticates, stores the returned bearer token and then fetches
// the session. The token goes to the durable scope when rememberMe is set,
// to the session scope otherwise. A rejected login stops before the
// session fetch.
func (s *Service) Login(ctx context.Context, username, password string, rememberMe bool) error {
	log := slogx.FromContext(ctx)

	resp, err := s.Authenticate(ctx, apiclient.Credentials{
		Username:   username,
		Password:   password,
		RememberMe: rememberMe,
	})
	if err != nil {
		return err
	}

	if jwt, ok := httpx.BearerToken(resp.Header.Get("Authorization")); ok {
		scope := tokens.Session
		if rememberMe {
			scope = tokens.Local
		}
		if err := s.Tokens.Set(ctx, scope, jwt); err != nil {
			return fmt.Errorf("failed to store bearer token: %w", err)
		}
		log.Info("login succeeded", "subject", tokens.Subject(jwt), "scope", scope)
	} else {
		log.Warn("login response carried no bearer token")
	}

	return s.GetSession(ctx)
}

// Logout forgets the stored token and resets the slice.
func (s *Service) Logout(ctx context.Context) error {
	err := s.Tokens.Clear(ctx)
	s.Dispatcher.Dispatch(LogoutSession{})
	if err != nil {
		return fmt.Errorf("failed to clear bearer token: %w", err)
	}
	return nil
}

// ClearAuthentication forgets the stored token after the server rejected
// it, leaving messageKey for the login modal.
func (s *Service) ClearAuthentication(ctx context.Context, messageKey string) error {
	err := s.Tokens.Clear(ctx)
	s.Dispatcher.Dispatch(AuthError{Message: messageKey})
	s.Dispatcher.Dispatch(ClearAuth{})
	if err != nil {
		return fmt.Errorf("failed to clear bearer token: %w", err)
	}
	return nil
}
