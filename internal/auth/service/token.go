package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/accounts/internal/auth/domain"
	"github.com/aussiebroadwan/accounts/internal/auth/metrics"
	"github.com/aussiebroadwan/accounts/internal/auth/store"
	"github.com/aussiebroadwan/accounts/pkg/jwtx"
)

// Token flows, used as metric labels.
const (
	FlowLogin   = "login"
	FlowRefresh = "refresh"
)

// Login authenticates the credentials and issues a token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.TokenPair, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		s.Metrics.Login(metrics.ResultFailure)
		return domain.TokenPair{}, err
	}
	s.Metrics.Login(metrics.ResultSuccess)

	return s.CreateTokens(ctx, user.ID)
}

// CreateTokens issues an access and a refresh token for userID. It fails with
// ErrNotFound when the user vanished after authenticating.
func (s *AuthService) CreateTokens(ctx context.Context, userID string) (domain.TokenPair, error) {
	pair, err := s.createTokens(ctx, userID)
	if err != nil {
		s.Metrics.TokenIssued(FlowLogin, metrics.ResultFailure)
		return domain.TokenPair{}, err
	}
	s.Metrics.TokenIssued(FlowLogin, metrics.ResultSuccess)
	return pair, nil
}

func (s *AuthService) createTokens(ctx context.Context, userID string) (domain.TokenPair, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, domain.ErrNotFound
		}
		return domain.TokenPair{}, err
	}

	access, _, err := s.Keys.Issue(user.ID, jwtx.TokenTypeAccess)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, _, err := s.Keys.Issue(user.ID, jwtx.TokenTypeRefresh)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("issue refresh token: %w", err)
	}

	return domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    domain.TokenTypeBearer,
		ExpiresIn:    s.Keys.TTL(jwtx.TokenTypeAccess),
		IsSuperuser:  user.IsSuperuser,
	}, nil
}

// Refresh verifies a refresh token and issues a new access token for its
// subject. Token failures are jwtx.ErrInvalidToken, jwtx.ErrTokenExpired or
// jwtx.ErrWrongTokenType.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (domain.AccessToken, error) {
	claims, err := s.Keys.Verify(refreshToken, jwtx.TokenTypeRefresh)
	if err != nil {
		s.Metrics.TokenIssued(FlowRefresh, metrics.ResultFailure)
		return domain.AccessToken{}, err
	}
	return s.RefreshAccessToken(ctx, claims.Subject)
}

// RefreshAccessToken issues a new access token for an already verified refresh
// token subject. It fails with ErrNotFound when the user no longer exists.
func (s *AuthService) RefreshAccessToken(ctx context.Context, subject string) (domain.AccessToken, error) {
	tok, err := s.refreshAccessToken(ctx, subject)
	if err != nil {
		s.Metrics.TokenIssued(FlowRefresh, metrics.ResultFailure)
		return domain.AccessToken{}, err
	}
	s.Metrics.TokenIssued(FlowRefresh, metrics.ResultSuccess)
	return tok, nil
}

func (s *AuthService) refreshAccessToken(ctx context.Context, subject string) (domain.AccessToken, error) {
	if _, err := s.Store.Users().GetUserByID(ctx, subject); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.AccessToken{}, domain.ErrNotFound
		}
		return domain.AccessToken{}, err
	}

	access, _, err := s.Keys.Issue(subject, jwtx.TokenTypeAccess)
	if err != nil {
		return domain.AccessToken{}, fmt.Errorf("issue access token: %w", err)
	}

	return domain.AccessToken{
		AccessToken: access,
		TokenType:   domain.TokenTypeBearer,
		ExpiresIn:   s.Keys.TTL(jwtx.TokenTypeAccess),
	}, nil
}
