package token

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/openmart/shop_backend/internal/logging"
	"github.com/openmart/shop_backend/internal/repo"
	"github.com/openmart/shop_backend/internal/tokens"
)

// ErrInvalidToken covers every refresh failure a client is allowed to see:
// bad signature, expired token, or a token that no principal currently holds.
var ErrInvalidToken = errors.New("invalid refresh token")

var ErrNotFound = errors.New("principal not found")

type Pair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type Service struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
}

// IssuePair signs a fresh access/refresh pair for the principal. It does not
// persist anything; callers store the refresh token on the principal.
func (s *Service) IssuePair(principalID string) (*Pair, error) {
	access, err := tokens.Sign(principalID, s.JWTSecret, tokens.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := tokens.Sign(principalID, s.RefreshSecret, tokens.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}
	return &Pair{AccessToken: access, RefreshToken: refresh}, nil
}

// Rotate exchanges a presented refresh token for a new pair. The token must
// verify against the refresh secret AND exactly match the stored token of some
// user or admin; a stale, already-rotated token fails even with a valid
// signature, which is what keeps sessions single per principal.
func (s *Service) Rotate(ctx context.Context, presented string) (*Pair, error) {
	l := logging.FromContext(ctx).With("svc", "token.rotate")

	if _, err := tokens.ClaimsFromToken(presented, s.RefreshSecret); err != nil {
		l.Warn("rotate_failed", "reason", "token verification failed", "error", err)
		return nil, ErrInvalidToken
	}

	principal, err := s.Repo.FindByRefreshToken(ctx, presented)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("rotate_failed", "reason", "no principal holds this token")
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	pair, err := s.IssuePair(principal.ID)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.SetRefreshToken(ctx, *principal, pair.RefreshToken); err != nil {
		return nil, err
	}

	l.Info("rotate_success", "kind", principal.Kind)
	return pair, nil
}

// Revoke clears the stored refresh token, ending the principal's session.
func (s *Service) Revoke(ctx context.Context, principalID string) error {
	err := s.Repo.ClearRefreshToken(ctx, principalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
