package auth

import (
	"context"
	"errors"
	"time"

	"github.com/openmart/shop_backend/internal/hash"
	"github.com/openmart/shop_backend/internal/logging"
	"github.com/openmart/shop_backend/internal/models"
	"github.com/openmart/shop_backend/internal/mykafka"
	"github.com/openmart/shop_backend/internal/repo"
	"github.com/openmart/shop_backend/internal/service/token"
)

var (
	ErrValidation     = errors.New("invalid credentials format")
	ErrConflict       = errors.New("principal already exists")
	ErrBadCredentials = errors.New("invalid credentials")
)

type Service struct {
	Repo        *repo.GormRepo
	Tokens      *token.Service
	UserScheme  hash.Scheme
	AdminScheme hash.Scheme
	Producer    *mykafka.Producer
}

func (s *Service) Signup(ctx context.Context, username, name, password string) (*models.User, *token.Pair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.signup")

	if !validUsername(username) || !validPassword(password) {
		return nil, nil, ErrValidation
	}

	pwHash, err := s.UserScheme.Hash(password)
	if err != nil {
		l.Error("signup_failed", "reason", "cannot hash the password", "error", err)
		return nil, nil, err
	}

	user := &models.User{
		Username:     username,
		Name:         name,
		PasswordHash: pwHash,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrAlreadyExists) {
			return nil, nil, ErrConflict
		}
		return nil, nil, err
	}

	pair, err := s.startSession(ctx, repo.Principal{Kind: repo.KindUser, ID: user.ID})
	if err != nil {
		return nil, nil, err
	}

	s.publish(ctx, "user_events", user.ID, map[string]any{
		"type":     "user_registered",
		"userId":   user.ID,
		"username": user.Username,
	})
	l.Info("signup_success", "username", username)
	return user, pair, nil
}

func (s *Service) Signin(ctx context.Context, username, password string) (*models.User, *token.Pair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.signin", "username", username)

	if !validUsername(username) || !validPassword(password) {
		return nil, nil, ErrValidation
	}

	user, err := s.Repo.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	if !s.UserScheme.Check(user.PasswordHash, password) {
		l.Warn("signin_failed", "reason", "password mismatch")
		return nil, nil, ErrBadCredentials
	}

	pair, err := s.startSession(ctx, repo.Principal{Kind: repo.KindUser, ID: user.ID})
	if err != nil {
		return nil, nil, err
	}

	s.publish(ctx, "user_events", user.ID, map[string]any{
		"type":     "user_logged_in",
		"userId":   user.ID,
		"username": user.Username,
	})
	l.Info("signin_success")
	return user, pair, nil
}

func (s *Service) AdminSignup(ctx context.Context, username, name, password string) (*models.Admin, *token.Pair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.admin_signup")

	if !validUsername(username) || !validPassword(password) {
		return nil, nil, ErrValidation
	}

	pwHash, err := s.AdminScheme.Hash(password)
	if err != nil {
		l.Error("admin_signup_failed", "reason", "cannot hash the password", "error", err)
		return nil, nil, err
	}

	admin := &models.Admin{
		Username:     username,
		Name:         name,
		PasswordHash: pwHash,
	}
	if err := s.Repo.CreateAdmin(ctx, admin); err != nil {
		if errors.Is(err, repo.ErrAlreadyExists) {
			return nil, nil, ErrConflict
		}
		return nil, nil, err
	}

	pair, err := s.startSession(ctx, repo.Principal{Kind: repo.KindAdmin, ID: admin.ID})
	if err != nil {
		return nil, nil, err
	}

	l.Info("admin_signup_success", "username", username)
	return admin, pair, nil
}

func (s *Service) AdminLogin(ctx context.Context, username, password string) (*models.Admin, *token.Pair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.admin_login", "username", username)

	if !validUsername(username) || !validPassword(password) {
		return nil, nil, ErrValidation
	}

	admin, err := s.Repo.FindAdminByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	if !s.AdminScheme.Check(admin.PasswordHash, password) {
		l.Warn("admin_login_failed", "reason", "password mismatch")
		return nil, nil, ErrBadCredentials
	}

	pair, err := s.startSession(ctx, repo.Principal{Kind: repo.KindAdmin, ID: admin.ID})
	if err != nil {
		return nil, nil, err
	}

	l.Info("admin_login_success")
	return admin, pair, nil
}

func (s *Service) Logout(ctx context.Context, principalID string) error {
	if err := s.Tokens.Revoke(ctx, principalID); err != nil {
		return err
	}
	s.publish(ctx, "user_events", principalID, map[string]any{
		"type":   "user_logged_out",
		"userId": principalID,
	})
	return nil
}

// startSession issues a pair and stores its refresh token as the principal's
// single active session.
func (s *Service) startSession(ctx context.Context, p repo.Principal) (*token.Pair, error) {
	pair, err := s.Tokens.IssuePair(p.ID)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SetRefreshToken(ctx, p, pair.RefreshToken); err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *Service) publish(ctx context.Context, topic, key string, event map[string]any) {
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(pubCtx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_failed", "topic", topic, "error", err)
	}
}
