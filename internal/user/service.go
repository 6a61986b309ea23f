package user

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"storefront-be/internal/auth"
	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

const minPasswordLength = 6

type Service interface {
	Register(ctx context.Context, params RegisterParams) (string, *User, error)
	Login(ctx context.Context, email, password string) (string, *User, error)
}

type service struct {
	repo     Repository
	secret   string
	tokenTTL time.Duration
}

func NewService(repo Repository, secret string, tokenTTL time.Duration) Service {
	return &service{repo: repo, secret: secret, tokenTTL: tokenTTL}
}

// Register creates a customer account. The role is never taken from input.
func (s *service) Register(ctx context.Context, params RegisterParams) (string, *User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Register"),
	)

	params.Name = strings.TrimSpace(params.Name)
	params.Email = strings.ToLower(strings.TrimSpace(params.Email))
	if params.Name == "" || len(params.Password) < minPasswordLength {
		return "", nil, ErrInvalidInput
	}
	if _, err := mail.ParseAddress(params.Email); err != nil {
		return "", nil, ErrInvalidInput
	}

	hashed, err := HashPassword(params.Password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return "", nil, err
	}
	params.Password = hashed

	u, err := s.repo.Create(ctx, params, auth.RoleCustomer)
	if err != nil {
		if !errors.Is(err, ErrEmailExists) {
			log.Error("failed to create user", zap.String("email", params.Email), zap.Error(err))
		}
		return "", nil, err
	}

	token, err := auth.GenerateToken(s.secret, s.tokenTTL, u.ID, u.Email, u.Role)
	if err != nil {
		log.Error("failed to generate jwt", zap.Uint("user_id", u.ID), zap.Error(err))
		return "", nil, err
	}

	log.Info("user registered", zap.Uint("user_id", u.ID))

	return token, u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (string, *User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Login"),
	)

	u, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			log.Debug("login for unknown email")
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !CheckPasswordHash(password, u.Password) {
		log.Debug("password mismatch", zap.Uint("user_id", u.ID))
		return "", nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(s.secret, s.tokenTTL, u.ID, u.Email, u.Role)
	if err != nil {
		return "", nil, err
	}

	return token, u, nil
}
