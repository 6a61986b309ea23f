package user

import (
	"context"
	"database/sql"
	"errors"

	"storefront-be/internal/db"
	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, params RegisterParams, role string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// Create inserts a user. params.Password must already be hashed.
func (r *repository) Create(ctx context.Context, params RegisterParams, role string) (*User, error) {
	log := logger.FromCtx(ctx)

	u := User{
		Name:    params.Name,
		Email:   params.Email,
		Role:    role,
		Phone:   params.Phone,
		Address: params.Address,
	}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password, role, phone, address)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''))
		RETURNING id, created_at
	`,
		params.Name, params.Email, params.Password, role, params.Phone, params.Address,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		log.Error("db: failed to insert user",
			zap.String("email", params.Email),
			zap.Error(err),
		)
		return nil, err
	}

	return &u, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, password, role, COALESCE(phone, ''), COALESCE(address, ''), created_at
		FROM users
		WHERE email = $1
	`, email).Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.Phone, &u.Address, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
