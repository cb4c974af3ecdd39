package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/netinventory/internal/auth"
	"github.com/JonMunkholm/netinventory/internal/logging"
)

const uniqueViolation = "23505"

// NewUser is the input of CreateUser. An empty Role means auth.RoleUser.
type NewUser struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (u NewUser) validate() (NewUser, error) {
	u.Email = strings.TrimSpace(u.Email)
	u.Name = strings.TrimSpace(u.Name)
	if u.Email == "" || u.Name == "" || u.Password == "" {
		return u, invalid(CodeMissingFields, "All fields are required")
	}
	if u.Role == "" {
		u.Role = auth.RoleUser
	}
	if !auth.ValidRole(u.Role) {
		return u, invalid(CodeInvalidRole, "Invalid role")
	}
	return u, nil
}

const userColumns = `id::text, email, name, role, created_at`

// ListUsers returns every account, newest first.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	users, err := collect(ctx, s.pool,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC`,
		func(row pgx.CollectableRow) (User, error) {
			var u User
			err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.CreatedAt)
			return u, err
		})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// CreateUser stores a new account with a bcrypt password hash.
func (s *Service) CreateUser(ctx context.Context, in NewUser) (*User, error) {
	in, err := in.validate()
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password, s.opts.BcryptCost)
	if err != nil {
		return nil, err
	}

	var u User
	err = s.pool.QueryRow(ctx,
		`INSERT INTO users (id, email, name, password_hash, role)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+userColumns,
		pgtype.UUID{Bytes: uuid.New(), Valid: true}, in.Email, in.Name, hash, in.Role,
	).Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, &ValidationError{
				Code:    CodeDuplicateEmail,
				Message: "A user with this email already exists",
				cause:   ErrDuplicateEmail,
			}
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	logging.FromContext(ctx).Info("user created", "user_id", u.ID, "email", u.Email, "role", u.Role)
	return &u, nil
}

// Authenticate returns the account matching email and password, or
// ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	var (
		u    User
		hash string
	)
	err := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+`, password_hash FROM users WHERE email = $1`,
		strings.TrimSpace(email),
	).Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.CreatedAt, &hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !auth.CheckPassword(hash, password) {
		return nil, ErrInvalidCredentials
	}
	return &u, nil
}

// EnsureAdmin creates an admin account for email unless one with that email
// already exists. It reports whether an account was created.
func (s *Service) EnsureAdmin(ctx context.Context, email, password, name string) (bool, error) {
	if name == "" {
		name = "Administrator"
	}
	in, err := NewUser{Email: email, Name: name, Password: password, Role: auth.RoleAdmin}.validate()
	if err != nil {
		return false, err
	}

	var exists bool
	if err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, in.Email).Scan(&exists); err != nil {
		return false, fmt.Errorf("check admin: %w", err)
	}
	if exists {
		return false, nil
	}

	if _, err := s.CreateUser(ctx, in); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
