package user

import (
	"context"

	"user-console/internal/domain/session"
	domain "user-console/internal/domain/user"
)

// Usecase defines the console operations on a session's user directory.
type Usecase interface {
	LoadUsers(ctx context.Context, st *session.State, force bool) error
	ListUsers(ctx context.Context, st *session.State, in ListUsersRequest) (*ListUsersResponse, error)
	GetUser(ctx context.Context, st *session.State, id int64) (*domain.User, error)
	CreateUser(ctx context.Context, st *session.State, in CreateUserRequest) (*domain.User, error)
	UpdateUser(ctx context.Context, st *session.State, in UpdateUserRequest) (*domain.User, error)
	DeleteUser(ctx context.Context, st *session.State, id int64) error
	FindByEmail(ctx context.Context, email string) ([]domain.User, error)
}

// Repository is the remote users API as seen by the console.
type Repository interface {
	// GetAll fetches GET /users.
	GetAll(ctx context.Context) ([]domain.User, error)
	// Create posts a new user and returns the created record.
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	// GetByEmail fetches GET /users and keeps exact email matches.
	GetByEmail(ctx context.Context, email string) ([]domain.User, error)
	// DeleteByID deletes /users/:id.
	DeleteByID(ctx context.Context, id int64) error
	// UpdateByID puts the full user body to /users/:id.
	UpdateByID(ctx context.Context, id int64, u domain.User) (*domain.User, error)
}
