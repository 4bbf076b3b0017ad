package repository

import (
	"context"
	"errors"

	"focusflow/models"
)

var (
	// ErrNotFound is returned when no document matches a well-formed id or key.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateUser is returned when a username or email is already registered.
	ErrDuplicateUser = errors.New("user already exists")
)

// Store groups the habit and user collections of one backend.
type Store interface {
	Habits() HabitStore
	Users() UserStore
	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// HabitStore performs CRUD against the habit collection.
type HabitStore interface {
	List(ctx context.Context, q models.HabitQuery) ([]models.Habit, error)
	GetByID(ctx context.Context, id int) (*models.Habit, error)
	Create(ctx context.Context, req models.HabitRequest) (*models.Habit, error)
	// Update reports false when the stored document already matched the request.
	Update(ctx context.Context, id int, req models.HabitRequest) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
	// Reset removes every habit.
	Reset(ctx context.Context) error
}

// UserStore manages credential records.
type UserStore interface {
	Create(ctx context.Context, username, email, password string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	VerifyPassword(user *models.User, password string) (bool, error)
}
