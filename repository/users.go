package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"focusflow/models"
)

// UserRepository handles user database operations
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) (*UserRepository, error) {
	// Create users table
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT UNIQUE NOT NULL,
		email TEXT UNIQUE NOT NULL,
		password TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);`

	_, err := db.Exec(createTableSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to create users table: %w", err)
	}

	return &UserRepository{db: db}, nil
}

// Create registers a user with a hashed password. The returned record has
// no password hash.
func (r *UserRepository) Create(ctx context.Context, username, email, password string) (*models.User, error) {
	username = normalizeUsername(username)
	email = normalizeEmail(email)

	var exists int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM users WHERE username = ? OR email = ?",
		username, email,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists > 0 {
		return nil, ErrDuplicateUser
	}

	// Hash the password
	hashedPassword, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	createdAt := now()
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO users (username, email, password, created_at) VALUES (?, ?, ?, ?)",
		username, email, hashedPassword, createdAt.UnixMilli(),
	)
	if isSQLiteConstraint(err) {
		return nil, ErrDuplicateUser
	}
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &models.User{
		ID:        strconv.FormatInt(id, 10),
		Username:  username,
		Email:     email,
		CreatedAt: createdAt,
	}, nil
}

// FindByUsername retrieves a user by username
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, "username", normalizeUsername(username))
}

// FindByEmail retrieves a user by email, compared case-insensitively
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email", normalizeEmail(email))
}

// VerifyPassword checks if password matches
func (r *UserRepository) VerifyPassword(user *models.User, password string) (bool, error) {
	return verifyPassword(user, password)
}

func (r *UserRepository) findOne(ctx context.Context, column, value string) (*models.User, error) {
	var (
		user      models.User
		id        int64
		createdAt int64
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT id, username, email, password, created_at FROM users WHERE "+column+" = ?",
		value,
	).Scan(&id, &user.Username, &user.Email, &user.Password, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	user.ID = strconv.FormatInt(id, 10)
	user.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &user, nil
}
