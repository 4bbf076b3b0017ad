package models

import "time"

// LoginRequest represents login credentials
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest is the payload for creating an account
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserSummary is the public view of a user returned by the auth endpoints
type UserSummary struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// AuthResponse is returned by login and register
type AuthResponse struct {
	Message string      `json:"message"`
	User    UserSummary `json:"user"`
}

// AuthStatus reports whether the caller holds a session
type AuthStatus struct {
	Authenticated bool         `json:"authenticated"`
	User          *UserSummary `json:"user,omitempty"`
}

// User represents a user in the system
type User struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Username  string    `json:"username" bson:"username"`
	Email     string    `json:"email" bson:"email"`
	Password  string    `json:"-" bson:"password"` // "-" means don't send password in JSON
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Summary strips everything but the public fields.
func (u User) Summary() UserSummary {
	return UserSummary{Username: u.Username, Email: u.Email}
}
