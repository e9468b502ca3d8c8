package auth

import (
	"time"
)

// Persisted storage keys owned by the auth store.
const (
	KeyToken = "token"
	KeyUser  = "user"
	KeyUsers = "users"
)

// User is the session-visible account record. Password material never
// appears here.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StoredUser is the credential-table record: the user plus its password
// digest and salt. Only the persisted `users` table carries this shape.
type StoredUser struct {
	User
	PasswordHash string `json:"password_hash"`
	Salt         string `json:"salt"`
}

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Username string `json:"username" binding:"required" example:"john_doe"`
	Email    string `json:"email" binding:"required" example:"john@example.com"`
	Password string `json:"password" binding:"required" example:"Passw0rd1"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"john@example.com"`
	Password string `json:"password" binding:"required" example:"Passw0rd1"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
