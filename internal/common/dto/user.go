package dto

import "time"

// User is the public representation of an account. It never carries the
// password hash.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	DOB       string    `json:"dob"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	DOB      string `json:"dob"`
}

// LoginRequest.Username may hold either a username or an email.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
	DOB   string `json:"dob"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type UpdateProfileResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}
