package identity

import (
	"errors"
	"time"
)

var (
	// ErrUserExists is returned when the email is already registered.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound is returned when no user matches.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials is returned for a wrong email/password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User represents a registered customer.
type User struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	Phone        string
	PasswordHash []byte
	CreatedAt    time.Time
}

// Credentials is an email/password pair.
type Credentials struct {
	Email    string
	Password string
}

// RegisterInput captures the data needed to create a user.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

// Patch updates profile fields; nil fields are left untouched.
type Patch struct {
	FirstName *string
	LastName  *string
	Phone     *string
}

func (p Patch) apply(user User) User {
	if p.FirstName != nil {
		user.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		user.LastName = *p.LastName
	}
	if p.Phone != nil {
		user.Phone = *p.Phone
	}
	return user
}
