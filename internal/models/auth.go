package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterTeacherRequest creates a teacher account awaiting vetting.
type RegisterTeacherRequest struct {
	Email             string   `json:"email" validate:"required,email"`
	Password          string   `json:"password" validate:"required,min=6"`
	FirstName         string   `json:"firstName" validate:"required"`
	LastName          string   `json:"lastName" validate:"required"`
	Subject           string   `json:"subject" validate:"required"`
	HourlyRate        float64  `json:"hourlyRate" validate:"gte=0"`
	TeachingLocations []string `json:"teachingLocations"`
	Skills            string   `json:"skills"`
	Bio               string   `json:"bio"`
}

// ChildInput describes a child declared at parent registration.
type ChildInput struct {
	Name  string `json:"name" validate:"required"`
	Age   int    `json:"age" validate:"gte=3"`
	Grade string `json:"grade"`
}

// RegisterParentRequest creates a parent account with optional children.
type RegisterParentRequest struct {
	Email     string       `json:"email" validate:"required,email"`
	Password  string       `json:"password" validate:"required,min=6"`
	FirstName string       `json:"firstName" validate:"required"`
	LastName  string       `json:"lastName" validate:"required"`
	Children  []ChildInput `json:"children" validate:"dive"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID string   `json:"user_id"`
	Role   UserRole `json:"role"`
	Email  string   `json:"email"`
	jwt.RegisteredClaims
}

// AuthResult is returned by login and registration.
type AuthResult struct {
	User      *User
	Token     string
	ExpiresAt time.Time
}
