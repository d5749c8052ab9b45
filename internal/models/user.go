package models

import "time"

// UserRole tags which profile a user carries. It never changes after creation.
type UserRole string

const (
	RoleParent  UserRole = "PARENT"
	RoleTeacher UserRole = "TEACHER"
	RoleAdmin   UserRole = "ADMIN"
)

// User is the single account record shared by parents, teachers and admins.
type User struct {
	ID             string    `db:"id" json:"id"`
	Email          string    `db:"email" json:"email"`
	PasswordHash   string    `db:"password_hash" json:"-"`
	FirstName      string    `db:"first_name" json:"first_name"`
	LastName       string    `db:"last_name" json:"last_name"`
	ProfilePicture *string   `db:"profile_picture" json:"profile_picture,omitempty"`
	Role           UserRole  `db:"role" json:"role"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`

	// Exactly one of these is set, selected by Role. Admins carry neither.
	Teacher *TeacherProfile `db:"-" json:"teacher,omitempty"`
	Parent  *ParentProfile  `db:"-" json:"parent,omitempty"`
}

// IsTeacher reports whether the user carries a teacher profile.
func (u *User) IsTeacher() bool {
	return u != nil && u.Role == RoleTeacher && u.Teacher != nil
}

// IsParent reports whether the user is a parent.
func (u *User) IsParent() bool {
	return u != nil && u.Role == RoleParent
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
