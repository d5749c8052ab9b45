package models

import "time"

// Course is an offering published by a teacher.
type Course struct {
	ID          string    `db:"id" json:"id"`
	TeacherID   string    `db:"teacher_id" json:"teacher_id"`
	Subject     string    `db:"subject" json:"subject"`
	Description string    `db:"description" json:"description"`
	HourlyRate  float64   `db:"hourly_rate" json:"hourly_rate"`
	Locations   Locations `db:"locations" json:"locations"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CreateCourseRequest creates a course for a teacher. Locations accept labels or symbols.
type CreateCourseRequest struct {
	Subject     string   `json:"subject" validate:"required"`
	Description string   `json:"description"`
	HourlyRate  float64  `json:"hourlyRate" validate:"gte=0"`
	Locations   []string `json:"locations"`
}

// UpdateCourseRequest is a partial course update.
type UpdateCourseRequest struct {
	Subject     *string  `json:"subject" validate:"omitempty,min=1"`
	Description *string  `json:"description"`
	HourlyRate  *float64 `json:"hourlyRate" validate:"omitempty,gte=0"`
}
