package models

import (
	"fmt"
	"strings"
)

// TeacherStatus is the vetting state of a teacher.
type TeacherStatus string

const (
	TeacherPending   TeacherStatus = "PENDING"
	TeacherActive    TeacherStatus = "ACTIVE"
	TeacherSuspended TeacherStatus = "SUSPENDED"
)

// TeacherStatuses lists the vetting states.
var TeacherStatuses = []TeacherStatus{TeacherPending, TeacherActive, TeacherSuspended}

// TeacherProfile holds the teacher specific part of a user.
type TeacherProfile struct {
	UserID            string        `db:"user_id" json:"-"`
	Subject           string        `db:"subject" json:"subject"`
	HourlyRate        float64       `db:"hourly_rate" json:"hourly_rate"`
	TeachingLocations Locations     `db:"teaching_locations" json:"teaching_locations"`
	Skills            string        `db:"skills" json:"skills"`
	Bio               string        `db:"bio" json:"bio"`
	CVURL             *string       `db:"cv_url" json:"cv_url,omitempty"`
	Status            TeacherStatus `db:"status" json:"status"`
	Rating            float64       `db:"rating" json:"rating"`

	Reviews []Review `db:"-" json:"reviews,omitempty"`
}

// TeacherSearch is the public marketplace filter. Nil or empty fields are not applied.
type TeacherSearch struct {
	Subject  string
	MinRate  *float64
	MaxRate  *float64
	Location *TeachingLocation
}

// CacheKey renders the normalised filter for the search result cache.
func (f TeacherSearch) CacheKey() string {
	var b strings.Builder
	b.WriteString("subject=")
	b.WriteString(strings.ToLower(strings.TrimSpace(f.Subject)))
	b.WriteString("|min=")
	if f.MinRate != nil {
		b.WriteString(fmt.Sprintf("%.2f", *f.MinRate))
	}
	b.WriteString("|max=")
	if f.MaxRate != nil {
		b.WriteString(fmt.Sprintf("%.2f", *f.MaxRate))
	}
	b.WriteString("|loc=")
	if f.Location != nil {
		b.WriteString(string(*f.Location))
	}
	return b.String()
}

// TeacherListFilter drives the admin teacher listing.
type TeacherListFilter struct {
	Status   *TeacherStatus
	Page     int
	PageSize int
}

// StatusCount is one row of a GROUP BY status aggregate.
type StatusCount struct {
	Status string `db:"status"`
	Count  int    `db:"count"`
}

// UpdateTeacherRequest is a partial profile update. Nil fields are left untouched;
// a non-empty location list replaces the stored set.
type UpdateTeacherRequest struct {
	FirstName         *string  `json:"firstName" validate:"omitempty,min=1"`
	LastName          *string  `json:"lastName" validate:"omitempty,min=1"`
	ProfilePicture    *string  `json:"profilePicture"`
	Subject           *string  `json:"subject" validate:"omitempty,min=1"`
	HourlyRate        *float64 `json:"hourlyRate" validate:"omitempty,gte=0"`
	TeachingLocations []string `json:"teachingLocations"`
	Skills            *string  `json:"skills"`
	Bio               *string  `json:"bio"`
	CVURL             *string  `json:"cvUrl"`
}
