package models

import "time"

// AppointmentStatus tracks a scheduled lesson.
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "SCHEDULED"
	AppointmentCompleted AppointmentStatus = "COMPLETED"
	AppointmentCancelled AppointmentStatus = "CANCELLED"
)

// AppointmentStatuses lists the appointment states.
var AppointmentStatuses = []AppointmentStatus{AppointmentScheduled, AppointmentCompleted, AppointmentCancelled}

// Appointment is a lesson promoted from a request. Parent and teacher are copied at creation.
type Appointment struct {
	ID        string            `db:"id" json:"id"`
	RequestID string            `db:"request_id" json:"request_id"`
	ParentID  string            `db:"parent_id" json:"parent_id"`
	TeacherID string            `db:"teacher_id" json:"teacher_id"`
	Date      time.Time         `db:"date" json:"date"`
	StartTime string            `db:"start_time" json:"start_time"`
	EndTime   string            `db:"end_time" json:"end_time"`
	Location  TeachingLocation  `db:"location" json:"location"`
	Status    AppointmentStatus `db:"status" json:"status"`
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt time.Time         `db:"updated_at" json:"updated_at"`
}

// AppointmentFilter narrows appointment listings. Empty fields are ignored.
type AppointmentFilter struct {
	ParentID  string
	TeacherID string
}

// PromoteRequestInput schedules an appointment from a request. Location is the display label.
type PromoteRequestInput struct {
	RequestID string `json:"requestId" validate:"required"`
	Date      string `json:"date" validate:"required"`
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`
	Location  string `json:"location" validate:"required"`
}
