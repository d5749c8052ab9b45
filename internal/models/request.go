package models

import "time"

// RequestStatus tracks a parent's booking request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestRejected RequestStatus = "REJECTED"
)

// RequestStatuses lists the request states.
var RequestStatuses = []RequestStatus{RequestPending, RequestApproved, RequestRejected}

// Request is a parent asking a teacher for a course. Parent, teacher and course never change.
type Request struct {
	ID        string        `db:"id" json:"id"`
	ParentID  string        `db:"parent_id" json:"parent_id"`
	TeacherID string        `db:"teacher_id" json:"teacher_id"`
	CourseID  string        `db:"course_id" json:"course_id"`
	Status    RequestStatus `db:"status" json:"status"`
	Message   string        `db:"message" json:"message"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}

// RequestFilter narrows request listings. Empty fields are ignored.
type RequestFilter struct {
	ParentID  string
	TeacherID string
	Status    *RequestStatus
}

// CreateRequestInput is a parent's booking request.
type CreateRequestInput struct {
	ParentID  string `json:"parentId" validate:"required"`
	TeacherID string `json:"teacherId" validate:"required"`
	CourseID  string `json:"courseId" validate:"required"`
	Message   string `json:"message"`
}

// StatusUpdateRequest carries a status label for any workflow entity.
type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
}
