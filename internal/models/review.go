package models

import "time"

// Review is an append-only rating left by a parent.
type Review struct {
	ID        string    `db:"id" json:"id"`
	ParentID  string    `db:"parent_id" json:"parent_id"`
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
	Rating    int       `db:"rating" json:"rating"`
	Comment   string    `db:"comment" json:"comment"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CreateReviewInput appends a review to a teacher.
type CreateReviewInput struct {
	ParentID  string `json:"parentId" validate:"required"`
	TeacherID string `json:"-"`
	Rating    int    `json:"rating" validate:"min=1,max=5"`
	Comment   string `json:"comment"`
}
