package models

import "time"

// ParentProfile holds the parent specific part of a user.
type ParentProfile struct {
	Children []Child `json:"children"`
}

// Child belongs to exactly one parent.
type Child struct {
	ID        string    `db:"id" json:"id"`
	ParentID  string    `db:"parent_id" json:"parent_id"`
	Name      string    `db:"name" json:"name"`
	Age       int       `db:"age" json:"age"`
	Grade     string    `db:"grade" json:"grade"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
