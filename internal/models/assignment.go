package models

import "time"

// AssignmentReason records how an assignment came to be.
type AssignmentReason string

// Assignment reasons. Manual overrides carry a free-form admin comment.
const (
	AssignmentReasonAuto   AssignmentReason = "AUTO"
	AssignmentReasonManual AssignmentReason = "MANUAL"
)

// Assignment binds one student to one instructor for one course type.
// At most one assignment per (student, course type) is active at a time;
// replacing it deactivates the prior row in the same transaction.
type Assignment struct {
	ID           string           `db:"id" json:"id"`
	StudentID    string           `db:"student_id" json:"student_id"`
	InstructorID string           `db:"instructor_id" json:"instructor_id"`
	CourseType   string           `db:"course_type" json:"course_type"`
	Reason       AssignmentReason `db:"reason" json:"reason"`
	Comment      *string          `db:"comment" json:"comment,omitempty"`
	IsActive     bool             `db:"is_active" json:"is_active"`
	CreatedAt    time.Time        `db:"created_at" json:"created_at"`
	EndDate      *time.Time       `db:"end_date" json:"end_date,omitempty"`
}

// InstructorLoad pairs an instructor id with its active assignment count.
type InstructorLoad struct {
	InstructorID string `db:"instructor_id"`
	ActiveCount  int    `db:"active_count"`
}
