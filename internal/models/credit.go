package models

import "time"

// CreditBalance is a student's accumulated purchased driving time.
// The reconciler only ever increments it; consumption is handled by the
// scheduling collaborators.
type CreditBalance struct {
	StudentID string    `db:"student_id" json:"student_id"`
	Minutes   int       `db:"minutes" json:"minutes"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
