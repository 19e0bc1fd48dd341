package models

import "time"

// Student represents a learner registered with the school.
type Student struct {
	ID         string    `db:"id" json:"id"`
	FullName   string    `db:"full_name" json:"full_name"`
	Email      string    `db:"email" json:"email"`
	City       string    `db:"city" json:"city"`
	PostalCode string    `db:"postal_code" json:"postal_code"`
	Active     bool      `db:"active" json:"active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// DepartmentCode derives the two-digit department from the postal code.
// A missing or short postal code yields "" which never matches a real
// department, so matching degrades to the lowest geographic tier.
func (s Student) DepartmentCode() string {
	if len(s.PostalCode) < 2 {
		return ""
	}
	return s.PostalCode[:2]
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
