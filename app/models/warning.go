package models

import "time"

// Warning represents a temporary library-usage ban for a student
type Warning struct {
	ID          string    `json:"id"`
	StudentID   string    `json:"student_id" validate:"required"`
	StudentName string    `json:"student_name" validate:"required"`
	WarnedAt    time.Time `json:"warned_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	Reason      string    `json:"reason,omitempty"`
	IsActive    bool      `json:"is_active"`
}

// InEffect reports whether the warning currently blocks check-in
func (w *Warning) InEffect(now time.Time) bool {
	return w.IsActive && w.ExpiresAt.After(now)
}
