package models

import "time"

// Attendance represents a single library check-in
type Attendance struct {
	ID         string    `json:"id"`
	StudentID  string    `json:"student_id" validate:"required"`
	Name       string    `json:"name" validate:"required"`
	Seat       string    `json:"seat,omitempty"`
	Period     string    `json:"period"`
	AttendedOn time.Time `json:"attended_on"`
	AttendedAt time.Time `json:"attended_at"`
}

// NameCount is a per-student attendance tally used by the stats view
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
