package models

// Student is one roster entry. The roster is loaded read-only from the
// student spreadsheet and never mutated by this application.
type Student struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Seat string `json:"seat,omitempty"`
}
