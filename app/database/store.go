package database

import (
	"database/sql"
	"time"

	"github.com/eunjoy-library/StudentTrackr/app/models"
)

// Store adapts the query functions to the interfaces the check-in engine
// consumes, so the engine can be exercised against fakes in tests.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ListByStudent(studentID string) ([]*models.Attendance, error) {
	return GetAttendancesByStudent(s.db, studentID)
}

func (s *Store) ListRecent(studentID string, days int) ([]*models.Attendance, error) {
	return GetRecentAttendances(s.db, studentID, days)
}

func (s *Store) CountByPeriodAndDate(period string, day time.Time) (int, error) {
	return CountAttendanceByPeriodAndDate(s.db, period, day)
}

func (s *Store) Add(att *models.Attendance) (bool, error) {
	return AddAttendance(s.db, att)
}

func (s *Store) ActiveWarning(studentID string, now time.Time) (*models.Warning, error) {
	return GetActiveWarning(s.db, studentID, now)
}
