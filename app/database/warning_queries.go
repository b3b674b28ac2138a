package database

import (
	"database/sql"
	"time"

	"github.com/eunjoy-library/StudentTrackr/app/models"
)

// GetActiveWarning retrieves a student's warning that is active and not yet
// expired. Returns (nil, nil) when the student has no warning in effect.
func GetActiveWarning(db *sql.DB, studentID string, now time.Time) (*models.Warning, error) {
	query := `SELECT id, student_id, student_name, warned_at, expires_at, reason, is_active
			  FROM warnings
			  WHERE student_id = $1 AND is_active = TRUE AND expires_at > $2
			  ORDER BY expires_at DESC
			  LIMIT 1`

	w := &models.Warning{}
	err := db.QueryRow(query, studentID, now).Scan(
		&w.ID, &w.StudentID, &w.StudentName, &w.WarnedAt, &w.ExpiresAt, &w.Reason, &w.IsActive,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

// GetAllWarnings retrieves every warning, newest first
func GetAllWarnings(db *sql.DB) ([]*models.Warning, error) {
	query := `SELECT id, student_id, student_name, warned_at, expires_at, reason, is_active
			  FROM warnings
			  ORDER BY warned_at DESC`

	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var warnings []*models.Warning
	for rows.Next() {
		w := &models.Warning{}
		err := rows.Scan(
			&w.ID, &w.StudentID, &w.StudentName, &w.WarnedAt, &w.ExpiresAt, &w.Reason, &w.IsActive,
		)
		if err != nil {
			return nil, err
		}
		warnings = append(warnings, w)
	}
	return warnings, rows.Err()
}

// AddWarning inserts a new active warning
func AddWarning(db *sql.DB, w *models.Warning) error {
	query := `INSERT INTO warnings (student_id, student_name, warned_at, expires_at, reason, is_active)
			  VALUES ($1, $2, $3, $4, $5, TRUE)
			  RETURNING id`

	return db.QueryRow(query, w.StudentID, w.StudentName, w.WarnedAt, w.ExpiresAt, w.Reason).Scan(&w.ID)
}

// DeactivateWarning lifts a warning without deleting its record
func DeactivateWarning(db *sql.DB, id string) (bool, error) {
	res, err := db.Exec(`UPDATE warnings SET is_active = FALSE WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// DeactivateExpiredWarnings flips off every active warning whose expiry has passed
func DeactivateExpiredWarnings(db *sql.DB, now time.Time) (int64, error) {
	res, err := db.Exec(`UPDATE warnings SET is_active = FALSE WHERE is_active = TRUE AND expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteWarning removes a warning record entirely
func DeleteWarning(db *sql.DB, id string) (bool, error) {
	res, err := db.Exec(`DELETE FROM warnings WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// DeleteAllWarnings removes every warning record
func DeleteAllWarnings(db *sql.DB) error {
	_, err := db.Exec(`DELETE FROM warnings`)
	return err
}
