package database

import (
	"database/sql"
	"time"

	"github.com/eunjoy-library/StudentTrackr/app/models"
)

// AddAttendance inserts a check-in record. A record for the same
// (student, period, day) already present is not an error: the insert is
// skipped and created is false.
func AddAttendance(db *sql.DB, att *models.Attendance) (created bool, err error) {
	query := `INSERT INTO attendances (student_id, name, seat, period, attended_on, attended_at)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  ON CONFLICT (student_id, period, attended_on) DO NOTHING
			  RETURNING id`

	err = db.QueryRow(query,
		att.StudentID, att.Name, att.Seat, att.Period, att.AttendedOn, att.AttendedAt,
	).Scan(&att.ID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetAttendancesByStudent retrieves all check-ins for a student, newest first
func GetAttendancesByStudent(db *sql.DB, studentID string) ([]*models.Attendance, error) {
	query := `SELECT id, student_id, name, seat, period, attended_on, attended_at
			  FROM attendances
			  WHERE student_id = $1
			  ORDER BY attended_at DESC`

	rows, err := db.Query(query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAttendances(rows)
}

// GetRecentAttendances retrieves a student's check-ins from the trailing
// N-day window, newest first
func GetRecentAttendances(db *sql.DB, studentID string, days int) ([]*models.Attendance, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	query := `SELECT id, student_id, name, seat, period, attended_on, attended_at
			  FROM attendances
			  WHERE student_id = $1 AND attended_at >= $2
			  ORDER BY attended_at DESC`

	rows, err := db.Query(query, studentID, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAttendances(rows)
}

// GetAllAttendances retrieves every check-in record, newest first
func GetAllAttendances(db *sql.DB) ([]*models.Attendance, error) {
	query := `SELECT id, student_id, name, seat, period, attended_on, attended_at
			  FROM attendances
			  ORDER BY attended_at DESC`

	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAttendances(rows)
}

// CountAttendanceByPeriodAndDate counts check-ins tagged with a period label on a given day
func CountAttendanceByPeriodAndDate(db *sql.DB, period string, day time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM attendances WHERE period = $1 AND attended_on = $2`

	var count int
	err := db.QueryRow(query, period, day).Scan(&count)
	return count, err
}

// DeleteAttendance removes a single record by id
func DeleteAttendance(db *sql.DB, id string) (bool, error) {
	res, err := db.Exec(`DELETE FROM attendances WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// DeleteAttendancesBefore removes all records older than the cutoff date
func DeleteAttendancesBefore(db *sql.DB, cutoff time.Time) (int64, error) {
	res, err := db.Exec(`DELETE FROM attendances WHERE attended_on < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// GetAttendanceCountsByName tallies check-ins per student name, most frequent first
func GetAttendanceCountsByName(db *sql.DB) ([]*models.NameCount, error) {
	query := `SELECT name, COUNT(*) AS cnt
			  FROM attendances
			  GROUP BY name
			  ORDER BY cnt DESC, name ASC`

	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []*models.NameCount
	for rows.Next() {
		nc := &models.NameCount{}
		if err := rows.Scan(&nc.Name, &nc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, nc)
	}
	return counts, rows.Err()
}

func scanAttendances(rows *sql.Rows) ([]*models.Attendance, error) {
	var records []*models.Attendance
	for rows.Next() {
		att := &models.Attendance{}
		err := rows.Scan(
			&att.ID, &att.StudentID, &att.Name, &att.Seat,
			&att.Period, &att.AttendedOn, &att.AttendedAt,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, att)
	}
	return records, rows.Err()
}
