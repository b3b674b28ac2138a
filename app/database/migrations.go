package database

import (
	"database/sql"
	"log"
)

// RunMigrations checks and applies necessary schema updates
func RunMigrations(db *sql.DB) error {
	log.Println("Running database migrations...")

	if err := createAttendancesTable(db); err != nil {
		return err
	}
	if err := createPeriodMemosTable(db); err != nil {
		return err
	}
	if err := createWarningsTable(db); err != nil {
		return err
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createAttendancesTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS attendances (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			student_id VARCHAR(20) NOT NULL,
			name VARCHAR(50) NOT NULL,
			seat VARCHAR(20) NOT NULL DEFAULT '',
			period VARCHAR(20) NOT NULL,
			attended_on DATE NOT NULL,
			attended_at TIMESTAMP NOT NULL,
			UNIQUE (student_id, period, attended_on)
		);
		CREATE INDEX IF NOT EXISTS idx_attendances_student ON attendances (student_id);
		CREATE INDEX IF NOT EXISTS idx_attendances_date ON attendances (attended_on);
	`
	if _, err := db.Exec(query); err != nil {
		log.Printf("Failed to run migration for attendances table: %v", err)
		return err
	}
	return nil
}

func createPeriodMemosTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS period_memos (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			memo_date DATE NOT NULL,
			period VARCHAR(20) NOT NULL,
			memo_text TEXT NOT NULL DEFAULT '',
			UNIQUE (memo_date, period)
		);
	`
	if _, err := db.Exec(query); err != nil {
		log.Printf("Failed to run migration for period_memos table: %v", err)
		return err
	}
	return nil
}

func createWarningsTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS warnings (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			student_id VARCHAR(20) NOT NULL,
			student_name VARCHAR(100) NOT NULL,
			warned_at TIMESTAMP NOT NULL DEFAULT NOW(),
			expires_at TIMESTAMP NOT NULL,
			reason TEXT NOT NULL DEFAULT '',
			is_active BOOLEAN NOT NULL DEFAULT TRUE
		);
		CREATE INDEX IF NOT EXISTS idx_warnings_student ON warnings (student_id);
	`
	if _, err := db.Exec(query); err != nil {
		log.Printf("Failed to run migration for warnings table: %v", err)
		return err
	}
	return nil
}
