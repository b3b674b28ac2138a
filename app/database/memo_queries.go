package database

import (
	"database/sql"
	"time"

	"github.com/eunjoy-library/StudentTrackr/app/models"
)

// UpsertPeriodMemo saves the memo for one (date, period) pair, replacing any
// existing text for that pair.
func UpsertPeriodMemo(db *sql.DB, date time.Time, period, memoText string) error {
	query := `INSERT INTO period_memos (memo_date, period, memo_text)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (memo_date, period)
			  DO UPDATE SET memo_text = EXCLUDED.memo_text`

	_, err := db.Exec(query, date, period, memoText)
	return err
}

// GetPeriodMemo retrieves the memo text for a (date, period) pair.
// Missing memos come back as the empty string.
func GetPeriodMemo(db *sql.DB, date time.Time, period string) (string, error) {
	query := `SELECT memo_text FROM period_memos WHERE memo_date = $1 AND period = $2`

	var text string
	err := db.QueryRow(query, date, period).Scan(&text)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return text, err
}

// GetAllPeriodMemos retrieves every memo, newest date first
func GetAllPeriodMemos(db *sql.DB) ([]*models.PeriodMemo, error) {
	query := `SELECT id, memo_date, period, memo_text
			  FROM period_memos
			  ORDER BY memo_date DESC`

	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memos []*models.PeriodMemo
	for rows.Next() {
		m := &models.PeriodMemo{}
		if err := rows.Scan(&m.ID, &m.Date, &m.Period, &m.MemoText); err != nil {
			return nil, err
		}
		memos = append(memos, m)
	}
	return memos, rows.Err()
}
