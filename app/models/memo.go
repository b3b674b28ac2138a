package models

import "time"

// PeriodMemo is a free-text annotation for one (date, period) pair.
// At most one memo exists per pair; saves are upserts.
type PeriodMemo struct {
	ID       string    `json:"id"`
	Date     time.Time `json:"date"`
	Period   string    `json:"period"`
	MemoText string    `json:"memo"`
}
