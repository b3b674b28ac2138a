package services

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/eunjoy-library/StudentTrackr/app/models"
)

// Default roster column headers, matching the student office's spreadsheet
const (
	defaultIDHeader   = "학번"
	defaultNameHeader = "이름"
	defaultSeatHeader = "공강좌석번호"
)

// ExcelRoster reads the student roster from an .xlsx file. The file is
// owned by the student office and re-read on every lookup so edits show up
// without a restart.
type ExcelRoster struct {
	Path       string
	IDHeader   string
	NameHeader string
	SeatHeader string
}

func NewExcelRoster(path string) *ExcelRoster {
	return &ExcelRoster{
		Path:       path,
		IDHeader:   defaultIDHeader,
		NameHeader: defaultNameHeader,
		SeatHeader: defaultSeatHeader,
	}
}

// Load reads the first sheet into a map keyed by student number. Rows with
// a blank student number or name are skipped.
func (r *ExcelRoster) Load() (map[string]*models.Student, error) {
	f, err := excelize.OpenFile(r.Path)
	if err != nil {
		return nil, fmt.Errorf("open roster %s: %w", r.Path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read roster sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return map[string]*models.Student{}, nil
	}

	idCol, nameCol, seatCol := -1, -1, -1
	for i, header := range rows[0] {
		switch strings.TrimSpace(header) {
		case r.IDHeader:
			idCol = i
		case r.NameHeader:
			nameCol = i
		case r.SeatHeader:
			seatCol = i
		}
	}
	if idCol < 0 || nameCol < 0 {
		return nil, fmt.Errorf("roster %s is missing the %q or %q column", r.Path, r.IDHeader, r.NameHeader)
	}

	students := make(map[string]*models.Student)
	for _, row := range rows[1:] {
		id := cellAt(row, idCol)
		name := cellAt(row, nameCol)
		if id == "" || name == "" {
			continue
		}
		students[id] = &models.Student{
			ID:   id,
			Name: name,
			Seat: cellAt(row, seatCol),
		}
	}
	return students, nil
}

// Lookup implements RosterSource
func (r *ExcelRoster) Lookup(studentID string) (*models.Student, error) {
	students, err := r.Load()
	if err != nil {
		return nil, err
	}
	return students[studentID], nil
}

func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
