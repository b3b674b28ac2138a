package services

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeRosterFile(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("CoordinatesToCellName: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}

	path := filepath.Join(t.TempDir(), "roster.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	return path
}

func TestExcelRosterLoad(t *testing.T) {
	path := writeRosterFile(t, [][]interface{}{
		{"학번", "이름", "공강좌석번호"},
		{"2310", "Kim", "A12"},
		{"2415", "Lee Min Jun", "B03"},
		{"", "No Number", "C01"},
		{"2599", "", "C02"},
	})

	roster := NewExcelRoster(path)
	students, err := roster.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(students) != 2 {
		t.Fatalf("Load returned %d students, want 2", len(students))
	}

	kim := students["2310"]
	if kim == nil || kim.Name != "Kim" || kim.Seat != "A12" {
		t.Errorf("students[2310] = %+v", kim)
	}
}

func TestExcelRosterLookup(t *testing.T) {
	path := writeRosterFile(t, [][]interface{}{
		{"학번", "이름", "공강좌석번호"},
		{"2310", "Kim", "A12"},
	})
	roster := NewExcelRoster(path)

	student, err := roster.Lookup("2310")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if student == nil || student.Name != "Kim" {
		t.Errorf("Lookup(2310) = %+v", student)
	}

	missing, err := roster.Lookup("9999")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if missing != nil {
		t.Errorf("Lookup(9999) = %+v, want nil", missing)
	}
}

func TestExcelRosterMissingColumns(t *testing.T) {
	path := writeRosterFile(t, [][]interface{}{
		{"학번", "좌석"},
		{"2310", "A12"},
	})
	roster := NewExcelRoster(path)

	if _, err := roster.Load(); err == nil {
		t.Error("Load succeeded on a roster without a name column")
	}
}

func TestExcelRosterMissingFile(t *testing.T) {
	roster := NewExcelRoster(filepath.Join(t.TempDir(), "absent.xlsx"))
	if _, err := roster.Load(); err == nil {
		t.Error("Load succeeded on a missing file")
	}
}
