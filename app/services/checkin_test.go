package services

import (
	"testing"
	"time"

	"github.com/eunjoy-library/StudentTrackr/app/models"
)

// Week of Monday 2024-01-01, used throughout these tests.
var (
	monday  = time.Date(2024, 1, 1, 10, 0, 0, 0, kst)
	tuesday = time.Date(2024, 1, 2, 9, 30, 0, 0, kst) // period 2
)

type fakeStore struct {
	records []*models.Attendance
	now     time.Time
	// extra pre-seeded counts per "period|date" key
	preset map[string]int
}

func (f *fakeStore) ListByStudent(studentID string) ([]*models.Attendance, error) {
	var out []*models.Attendance
	for _, r := range f.records {
		if r.StudentID == studentID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) ListRecent(studentID string, days int) ([]*models.Attendance, error) {
	cutoff := f.now.AddDate(0, 0, -days)
	var out []*models.Attendance
	for _, r := range f.records {
		if r.StudentID == studentID && !r.AttendedAt.Before(cutoff) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) CountByPeriodAndDate(period string, day time.Time) (int, error) {
	n := f.preset[period+"|"+day.Format("2006-01-02")]
	for _, r := range f.records {
		if r.Period == period && r.AttendedOn.Equal(day) {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) Add(att *models.Attendance) (bool, error) {
	for _, r := range f.records {
		if r.StudentID == att.StudentID && r.Period == att.Period && r.AttendedOn.Equal(att.AttendedOn) {
			return false, nil
		}
	}
	f.records = append(f.records, att)
	return true, nil
}

type fakeWarnings struct {
	warnings map[string]*models.Warning
}

func (f *fakeWarnings) ActiveWarning(studentID string, now time.Time) (*models.Warning, error) {
	if w, ok := f.warnings[studentID]; ok && w.InEffect(now) {
		return w, nil
	}
	return nil, nil
}

type fakeRoster map[string]*models.Student

func (f fakeRoster) Lookup(studentID string) (*models.Student, error) {
	return f[studentID], nil
}

func testRoster() fakeRoster {
	return fakeRoster{
		"2310": {ID: "2310", Name: "Kim", Seat: "A12"},
		"2415": {ID: "2415", Name: "Lee Min Jun", Seat: "B03"},
		"3101": {ID: "3101", Name: "Park", Seat: "C07"},
	}
}

func newTestService(now time.Time, store *fakeStore, warnings *fakeWarnings) *CheckinService {
	store.now = now
	if store.preset == nil {
		store.preset = map[string]int{}
	}
	if warnings == nil {
		warnings = &fakeWarnings{warnings: map[string]*models.Warning{}}
	}
	s := NewCheckinService(store, warnings, testRoster())
	s.now = func() time.Time { return now }
	return s
}

func record(studentID string, attendedAt time.Time, period string) *models.Attendance {
	return &models.Attendance{
		StudentID:  studentID,
		Name:       "Kim",
		Period:     period,
		AttendedOn: DateOf(attendedAt),
		AttendedAt: attendedAt,
	}
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want time.Time
	}{
		{"monday maps to itself", monday, time.Date(2024, 1, 1, 0, 0, 0, 0, kst)},
		{"wednesday maps back", time.Date(2024, 1, 3, 15, 0, 0, 0, kst), time.Date(2024, 1, 1, 0, 0, 0, 0, kst)},
		{"sunday maps to preceding monday", time.Date(2024, 1, 7, 23, 59, 0, 0, kst), time.Date(2024, 1, 1, 0, 0, 0, 0, kst)},
		{"next monday starts a new week", time.Date(2024, 1, 8, 0, 0, 1, 0, kst), time.Date(2024, 1, 8, 0, 0, 0, 0, kst)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeekStart(tt.t); !got.Equal(tt.want) {
				t.Errorf("WeekStart(%s) = %s, want %s", tt.t, got, tt.want)
			}
		})
	}
}

func TestNameMatches(t *testing.T) {
	tests := []struct {
		roster, given string
		want          bool
	}{
		{"Kim", "Kim", true},
		{"Lee Min Jun", "LeeMinJun", true},
		{"Lee Min Jun", "Lee  Min Jun", true},
		{"Kim", "Lee", false},
		{"Kim", "", false},
	}

	for _, tt := range tests {
		if got := NameMatches(tt.roster, tt.given); got != tt.want {
			t.Errorf("NameMatches(%q, %q) = %v, want %v", tt.roster, tt.given, got, tt.want)
		}
	}
}

func TestSubmitSuccess(t *testing.T) {
	store := &fakeStore{}
	s := newTestService(tuesday, store, nil)

	res, err := s.Submit("2310", "Kim")
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if !res.OK {
		t.Fatalf("Submit rejected: reason=%q", res.Reason)
	}
	if res.PeriodLabel != "2교시" {
		t.Errorf("PeriodLabel = %q, want %q", res.PeriodLabel, "2교시")
	}
	if res.Student.Seat != "A12" {
		t.Errorf("Seat = %q, want %q", res.Student.Seat, "A12")
	}
	if res.Duplicate {
		t.Error("first check-in marked as duplicate")
	}
	if len(store.records) != 1 {
		t.Fatalf("store has %d records, want 1", len(store.records))
	}
	if got := store.records[0].AttendedOn; !got.Equal(DateOf(tuesday)) {
		t.Errorf("AttendedOn = %s, want %s", got, DateOf(tuesday))
	}
}

func TestSubmitOutsidePeriods(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
	}{
		{"evening", time.Date(2024, 1, 2, 16, 30, 0, 0, kst)},
		{"reserved lunch period", time.Date(2024, 1, 2, 12, 10, 0, 0, kst)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			s := newTestService(tt.now, store, nil)

			res, err := s.Submit("2310", "Kim")
			if err != nil {
				t.Fatalf("Submit returned error: %v", err)
			}
			if res.OK || res.Reason != RejectNoPeriod {
				t.Errorf("got OK=%v reason=%q, want rejection %q", res.OK, res.Reason, RejectNoPeriod)
			}
			if len(store.records) != 0 {
				t.Errorf("store has %d records, want 0", len(store.records))
			}
		})
	}
}

func TestSubmitCapacity(t *testing.T) {
	store := &fakeStore{preset: map[string]int{
		"2교시|" + tuesday.Format("2006-01-02"): MaxCapacity,
	}}
	s := newTestService(tuesday, store, nil)

	res, err := s.Submit("2310", "Kim")
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if res.OK || res.Reason != RejectCapacity {
		t.Errorf("got OK=%v reason=%q, want rejection %q", res.OK, res.Reason, RejectCapacity)
	}
	if len(store.records) != 0 {
		t.Errorf("store has %d records, want 0", len(store.records))
	}
}

func TestSubmitOneBelowCapacity(t *testing.T) {
	store := &fakeStore{preset: map[string]int{
		"2교시|" + tuesday.Format("2006-01-02"): MaxCapacity - 1,
	}}
	s := newTestService(tuesday, store, nil)

	res, err := s.Submit("2310", "Kim")
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if !res.OK {
		t.Errorf("Submit rejected at %d seats: reason=%q", MaxCapacity-1, res.Reason)
	}
}

func TestSubmitRosterValidation(t *testing.T) {
	tests := []struct {
		name      string
		studentID string
		given     string
		wantOK    bool
		want      RejectReason
	}{
		{"unknown student number", "9999", "Kim", false, RejectUnknownStudent},
		{"name mismatch", "2310", "Lee", false, RejectNameMismatch},
		{"spaces ignored in names", "2415", "LeeMinJun", true, RejectNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestService(tuesday, &fakeStore{}, nil)

			res, err := s.Submit(tt.studentID, tt.given)
			if err != nil {
				t.Fatalf("Submit returned error: %v", err)
			}
			if res.OK != tt.wantOK || res.Reason != tt.want {
				t.Errorf("got OK=%v reason=%q, want OK=%v reason=%q", res.OK, res.Reason, tt.wantOK, tt.want)
			}
		})
	}
}

func TestSubmitWeeklyLimit(t *testing.T) {
	t.Run("same-week record blocks", func(t *testing.T) {
		store := &fakeStore{records: []*models.Attendance{record("2310", monday, "3교시")}}
		s := newTestService(tuesday, store, nil)

		res, err := s.Submit("2310", "Kim")
		if err != nil {
			t.Fatalf("Submit returned error: %v", err)
		}
		if res.OK || res.Reason != RejectAlreadyAttended {
			t.Errorf("got OK=%v reason=%q, want rejection %q", res.OK, res.Reason, RejectAlreadyAttended)
		}
		if res.LastAttendedAt == nil || !res.LastAttendedAt.Equal(monday) {
			t.Errorf("LastAttendedAt = %v, want %s", res.LastAttendedAt, monday)
		}
	})

	t.Run("previous-week record does not block", func(t *testing.T) {
		prevMonday := time.Date(2023, 12, 25, 10, 0, 0, 0, kst)
		store := &fakeStore{records: []*models.Attendance{record("2310", prevMonday, "3교시")}}
		s := newTestService(tuesday, store, nil)

		res, err := s.Submit("2310", "Kim")
		if err != nil {
			t.Fatalf("Submit returned error: %v", err)
		}
		if !res.OK {
			t.Errorf("Submit rejected: reason=%q", res.Reason)
		}
	})

	t.Run("weekend record does not count", func(t *testing.T) {
		saturday := time.Date(2024, 1, 6, 10, 0, 0, 0, kst)
		sunday := time.Date(2024, 1, 7, 9, 30, 0, 0, kst)
		store := &fakeStore{records: []*models.Attendance{record("2310", saturday, "시간 외")}}
		s := newTestService(sunday, store, nil)

		res, err := s.Submit("2310", "Kim")
		if err != nil {
			t.Fatalf("Submit returned error: %v", err)
		}
		if !res.OK {
			t.Errorf("Submit rejected: reason=%q", res.Reason)
		}
	})

	t.Run("third-year prefix bypasses the limit", func(t *testing.T) {
		store := &fakeStore{records: []*models.Attendance{record("3101", monday, "3교시")}}
		s := newTestService(tuesday, store, nil)

		res, err := s.Submit("3101", "Park")
		if err != nil {
			t.Fatalf("Submit returned error: %v", err)
		}
		if !res.OK {
			t.Errorf("Submit rejected: reason=%q", res.Reason)
		}
	})
}

func TestCheckEligibilityRecentWindow(t *testing.T) {
	t.Run("last week's visit inside the window does not count", func(t *testing.T) {
		// Friday 2023-12-29 is within 7 days of Tuesday 2024-01-02 but
		// before that week's Monday.
		friday := time.Date(2023, 12, 29, 10, 0, 0, 0, kst)
		store := &fakeStore{records: []*models.Attendance{record("2310", friday, "2교시")}}
		s := newTestService(tuesday, store, nil)

		elig, err := s.CheckEligibility("2310", false)
		if err != nil {
			t.Fatalf("CheckEligibility returned error: %v", err)
		}
		if !elig.Eligible || elig.AlreadyAttended {
			t.Errorf("got Eligible=%v AlreadyAttended=%v, want eligible", elig.Eligible, elig.AlreadyAttended)
		}
		if elig.LastAttendedAt == nil || !elig.LastAttendedAt.Equal(friday) {
			t.Errorf("LastAttendedAt = %v, want %s", elig.LastAttendedAt, friday)
		}
	})

	t.Run("old visit outside the window is still reported", func(t *testing.T) {
		old := time.Date(2023, 12, 4, 10, 0, 0, 0, kst)
		store := &fakeStore{records: []*models.Attendance{record("2310", old, "1교시")}}
		s := newTestService(tuesday, store, nil)

		elig, err := s.CheckEligibility("2310", false)
		if err != nil {
			t.Fatalf("CheckEligibility returned error: %v", err)
		}
		if !elig.Eligible {
			t.Errorf("got Eligible=false, want eligible")
		}
		if elig.LastAttendedAt == nil || !elig.LastAttendedAt.Equal(old) {
			t.Errorf("LastAttendedAt = %v, want %s", elig.LastAttendedAt, old)
		}
	})
}

func TestSubmitWarned(t *testing.T) {
	warning := &models.Warning{
		StudentID:   "2310",
		StudentName: "Kim",
		WarnedAt:    monday,
		ExpiresAt:   tuesday.AddDate(0, 0, 7),
		Reason:      "noise",
		IsActive:    true,
	}

	t.Run("active warning blocks", func(t *testing.T) {
		warnings := &fakeWarnings{warnings: map[string]*models.Warning{"2310": warning}}
		s := newTestService(tuesday, &fakeStore{}, warnings)

		res, err := s.Submit("2310", "Kim")
		if err != nil {
			t.Fatalf("Submit returned error: %v", err)
		}
		if res.OK || res.Reason != RejectWarned {
			t.Errorf("got OK=%v reason=%q, want rejection %q", res.OK, res.Reason, RejectWarned)
		}
		if res.Warning == nil || res.Warning.Reason != "noise" {
			t.Errorf("Warning = %+v, want the blocking warning", res.Warning)
		}
	})

	t.Run("expired warning does not block", func(t *testing.T) {
		expired := *warning
		expired.ExpiresAt = tuesday.AddDate(0, 0, -1)
		warnings := &fakeWarnings{warnings: map[string]*models.Warning{"2310": &expired}}
		s := newTestService(tuesday, &fakeStore{}, warnings)

		res, err := s.Submit("2310", "Kim")
		if err != nil {
			t.Fatalf("Submit returned error: %v", err)
		}
		if !res.OK {
			t.Errorf("Submit rejected: reason=%q", res.Reason)
		}
	})

	t.Run("lifted warning does not block", func(t *testing.T) {
		lifted := *warning
		lifted.IsActive = false
		warnings := &fakeWarnings{warnings: map[string]*models.Warning{"2310": &lifted}}
		s := newTestService(tuesday, &fakeStore{}, warnings)

		res, err := s.Submit("2310", "Kim")
		if err != nil {
			t.Fatalf("Submit returned error: %v", err)
		}
		if !res.OK {
			t.Errorf("Submit rejected: reason=%q", res.Reason)
		}
	})

	t.Run("admin override bypasses warning", func(t *testing.T) {
		warnings := &fakeWarnings{warnings: map[string]*models.Warning{"2310": warning}}
		s := newTestService(tuesday, &fakeStore{}, warnings)

		res, err := s.AdminAdd("2310", "Kim", true)
		if err != nil {
			t.Fatalf("AdminAdd returned error: %v", err)
		}
		if !res.OK {
			t.Errorf("AdminAdd rejected: reason=%q", res.Reason)
		}
	})
}

func TestSubmitDuplicateSamePeriod(t *testing.T) {
	store := &fakeStore{}
	s := newTestService(tuesday, store, nil)

	first, err := s.Submit("3101", "Park")
	if err != nil {
		t.Fatalf("first Submit returned error: %v", err)
	}
	if !first.OK || first.Duplicate {
		t.Fatalf("first Submit: OK=%v Duplicate=%v", first.OK, first.Duplicate)
	}

	second, err := s.Submit("3101", "Park")
	if err != nil {
		t.Fatalf("second Submit returned error: %v", err)
	}
	if !second.OK || !second.Duplicate {
		t.Errorf("second Submit: OK=%v Duplicate=%v, want OK and duplicate", second.OK, second.Duplicate)
	}
	if len(store.records) != 1 {
		t.Errorf("store has %d records, want 1", len(store.records))
	}
}

func TestAdminAddOutOfPeriod(t *testing.T) {
	evening := time.Date(2024, 1, 2, 18, 0, 0, 0, kst)
	store := &fakeStore{}
	s := newTestService(evening, store, nil)

	res, err := s.AdminAdd("2310", "Kim", false)
	if err != nil {
		t.Fatalf("AdminAdd returned error: %v", err)
	}
	if !res.OK {
		t.Fatalf("AdminAdd rejected: reason=%q", res.Reason)
	}
	if res.PeriodLabel != "시간 외" {
		t.Errorf("PeriodLabel = %q, want %q", res.PeriodLabel, "시간 외")
	}
}

func TestLookup(t *testing.T) {
	t.Run("unknown student", func(t *testing.T) {
		s := newTestService(tuesday, &fakeStore{}, nil)

		res, err := s.Lookup("9999")
		if err != nil {
			t.Fatalf("Lookup returned error: %v", err)
		}
		if res != nil {
			t.Errorf("Lookup = %+v, want nil", res)
		}
	})

	t.Run("known student with prior visit", func(t *testing.T) {
		store := &fakeStore{records: []*models.Attendance{record("2310", monday, "3교시")}}
		s := newTestService(tuesday, store, nil)

		res, err := s.Lookup("2310")
		if err != nil {
			t.Fatalf("Lookup returned error: %v", err)
		}
		if res == nil {
			t.Fatal("Lookup returned nil for a roster student")
		}
		if res.Student.Name != "Kim" || res.Student.Seat != "A12" {
			t.Errorf("Student = %+v", res.Student)
		}
		if !res.AlreadyAttended {
			t.Error("AlreadyAttended = false, want true")
		}
		if res.LastAttendedAt == nil || !res.LastAttendedAt.Equal(monday) {
			t.Errorf("LastAttendedAt = %v, want %s", res.LastAttendedAt, monday)
		}
	})

	t.Run("full period reported", func(t *testing.T) {
		store := &fakeStore{preset: map[string]int{
			"2교시|" + tuesday.Format("2006-01-02"): MaxCapacity,
		}}
		s := newTestService(tuesday, store, nil)

		res, err := s.Lookup("2310")
		if err != nil {
			t.Fatalf("Lookup returned error: %v", err)
		}
		if !res.CapacityExceeded {
			t.Error("CapacityExceeded = false, want true")
		}
	})
}
