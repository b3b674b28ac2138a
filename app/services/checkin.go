package services

import (
	"strings"
	"time"

	"github.com/eunjoy-library/StudentTrackr/app/models"
)

// AlwaysEligiblePrefix marks student numbers exempt from the weekly limit
// and from warnings (third-year students).
const AlwaysEligiblePrefix = "3"

// recentWindowDays bounds the listing the weekly-limit scan runs over. The
// week starts on Monday, so a trailing 7-day window always contains it.
const recentWindowDays = 7

// AttendanceStore is the slice of the persistence layer the engine reads
// and writes check-ins through.
type AttendanceStore interface {
	ListByStudent(studentID string) ([]*models.Attendance, error)
	// ListRecent returns the student's records from the trailing N-day
	// window, newest first.
	ListRecent(studentID string, days int) ([]*models.Attendance, error)
	CountByPeriodAndDate(period string, day time.Time) (int, error)
	// Add persists a record; created is false when the same
	// (student, period, day) row already exists.
	Add(att *models.Attendance) (created bool, err error)
}

// WarningStore looks up warnings currently in effect
type WarningStore interface {
	ActiveWarning(studentID string, now time.Time) (*models.Warning, error)
}

// RosterSource resolves student numbers against the external roster.
// Lookup returns (nil, nil) for unknown student numbers.
type RosterSource interface {
	Lookup(studentID string) (*models.Student, error)
}

// RejectReason classifies why a check-in was refused
type RejectReason string

const (
	RejectNone            RejectReason = ""
	RejectNoPeriod        RejectReason = "no_active_period"
	RejectCapacity        RejectReason = "capacity_exceeded"
	RejectUnknownStudent  RejectReason = "unknown_student"
	RejectNameMismatch    RejectReason = "name_mismatch"
	RejectAlreadyAttended RejectReason = "already_attended"
	RejectWarned          RejectReason = "warned"
)

// Eligibility is the outcome of the weekly-limit and warning checks
type Eligibility struct {
	Eligible        bool
	AlreadyAttended bool
	LastAttendedAt  *time.Time
	Warning         *models.Warning
}

// CheckinResult reports one attempted check-in
type CheckinResult struct {
	OK             bool
	Reason         RejectReason
	Student        *models.Student
	Period         int
	PeriodLabel    string
	Duplicate      bool
	Warning        *models.Warning
	LastAttendedAt *time.Time
}

// LookupResult backs the name/eligibility lookup API
type LookupResult struct {
	Student          *models.Student
	AlreadyAttended  bool
	LastAttendedAt   *time.Time
	Warning          *models.Warning
	CapacityExceeded bool
}

// CheckinService applies the check-in rules over the stores
type CheckinService struct {
	store    AttendanceStore
	warnings WarningStore
	roster   RosterSource
	now      func() time.Time
}

func NewCheckinService(store AttendanceStore, warnings WarningStore, roster RosterSource) *CheckinService {
	return &CheckinService{store: store, warnings: warnings, roster: roster, now: time.Now}
}

// Default is the service wired against the live database, set in main
var Default *CheckinService

// WeekStart returns Monday 00:00 of the week containing t, in t's location
func WeekStart(t time.Time) time.Time {
	days := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -days)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
}

// DateOf truncates t to its calendar date (midnight, same location)
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// NameMatches compares names ignoring all spaces
func NameMatches(rosterName, givenName string) bool {
	strip := func(s string) string { return strings.ReplaceAll(s, " ", "") }
	return strip(rosterName) == strip(givenName)
}

// CheckEligibility applies the ordered eligibility rules: override, the
// always-eligible prefix, an active warning, then the Mon-Fri weekly limit.
// The most recent prior attendance is reported regardless of outcome.
func (s *CheckinService) CheckEligibility(studentID string, override bool) (*Eligibility, error) {
	now := s.now()

	if override || strings.HasPrefix(studentID, AlwaysEligiblePrefix) {
		return &Eligibility{Eligible: true}, nil
	}

	warning, err := s.warnings.ActiveWarning(studentID, now)
	if err != nil {
		return nil, err
	}
	if warning != nil {
		return &Eligibility{Eligible: false, Warning: warning}, nil
	}

	// The weekly count only needs the trailing window; the last visit is
	// taken from the full history so old dates still display.
	recent, err := s.store.ListRecent(studentID, recentWindowDays)
	if err != nil {
		return nil, err
	}
	records, err := s.store.ListByStudent(studentID)
	if err != nil {
		return nil, err
	}

	monday := WeekStart(now)
	weeklyCount := 0
	for _, r := range recent {
		wd := r.AttendedAt.Weekday()
		if !r.AttendedAt.Before(monday) && wd != time.Saturday && wd != time.Sunday {
			weeklyCount++
		}
	}

	var last *time.Time
	for _, r := range records {
		if last == nil || r.AttendedAt.After(*last) {
			t := r.AttendedAt
			last = &t
		}
	}

	return &Eligibility{
		Eligible:        weeklyCount < 1,
		AlreadyAttended: weeklyCount >= 1,
		LastAttendedAt:  last,
	}, nil
}

// PeriodFull reports whether today's record count for the period has
// reached capacity.
func (s *CheckinService) PeriodFull(period int) (bool, error) {
	if period == 0 {
		return false, nil
	}
	count, err := s.store.CountByPeriodAndDate(PeriodLabel(period), DateOf(s.now()))
	if err != nil {
		return false, err
	}
	return count >= MaxCapacity, nil
}

// Submit handles a student-initiated check-in: active period, capacity,
// roster validation, eligibility, then persist.
func (s *CheckinService) Submit(studentID, name string) (*CheckinResult, error) {
	period := CurrentPeriod(s.now())
	if period == 0 {
		return &CheckinResult{Reason: RejectNoPeriod}, nil
	}

	full, err := s.PeriodFull(period)
	if err != nil {
		return nil, err
	}
	if full {
		return &CheckinResult{Reason: RejectCapacity, Period: period}, nil
	}

	return s.record(period, studentID, name, false)
}

// AdminAdd handles an administrator-initiated check-in. Capacity is not
// gated here; override additionally skips the eligibility checks. Outside
// class periods the record is stored with the out-of-period label.
func (s *CheckinService) AdminAdd(studentID, name string, override bool) (*CheckinResult, error) {
	return s.record(CurrentPeriod(s.now()), studentID, name, override)
}

func (s *CheckinService) record(period int, studentID, name string, override bool) (*CheckinResult, error) {
	student, err := s.roster.Lookup(studentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return &CheckinResult{Reason: RejectUnknownStudent, Period: period}, nil
	}
	if !NameMatches(student.Name, name) {
		return &CheckinResult{Reason: RejectNameMismatch, Period: period, Student: student}, nil
	}

	elig, err := s.CheckEligibility(studentID, override)
	if err != nil {
		return nil, err
	}
	if !elig.Eligible {
		reason := RejectAlreadyAttended
		if elig.Warning != nil {
			reason = RejectWarned
		}
		return &CheckinResult{
			Reason:         reason,
			Period:         period,
			Student:        student,
			Warning:        elig.Warning,
			LastAttendedAt: elig.LastAttendedAt,
		}, nil
	}

	now := s.now()
	att := &models.Attendance{
		StudentID:  studentID,
		Name:       student.Name,
		Seat:       student.Seat,
		Period:     PeriodLabel(period),
		AttendedOn: DateOf(now),
		AttendedAt: now,
	}
	created, err := s.store.Add(att)
	if err != nil {
		return nil, err
	}

	return &CheckinResult{
		OK:             true,
		Period:         period,
		PeriodLabel:    att.Period,
		Student:        student,
		Duplicate:      !created,
		LastAttendedAt: elig.LastAttendedAt,
	}, nil
}

// Lookup resolves a student number for display: roster entry, weekly-limit
// and warning state, and whether the current period is already full.
// Returns (nil, nil) for unknown student numbers.
func (s *CheckinService) Lookup(studentID string) (*LookupResult, error) {
	student, err := s.roster.Lookup(studentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, nil
	}

	elig, err := s.CheckEligibility(studentID, false)
	if err != nil {
		return nil, err
	}

	full := false
	if period := CurrentPeriod(s.now()); period > 0 {
		if full, err = s.PeriodFull(period); err != nil {
			return nil, err
		}
	}

	return &LookupResult{
		Student:          student,
		AlreadyAttended:  elig.AlreadyAttended,
		LastAttendedAt:   elig.LastAttendedAt,
		Warning:          elig.Warning,
		CapacityExceeded: full,
	}, nil
}
