package records

import (
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/eunjoy-library/StudentTrackr/app/config"
	"github.com/eunjoy-library/StudentTrackr/app/database"
	"github.com/eunjoy-library/StudentTrackr/app/models"
	"github.com/eunjoy-library/StudentTrackr/app/routes/auth"
	"github.com/eunjoy-library/StudentTrackr/app/services"
)

func SetupRecordsRoutes(app *fiber.App) {
	gate := auth.AdminMiddleware

	app.Get("/list", gate, ListPage)
	app.Get("/print", gate, PrintPage)
	app.Get("/stats", gate, StatsPage)
	app.Get("/by_period", gate, ByPeriodPage)
	app.Get("/export", gate, ExportCSV)
	app.Post("/save_memo", gate, SaveMemoAPI)
	app.Post("/delete_records", gate, DeleteRecordsAPI)
	app.Post("/delete_before_date", gate, DeleteBeforeDate)

	app.Get("/admin_add_attendance", gate, AdminAddPage)
	app.Post("/admin_add_attendance", gate, AdminAddLookup)
	app.Post("/admin_add_attendance/confirm", gate, AdminAddConfirm)
}

func ListPage(c *fiber.Ctx) error {
	records, err := database.GetAllAttendances(config.GetDB())
	if err != nil {
		log.Printf("Failed to load attendance records: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load attendance records")
	}

	return c.Render("records/list", fiber.Map{
		"Title":       "Attendance Records - Library Attendance",
		"CurrentPage": "list",
		"Records":     records,
	})
}

func PrintPage(c *fiber.Ctx) error {
	records, err := database.GetAllAttendances(config.GetDB())
	if err != nil {
		log.Printf("Failed to load attendance records: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load attendance records")
	}

	return c.Render("records/print", fiber.Map{
		"Title":   "Print Attendance - Library Attendance",
		"Records": records,
	}, "")
}

func StatsPage(c *fiber.Ctx) error {
	counts, err := database.GetAttendanceCountsByName(config.GetDB())
	if err != nil {
		log.Printf("Failed to load attendance stats: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load attendance statistics")
	}

	return c.Render("records/stats", fiber.Map{
		"Title":       "Attendance Statistics - Library Attendance",
		"CurrentPage": "stats",
		"Counts":      counts,
	})
}

// PeriodGroup is one (date, period) block on the by-period board
type PeriodGroup struct {
	Date      string // 2006-01-02
	DateLabel string // e.g. 5월7일
	Period    string
	PeriodNum int
	Memo      string
	Records   []*models.Attendance
}

func ByPeriodPage(c *fiber.Ctx) error {
	db := config.GetDB()

	records, err := database.GetAllAttendances(db)
	if err != nil {
		log.Printf("Failed to load attendance records: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load attendance records")
	}

	memos, err := database.GetAllPeriodMemos(db)
	if err != nil {
		log.Printf("Failed to load period memos: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load period memos")
	}

	memoByKey := make(map[string]string, len(memos))
	for _, m := range memos {
		memoByKey[m.Date.Format("2006-01-02")+"|"+m.Period] = m.MemoText
	}

	groupByKey := make(map[string]*PeriodGroup)
	var groups []*PeriodGroup
	for _, r := range records {
		date := r.AttendedOn.Format("2006-01-02")
		key := date + "|" + r.Period
		g, ok := groupByKey[key]
		if !ok {
			g = &PeriodGroup{
				Date:      date,
				DateLabel: fmt.Sprintf("%d월%d일", r.AttendedOn.Month(), r.AttendedOn.Day()),
				Period:    r.Period,
				PeriodNum: periodNumber(r.Period),
				Memo:      memoByKey[key],
			}
			groupByKey[key] = g
			groups = append(groups, g)
		}
		g.Records = append(g.Records, r)
	}

	// Newest date first, later periods first within a date
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Date != groups[j].Date {
			return groups[i].Date > groups[j].Date
		}
		return groups[i].PeriodNum > groups[j].PeriodNum
	})
	for _, g := range groups {
		recs := g.Records
		sort.Slice(recs, func(i, j int) bool {
			if !recs[i].AttendedAt.Equal(recs[j].AttendedAt) {
				return recs[i].AttendedAt.After(recs[j].AttendedAt)
			}
			return recs[i].Name < recs[j].Name
		})
	}

	return c.Render("records/by_period", fiber.Map{
		"Title":       "Attendance by Period - Library Attendance",
		"CurrentPage": "by_period",
		"Groups":      groups,
		"Deleted":     c.Query("deleted"),
	})
}

// periodNumber extracts the numeric part of a period label for sorting;
// out-of-period labels sort last.
func periodNumber(label string) int {
	digits := label
	if i := strings.Index(label, "교시"); i >= 0 {
		digits = label[:i]
	}
	if n, err := strconv.Atoi(digits); err == nil {
		return n
	}
	return 999
}

func AdminAddPage(c *fiber.Ctx) error {
	return c.Render("records/add_attendance", fiber.Map{
		"Title":       "Add Attendance - Library Attendance",
		"CurrentPage": "admin_add_attendance",
	})
}

// AdminAddLookup shows a student's state (warning, weekly limit) before the
// administrator confirms the addition.
func AdminAddLookup(c *fiber.Ctx) error {
	studentID := strings.TrimSpace(c.FormValue("student_id"))
	override := c.FormValue("override_check") != ""

	data := fiber.Map{
		"Title":       "Add Attendance - Library Attendance",
		"CurrentPage": "admin_add_attendance",
		"Override":    override,
	}

	if studentID == "" {
		data["Error"] = "Please enter a student number."
		return c.Render("records/add_attendance", data)
	}

	result, err := services.Default.Lookup(studentID)
	if err != nil {
		log.Printf("Admin lookup failed for %s: %v", studentID, err)
		data["Error"] = "Lookup failed. Please try again."
		return c.Render("records/add_attendance", data)
	}
	if result == nil {
		data["Error"] = "Student number not found."
		return c.Render("records/add_attendance", data)
	}

	data["Student"] = result.Student
	data["Attended"] = result.AlreadyAttended
	data["Warning"] = result.Warning
	if result.LastAttendedAt != nil {
		data["LastAttendanceDate"] = result.LastAttendedAt.Format("2006-01-02")
	}
	return c.Render("records/add_attendance", data)
}

func AdminAddConfirm(c *fiber.Ctx) error {
	studentID := strings.TrimSpace(c.FormValue("student_id"))
	name := strings.TrimSpace(c.FormValue("name"))
	override := c.FormValue("override") == "1"

	data := fiber.Map{
		"Title":       "Add Attendance - Library Attendance",
		"CurrentPage": "admin_add_attendance",
	}

	result, err := services.Default.AdminAdd(studentID, name, override)
	if err != nil {
		log.Printf("Admin add failed for %s: %v", studentID, err)
		data["Error"] = "Failed to save the attendance record."
		return c.Render("records/add_attendance", data)
	}

	switch {
	case result.OK:
		data["Success"] = fmt.Sprintf("Attendance recorded for %s (%s), period %s.",
			result.Student.Name, studentID, result.PeriodLabel)
	case result.Reason == services.RejectUnknownStudent:
		data["Error"] = "Student number not found."
	case result.Reason == services.RejectNameMismatch:
		data["Error"] = "The name does not match the student number."
	case result.Reason == services.RejectWarned:
		w := result.Warning
		reason := w.Reason
		if reason == "" {
			reason = "library rule violation"
		}
		data["Error"] = fmt.Sprintf(
			"This student is restricted until %s (reason: %s). Tick the override box to add anyway.",
			w.ExpiresAt.Format("2006-01-02"), reason)
	case result.Reason == services.RejectAlreadyAttended:
		data["Error"] = "This student has already checked in this week. Tick the override box to add anyway."
	default:
		data["Error"] = "The attendance record was rejected."
	}
	return c.Render("records/add_attendance", data)
}
