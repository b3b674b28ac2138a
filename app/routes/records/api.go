package records

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/eunjoy-library/StudentTrackr/app/config"
	"github.com/eunjoy-library/StudentTrackr/app/database"
	"github.com/eunjoy-library/StudentTrackr/app/models"
)

// ExportCSV downloads every attendance record as a UTF-8 CSV, streamed as
// the response body. A BOM is prepended and every field quoted so the file
// opens cleanly in Excel.
func ExportCSV(c *fiber.Ctx) error {
	records, err := database.GetAllAttendances(config.GetDB())
	if err != nil {
		log.Printf("CSV export failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load attendance records")
	}
	if len(records) == 0 {
		return c.Redirect("/list")
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="library_attendance.csv"`)
	return c.SendString(buildExportCSV(records))
}

func buildExportCSV(records []*models.Attendance) string {
	var sb strings.Builder
	sb.WriteString("\ufeff")
	writeQuotedRow(&sb, []string{"출석일", "교시", "학번", "이름", "공강좌석번호"})
	for _, r := range records {
		writeQuotedRow(&sb, []string{
			r.AttendedAt.Format("2006-01-02 15:04:05"),
			r.Period,
			r.StudentID,
			r.Name,
			r.Seat,
		})
	}
	return sb.String()
}

func writeQuotedRow(sb *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('"')
		sb.WriteString(strings.ReplaceAll(f, `"`, `""`))
		sb.WriteByte('"')
	}
	sb.WriteString("\r\n")
}

type saveMemoRequest struct {
	Date   string `json:"date" validate:"required"`
	Period string `json:"period" validate:"required"`
	Memo   string `json:"memo"`
}

func SaveMemoAPI(c *fiber.Ctx) error {
	var req saveMemoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if req.Date == "" || req.Period == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Date and period are required"})
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid date format. Use YYYY-MM-DD"})
	}

	db := config.GetDB()
	if err := database.UpsertPeriodMemo(db, date, req.Period, req.Memo); err != nil {
		log.Printf("Failed to save memo for %s %s: %v", req.Date, req.Period, err)
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to save memo"})
	}

	// Read back so the client shows exactly what was stored
	stored, err := database.GetPeriodMemo(db, date, req.Period)
	if err != nil {
		log.Printf("Failed to read back memo for %s %s: %v", req.Date, req.Period, err)
		stored = req.Memo
	}

	return c.JSON(fiber.Map{"success": true, "message": "Memo saved", "memo": stored})
}

type deleteRecordsRequest struct {
	Records []struct {
		StudentID string `json:"student_id"`
		Date      string `json:"date"`
	} `json:"records"`
}

// DeleteRecordsAPI bulk-deletes records selected on the by-period board.
// Each (student, day) pair is resolved to its records, which are removed
// one id at a time.
func DeleteRecordsAPI(c *fiber.Ctx) error {
	var req deleteRecordsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if len(req.Records) == 0 {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "No records selected"})
	}

	db := config.GetDB()
	var deleted int64
	for _, rec := range req.Records {
		if rec.StudentID == "" || rec.Date == "" {
			continue
		}
		day, err := time.Parse("2006-01-02", rec.Date)
		if err != nil {
			continue
		}
		attendances, err := database.GetAttendancesByStudent(db, rec.StudentID)
		if err != nil {
			log.Printf("Failed to load records for %s: %v", rec.StudentID, err)
			continue
		}
		for _, att := range attendances {
			if !att.AttendedOn.Equal(day) {
				continue
			}
			ok, err := database.DeleteAttendance(db, att.ID)
			if err != nil {
				log.Printf("Failed to delete record %s: %v", att.ID, err)
				continue
			}
			if ok {
				deleted++
			}
		}
	}

	log.Printf("Deleted %d attendance records", deleted)
	return c.JSON(fiber.Map{
		"success":       true,
		"message":       fmt.Sprintf("%d records deleted", deleted),
		"deleted_count": deleted,
	})
}

// DeleteBeforeDate removes every record older than the submitted cutoff date
func DeleteBeforeDate(c *fiber.Ctx) error {
	dateStr := c.FormValue("delete_date")
	if dateStr == "" {
		return c.Redirect("/by_period")
	}

	cutoff, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD")
	}

	deleted, err := database.DeleteAttendancesBefore(config.GetDB(), cutoff)
	if err != nil {
		log.Printf("Failed to delete records before %s: %v", dateStr, err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete attendance records")
	}

	log.Printf("Deleted %d records before %s", deleted, dateStr)
	return c.Redirect(fmt.Sprintf("/by_period?deleted=%d", deleted))
}
