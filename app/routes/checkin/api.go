package checkin

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/eunjoy-library/StudentTrackr/app/services"
)

// LookupNameAPI resolves a student number for the check-in form: name and
// seat, weekly-limit and warning state, and whether the current period is
// already full.
func LookupNameAPI(c *fiber.Ctx) error {
	studentID := strings.TrimSpace(c.Query("student_id"))
	if studentID == "" {
		return c.JSON(fiber.Map{"success": false, "message": "Student number is required."})
	}

	result, err := services.Default.Lookup(studentID)
	if err != nil {
		log.Printf("Lookup failed for %s: %v", studentID, err)
		return c.Status(500).JSON(fiber.Map{"success": false, "message": "Lookup failed. Please try again."})
	}
	if result == nil {
		return c.JSON(fiber.Map{"success": false, "message": "Student number not found."})
	}

	var lastDate string
	if result.LastAttendedAt != nil {
		lastDate = result.LastAttendedAt.Format("2006-01-02")
	}

	var warningExpiry, warningMessage string
	if w := result.Warning; w != nil {
		warningExpiry = w.ExpiresAt.Format("2006-01-02")
		warningMessage = w.Reason
		if warningMessage == "" {
			warningMessage = "library rule violation"
		}
	}

	return c.JSON(fiber.Map{
		"success":              true,
		"name":                 result.Student.Name,
		"seat":                 result.Student.Seat,
		"already_attended":     result.AlreadyAttended,
		"last_attendance_date": lastDate,
		"capacity_exceeded":    result.CapacityExceeded,
		"is_warned":            result.Warning != nil,
		"warning_expiry":       warningExpiry,
		"warning_message":      warningMessage,
	})
}
