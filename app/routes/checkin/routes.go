package checkin

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/eunjoy-library/StudentTrackr/app/services"
)

var validate = validator.New()

func SetupCheckinRoutes(app *fiber.App) {
	app.Get("/", CheckinPage)
	app.Post("/", SubmitCheckin)
	app.Get("/lookup_name", LookupNameAPI)
}

func CheckinPage(c *fiber.Ctx) error {
	return renderForm(c, fiber.Map{})
}

type checkinRequest struct {
	StudentID string `form:"student_id" validate:"required"`
	Name      string `form:"name" validate:"required"`
}

func SubmitCheckin(c *fiber.Ctx) error {
	var req checkinRequest
	if err := c.BodyParser(&req); err != nil {
		return renderForm(c, fiber.Map{"Error": "Invalid form submission."})
	}
	req.StudentID = strings.TrimSpace(req.StudentID)
	req.Name = strings.TrimSpace(req.Name)
	if err := validate.Struct(req); err != nil {
		return renderForm(c, fiber.Map{"Error": "Please enter both your student number and name."})
	}

	result, err := services.Default.Submit(req.StudentID, req.Name)
	if err != nil {
		log.Printf("Check-in failed for %s: %v", req.StudentID, err)
		return renderForm(c, fiber.Map{"Error": "Something went wrong while saving your check-in. Please tell the librarian."})
	}

	if !result.OK {
		return renderForm(c, fiber.Map{"Error": rejectMessage(result)})
	}

	msg := "Check-in complete."
	if result.Student.Seat != "" {
		msg = fmt.Sprintf("Check-in complete. Your seat: %s", result.Student.Seat)
	}
	return renderForm(c, fiber.Map{"Success": msg})
}

func rejectMessage(result *services.CheckinResult) string {
	switch result.Reason {
	case services.RejectNoPeriod:
		return "The library is not open for check-in right now."
	case services.RejectCapacity:
		return "The library is full for this period (35 seats). Please use the 4th-floor study room."
	case services.RejectUnknownStudent:
		return "Student number not found. Please check and try again."
	case services.RejectNameMismatch:
		return "The name does not match the student number."
	case services.RejectAlreadyAttended:
		msg := "You have already checked in this week. Check-in is allowed once per week."
		if result.LastAttendedAt != nil {
			msg += fmt.Sprintf(" (last visit: %s)", result.LastAttendedAt.Format("2006-01-02"))
		}
		return msg
	case services.RejectWarned:
		msg := "Library access is currently restricted for this student."
		if w := result.Warning; w != nil {
			reason := w.Reason
			if reason == "" {
				reason = "library rule violation"
			}
			msg += fmt.Sprintf(" Reason: %s. Restricted until %s.", reason, w.ExpiresAt.Format("2006-01-02"))
		}
		return msg
	default:
		return "Check-in was rejected."
	}
}

func renderForm(c *fiber.Ctx, data fiber.Map) error {
	now := time.Now()
	period := services.CurrentPeriod(now)
	data["Title"] = "Library Check-in"
	data["CurrentPage"] = "checkin"
	data["Period"] = period
	data["PeriodLabel"] = services.PeriodLabel(period)
	data["Now"] = now
	return c.Render("checkin/index", data)
}
