package warnings

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/eunjoy-library/StudentTrackr/app/config"
	"github.com/eunjoy-library/StudentTrackr/app/database"
	"github.com/eunjoy-library/StudentTrackr/app/models"
	"github.com/eunjoy-library/StudentTrackr/app/routes/auth"
	"github.com/eunjoy-library/StudentTrackr/app/services"
)

var validate = validator.New()

const defaultWarningDays = 30

func SetupWarningsRoutes(app *fiber.App) {
	group := app.Group("/admin/warnings")
	group.Use(auth.AdminMiddleware)

	group.Get("/", WarningsPage)
	group.Post("/add", AddWarning)
	group.Post("/remove/:id", RemoveWarning)
	group.Post("/delete/:id", DeleteWarning)
	group.Post("/delete-all", DeleteAllWarnings)
}

func WarningsPage(c *fiber.Ctx) error {
	all, err := database.GetAllWarnings(config.GetDB())
	if err != nil {
		log.Printf("Failed to load warnings: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load warnings")
	}

	return renderWarnings(c, all, fiber.Map{})
}

type addWarningRequest struct {
	StudentID   string `form:"student_id" validate:"required"`
	StudentName string `form:"student_name" validate:"required"`
	Days        int    `form:"days"`
	Reason      string `form:"reason"`
}

func AddWarning(c *fiber.Ctx) error {
	req := addWarningRequest{
		StudentID:   strings.TrimSpace(c.FormValue("student_id")),
		StudentName: strings.TrimSpace(c.FormValue("student_name")),
		Reason:      strings.TrimSpace(c.FormValue("reason")),
	}
	if days, err := strconv.Atoi(c.FormValue("days")); err == nil && days > 0 {
		req.Days = days
	} else {
		req.Days = defaultWarningDays
	}

	if err := validate.Struct(req); err != nil {
		return reloadWarnings(c, fiber.Map{"Error": "Please enter both the student number and name."})
	}

	// Warnings are only meaningful for students on the roster
	entry, err := services.Default.Lookup(req.StudentID)
	if err != nil {
		log.Printf("Roster lookup failed for %s: %v", req.StudentID, err)
		return reloadWarnings(c, fiber.Map{"Error": "Roster lookup failed. Please try again."})
	}
	if entry == nil {
		return reloadWarnings(c, fiber.Map{"Error": "Student number not found on the roster."})
	}

	now := time.Now()
	w := &models.Warning{
		StudentID:   req.StudentID,
		StudentName: req.StudentName,
		WarnedAt:    now,
		ExpiresAt:   now.AddDate(0, 0, req.Days),
		Reason:      req.Reason,
		IsActive:    true,
	}
	if err := database.AddWarning(config.GetDB(), w); err != nil {
		log.Printf("Failed to add warning for %s: %v", req.StudentID, err)
		return reloadWarnings(c, fiber.Map{"Error": "Failed to add the warning."})
	}

	return reloadWarnings(c, fiber.Map{
		"Success": fmt.Sprintf("%s (%s) is restricted from the library for %d days.",
			req.StudentName, req.StudentID, req.Days),
	})
}

// RemoveWarning lifts a warning but keeps its record
func RemoveWarning(c *fiber.Ctx) error {
	ok, err := database.DeactivateWarning(config.GetDB(), c.Params("id"))
	if err != nil {
		log.Printf("Failed to deactivate warning %s: %v", c.Params("id"), err)
		return reloadWarnings(c, fiber.Map{"Error": "Failed to lift the warning."})
	}
	if !ok {
		return reloadWarnings(c, fiber.Map{"Error": "Warning not found."})
	}
	return reloadWarnings(c, fiber.Map{"Success": "Warning lifted."})
}

// DeleteWarning removes the warning record entirely
func DeleteWarning(c *fiber.Ctx) error {
	ok, err := database.DeleteWarning(config.GetDB(), c.Params("id"))
	if err != nil {
		log.Printf("Failed to delete warning %s: %v", c.Params("id"), err)
		return reloadWarnings(c, fiber.Map{"Error": "Failed to delete the warning."})
	}
	if !ok {
		return reloadWarnings(c, fiber.Map{"Error": "Warning not found."})
	}
	return reloadWarnings(c, fiber.Map{"Success": "Warning deleted."})
}

func DeleteAllWarnings(c *fiber.Ctx) error {
	if err := database.DeleteAllWarnings(config.GetDB()); err != nil {
		log.Printf("Failed to delete all warnings: %v", err)
		return reloadWarnings(c, fiber.Map{"Error": "Failed to delete warnings."})
	}
	return reloadWarnings(c, fiber.Map{"Success": "All warnings deleted."})
}

func reloadWarnings(c *fiber.Ctx, data fiber.Map) error {
	all, err := database.GetAllWarnings(config.GetDB())
	if err != nil {
		log.Printf("Failed to load warnings: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load warnings")
	}
	return renderWarnings(c, all, data)
}

func renderWarnings(c *fiber.Ctx, all []*models.Warning, data fiber.Map) error {
	data["Title"] = "Warning Management - Library Attendance"
	data["CurrentPage"] = "warnings"
	data["Warnings"] = all
	data["Now"] = time.Now()
	return c.Render("warnings/index", data)
}
