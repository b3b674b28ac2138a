package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"

	"github.com/eunjoy-library/StudentTrackr/app/config"
	"github.com/eunjoy-library/StudentTrackr/app/database"
	"github.com/eunjoy-library/StudentTrackr/app/routes/auth"
	"github.com/eunjoy-library/StudentTrackr/app/routes/checkin"
	"github.com/eunjoy-library/StudentTrackr/app/routes/records"
	"github.com/eunjoy-library/StudentTrackr/app/routes/warnings"
	"github.com/eunjoy-library/StudentTrackr/app/services"
)

// customErrorHandler renders error pages for web requests and JSON for API
// requests.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	if c.Accepts("html", "json") == "json" {
		return c.Status(code).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
			"code":    code,
		})
	}

	switch code {
	case fiber.StatusNotFound:
		return c.Status(code).Render("404", fiber.Map{
			"Title":       "Page Not Found - Library Attendance",
			"CurrentPage": "",
		})
	default:
		return c.Status(code).Render("error", fiber.Map{
			"Title":        "Error - Library Attendance",
			"CurrentPage":  "",
			"ErrorCode":    code,
			"ErrorMessage": err.Error(),
		})
	}
}

func main() {
	// All period arithmetic assumes the school's wall clock
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		log.Printf("Warning: Failed to load Asia/Seoul location, falling back to UTC+9: %v", err)
		time.Local = time.FixedZone("KST", 9*60*60)
	} else {
		time.Local = loc
	}
	log.Printf("Application time zone set to: %s", time.Local.String())

	// Initialize configuration and database
	config.Load()
	config.InitDB()
	defer config.GetDB().Close()

	// Run database migrations
	if err := database.RunMigrations(config.GetDB()); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Wire the check-in engine against the live stores
	store := database.NewStore(config.GetDB())
	roster := services.NewExcelRoster(config.AppConfig.RosterFile)
	services.Default = services.NewCheckinService(store, store, roster)

	// Start background scheduler
	services.StartScheduler(config.GetDB())

	// Initialize template engine
	engine := html.New("./app/templates", ".html")
	engine.Reload(false)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		Views:             engine,
		ViewsLayout:       "layouts/main",
		PassLocalsToViews: true,
		ErrorHandler:      customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	// Static files
	app.Static("/static", "./static")
	app.Get("/favicon.ico", func(c *fiber.Ctx) error {
		return c.SendFile("./static/favicon.ico")
	})

	// Setup check-in routes (public)
	checkin.SetupCheckinRoutes(app)

	// Setup admin auth routes
	auth.SetupAuthRoutes(app)

	// Setup records routes
	records.SetupRecordsRoutes(app)

	// Setup warnings routes
	warnings.SetupWarningsRoutes(app)

	// Catch-all route for 404 errors (must be last)
	app.Use("*", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Page not found")
	})

	// Start server
	log.Println("Server starting on", config.AppConfig.ListenAddr)
	log.Fatal(app.Listen(config.AppConfig.ListenAddr))
}
