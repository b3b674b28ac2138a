package auth

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const cookieName = "admin_token"

func SetupAuthRoutes(app *fiber.App) {
	app.Get("/admin", ShowLoginPage)
	app.Post("/admin", LoginAPI)
	app.Get("/logout", LogoutAPI)
}

func ShowLoginPage(c *fiber.Ctx) error {
	// Already logged in admins go straight to the by-period board
	if tokenString := c.Cookies(cookieName); tokenString != "" {
		if err := ValidateAdminToken(tokenString); err == nil {
			return c.Redirect("/by_period")
		}
	}

	return c.Render("auth/login", fiber.Map{
		"Title": "Admin Login - Library Attendance",
	}, "")
}

func LoginAPI(c *fiber.Ctx) error {
	password := c.FormValue("password")
	if !CheckPassword(password) {
		return c.Status(fiber.StatusUnauthorized).Render("auth/login", fiber.Map{
			"Title": "Admin Login - Library Attendance",
			"Error": "Incorrect password.",
		}, "")
	}

	token, err := GenerateAdminToken()
	if err != nil {
		return c.Status(500).Render("auth/login", fiber.Map{
			"Title": "Admin Login - Library Attendance",
			"Error": "Failed to create session. Please try again.",
		}, "")
	}

	c.Cookie(&fiber.Cookie{
		Name:     cookieName,
		Value:    token,
		Expires:  time.Now().Add(sessionDuration),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return c.Redirect("/by_period")
}

func LogoutAPI(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     cookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})

	return c.Redirect("/")
}

// AdminMiddleware gates the admin pages behind the session cookie
func AdminMiddleware(c *fiber.Ctx) error {
	tokenString := c.Cookies(cookieName)

	// JSON endpoints answer JSON; web pages redirect to the login form
	isAPIRequest := c.Method() != fiber.MethodGet &&
		strings.Contains(c.Get(fiber.HeaderContentType), "json")

	if tokenString == "" {
		if isAPIRequest {
			return c.Status(403).JSON(fiber.Map{"success": false, "error": "Admin privileges required"})
		}
		return c.Redirect("/admin")
	}

	if err := ValidateAdminToken(tokenString); err != nil {
		if isAPIRequest {
			return c.Status(401).JSON(fiber.Map{"success": false, "error": "Invalid session"})
		}
		return c.Redirect("/admin")
	}

	return c.Next()
}
