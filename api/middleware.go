package api

import (
	"errors"
	"strconv"
	"time"

	"arcade/models"
	"arcade/service"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// UserIDHeader carries the authenticated user id set by the session layer in front of the API
const UserIDHeader = "X-User-ID"

const userLocal = "user"

// Identity resolves the caller from UserIDHeader and stores the user in c.Locals
func Identity(users service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get(UserIDHeader)
		if raw == "" {
			return SendUnauthorized(c)
		}
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			return SendUnauthorized(c)
		}

		user, err := users.GetUser(c.UserContext(), userID)
		if errors.Is(err, models.ErrUserNotFound) {
			return SendUnauthorized(c)
		}
		if err != nil {
			return SendServiceError(c, err)
		}

		c.Locals(userLocal, user)
		return c.Next()
	}
}

// AdminRequired rejects callers without administrator rights
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := currentUser(c)
		if !ok {
			return SendUnauthorized(c)
		}
		if !user.IsAdmin {
			return SendForbidden(c, "Administrator access required")
		}
		return c.Next()
	}
}

// RequestLogger logs every request with its status and duration
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		fields := log.Fields{
			"method":   c.Method(),
			"path":     c.Path(),
			"status":   status,
			"duration": time.Since(start),
			"ip":       c.IP(),
		}
		if user, ok := currentUser(c); ok {
			fields["userID"] = user.ID
		}
		if err != nil {
			fields["error"] = err
		}

		entry := log.WithFields(fields)
		switch {
		case status >= 500:
			entry.Error("HTTP request failed")
		case status >= 400:
			entry.Warn("HTTP request rejected")
		default:
			entry.Debug("HTTP request processed")
		}
		return err
	}
}

func currentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(userLocal).(*models.User)
	return user, ok && user != nil
}
