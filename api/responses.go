package api

import (
	"errors"
	"net/http"

	"arcade/models"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// Error reasons returned to clients
const (
	ReasonUnauthenticated = "unauthenticated"
	ReasonForbidden       = "forbidden"
	ReasonInvalidRequest  = "invalid_request"
	ReasonNotFound        = "not_found"
	ReasonInternal        = "internal_error"
)

// SendJSON sends a JSON response
func SendJSON(c *fiber.Ctx, statusCode int, data interface{}) error {
	return c.Status(statusCode).JSON(data)
}

// SendOK sends {"status":"ok"} merged with extra fields
func SendOK(c *fiber.Ctx, extra fiber.Map) error {
	body := fiber.Map{"status": "ok"}
	for k, v := range extra {
		body[k] = v
	}
	return SendJSON(c, http.StatusOK, body)
}

// SendError sends an error response with a machine-readable reason
func SendError(c *fiber.Ctx, statusCode int, reason, message string) error {
	return SendJSON(c, statusCode, fiber.Map{
		"status":  "error",
		"reason":  reason,
		"message": message,
	})
}

// SendBadRequest sends a bad request error response
func SendBadRequest(c *fiber.Ctx, message string) error {
	return SendError(c, http.StatusBadRequest, ReasonInvalidRequest, message)
}

// SendUnauthorized sends an unauthorized error response
func SendUnauthorized(c *fiber.Ctx) error {
	return SendError(c, http.StatusUnauthorized, ReasonUnauthenticated, "Authentication required")
}

// SendForbidden sends a forbidden error response
func SendForbidden(c *fiber.Ctx, message string) error {
	return SendError(c, http.StatusForbidden, ReasonForbidden, message)
}

// SendInternalServerError sends an internal server error response
func SendInternalServerError(c *fiber.Ctx) error {
	return SendError(c, http.StatusInternalServerError, ReasonInternal, "Internal server error")
}

// domainErrors maps service errors to HTTP status and reason
var domainErrors = []struct {
	err    error
	status int
	reason string
}{
	{models.ErrRoundNotStarted, http.StatusBadRequest, "round_not_started"},
	{models.ErrGameMismatch, http.StatusBadRequest, "game_mismatch"},
	{models.ErrInsufficientFunds, http.StatusBadRequest, "insufficient_funds"},
	{models.ErrAlreadyOwned, http.StatusBadRequest, "already_owned"},
	{models.ErrItemNotPurchasable, http.StatusBadRequest, "not_purchasable"},
	{models.ErrInvalidCategory, http.StatusBadRequest, "invalid_category"},
	{models.ErrNotOwned, http.StatusForbidden, "not_owned"},
	{models.ErrItemNotEquippable, http.StatusForbidden, "not_equippable"},
	{models.ErrUnknownItem, http.StatusNotFound, "unknown_item"},
	{models.ErrUserNotFound, http.StatusNotFound, "user_not_found"},
}

// SendServiceError translates a service error into a response
func SendServiceError(c *fiber.Ctx, err error) error {
	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		return SendError(c, http.StatusBadRequest, string(validationErr.Reason), validationErr.Detail)
	}

	for _, mapping := range domainErrors {
		if errors.Is(err, mapping.err) {
			return SendError(c, mapping.status, mapping.reason, mapping.err.Error())
		}
	}

	log.WithFields(log.Fields{
		"method": c.Method(),
		"path":   c.Path(),
		"error":  err,
	}).Error("Request failed")
	return SendInternalServerError(c)
}

// errorHandler renders errors escaping handlers, including fiber's own routing errors
func errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		reason := ReasonInvalidRequest
		switch fiberErr.Code {
		case http.StatusNotFound:
			reason = ReasonNotFound
		case http.StatusInternalServerError:
			reason = ReasonInternal
		}
		return SendError(c, fiberErr.Code, reason, fiberErr.Message)
	}
	return SendServiceError(c, err)
}
