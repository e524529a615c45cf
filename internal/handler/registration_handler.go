package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"campusevents/internal/errors"
	"campusevents/internal/service"
)

// RegistrationHandler handles registration ledger endpoints.
type RegistrationHandler struct {
	regService service.RegistrationService
}

// NewRegistrationHandler creates a new registration handler.
func NewRegistrationHandler(regService service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{regService: regService}
}

// RegisterRequestBody represents a registration attempt.
type RegisterRequestBody struct {
	EventID uint `json:"event_id" validate:"required"`
}

// Register godoc
// @Summary Register the caller for an event
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RegisterRequestBody true "Event to register for"
// @Success 201 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /registrations [post]
func (h *RegistrationHandler) Register(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	var req RegisterRequestBody
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.regService.Register(c.Request().Context(), claims.UserID, req.EventID); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, map[string]string{"message": "registered successfully"})
}

// MyRegistrations godoc
// @Summary List the caller's registrations with event data
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Success 200 {array} repository.UserRegistrationRow
// @Failure 401 {object} errors.ErrorResponse
// @Router /registrations/my-registrations [get]
func (h *RegistrationHandler) MyRegistrations(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	rows, err := h.regService.MyRegistrations(c.Request().Context(), claims.UserID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, rows)
}

// Cancel godoc
// @Summary Cancel one of the caller's registrations
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Registration ID"
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /registrations/{id} [delete]
func (h *RegistrationHandler) Cancel(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid registration ID")
	}

	if err := h.regService.Cancel(c.Request().Context(), uint(id), claims.UserID); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "registration cancelled"})
}

// EventRoster godoc
// @Summary List all registrants of an event
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {array} repository.RosterRow
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /registrations/event/{id} [get]
func (h *RegistrationHandler) EventRoster(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event ID")
	}

	rows, err := h.regService.EventRoster(c.Request().Context(), uint(id))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, rows)
}

// All godoc
// @Summary Global registration report across all events
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Success 200 {array} repository.ReportRow
// @Failure 403 {object} errors.ErrorResponse
// @Router /registrations/all [get]
func (h *RegistrationHandler) All(c echo.Context) error {
	rows, err := h.regService.AllRegistrations(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, rows)
}
