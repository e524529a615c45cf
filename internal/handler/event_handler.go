package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"campusevents/internal/errors"
	"campusevents/internal/service"
	"campusevents/internal/storage"
)

const dateLayout = "2006-01-02"

// EventHandler handles event catalog endpoints.
type EventHandler struct {
	eventService service.EventService
	blobs        storage.BlobStore
}

// NewEventHandler creates a new event handler.
func NewEventHandler(eventService service.EventService, blobs storage.BlobStore) *EventHandler {
	return &EventHandler{eventService: eventService, blobs: blobs}
}

// EventForm represents the multipart fields of a create or update request.
type EventForm struct {
	Title                string `form:"title" validate:"required"`
	Description          string `form:"description"`
	EventDate            string `form:"event_date" validate:"required,datetime=2006-01-02"`
	EventTime            string `form:"event_time" validate:"required,datetime=15:04"`
	Location             string `form:"location" validate:"required"`
	Capacity             int    `form:"capacity" validate:"required,min=1"`
	RegistrationDeadline string `form:"registration_deadline" validate:"omitempty,datetime=2006-01-02"`
}

// toInput parses the validated form fields into a service input. The image
// URL is filled by the caller when a thumbnail was uploaded.
func (f *EventForm) toInput() (service.EventInput, error) {
	date, err := time.Parse(dateLayout, f.EventDate)
	if err != nil {
		return service.EventInput{}, err
	}

	in := service.EventInput{
		Title:       f.Title,
		Description: f.Description,
		EventDate:   date,
		EventTime:   f.EventTime,
		Location:    f.Location,
		Capacity:    f.Capacity,
	}

	if f.RegistrationDeadline != "" {
		deadline, err := time.Parse(dateLayout, f.RegistrationDeadline)
		if err != nil {
			return service.EventInput{}, err
		}
		in.RegistrationDeadline = &deadline
	}

	return in, nil
}

// bindEventForm binds, validates and parses the multipart event fields, and
// stores the optional thumbnail.
func (h *EventHandler) bindEventForm(c echo.Context) (service.EventInput, error) {
	var form EventForm
	if err := c.Bind(&form); err != nil {
		return service.EventInput{}, echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&form); err != nil {
		return service.EventInput{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	in, err := form.toInput()
	if err != nil {
		return service.EventInput{}, echo.NewHTTPError(http.StatusBadRequest, "invalid date or time format")
	}

	if file, err := c.FormFile("thumbnail"); err == nil {
		src, err := file.Open()
		if err != nil {
			return service.EventInput{}, echo.NewHTTPError(http.StatusBadRequest, "invalid thumbnail")
		}
		defer src.Close()

		url, err := h.blobs.Save(c.Request().Context(), "thumbnails", file.Filename, src)
		if err != nil {
			httpErr := errors.MapErrorToHTTP(err)
			return service.EventInput{}, echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
		in.ImageURL = url
	}

	return in, nil
}

// List godoc
// @Summary List all events with organizer and registration counts
// @Tags events
// @Produce json
// @Success 200 {array} repository.EventWithStats
// @Failure 500 {object} errors.ErrorResponse
// @Router /events [get]
func (h *EventHandler) List(c echo.Context) error {
	events, err := h.eventService.List(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, events)
}

// Create godoc
// @Summary Create an event
// @Tags events
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param event_date formData string true "Date (YYYY-MM-DD)"
// @Param event_time formData string true "Time (HH:MM)"
// @Param location formData string true "Location"
// @Param capacity formData int true "Capacity"
// @Param registration_deadline formData string false "Deadline (YYYY-MM-DD)"
// @Param thumbnail formData file false "Event image"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /events [post]
func (h *EventHandler) Create(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	in, err := h.bindEventForm(c)
	if err != nil {
		return err
	}

	event, err := h.eventService.Create(c.Request().Context(), claims.UserID, in)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "event created successfully",
		"event":   event,
	})
}

// Update godoc
// @Summary Update an event
// @Tags events
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /events/{id} [put]
func (h *EventHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event ID")
	}

	in, err := h.bindEventForm(c)
	if err != nil {
		return err
	}

	if err := h.eventService.Update(c.Request().Context(), uint(id), in); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "event updated successfully"})
}

// Delete godoc
// @Summary Delete an event and its registrations
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Router /events/{id} [delete]
func (h *EventHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event ID")
	}

	if err := h.eventService.Delete(c.Request().Context(), uint(id)); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "event deleted successfully"})
}

// End godoc
// @Summary End an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Router /events/{id}/end [patch]
func (h *EventHandler) End(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event ID")
	}

	if err := h.eventService.End(c.Request().Context(), uint(id)); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "event ended successfully"})
}
