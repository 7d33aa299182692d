package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/membership-service/internal/api/dto"
	"github.com/spec-kit/membership-service/internal/auth"
	"github.com/spec-kit/membership-service/internal/service"
	apperrors "github.com/spec-kit/membership-service/pkg/util"
)

// EventsHandler exposes public event listings and admin event management.
type EventsHandler struct {
	events *service.EventService
}

// NewEventsHandler constructs handler.
func NewEventsHandler(events *service.EventService) *EventsHandler {
	return &EventsHandler{events: events}
}

// List handles GET /events.
func (h *EventsHandler) List(c *fiber.Ctx) error {
	events, err := h.events.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEventResponses(events)})
}

// Get handles GET /events/:id.
func (h *EventsHandler) Get(c *fiber.Ctx) error {
	event, err := h.events.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEventResponse(event)})
}

// Create handles POST /events (multipart with optional image).
func (h *EventsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	input, image, err := parseEventForm(c)
	if err != nil {
		return err
	}

	event, err := h.events.Create(c.UserContext(), principal.ID, input, image)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewEventResponse(event)})
}

// Update handles PUT /events/:id (multipart with optional image).
func (h *EventsHandler) Update(c *fiber.Ctx) error {
	input, image, err := parseEventForm(c)
	if err != nil {
		return err
	}

	event, err := h.events.Update(c.UserContext(), c.Params("id"), input, image)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEventResponse(event)})
}

// Delete handles DELETE /events/:id.
func (h *EventsHandler) Delete(c *fiber.Ctx) error {
	if err := h.events.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "event deleted"})
}

func parseEventForm(c *fiber.Ctx) (service.EventInput, *service.ImageUpload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return service.EventInput{}, nil, apperrors.NewValidationError("multipart form expected", nil)
	}

	var input service.EventInput
	input.Title = formString(form, "title")
	input.Description = formString(form, "description")
	input.Location = formString(form, "location")
	input.Category = formString(form, "category")
	input.Status = formString(form, "status")
	if input.Date, err = formTime(form, "date"); err != nil {
		return service.EventInput{}, nil, err
	}

	headers := form.File["image"]
	if len(headers) == 0 {
		return input, nil, nil
	}
	content, err := readUpload(headers[0])
	if err != nil {
		return service.EventInput{}, nil, err
	}
	return input, &service.ImageUpload{Filename: headers[0].Filename, Content: content}, nil
}
