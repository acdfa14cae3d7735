package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/leads-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/leads-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/leads-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/leads-backend/internal/owner"
	"github.com/ahmetcoskunkizilkaya/leads-backend/internal/services"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type LeadHandler struct {
	service *services.LeadService
}

func NewLeadHandler(service *services.LeadService) *LeadHandler {
	return &LeadHandler{service: service}
}

func (h *LeadHandler) List(c *fiber.Ctx) error {
	ownerID, err := owner.FromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	q, err := services.ParseListQuery(c.Queries())
	if err != nil {
		return h.fail(c, "list_leads", ownerID, uuid.Nil, err, "Server error while fetching leads")
	}

	resp, err := h.service.ListLeads(c.UserContext(), ownerID, q)
	if err != nil {
		return h.fail(c, "list_leads", ownerID, uuid.Nil, err, "Server error while fetching leads")
	}
	return c.JSON(resp)
}

func (h *LeadHandler) Get(c *fiber.Ctx) error {
	ownerID, err := owner.FromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	leadID, err := services.ParseLeadID(c.Params("id"))
	if err != nil {
		return h.fail(c, "get_lead", ownerID, uuid.Nil, err, "Server error while fetching lead")
	}

	lead, err := h.service.GetLead(c.UserContext(), ownerID, leadID)
	if err != nil {
		return h.fail(c, "get_lead", ownerID, leadID, err, "Server error while fetching lead")
	}
	return c.JSON(lead)
}

func (h *LeadHandler) Create(c *fiber.Ctx) error {
	ownerID, err := owner.FromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateLeadRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	lead, err := h.service.CreateLead(c.UserContext(), ownerID, req)
	middleware.RecordLeadMutation("create", outcome(err))
	if err != nil {
		return h.fail(c, "create_lead", ownerID, uuid.Nil, err, "Server error while creating lead")
	}
	return c.Status(fiber.StatusCreated).JSON(lead)
}

func (h *LeadHandler) Update(c *fiber.Ctx) error {
	ownerID, err := owner.FromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	leadID, err := services.ParseLeadID(c.Params("id"))
	if err != nil {
		return h.fail(c, "update_lead", ownerID, uuid.Nil, err, "Server error while updating lead")
	}

	var req dto.UpdateLeadRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	lead, err := h.service.UpdateLead(c.UserContext(), ownerID, leadID, req)
	middleware.RecordLeadMutation("update", outcome(err))
	if err != nil {
		return h.fail(c, "update_lead", ownerID, leadID, err, "Server error while updating lead")
	}
	return c.JSON(lead)
}

func (h *LeadHandler) Delete(c *fiber.Ctx) error {
	ownerID, err := owner.FromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	leadID, err := services.ParseLeadID(c.Params("id"))
	if err != nil {
		return h.fail(c, "delete_lead", ownerID, uuid.Nil, err, "Server error while deleting lead")
	}

	err = h.service.DeleteLead(c.UserContext(), ownerID, leadID)
	middleware.RecordLeadMutation("delete", outcome(err))
	if err != nil {
		return h.fail(c, "delete_lead", ownerID, leadID, err, "Server error while deleting lead")
	}
	return c.JSON(dto.MessageResponse{Message: "Lead deleted successfully"})
}

// fail maps a service error to its HTTP response. Anything not recognised is
// logged, reported to Sentry and answered with internalMsg only.
func (h *LeadHandler) fail(c *fiber.Ctx, action string, ownerID, leadID uuid.UUID, err error, internalMsg string) error {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Message: "Validation error", Errors: verr.Errors,
		})
	case errors.Is(err, services.ErrLimitExceeded):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: "Limit cannot exceed 100"})
	case errors.Is(err, models.ErrDuplicateEmail):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: "Email already exists for this user"})
	case errors.Is(err, services.ErrInvalidLeadID):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: "Invalid lead ID format"})
	case errors.Is(err, services.ErrLeadNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Message: "Lead not found"})
	}

	attrs := []any{
		"action", action,
		"owner_id", ownerID.String(),
		"request_id", requestID(c),
		"error", err.Error(),
	}
	if leadID != uuid.Nil {
		attrs = append(attrs, "lead_id", leadID.String())
	}
	slog.Error(internalMsg, attrs...)

	if hub := sentryfiber.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}

	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Message: internalMsg})
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, models.ErrValidation):
		return "validation"
	case errors.Is(err, models.ErrDuplicateEmail):
		return "conflict"
	case errors.Is(err, services.ErrLeadNotFound):
		return "not_found"
	default:
		return "error"
	}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Message: "Unauthorized"})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: "Invalid request body"})
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}
