package gateway

import (
	"errors"
	"strconv"

	"github.com/biodoia/goestate/internal/listings"
	"github.com/biodoia/goestate/internal/orchestrator"
	"github.com/biodoia/goestate/pkg/models"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// startSessionRequest è il corpo di POST /v1/sessions
type startSessionRequest struct {
	AgentMode  string `json:"agent_mode,omitempty"`
	PropertyID string `json:"property_id,omitempty"`
	UserID     string `json:"user_id,omitempty"`
}

// sendMessageRequest è il corpo di POST /v1/sessions/:id/messages
type sendMessageRequest struct {
	Message         string           `json:"message"`
	PropertyContext *models.Property `json:"property_context,omitempty"`
}

// handleStartSession crea una nuova sessione
func (g *Gateway) handleStartSession(c fiber.Ctx) error {
	var req startSessionRequest
	if err := c.Bind().Body(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed request body")
	}

	opts := orchestrator.StartOptions{
		AgentMode: req.AgentMode,
		UserID:    req.UserID,
	}
	if req.PropertyID != "" {
		id, err := uuid.Parse(req.PropertyID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid property id")
		}
		opts.PropertyID = &id
	}

	session, err := g.orch.StartSession(c.Context(), opts)
	if err != nil {
		return mapOrchestratorError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(session)
}

// handleSendMessage elabora un turno della conversazione
func (g *Gateway) handleSendMessage(c fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	var req sendMessageRequest
	if err := c.Bind().Body(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed request body")
	}

	response, err := g.orch.SendMessage(c.Context(), sessionID, req.Message, req.PropertyContext)
	if err != nil {
		return mapOrchestratorError(err)
	}

	return c.JSON(response)
}

// handleEndSession chiude una sessione
func (g *Gateway) handleEndSession(c fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	if err := g.orch.EndSession(c.Context(), sessionID); err != nil {
		return mapOrchestratorError(err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// handleGetHistory restituisce il log messaggi della sessione
func (g *Gateway) handleGetHistory(c fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	history, err := g.orch.GetHistory(c.Context(), sessionID)
	if err != nil {
		return mapOrchestratorError(err)
	}

	return c.JSON(fiber.Map{
		"session_id": sessionID,
		"messages":   history,
	})
}

// handleGetSession restituisce lo stato della sessione
func (g *Gateway) handleGetSession(c fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	session, err := g.orch.GetSession(c.Context(), sessionID)
	if err != nil {
		return mapOrchestratorError(err)
	}

	return c.JSON(session)
}

// handleSearchProperties cerca nel catalogo
func (g *Gateway) handleSearchProperties(c fiber.Ctx) error {
	criteria := models.SearchCriteria{
		City:         c.Query("city"),
		State:        c.Query("state"),
		PropertyType: c.Query("property_type"),
	}
	if v := c.Query("min_bedrooms"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid min_bedrooms")
		}
		criteria.MinBedrooms = n
	}
	if v := c.Query("max_price"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid max_price")
		}
		criteria.MaxPrice = n
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid limit")
		}
		criteria.Limit = n
	}

	results, err := g.store.Search(c.Context(), criteria)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "property search failed")
	}

	return c.JSON(fiber.Map{
		"count":      len(results),
		"properties": results,
	})
}

// handleGetProperty restituisce una property per id
func (g *Gateway) handleGetProperty(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid property id")
	}

	property, err := g.store.GetByID(c.Context(), id)
	if errors.Is(err, listings.ErrPropertyNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "property not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "property lookup failed")
	}

	return c.JSON(property)
}

// handleEvents restituisce gli eventi recenti per la dashboard
func (g *Gateway) handleEvents(c fiber.Ctx) error {
	limit := 50
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid limit")
		}
		limit = n
	}

	recent := g.feed.Recent(limit)
	return c.JSON(fiber.Map{
		"count":  len(recent),
		"events": recent,
	})
}

// mapOrchestratorError traduce gli errori del core in status HTTP
func mapOrchestratorError(err error) error {
	switch {
	case errors.Is(err, orchestrator.ErrSessionNotFound):
		return fiber.NewError(fiber.StatusNotFound, "session not found")
	case errors.Is(err, orchestrator.ErrSessionClosed):
		return fiber.NewError(fiber.StatusConflict, "session is no longer active")
	case errors.Is(err, orchestrator.ErrInvalidInput):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
}
