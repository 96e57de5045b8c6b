package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"tripease/internal/assistant"
	"tripease/internal/places"
)

type AssistantHandler struct {
	assistant *assistant.Assistant
}

func NewAssistantHandler(a *assistant.Assistant) *AssistantHandler {
	return &AssistantHandler{assistant: a}
}

// Chat - free-form assistant conversation with optional context
func (h *AssistantHandler) Chat(e *core.RequestEvent) error {
	if requireAuth(e) == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var req struct {
		Message string `json:"message"`
		Context string `json:"context"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	if req.Message == "" {
		return apis.NewBadRequestError("Message is required", nil)
	}

	reply := h.assistant.Chat(e.Request.Context(), req.Message, req.Context)
	return e.JSON(http.StatusOK, map[string]any{
		"reply":  reply,
		"online": h.assistant.Online(),
	})
}

// AnalyzeRoute - distance and duration estimate between two places
func (h *AssistantHandler) AnalyzeRoute(e *core.RequestEvent) error {
	if requireAuth(e) == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var req struct {
		Origin      string `json:"origin"`
		Destination string `json:"destination"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	if req.Origin == "" || req.Destination == "" {
		return apis.NewBadRequestError("Origin and destination are required", nil)
	}

	analysis := h.assistant.AnalyzeRoute(e.Request.Context(), req.Origin, req.Destination)
	return e.JSON(http.StatusOK, map[string]any{
		"analysis": analysis,
		"online":   h.assistant.Online(),
	})
}

// SearchPlaces - static autocomplete over the address book
func (h *AssistantHandler) SearchPlaces(e *core.RequestEvent) error {
	query := e.Request.URL.Query().Get("q")
	suggestions := places.Search(query)
	return e.JSON(http.StatusOK, map[string]any{
		"suggestions": suggestions,
		"total":       len(suggestions),
	})
}
