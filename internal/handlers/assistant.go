package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"portfolio-backend/internal/models"
	"portfolio-backend/internal/services"
)

// maxAssistantBody caps request bodies; history is trimmed by the caller.
const maxAssistantBody = 64 << 10

type assistantService interface {
	AskAssistant(ctx context.Context, req models.AssistantRequest) (*models.AssistantReply, error)
}

type AssistantHandler struct {
	assistant assistantService
}

func NewAssistantHandler(assistant assistantService) *AssistantHandler {
	return &AssistantHandler{assistant: assistant}
}

func (h *AssistantHandler) Ask(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAssistantBody)

	var req models.AssistantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if fields := req.Validate(); fields != nil {
		handleServiceError(w, r, &services.ValidationError{Fields: fields})
		return
	}

	reply, err := h.assistant.AskAssistant(r.Context(), req)
	if err != nil {
		log.Printf("assistant exchange failed (request %s): %v", r.Header.Get("X-Request-ID"), err)
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, reply)
}
