package notify

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/joao-fontenele/produce-storefront/internal/latency"
)

// Handler pretends to deliver buyer notifications. Nothing leaves the
// process; sending only takes time and is logged.
type Handler struct {
	delay  *latency.Simulator
	logger *slog.Logger
}

func NewHandler(delay *latency.Simulator, logger *slog.Logger) *Handler {
	return &Handler{
		delay:  delay,
		logger: logger,
	}
}

type SendRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type sendResponse struct {
	Status string `json:"status"`
}

func (h *Handler) HandleSend(w http.ResponseWriter, r *http.Request) {
	var req SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.To) == "" {
		h.writeError(w, http.StatusBadRequest, "missing recipient")
		return
	}

	if err := h.delay.Wait(r.Context()); err != nil {
		h.logger.Warn("notification abandoned", "error", err, "to", req.To)
		return
	}

	h.logger.Info("notification sent", "to", req.To, "subject", req.Subject)

	h.writeJSON(w, http.StatusOK, sendResponse{Status: "sent"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
