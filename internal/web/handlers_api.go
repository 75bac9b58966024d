package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/foodrescuehub/foodrescue/internal/storage"
)

// confirmRequest is the JSON body for stop confirmation responses. An empty
// body counts as a plain confirmation, matching the one-click email link.
type confirmRequest struct {
	FromEmail string `json:"from_email"`
	Response  string `json:"response"`
}

// confirmStop applies a partner's confirmation response to a route stop.
func (h *Handler) confirmStop(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "read body"})
		return
	}
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
	}
	if strings.TrimSpace(req.Response) == "" {
		req.Response = "CONFIRMED"
	}

	outcome, err := h.workflow.ProcessResponse(r.Context(), r.PathValue("id"), req.FromEmail, req.Response)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "stop not found"})
			return
		}
		h.logger.Printf("process response for stop %s: %v", r.PathValue("id"), err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"stop_id": r.PathValue("id"),
		"outcome": string(outcome),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
