package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/wadjakorntonsri/go-3dnav/pkg/core/domain"
)

// Response is the envelope of every JSON reply.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
	Mode    domain.Mode `json:"mode,omitempty"`
	Total   *int        `json:"total,omitempty"`
}

const volatileWarning = "changes are held in memory and will be lost on restart"

func writeJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// writeMutation replies to a successful write, warning when it was not persisted.
func writeMutation(w http.ResponseWriter, status int, data interface{}, mode domain.Mode, message string) {
	if !mode.Durable() {
		message = volatileWarning
	}
	writeJSON(w, status, Response{Success: true, Data: data, Mode: mode, Message: message})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrAdminExists):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, logger *zap.Logger, err error, mode domain.Mode) {
	status := statusOf(err)
	resp := Response{Success: false, Error: err.Error(), Mode: mode}

	var exists *domain.AdminExistsError
	if errors.As(err, &exists) {
		resp.Data = map[string]string{"email": exists.Email, "name": exists.Name}
	}
	if status == http.StatusInternalServerError {
		logger.Error("request failed", zap.Error(err))
		resp.Error = "internal server error"
	}
	writeJSON(w, status, resp)
}

func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.NewValidationError("body", "invalid JSON: "+err.Error())
	}
	return nil
}
