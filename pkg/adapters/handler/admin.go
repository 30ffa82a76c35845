package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/wadjakorntonsri/go-3dnav/pkg/core/domain"
	"github.com/wadjakorntonsri/go-3dnav/pkg/ports"
)

type AdminHandler struct {
	service ports.AdminService
	logger  *zap.Logger
}

func NewAdminHandler(service ports.AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{service: service, logger: logger}
}

type setupRequest struct {
	Force bool `json:"force"`
}

// Setup creates the admin account. An empty body means force=false.
func (h *AdminHandler) Setup(w http.ResponseWriter, r *http.Request) {
	var req setupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, h.logger, domain.NewValidationError("body", "invalid JSON: "+err.Error()), "")
		return
	}

	res, mode, err := h.service.Setup(r.Context(), req.Force)
	if err != nil {
		writeError(w, h.logger, err, mode)
		return
	}
	writeMutation(w, http.StatusCreated, res, mode, "admin account created")
}
