package handler

import (
	"net/http"

	"github.com/wadjakorntonsri/go-3dnav/pkg/core/domain"
	"github.com/wadjakorntonsri/go-3dnav/pkg/ports"
)

// ModeReporter reports the storage mode currently serving requests.
type ModeReporter interface {
	Mode() domain.Mode
}

type EnvironmentHandler struct {
	prober ports.Prober
	modes  ModeReporter
}

func NewEnvironmentHandler(prober ports.Prober, modes ModeReporter) *EnvironmentHandler {
	return &EnvironmentHandler{prober: prober, modes: modes}
}

type environmentReport struct {
	domain.Environment
	RecommendedMode domain.Mode `json:"recommended_mode"`
	ActiveMode      domain.Mode `json:"active_mode"`
}

func (h *EnvironmentHandler) Report(w http.ResponseWriter, r *http.Request) {
	env := h.prober.Probe()
	active := h.modes.Mode()
	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data: environmentReport{
			Environment:     env,
			RecommendedMode: env.RecommendedMode(),
			ActiveMode:      active,
		},
		Mode: active,
	})
}
