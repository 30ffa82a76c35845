package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/wadjakorntonsri/go-3dnav/pkg/core/domain"
	"github.com/wadjakorntonsri/go-3dnav/pkg/ports"
)

type CategoryHandler struct {
	service ports.CategoryService
	logger  *zap.Logger
}

func NewCategoryHandler(service ports.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{service: service, logger: logger}
}

type categoryDetail struct {
	Category *domain.Category `json:"category"`
	Links    []domain.Link    `json:"links"`
}

func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, mode, err := h.service.ListCategories(r.Context())
	if err != nil {
		writeError(w, h.logger, err, mode)
		return
	}

	total := len(cats)
	writeJSON(w, http.StatusOK, Response{Success: true, Data: cats, Mode: mode, Total: &total})
}

func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	cat, links, mode, err := h.service.GetCategory(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeError(w, h.logger, err, mode)
		return
	}
	if links == nil {
		links = []domain.Link{}
	}

	total := len(links)
	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    categoryDetail{Category: cat, Links: links},
		Mode:    mode,
		Total:   &total,
	})
}

func (h *CategoryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, mode, err := h.service.Stats(r.Context())
	if err != nil {
		writeError(w, h.logger, err, mode)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Data: stats, Mode: mode})
}
