package handler

import (
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/wadjakorntonsri/go-3dnav/pkg/core/domain"
	"github.com/wadjakorntonsri/go-3dnav/pkg/ports"
)

type HTTPHandler struct {
	service ports.LinkService
	logger  *zap.Logger
}

func NewHTTPHandler(service ports.LinkService, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, logger: logger}
}

// List Links
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.LinkFilter{
		Category: strings.TrimSpace(q.Get("category")),
		Search:   strings.TrimSpace(q.Get("q")),
	}
	if raw := q.Get("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, h.logger, domain.NewValidationError("featured", "must be true or false"), "")
			return
		}
		filter.Featured = &featured
	}

	links, mode, err := h.service.ListLinks(r.Context(), filter)
	if err != nil {
		writeError(w, h.logger, err, mode)
		return
	}
	if links == nil {
		links = []domain.Link{}
	}

	total := len(links)
	writeJSON(w, http.StatusOK, Response{Success: true, Data: links, Mode: mode, Total: &total})
}

// Get Link
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	link, mode, err := h.service.GetLink(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err, mode)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Data: link, Mode: mode})
}

// Create Link
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.LinkInput
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err, "")
		return
	}

	link, mode, err := h.service.CreateLink(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err, mode)
		return
	}
	writeMutation(w, http.StatusCreated, link, mode, "link created")
}

// Update Link
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.LinkInput
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err, "")
		return
	}

	link, mode, err := h.service.UpdateLink(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeError(w, h.logger, err, mode)
		return
	}
	writeMutation(w, http.StatusOK, link, mode, "link updated")
}

// Delete Link
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	mode, err := h.service.DeleteLink(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err, mode)
		return
	}
	writeMutation(w, http.StatusOK, nil, mode, "link deleted")
}
