package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	domain "github.com/dealerpress/api/internal/domain"
	"github.com/dealerpress/api/internal/platform/httpx"
	"github.com/dealerpress/api/internal/repositories"
	"github.com/dealerpress/api/internal/services"
)

const maxEditorBodySize = 256 * 1024

// renderAllowOrigin enables anonymous preview embedding; rendered pages carry
// no per-viewer state.
const renderAllowOrigin = "*"

var errEmptyBody = errors.New("request body is required")

// SiteHandlers exposes the render, editor, and tour endpoints for one site.
type SiteHandlers struct {
	render        services.RenderService
	editor        services.EditorService
	tour          services.TourService
	editorOrigins map[string]struct{}
}

// SiteOption customises construction of SiteHandlers.
type SiteOption func(*SiteHandlers)

// WithRenderService injects the page render service.
func WithRenderService(svc services.RenderService) SiteOption {
	return func(h *SiteHandlers) {
		h.render = svc
	}
}

// WithEditorService injects the editor save service.
func WithEditorService(svc services.EditorService) SiteOption {
	return func(h *SiteHandlers) {
		h.editor = svc
	}
}

// WithTourService injects the tour derivation service.
func WithTourService(svc services.TourService) SiteOption {
	return func(h *SiteHandlers) {
		h.tour = svc
	}
}

// WithEditorOrigins sets the origins allowed to call the editor endpoints
// cross-origin. Without any, editor responses carry no CORS headers.
func WithEditorOrigins(origins []string) SiteOption {
	return func(h *SiteHandlers) {
		for _, origin := range origins {
			origin = strings.TrimRight(strings.TrimSpace(origin), "/")
			if origin == "" {
				continue
			}
			if h.editorOrigins == nil {
				h.editorOrigins = map[string]struct{}{}
			}
			h.editorOrigins[origin] = struct{}{}
		}
	}
}

// NewSiteHandlers constructs handlers for the /sites endpoints.
func NewSiteHandlers(opts ...SiteOption) *SiteHandlers {
	h := &SiteHandlers{}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes wires the site endpoints onto the provided router.
func (h *SiteHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Route("/{siteID}", func(site chi.Router) {
		site.Get("/page", h.renderPage)
		site.Options("/page", h.renderPreflight)
		site.Get("/tour", h.getTour)
		site.Put("/content", h.putContent)
		site.Options("/content", h.editorPreflight)
		site.Put("/customizations/{type}", h.putCustomization)
		site.Options("/customizations/{type}", h.editorPreflight)
	})
}

// setEditorCORS echoes the request origin when it is on the allow list. Editor
// responses are never shared cross-origin otherwise.
func (h *SiteHandlers) setEditorCORS(w http.ResponseWriter, r *http.Request) {
	origin := strings.TrimRight(strings.TrimSpace(r.Header.Get("Origin")), "/")
	if origin == "" {
		return
	}
	if _, ok := h.editorOrigins[origin]; !ok {
		return
	}
	w.Header().Set("Access-Control-Allow-Origin", origin)
	w.Header().Set("Vary", "Origin")
}

func (h *SiteHandlers) editorPreflight(w http.ResponseWriter, r *http.Request) {
	h.setEditorCORS(w, r)
	w.Header().Set("Access-Control-Allow-Methods", "PUT, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.WriteHeader(http.StatusNoContent)
}

func (h *SiteHandlers) renderPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.render == nil {
		httpx.WriteError(ctx, w, httpx.NewError("not_configured", "render service unavailable", http.StatusServiceUnavailable))
		return
	}

	siteID := chi.URLParam(r, "siteID")
	pageSlug := r.URL.Query().Get("page")

	doc, err := h.render.RenderPage(ctx, siteID, pageSlug)
	if err != nil {
		h.writeRenderError(w, r, siteID, err)
		return
	}

	w.Header().Set("Access-Control-Allow-Origin", renderAllowOrigin)
	w.Header().Set("Content-Type", doc.ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, doc.HTML)
}

func (h *SiteHandlers) renderPreflight(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", renderAllowOrigin)
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.WriteHeader(http.StatusNoContent)
}

func (h *SiteHandlers) getTour(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.setEditorCORS(w, r)
	if h.tour == nil {
		httpx.WriteError(ctx, w, httpx.NewError("not_configured", "tour service unavailable", http.StatusServiceUnavailable))
		return
	}

	siteID := chi.URLParam(r, "siteID")
	tour, err := h.tour.TourForSite(ctx, siteID)
	if err != nil {
		if isRepoNotFound(err) {
			httpx.WriteError(ctx, w, httpx.NewError("site_not_found", fmt.Sprintf("site %s not found", siteID), http.StatusNotFound))
			return
		}
		httpx.WriteError(ctx, w, httpx.NewError("tour_failed", "failed to build tour", http.StatusInternalServerError))
		return
	}

	steps := tour.Steps
	if steps == nil {
		steps = []services.StepStatus{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"steps": steps})
}

func (h *SiteHandlers) putContent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.setEditorCORS(w, r)
	if h.editor == nil {
		httpx.WriteError(ctx, w, httpx.NewError("not_configured", "editor service unavailable", http.StatusServiceUnavailable))
		return
	}

	var payload struct {
		Values map[string]string `json:"values"`
	}
	if err := decodeBody(r, &payload); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_body", err.Error(), http.StatusBadRequest))
		return
	}
	if len(payload.Values) == 0 {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_body", "values must not be empty", http.StatusBadRequest))
		return
	}

	siteID := chi.URLParam(r, "siteID")
	if err := h.editor.SaveContent(ctx, siteID, payload.Values); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("content_save_failed", "one or more field saves failed", http.StatusInternalServerError))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"saved": len(payload.Values)})
}

func (h *SiteHandlers) putCustomization(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.setEditorCORS(w, r)
	if h.editor == nil {
		httpx.WriteError(ctx, w, httpx.NewError("not_configured", "editor service unavailable", http.StatusServiceUnavailable))
		return
	}

	var payload struct {
		Config json.RawMessage `json:"config"`
	}
	if err := decodeBody(r, &payload); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_body", err.Error(), http.StatusBadRequest))
		return
	}

	siteID := chi.URLParam(r, "siteID")
	ctype := domain.CustomizationType(chi.URLParam(r, "type"))

	err := h.editor.SaveCustomization(ctx, siteID, ctype, payload.Config)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{"type": string(ctype)})
	case errors.Is(err, services.ErrInvalidCustomizationType):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_customization_type", fmt.Sprintf("unknown customization type %q", ctype), http.StatusBadRequest))
	case errors.Is(err, services.ErrInvalidConfigBlob):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_body", "config must be valid JSON", http.StatusBadRequest))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("customization_save_failed", "failed to save customization", http.StatusInternalServerError))
	}
}

func (h *SiteHandlers) writeRenderError(w http.ResponseWriter, r *http.Request, siteID string, err error) {
	ctx := r.Context()
	if isRepoNotFound(err) {
		httpx.WriteError(ctx, w, httpx.NewError("site_not_found", fmt.Sprintf("site %s not found", siteID), http.StatusNotFound))
		return
	}
	httpx.WriteError(ctx, w, httpx.NewError("render_failed", "failed to render page", http.StatusInternalServerError))
}

func decodeBody(r *http.Request, target any) error {
	body := http.MaxBytesReader(nil, r.Body, maxEditorBodySize)
	defer func() { _ = body.Close() }()

	raw, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read request body: %w", err)
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return errEmptyBody
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

func isRepoNotFound(err error) bool {
	var repoErr repositories.RepositoryError
	return errors.As(err, &repoErr) && repoErr.IsNotFound()
}
