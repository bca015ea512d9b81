// AngelaMos | 2026
// handler.go

package stats

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fofanamamadou/affiliation-project/internal/core"
	"github.com/fofanamamadou/affiliation-project/internal/identity"
	"github.com/fofanamamadou/affiliation-project/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/stats", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(middleware.RequirePermission(identity.PermViewStatistics))

		r.Get("/overview", h.Overview)
		r.Get("/top-influenceurs", h.TopInfluenceurs)
		r.Get("/inscriptions", h.Inscriptions)
	})
}

func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.Overview(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, overview)
}

func (h *Handler) TopInfluenceurs(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			core.BadRequest(w, "limit must be an integer")
			return
		}
		limit = parsed
	}

	top, err := h.service.TopInfluenceurs(r.Context(), limit)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, top)
}

func (h *Handler) Inscriptions(w http.ResponseWriter, r *http.Request) {
	histogram, err := h.service.Inscriptions(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, histogram)
}
