// AngelaMos | 2026
// handler.go

package influencer

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/fofanamamadou/affiliation-project/internal/commission"
	"github.com/fofanamamadou/affiliation-project/internal/core"
	"github.com/fofanamamadou/affiliation-project/internal/identity"
	"github.com/fofanamamadou/affiliation-project/internal/middleware"
	"github.com/fofanamamadou/affiliation-project/internal/prospect"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/influenceurs", func(r chi.Router) {
		r.Use(authenticator)

		r.With(middleware.RequireAdmin).Get("/", h.List)
		r.With(
			middleware.RequirePermission(identity.PermCreateInfluenceurs),
		).Post("/", h.Create)

		r.Route("/{influenceurID}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Put("/", h.Update)
			r.With(middleware.RequireAdmin).Delete("/", h.Delete)
			r.Get("/dashboard", h.Dashboard)
			r.Get("/prospects", h.ListProspects)
			r.Get("/remises", h.ListRemises)
		})
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := ListInfluenceursParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
		Search:   r.URL.Query().Get("search"),
	}

	if actifStr := r.URL.Query().Get("actif"); actifStr != "" {
		actif := actifStr == "true"
		params.Actif = &actif
	}

	influenceurs, total, err := h.service.List(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	responses := make([]InfluenceurResponse, 0, len(influenceurs))
	for i := range influenceurs {
		responses = append(responses, h.service.toResponse(&influenceurs[i]))
	}

	core.Paginated(w, responses, params.Page, params.PageSize, total)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateInfluenceurRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	inf, err := h.service.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			core.JSONError(w, core.DuplicateError("email"))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, h.service.toResponse(inf))
}

// requireOwnership resolves the path ID and enforces the tenancy policy:
// admins reach any influencer, influencers only themselves. Violations are
// always 403, whether or not the target exists.
func requireOwnership(
	w http.ResponseWriter,
	r *http.Request,
) (identity.Identity, string, bool) {
	ident, ok := middleware.GetIdentity(r.Context())
	if !ok {
		core.Unauthorized(w, "")
		return identity.Identity{}, "", false
	}

	influenceurID := chi.URLParam(r, "influenceurID")
	if !ident.Owns(influenceurID) {
		core.Forbidden(w, "")
		return identity.Identity{}, "", false
	}

	return ident, influenceurID, true
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	_, influenceurID, ok := requireOwnership(w, r)
	if !ok {
		return
	}

	inf, err := h.service.Get(r.Context(), influenceurID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "influenceur")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, h.service.toResponse(inf))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ident, influenceurID, ok := requireOwnership(w, r)
	if !ok {
		return
	}

	var req UpdateInfluenceurRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if req.Role != nil && !ident.IsAdmin() {
		core.Forbidden(w, "only admins may change roles")
		return
	}

	inf, err := h.service.Update(r.Context(), influenceurID, req)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "influenceur")
			return
		}
		if errors.Is(err, core.ErrDuplicateKey) {
			core.JSONError(w, core.DuplicateError("email"))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, h.service.toResponse(inf))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	influenceurID := chi.URLParam(r, "influenceurID")

	if err := h.service.Disable(r.Context(), influenceurID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "influenceur")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	_, influenceurID, ok := requireOwnership(w, r)
	if !ok {
		return
	}

	dashboard, err := h.service.Dashboard(r.Context(), influenceurID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "influenceur")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, dashboard)
}

func (h *Handler) ListProspects(w http.ResponseWriter, r *http.Request) {
	_, influenceurID, ok := requireOwnership(w, r)
	if !ok {
		return
	}

	prospects, err := h.service.prospects.ListByInfluenceur(
		r.Context(),
		influenceurID,
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, prospect.ToProspectResponseList(prospects))
}

func (h *Handler) ListRemises(w http.ResponseWriter, r *http.Request) {
	_, influenceurID, ok := requireOwnership(w, r)
	if !ok {
		return
	}

	remises, err := h.service.remises.ListByInfluenceur(
		r.Context(),
		influenceurID,
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, commission.ToRemiseResponseList(remises))
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}
