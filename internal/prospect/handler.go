// AngelaMos | 2026
// handler.go

package prospect

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/fofanamamadou/affiliation-project/internal/core"
	"github.com/fofanamamadou/affiliation-project/internal/identity"
	"github.com/fofanamamadou/affiliation-project/internal/middleware"
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
	r.Route("/prospects", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.With(middleware.RequireAdmin).Get("/sans-remise", h.ListSansRemise)

		r.Route("/{prospectID}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.With(
				middleware.RequirePermission(identity.PermValidateProspects),
			).Post("/valider", h.Valider)
		})
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.GetIdentity(r.Context())
	if !ok {
		core.Unauthorized(w, "")
		return
	}

	params := ListProspectsParams{
		Page:          parseIntQuery(r, "page", 1),
		PageSize:      parseIntQuery(r, "page_size", 20),
		Statut:        r.URL.Query().Get("statut"),
		InfluenceurID: r.URL.Query().Get("influenceur_id"),
	}

	prospects, total, err := h.service.List(r.Context(), ident, params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(
		w,
		ToProspectResponseList(prospects),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.GetIdentity(r.Context())
	if !ok {
		core.Unauthorized(w, "")
		return
	}

	prospectID := chi.URLParam(r, "prospectID")

	p, err := h.service.Get(r.Context(), ident, prospectID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "prospect")
			return
		}
		if errors.Is(err, core.ErrForbidden) {
			core.Forbidden(w, "")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToProspectResponse(p))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.GetIdentity(r.Context())
	if !ok {
		core.Unauthorized(w, "")
		return
	}

	var req CreateProspectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	p, err := h.service.Create(r.Context(), ident, req)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "influenceur")
			return
		}
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "influenceur_id is required")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToProspectResponse(p))
}

func (h *Handler) Valider(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.GetIdentity(r.Context())
	if !ok {
		core.Unauthorized(w, "")
		return
	}

	prospectID := chi.URLParam(r, "prospectID")

	p, err := h.service.Valider(r.Context(), ident, prospectID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "prospect")
			return
		}
		if errors.Is(err, core.ErrForbidden) {
			core.Forbidden(w, "")
			return
		}
		if errors.Is(err, core.ErrConflict) {
			core.JSONError(w, err)
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToProspectResponse(p))
}

func (h *Handler) ListSansRemise(w http.ResponseWriter, r *http.Request) {
	prospects, err := h.service.ListSansRemise(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToProspectResponseList(prospects))
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
