// AngelaMos | 2026
// handler.go

package commission

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/fofanamamadou/affiliation-project/internal/core"
	"github.com/fofanamamadou/affiliation-project/internal/identity"
	"github.com/fofanamamadou/affiliation-project/internal/middleware"
)

const maxProofUploadBytes = 10 << 20

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
	r.Route("/remises", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.With(
			middleware.RequirePermission(identity.PermPayRemises),
		).Post("/", h.Create)

		r.Route("/{remiseID}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Get("/justificatif", h.GetJustificatif)
			r.With(
				middleware.RequirePermission(identity.PermPayRemises),
			).Post("/payer", h.Payer)
		})
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.GetIdentity(r.Context())
	if !ok {
		core.Unauthorized(w, "")
		return
	}

	params := ListRemisesParams{
		Page:          parseIntQuery(r, "page", 1),
		PageSize:      parseIntQuery(r, "page_size", 20),
		Statut:        r.URL.Query().Get("statut"),
		InfluenceurID: r.URL.Query().Get("influenceur_id"),
	}

	remises, total, err := h.service.List(r.Context(), ident, params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(
		w,
		ToRemiseResponseList(remises),
		params.Page,
		params.PageSize,
		total,
	)
}

// Create issues an ad hoc pending remise, outside the generation run.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRemiseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	remise, err := h.service.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "influenceur")
			return
		}
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "montant must be positive")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToRemiseResponse(remise))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.GetIdentity(r.Context())
	if !ok {
		core.Unauthorized(w, "")
		return
	}

	remiseID := chi.URLParam(r, "remiseID")

	remise, err := h.service.Get(r.Context(), ident, remiseID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "remise")
			return
		}
		if errors.Is(err, core.ErrForbidden) {
			core.Forbidden(w, "")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToRemiseResponse(remise))
}

// Payer accepts an optional multipart "justificatif" file alongside the
// payment.
func (h *Handler) Payer(w http.ResponseWriter, r *http.Request) {
	remiseID := chi.URLParam(r, "remiseID")

	var upload *ProofUpload
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxProofUploadBytes); err != nil {
			core.BadRequest(w, "invalid multipart body")
			return
		}

		file, header, err := r.FormFile("justificatif")
		if err == nil {
			defer file.Close()
			upload = &ProofUpload{
				Filename: header.Filename,
				Content:  file,
			}
		} else if !errors.Is(err, http.ErrMissingFile) {
			core.BadRequest(w, "invalid justificatif upload")
			return
		}
	}

	remise, err := h.service.Payer(r.Context(), remiseID, upload)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "remise")
			return
		}
		if errors.Is(err, core.ErrConflict) {
			core.JSONError(w, err)
			return
		}
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "unsupported justificatif file type")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToRemiseResponse(remise))
}

func (h *Handler) GetJustificatif(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.GetIdentity(r.Context())
	if !ok {
		core.Unauthorized(w, "")
		return
	}

	remiseID := chi.URLParam(r, "remiseID")

	path, err := h.service.JustificatifPath(r.Context(), ident, remiseID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "justificatif")
			return
		}
		if errors.Is(err, core.ErrForbidden) {
			core.Forbidden(w, "")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	http.ServeFile(w, r, path)
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
