// AngelaMos | 2026
// public.go

package prospect

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/fofanamamadou/affiliation-project/internal/core"
)

// PublicHandler serves the unauthenticated affiliation signup form. It is
// the only HTML surface of the service; everything else speaks JSON.
type PublicHandler struct {
	service   *Service
	validator *validator.Validate
}

func NewPublicHandler(service *Service) *PublicHandler {
	return &PublicHandler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *PublicHandler) RegisterRoutes(r chi.Router) {
	r.Route("/affiliation/{code}", func(r chi.Router) {
		r.Get("/", h.ShowForm)
		r.Post("/", h.Signup)
	})
}

func (h *PublicHandler) ShowForm(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	owner, err := h.service.ResolveCode(r.Context(), code)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			renderHTML(w, http.StatusNotFound, notFoundTemplate, nil)
			return
		}
		core.InternalServerError(w, err)
		return
	}

	renderHTML(w, http.StatusOK, formTemplate, formData{
		Code:           code,
		InfluenceurNom: owner.Nom,
	})
}

// Signup accepts either a JSON body or a classic form post from the HTML
// page, and answers in the same dialect.
func (h *PublicHandler) Signup(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	wantsJSON := strings.Contains(
		r.Header.Get("Content-Type"),
		"application/json",
	)

	var req PublicSignupRequest
	if wantsJSON {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			core.BadRequest(w, "invalid request body")
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			core.BadRequest(w, "invalid form body")
			return
		}
		req.Nom = r.PostFormValue("nom")
		req.Email = r.PostFormValue("email")
	}

	if err := h.validator.Struct(req); err != nil {
		if wantsJSON {
			core.BadRequest(w, core.FormatValidationError(err))
			return
		}
		renderHTML(w, http.StatusBadRequest, formTemplate, formData{
			Code:  code,
			Error: "Nom et adresse email valides requis.",
			Nom:   req.Nom,
			Email: req.Email,
		})
		return
	}

	p, err := h.service.PublicSignup(r.Context(), code, req)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			if wantsJSON {
				core.NotFound(w, "affiliation code")
				return
			}
			renderHTML(w, http.StatusNotFound, notFoundTemplate, nil)
			return
		}
		core.InternalServerError(w, err)
		return
	}

	if wantsJSON {
		core.Created(w, ToProspectResponse(p))
		return
	}

	renderHTML(w, http.StatusCreated, successTemplate, formData{Nom: p.Nom})
}

type formData struct {
	Code           string
	InfluenceurNom string
	Nom            string
	Email          string
	Error          string
}

func renderHTML(
	w http.ResponseWriter,
	status int,
	tmpl *template.Template,
	data any,
) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	//nolint:errcheck // best-effort response write
	_ = tmpl.Execute(w, data)
}

var formTemplate = template.Must(template.New("form").Parse(`<!DOCTYPE html>
<html lang="fr">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Inscription</title>
</head>
<body>
  <h1>Inscription</h1>
  {{if .InfluenceurNom}}<p>Recommandé par {{.InfluenceurNom}}</p>{{end}}
  {{if .Error}}<p role="alert">{{.Error}}</p>{{end}}
  <form method="post" action="/affiliation/{{.Code}}">
    <label>Nom <input type="text" name="nom" value="{{.Nom}}" required></label>
    <label>Email <input type="email" name="email" value="{{.Email}}" required></label>
    <button type="submit">S'inscrire</button>
  </form>
</body>
</html>
`))

var successTemplate = template.Must(template.New("success").Parse(`<!DOCTYPE html>
<html lang="fr">
<head>
  <meta charset="utf-8">
  <title>Inscription enregistrée</title>
</head>
<body>
  <h1>Merci {{.Nom}} !</h1>
  <p>Votre inscription a bien été enregistrée.</p>
</body>
</html>
`))

var notFoundTemplate = template.Must(template.New("notfound").Parse(`<!DOCTYPE html>
<html lang="fr">
<head>
  <meta charset="utf-8">
  <title>Lien invalide</title>
</head>
<body>
  <h1>Lien d'affiliation invalide</h1>
  <p>Ce lien n'existe pas ou n'est plus actif.</p>
</body>
</html>
`))
