// AngelaMos | 2026
// dto.go

package prospect

import (
	"time"
)

type CreateProspectRequest struct {
	Nom           string `json:"nom"            validate:"required,min=1,max=100"`
	Email         string `json:"email"          validate:"required,email,max=255"`
	InfluenceurID string `json:"influenceur_id" validate:"omitempty,uuid4"`
}

type PublicSignupRequest struct {
	Nom   string `json:"nom"   validate:"required,min=1,max=100"`
	Email string `json:"email" validate:"required,email,max=255"`
}

type ProspectResponse struct {
	ID              string    `json:"id"`
	Nom             string    `json:"nom"`
	Email           string    `json:"email"`
	Statut          string    `json:"statut"`
	InfluenceurID   string    `json:"influenceur_id"`
	RemiseID        *string   `json:"remise_id,omitempty"`
	DateInscription time.Time `json:"date_inscription"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type ListProspectsParams struct {
	Page          int
	PageSize      int
	Statut        string
	InfluenceurID string
}

func (p *ListProspectsParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListProspectsParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToProspectResponse(p *Prospect) ProspectResponse {
	return ProspectResponse{
		ID:              p.ID,
		Nom:             p.Nom,
		Email:           p.Email,
		Statut:          p.Statut,
		InfluenceurID:   p.InfluenceurID,
		RemiseID:        p.RemiseID,
		DateInscription: p.DateInscription,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func ToProspectResponseList(prospects []Prospect) []ProspectResponse {
	responses := make([]ProspectResponse, 0, len(prospects))
	for _, p := range prospects {
		responses = append(responses, ToProspectResponse(&p))
	}
	return responses
}
