// AngelaMos | 2026
// dto.go

package commission

import (
	"time"
)

type RemiseResponse struct {
	ID            string     `json:"id"`
	Montant       int64      `json:"montant"`
	Statut        string     `json:"statut"`
	InfluenceurID string     `json:"influenceur_id"`
	Justificatif  bool       `json:"justificatif"`
	DatePaiement  *time.Time `json:"date_paiement,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type CreateRemiseRequest struct {
	InfluenceurID string `json:"influenceur_id" validate:"required,uuid4"`
	Montant       int64  `json:"montant"        validate:"required,gt=0"`
}

type ListRemisesParams struct {
	Page          int
	PageSize      int
	Statut        string
	InfluenceurID string
}

func (p *ListRemisesParams) Normalize() {
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

func (p *ListRemisesParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// GenerationLine is one influencer's share of a generation run.
type GenerationLine struct {
	InfluenceurID  string `json:"influenceur_id"`
	InfluenceurNom string `json:"influenceur_nom"`
	Prospects      int    `json:"prospects"`
	Montant        int64  `json:"montant"`
	RemiseID       string `json:"remise_id,omitempty"`
}

type GenerationReport struct {
	DryRun             bool             `json:"dry_run"`
	MontantParProspect int64            `json:"montant_par_prospect"`
	Lines              []GenerationLine `json:"lines"`
	TotalProspects     int              `json:"total_prospects"`
	TotalMontant       int64            `json:"total_montant"`
}

func ToRemiseResponse(r *Remise) RemiseResponse {
	return RemiseResponse{
		ID:            r.ID,
		Montant:       r.Montant,
		Statut:        r.Statut,
		InfluenceurID: r.InfluenceurID,
		Justificatif:  r.Justificatif != nil,
		DatePaiement:  r.DatePaiement,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func ToRemiseResponseList(remises []Remise) []RemiseResponse {
	responses := make([]RemiseResponse, 0, len(remises))
	for _, r := range remises {
		responses = append(responses, ToRemiseResponse(&r))
	}
	return responses
}
