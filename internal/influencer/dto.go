// AngelaMos | 2026
// dto.go

package influencer

import (
	"time"

	"github.com/fofanamamadou/affiliation-project/internal/commission"
	"github.com/fofanamamadou/affiliation-project/internal/prospect"
)

type CreateInfluenceurRequest struct {
	Nom      string `json:"nom"      validate:"required,min=1,max=100"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Role     string `json:"role"     validate:"omitempty,oneof=admin moderateur influenceur"`
}

type UpdateInfluenceurRequest struct {
	Nom      *string `json:"nom,omitempty"      validate:"omitempty,min=1,max=100"`
	Email    *string `json:"email,omitempty"    validate:"omitempty,email,max=255"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8,max=128"`
	Role     *string `json:"role,omitempty"     validate:"omitempty,oneof=admin moderateur influenceur"`
}

type InfluenceurResponse struct {
	ID                string     `json:"id"`
	Nom               string     `json:"nom"`
	Email             string     `json:"email"`
	CodeAffiliation   string     `json:"code_affiliation"`
	LienAffiliation   string     `json:"lien_affiliation"`
	Role              string     `json:"role"`
	Actif             bool       `json:"actif"`
	DerniereConnexion *time.Time `json:"derniere_connexion,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type DashboardStats struct {
	NbProspects         int   `json:"nb_prospects"`
	NbProspectsConfirme int   `json:"nb_prospects_confirmes"`
	TotalRemisesPayees  int64 `json:"total_remises_payees"`
}

type DashboardResponse struct {
	Influenceur InfluenceurResponse          `json:"influenceur"`
	Stats       DashboardStats               `json:"stats"`
	Prospects   []prospect.ProspectResponse  `json:"prospects"`
	Remises     []commission.RemiseResponse  `json:"remises"`
}

type ListInfluenceursParams struct {
	Page     int
	PageSize int
	Search   string
	Actif    *bool
}

func (p *ListInfluenceursParams) Normalize() {
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

func (p *ListInfluenceursParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToInfluenceurResponse(i *Influenceur, lien string) InfluenceurResponse {
	return InfluenceurResponse{
		ID:                i.ID,
		Nom:               i.Nom,
		Email:             i.Email,
		CodeAffiliation:   i.CodeAffiliation,
		LienAffiliation:   lien,
		Role:              i.Role,
		Actif:             i.Actif,
		DerniereConnexion: i.DerniereConnexion,
		CreatedAt:         i.CreatedAt,
		UpdatedAt:         i.UpdatedAt,
	}
}
