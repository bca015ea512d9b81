// AngelaMos | 2026
// entity.go

package prospect

import (
	"time"
)

const (
	StatutEnAttente = "en_attente"
	StatutConfirme  = "confirme"
)

// Prospect is a signup recruited through an influencer's affiliation link.
// It enters pending, may be confirmed exactly once, and is linked to a
// remise by the commission generation run.
type Prospect struct {
	ID              string    `db:"id"`
	Nom             string    `db:"nom"`
	Email           string    `db:"email"`
	Statut          string    `db:"statut"`
	InfluenceurID   string    `db:"influenceur_id"`
	RemiseID        *string   `db:"remise_id"`
	DateInscription time.Time `db:"date_inscription"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (p *Prospect) IsConfirme() bool {
	return p.Statut == StatutConfirme
}
