// AngelaMos | 2026
// entity.go

package commission

import (
	"time"
)

const (
	StatutEnAttente = "en_attente"
	StatutPayee     = "payee"
)

// Remise is a commission owed to an influencer, produced by a generation
// run over their confirmed, not-yet-compensated prospects. Montant is in
// the smallest currency unit. Payment is one-way and may attach a proof
// file.
type Remise struct {
	ID            string     `db:"id"`
	Montant       int64      `db:"montant"`
	Statut        string     `db:"statut"`
	InfluenceurID string     `db:"influenceur_id"`
	Justificatif  *string    `db:"justificatif"`
	DatePaiement  *time.Time `db:"date_paiement"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

func (r *Remise) IsPayee() bool {
	return r.Statut == StatutPayee
}
