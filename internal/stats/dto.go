// AngelaMos | 2026
// dto.go

package stats

type InfluenceurCounts struct {
	Total  int `json:"total"  db:"total"`
	Actifs int `json:"actifs" db:"actifs"`
}

type ProspectCounts struct {
	Total     int `json:"total"      db:"total"`
	EnAttente int `json:"en_attente" db:"en_attente"`
	Confirmes int `json:"confirmes"  db:"confirmes"`
}

type RemiseCounts struct {
	Total            int   `json:"total"             db:"total"`
	EnAttente        int   `json:"en_attente"        db:"en_attente"`
	Payees           int   `json:"payees"            db:"payees"`
	MontantEnAttente int64 `json:"montant_en_attente" db:"montant_en_attente"`
	MontantPaye      int64 `json:"montant_paye"      db:"montant_paye"`
}

type OverviewResponse struct {
	Influenceurs InfluenceurCounts `json:"influenceurs"`
	Prospects    ProspectCounts    `json:"prospects"`
	Remises      RemiseCounts      `json:"remises"`
}

type TopInfluenceur struct {
	ID              string `json:"id"               db:"id"`
	Nom             string `json:"nom"              db:"nom"`
	CodeAffiliation string `json:"code_affiliation" db:"code_affiliation"`
	NbProspects     int    `json:"nb_prospects"     db:"nb_prospects"`
	NbConfirmes     int    `json:"nb_confirmes"     db:"nb_confirmes"`
}

type DailyInscriptions struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}
