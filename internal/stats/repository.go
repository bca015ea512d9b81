// AngelaMos | 2026
// repository.go

package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/fofanamamadou/affiliation-project/internal/core"
)

type Repository interface {
	Overview(ctx context.Context) (*OverviewResponse, error)
	TopInfluenceurs(ctx context.Context, limit int) ([]TopInfluenceur, error)
	InscriptionsSince(
		ctx context.Context,
		from time.Time,
	) (map[string]int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Overview(ctx context.Context) (*OverviewResponse, error) {
	var overview OverviewResponse

	influenceurQuery := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE actif) AS actifs
		FROM influenceurs`

	err := r.db.GetContext(ctx, &overview.Influenceurs, influenceurQuery)
	if err != nil {
		return nil, fmt.Errorf("count influenceurs: %w", err)
	}

	prospectQuery := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE statut = 'en_attente') AS en_attente,
			COUNT(*) FILTER (WHERE statut = 'confirme') AS confirmes
		FROM prospects`

	if err := r.db.GetContext(ctx, &overview.Prospects, prospectQuery); err != nil {
		return nil, fmt.Errorf("count prospects: %w", err)
	}

	remiseQuery := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE statut = 'en_attente') AS en_attente,
			COUNT(*) FILTER (WHERE statut = 'payee') AS payees,
			COALESCE(SUM(montant) FILTER (WHERE statut = 'en_attente'), 0)
				AS montant_en_attente,
			COALESCE(SUM(montant) FILTER (WHERE statut = 'payee'), 0)
				AS montant_paye
		FROM remises`

	if err := r.db.GetContext(ctx, &overview.Remises, remiseQuery); err != nil {
		return nil, fmt.Errorf("count remises: %w", err)
	}

	return &overview, nil
}

func (r *repository) TopInfluenceurs(
	ctx context.Context,
	limit int,
) ([]TopInfluenceur, error) {
	query := `
		SELECT
			i.id, i.nom, i.code_affiliation,
			COUNT(p.id) AS nb_prospects,
			COUNT(p.id) FILTER (WHERE p.statut = 'confirme') AS nb_confirmes
		FROM influenceurs i
		LEFT JOIN prospects p ON p.influenceur_id = i.id
		GROUP BY i.id, i.nom, i.code_affiliation
		ORDER BY nb_prospects DESC, i.nom
		LIMIT $1`

	var top []TopInfluenceur
	if err := r.db.SelectContext(ctx, &top, query, limit); err != nil {
		return nil, fmt.Errorf("top influenceurs: %w", err)
	}

	return top, nil
}

func (r *repository) InscriptionsSince(
	ctx context.Context,
	from time.Time,
) (map[string]int, error) {
	// Bucket in UTC so the keys line up with the service's UTC day math
	// regardless of the database session timezone.
	query := `
		SELECT
			DATE(date_inscription AT TIME ZONE 'UTC') AS jour,
			COUNT(*) AS total
		FROM prospects
		WHERE date_inscription >= $1
		GROUP BY DATE(date_inscription AT TIME ZONE 'UTC')`

	var rows []struct {
		Jour  time.Time `db:"jour"`
		Total int       `db:"total"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, from); err != nil {
		return nil, fmt.Errorf("inscriptions histogram: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Jour.Format("2006-01-02")] = row.Total
	}

	return counts, nil
}
