// AngelaMos | 2026
// repository.go

package prospect

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fofanamamadou/affiliation-project/internal/core"
)

type Repository interface {
	Create(ctx context.Context, p *Prospect) error
	GetByID(ctx context.Context, id string) (*Prospect, error)
	Confirm(ctx context.Context, id string) (*Prospect, error)
	List(ctx context.Context, params ListProspectsParams) ([]Prospect, int, error)
	ListByInfluenceur(
		ctx context.Context,
		influenceurID string,
	) ([]Prospect, error)
	ListSansRemise(ctx context.Context) ([]Prospect, error)
	CountByInfluenceur(
		ctx context.Context,
		influenceurID string,
	) (total, confirmes int, err error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const prospectColumns = `
	id, nom, email, statut, influenceur_id, remise_id, date_inscription,
	created_at, updated_at`

func (r *repository) Create(ctx context.Context, p *Prospect) error {
	query := `
		INSERT INTO prospects (id, nom, email, statut, influenceur_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING date_inscription, created_at, updated_at`

	err := r.db.GetContext(ctx, p, query,
		p.ID,
		p.Nom,
		p.Email,
		p.Statut,
		p.InfluenceurID,
	)
	if err != nil {
		return fmt.Errorf("create prospect: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id string,
) (*Prospect, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM prospects WHERE id = $1`, prospectColumns)

	var p Prospect
	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get prospect: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get prospect: %w", err)
	}

	return &p, nil
}

// Confirm flips a pending prospect to confirmed. The statut guard in the
// WHERE clause makes the transition one-way at the database level; zero rows
// means the prospect was already confirmed or does not exist.
func (r *repository) Confirm(
	ctx context.Context,
	id string,
) (*Prospect, error) {
	query := fmt.Sprintf(`
		UPDATE prospects
		SET statut = $2, updated_at = NOW()
		WHERE id = $1 AND statut = $3
		RETURNING %s`, prospectColumns)

	var p Prospect
	err := r.db.GetContext(ctx, &p, query, id, StatutConfirme, StatutEnAttente)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("confirm prospect: %w", core.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("confirm prospect: %w", err)
	}

	return &p, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListProspectsParams,
) ([]Prospect, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	if params.Statut != "" {
		conditions = append(conditions, fmt.Sprintf("statut = $%d", argIdx))
		args = append(args, params.Statut)
		argIdx++
	}

	if params.InfluenceurID != "" {
		conditions = append(conditions, fmt.Sprintf(
			"influenceur_id = $%d", argIdx))
		args = append(args, params.InfluenceurID)
		argIdx++
	}

	whereClause := "TRUE"
	if len(conditions) > 0 {
		whereClause = strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM prospects WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count prospects: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM prospects
		WHERE %s
		ORDER BY date_inscription DESC
		LIMIT $%d OFFSET $%d`,
		prospectColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var prospects []Prospect
	if err := r.db.SelectContext(ctx, &prospects, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list prospects: %w", err)
	}

	return prospects, total, nil
}

func (r *repository) ListByInfluenceur(
	ctx context.Context,
	influenceurID string,
) ([]Prospect, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM prospects
		WHERE influenceur_id = $1
		ORDER BY date_inscription DESC`, prospectColumns)

	var prospects []Prospect
	err := r.db.SelectContext(ctx, &prospects, query, influenceurID)
	if err != nil {
		return nil, fmt.Errorf("list prospects by influenceur: %w", err)
	}

	return prospects, nil
}

func (r *repository) ListSansRemise(ctx context.Context) ([]Prospect, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM prospects
		WHERE remise_id IS NULL
		ORDER BY date_inscription DESC`, prospectColumns)

	var prospects []Prospect
	if err := r.db.SelectContext(ctx, &prospects, query); err != nil {
		return nil, fmt.Errorf("list prospects sans remise: %w", err)
	}

	return prospects, nil
}

func (r *repository) CountByInfluenceur(
	ctx context.Context,
	influenceurID string,
) (int, int, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE statut = $2) AS confirmes
		FROM prospects
		WHERE influenceur_id = $1`

	var counts struct {
		Total     int `db:"total"`
		Confirmes int `db:"confirmes"`
	}
	err := r.db.GetContext(ctx, &counts, query, influenceurID, StatutConfirme)
	if err != nil {
		return 0, 0, fmt.Errorf("count prospects: %w", err)
	}

	return counts.Total, counts.Confirmes, nil
}
