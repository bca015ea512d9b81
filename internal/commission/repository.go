// AngelaMos | 2026
// repository.go

package commission

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fofanamamadou/affiliation-project/internal/core"
)

type Repository interface {
	Create(ctx context.Context, remise *Remise) error
	GetByID(ctx context.Context, id string) (*Remise, error)
	List(ctx context.Context, params ListRemisesParams) ([]Remise, int, error)
	ListByInfluenceur(
		ctx context.Context,
		influenceurID string,
	) ([]Remise, error)
	Pay(ctx context.Context, id string, justificatif *string) (*Remise, error)
	TotalPaidForInfluenceur(
		ctx context.Context,
		influenceurID string,
	) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const remiseColumns = `
	id, montant, statut, influenceur_id, justificatif, date_paiement,
	created_at, updated_at`

// Create inserts a manually issued pending remise. An unknown influencer
// surfaces as a foreign-key violation mapped to ErrNotFound.
func (r *repository) Create(ctx context.Context, remise *Remise) error {
	query := `
		INSERT INTO remises (id, montant, statut, influenceur_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(
		ctx,
		remise,
		query,
		remise.ID,
		remise.Montant,
		remise.Statut,
		remise.InfluenceurID,
	)
	if isForeignKeyError(err) {
		return fmt.Errorf("create remise: influenceur: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("create remise: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Remise, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM remises WHERE id = $1`, remiseColumns)

	var remise Remise
	err := r.db.GetContext(ctx, &remise, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get remise: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get remise: %w", err)
	}

	return &remise, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListRemisesParams,
) ([]Remise, int, error) {
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
		"SELECT COUNT(*) FROM remises WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count remises: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM remises
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		remiseColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var remises []Remise
	if err := r.db.SelectContext(ctx, &remises, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list remises: %w", err)
	}

	return remises, total, nil
}

func (r *repository) ListByInfluenceur(
	ctx context.Context,
	influenceurID string,
) ([]Remise, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM remises
		WHERE influenceur_id = $1
		ORDER BY created_at DESC`, remiseColumns)

	var remises []Remise
	err := r.db.SelectContext(ctx, &remises, query, influenceurID)
	if err != nil {
		return nil, fmt.Errorf("list remises by influenceur: %w", err)
	}

	return remises, nil
}

// Pay marks a pending remise paid. The statut guard keeps the transition
// one-way at the database level; zero rows means already paid or missing.
func (r *repository) Pay(
	ctx context.Context,
	id string,
	justificatif *string,
) (*Remise, error) {
	query := fmt.Sprintf(`
		UPDATE remises
		SET statut = $2, justificatif = COALESCE($3, justificatif),
		    date_paiement = NOW(), updated_at = NOW()
		WHERE id = $1 AND statut = $4
		RETURNING %s`, remiseColumns)

	var remise Remise
	err := r.db.GetContext(
		ctx,
		&remise,
		query,
		id,
		StatutPayee,
		justificatif,
		StatutEnAttente,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("pay remise: %w", core.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("pay remise: %w", err)
	}

	return &remise, nil
}

func isForeignKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}

func (r *repository) TotalPaidForInfluenceur(
	ctx context.Context,
	influenceurID string,
) (int64, error) {
	query := `
		SELECT COALESCE(SUM(montant), 0)
		FROM remises
		WHERE influenceur_id = $1 AND statut = $2`

	var total int64
	err := r.db.GetContext(ctx, &total, query, influenceurID, StatutPayee)
	if err != nil {
		return 0, fmt.Errorf("total paid remises: %w", err)
	}

	return total, nil
}
