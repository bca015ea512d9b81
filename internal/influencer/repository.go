// AngelaMos | 2026
// repository.go

package influencer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fofanamamadou/affiliation-project/internal/core"
)

type Repository interface {
	Create(ctx context.Context, inf *Influenceur) error
	GetByID(ctx context.Context, id string) (*Influenceur, error)
	GetByEmail(ctx context.Context, email string) (*Influenceur, error)
	GetByCode(ctx context.Context, code string) (*Influenceur, error)
	Update(ctx context.Context, inf *Influenceur) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	RecordLoginFailure(
		ctx context.Context,
		id string,
		failures int,
		lockedUntil *time.Time,
	) error
	RecordLoginSuccess(ctx context.Context, id string) error
	Disable(ctx context.Context, id string) error
	List(
		ctx context.Context,
		params ListInfluenceursParams,
	) ([]Influenceur, int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const influenceurColumns = `
	id, nom, email, password_hash, code_affiliation, role, actif,
	derniere_connexion, failed_logins, locked_until, created_at, updated_at`

func (r *repository) Create(ctx context.Context, inf *Influenceur) error {
	query := `
		INSERT INTO influenceurs (
			id, nom, email, password_hash, code_affiliation, role, actif
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, inf, query,
		inf.ID,
		inf.Nom,
		inf.Email,
		inf.PasswordHash,
		inf.CodeAffiliation,
		inf.Role,
		inf.Actif,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create influenceur: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create influenceur: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id string,
) (*Influenceur, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM influenceurs WHERE id = $1`, influenceurColumns)

	var inf Influenceur
	err := r.db.GetContext(ctx, &inf, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get influenceur: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get influenceur: %w", err)
	}

	return &inf, nil
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*Influenceur, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM influenceurs WHERE email = $1`, influenceurColumns)

	var inf Influenceur
	err := r.db.GetContext(ctx, &inf, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get influenceur by email: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get influenceur by email: %w", err)
	}

	return &inf, nil
}

func (r *repository) GetByCode(
	ctx context.Context,
	code string,
) (*Influenceur, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM influenceurs WHERE code_affiliation = $1`,
		influenceurColumns)

	var inf Influenceur
	err := r.db.GetContext(ctx, &inf, query, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get influenceur by code: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get influenceur by code: %w", err)
	}

	return &inf, nil
}

// Update persists nom, email and role. The affiliation code is deliberately
// absent from the statement: it is immutable after insert.
func (r *repository) Update(ctx context.Context, inf *Influenceur) error {
	query := `
		UPDATE influenceurs
		SET nom = $2, email = $3, role = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &inf.UpdatedAt, query,
		inf.ID,
		inf.Nom,
		inf.Email,
		inf.Role,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update influenceur: %w", core.ErrNotFound)
	}
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("update influenceur: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("update influenceur: %w", err)
	}

	return nil
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	query := `
		UPDATE influenceurs
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) RecordLoginFailure(
	ctx context.Context,
	id string,
	failures int,
	lockedUntil *time.Time,
) error {
	// The caller computes the counter so an expired lock restarts it at 1.
	// locked_until is written unconditionally; nil clears a stale lock.
	query := `
		UPDATE influenceurs
		SET failed_logins = $2, locked_until = $3, updated_at = NOW()
		WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, failures, lockedUntil); err != nil {
		return fmt.Errorf("record login failure: %w", err)
	}

	return nil
}

func (r *repository) RecordLoginSuccess(ctx context.Context, id string) error {
	query := `
		UPDATE influenceurs
		SET failed_logins = 0, locked_until = NULL,
		    derniere_connexion = NOW(), updated_at = NOW()
		WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("record login success: %w", err)
	}

	return nil
}

func (r *repository) Disable(ctx context.Context, id string) error {
	query := `
		UPDATE influenceurs
		SET actif = false, updated_at = NOW()
		WHERE id = $1 AND actif = true`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("disable influenceur: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("disable influenceur: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("disable influenceur: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	params ListInfluenceursParams,
) ([]Influenceur, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(email ILIKE $%d OR nom ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+escapeLike(params.Search)+"%")
		argIdx++
	}

	if params.Actif != nil {
		conditions = append(conditions, fmt.Sprintf("actif = $%d", argIdx))
		args = append(args, *params.Actif)
		argIdx++
	}

	whereClause := "TRUE"
	if len(conditions) > 0 {
		whereClause = strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM influenceurs WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count influenceurs: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM influenceurs
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		influenceurColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var influenceurs []Influenceur
	if err := r.db.SelectContext(ctx, &influenceurs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list influenceurs: %w", err)
	}

	return influenceurs, total, nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
