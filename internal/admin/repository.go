// AngelaMos | 2026
// repository.go

package admin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fofanamamadou/affiliation-project/internal/core"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByIdentifier(ctx context.Context, identifier string) (*Account, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id string) (*Account, error) {
	query := `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM admins
		WHERE id = $1`

	var account Account
	err := r.db.GetContext(ctx, &account, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get admin: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get admin: %w", err)
	}

	return &account, nil
}

// GetByIdentifier matches username first, then email, in a single query.
func (r *repository) GetByIdentifier(
	ctx context.Context,
	identifier string,
) (*Account, error) {
	query := `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM admins
		WHERE username = $1 OR email = $1
		ORDER BY (username = $1) DESC
		LIMIT 1`

	var account Account
	err := r.db.GetContext(ctx, &account, query, identifier)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get admin by identifier: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get admin by identifier: %w", err)
	}

	return &account, nil
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	query := `
		UPDATE admins
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update admin password: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update admin password: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update admin password: %w", core.ErrNotFound)
	}

	return nil
}
