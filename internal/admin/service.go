// AngelaMos | 2026
// service.go

package admin

import (
	"context"

	"github.com/fofanamamadou/affiliation-project/internal/auth"
)

// Service exposes the admin account store to the auth flow.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByIdentifier(
	ctx context.Context,
	identifier string,
) (*auth.AccountInfo, error) {
	account, err := s.repo.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}

	return toAccountInfo(account), nil
}

func (s *Service) GetByID(
	ctx context.Context,
	id string,
) (*auth.AccountInfo, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toAccountInfo(account), nil
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, id, passwordHash)
}

func toAccountInfo(a *Account) *auth.AccountInfo {
	return &auth.AccountInfo{
		ID:           a.ID,
		Nom:          a.Username,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		Actif:        true,
	}
}

var _ auth.AdminProvider = (*Service)(nil)
