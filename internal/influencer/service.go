// AngelaMos | 2026
// service.go

package influencer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fofanamamadou/affiliation-project/internal/auth"
	"github.com/fofanamamadou/affiliation-project/internal/commission"
	"github.com/fofanamamadou/affiliation-project/internal/core"
	"github.com/fofanamamadou/affiliation-project/internal/identity"
	"github.com/fofanamamadou/affiliation-project/internal/prospect"
)

// Notifier is the slice of notify.Notifier this package uses.
type Notifier interface {
	AffiliationLink(code string) string
	InfluenceurCreated(ctx context.Context, nom, email, code string)
}

// ProspectSource feeds the dashboard. Satisfied by prospect.Repository.
type ProspectSource interface {
	ListByInfluenceur(
		ctx context.Context,
		influenceurID string,
	) ([]prospect.Prospect, error)
	CountByInfluenceur(
		ctx context.Context,
		influenceurID string,
	) (total, confirmes int, err error)
}

// RemiseSource feeds the dashboard. Implemented by commission.Service.
type RemiseSource interface {
	ListByInfluenceur(
		ctx context.Context,
		influenceurID string,
	) ([]commission.Remise, error)
	TotalPaidForInfluenceur(
		ctx context.Context,
		influenceurID string,
	) (int64, error)
}

type Service struct {
	repo      Repository
	notifier  Notifier
	prospects ProspectSource
	remises   RemiseSource
}

func NewService(
	repo Repository,
	notifier Notifier,
	prospects ProspectSource,
	remises RemiseSource,
) *Service {
	return &Service{
		repo:      repo,
		notifier:  notifier,
		prospects: prospects,
		remises:   remises,
	}
}

// Create provisions an influencer account on behalf of an operator and sends
// the affiliation-link and welcome emails.
func (s *Service) Create(
	ctx context.Context,
	req CreateInfluenceurRequest,
) (*Influenceur, error) {
	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = identity.RoleInfluenceur
	}

	return s.create(ctx, req.Nom, req.Email, passwordHash, role)
}

func (s *Service) create(
	ctx context.Context,
	nom, email, passwordHash, role string,
) (*Influenceur, error) {
	email = strings.ToLower(email)

	// The 8-char code space makes collisions unlikely but not impossible;
	// retry with a fresh code unless the conflict is on the email.
	for attempt := 0; attempt < 3; attempt++ {
		inf := &Influenceur{
			ID:              uuid.New().String(),
			Nom:             nom,
			Email:           email,
			PasswordHash:    passwordHash,
			CodeAffiliation: NewAffiliationCode(),
			Role:            role,
			Actif:           true,
		}

		err := s.repo.Create(ctx, inf)
		if err == nil {
			go s.notifier.InfluenceurCreated(
				context.WithoutCancel(ctx),
				inf.Nom,
				inf.Email,
				inf.CodeAffiliation,
			)
			return inf, nil
		}

		if !errors.Is(err, core.ErrDuplicateKey) {
			return nil, err
		}

		if _, lookupErr := s.repo.GetByEmail(ctx, email); lookupErr == nil {
			return nil, fmt.Errorf(
				"create influenceur: %w",
				core.ErrDuplicateKey,
			)
		}
	}

	return nil, fmt.Errorf("create influenceur: code generation exhausted")
}

func (s *Service) Get(ctx context.Context, id string) (*Influenceur, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(
	ctx context.Context,
	params ListInfluenceursParams,
) ([]Influenceur, int, error) {
	return s.repo.List(ctx, params)
}

// Update edits profile fields. The affiliation code is never touched, and
// role changes are reserved to admins by the handler.
func (s *Service) Update(
	ctx context.Context,
	id string,
	req UpdateInfluenceurRequest,
) (*Influenceur, error) {
	inf, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Nom != nil {
		inf.Nom = *req.Nom
	}
	if req.Email != nil {
		inf.Email = strings.ToLower(*req.Email)
	}
	if req.Role != nil {
		inf.Role = *req.Role
	}

	if err := s.repo.Update(ctx, inf); err != nil {
		return nil, err
	}

	if req.Password != nil {
		passwordHash, err := core.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		if err := s.repo.UpdatePassword(ctx, id, passwordHash); err != nil {
			return nil, err
		}
	}

	return inf, nil
}

// Disable soft-disables the account. Existing prospects and remises keep
// their links; only logins and the public signup page stop working.
func (s *Service) Disable(ctx context.Context, id string) error {
	return s.repo.Disable(ctx, id)
}

func (s *Service) Dashboard(
	ctx context.Context,
	id string,
) (*DashboardResponse, error) {
	inf, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	total, confirmes, err := s.prospects.CountByInfluenceur(ctx, id)
	if err != nil {
		return nil, err
	}

	totalPaid, err := s.remises.TotalPaidForInfluenceur(ctx, id)
	if err != nil {
		return nil, err
	}

	prospectList, err := s.prospects.ListByInfluenceur(ctx, id)
	if err != nil {
		return nil, err
	}

	remiseList, err := s.remises.ListByInfluenceur(ctx, id)
	if err != nil {
		return nil, err
	}

	return &DashboardResponse{
		Influenceur: s.toResponse(inf),
		Stats: DashboardStats{
			NbProspects:         total,
			NbProspectsConfirme: confirmes,
			TotalRemisesPayees:  totalPaid,
		},
		Prospects: prospect.ToProspectResponseList(prospectList),
		Remises:   commission.ToRemiseResponseList(remiseList),
	}, nil
}

func (s *Service) toResponse(inf *Influenceur) InfluenceurResponse {
	return ToInfluenceurResponse(
		inf,
		s.notifier.AffiliationLink(inf.CodeAffiliation),
	)
}

// --- auth.InfluenceurProvider ---

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.AccountInfo, error) {
	inf, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}

	return toAccountInfo(inf), nil
}

func (s *Service) GetByID(
	ctx context.Context,
	id string,
) (*auth.AccountInfo, error) {
	inf, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toAccountInfo(inf), nil
}

func (s *Service) Register(
	ctx context.Context,
	nom, email, passwordHash string,
) (*auth.AccountInfo, error) {
	inf, err := s.create(ctx, nom, email, passwordHash, identity.RoleInfluenceur)
	if err != nil {
		return nil, err
	}

	return toAccountInfo(inf), nil
}

func (s *Service) RecordLoginFailure(
	ctx context.Context,
	id string,
	failures int,
	lockedUntil *time.Time,
) error {
	return s.repo.RecordLoginFailure(ctx, id, failures, lockedUntil)
}

func (s *Service) RecordLoginSuccess(ctx context.Context, id string) error {
	return s.repo.RecordLoginSuccess(ctx, id)
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, id, passwordHash)
}

func toAccountInfo(inf *Influenceur) *auth.AccountInfo {
	return &auth.AccountInfo{
		ID:              inf.ID,
		Nom:             inf.Nom,
		Email:           inf.Email,
		PasswordHash:    inf.PasswordHash,
		Role:            inf.Role,
		CodeAffiliation: inf.CodeAffiliation,
		Actif:           inf.Actif,
		FailedLogins:    inf.FailedLogins,
		LockedUntil:     inf.LockedUntil,
	}
}

// --- prospect.OwnerDirectory ---

func (s *Service) OwnerByCode(
	ctx context.Context,
	code string,
) (*prospect.Owner, error) {
	inf, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	return toOwner(inf), nil
}

func (s *Service) OwnerByID(
	ctx context.Context,
	id string,
) (*prospect.Owner, error) {
	inf, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toOwner(inf), nil
}

func toOwner(inf *Influenceur) *prospect.Owner {
	return &prospect.Owner{
		ID:    inf.ID,
		Nom:   inf.Nom,
		Email: inf.Email,
		Actif: inf.Actif,
	}
}

var (
	_ auth.InfluenceurProvider = (*Service)(nil)
	_ prospect.OwnerDirectory  = (*Service)(nil)
)
