// AngelaMos | 2026
// service.go

package prospect

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/fofanamamadou/affiliation-project/internal/core"
	"github.com/fofanamamadou/affiliation-project/internal/identity"
)

// Owner is the slice of an influencer the prospect flow needs.
type Owner struct {
	ID    string
	Nom   string
	Email string
	Actif bool
}

// OwnerDirectory resolves influencers without coupling this package to
// their storage. Implemented by influencer.Service.
type OwnerDirectory interface {
	OwnerByCode(ctx context.Context, code string) (*Owner, error)
	OwnerByID(ctx context.Context, id string) (*Owner, error)
}

// Alerts is the notification surface used on signups. Implemented by
// notify.Notifier; dispatches are best-effort on the notifier side.
type Alerts interface {
	ProspectSignedUp(
		ctx context.Context,
		influenceurNom, influenceurEmail, prospectNom string,
	)
}

type Service struct {
	repo   Repository
	owners OwnerDirectory
	alerts Alerts
}

func NewService(repo Repository, owners OwnerDirectory, alerts Alerts) *Service {
	return &Service{
		repo:   repo,
		owners: owners,
		alerts: alerts,
	}
}

// List scopes the listing to the caller: admins see everything, influencers
// only their own prospects regardless of the requested filter.
func (s *Service) List(
	ctx context.Context,
	ident identity.Identity,
	params ListProspectsParams,
) ([]Prospect, int, error) {
	if !ident.IsAdmin() {
		params.InfluenceurID = ident.ID
	}

	return s.repo.List(ctx, params)
}

func (s *Service) Get(
	ctx context.Context,
	ident identity.Identity,
	id string,
) (*Prospect, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !ident.Owns(p.InfluenceurID) {
		return nil, fmt.Errorf("get prospect: %w", core.ErrForbidden)
	}

	return p, nil
}

// Create registers a prospect on behalf of an authenticated caller. Admins
// may place it under any influencer; influencers always own what they create.
func (s *Service) Create(
	ctx context.Context,
	ident identity.Identity,
	req CreateProspectRequest,
) (*Prospect, error) {
	influenceurID := req.InfluenceurID
	if !ident.IsAdmin() {
		influenceurID = ident.ID
	}
	if influenceurID == "" {
		return nil, fmt.Errorf(
			"create prospect: influenceur_id required: %w",
			core.ErrInvalidInput,
		)
	}

	owner, err := s.owners.OwnerByID(ctx, influenceurID)
	if err != nil {
		return nil, fmt.Errorf("resolve influenceur: %w", err)
	}

	p := &Prospect{
		ID:            uuid.New().String(),
		Nom:           req.Nom,
		Email:         strings.ToLower(req.Email),
		Statut:        StatutEnAttente,
		InfluenceurID: owner.ID,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	go s.alerts.ProspectSignedUp(
		context.WithoutCancel(ctx),
		owner.Nom,
		owner.Email,
		p.Nom,
	)

	return p, nil
}

// Valider confirms a pending prospect. The transition is one-way: a second
// confirmation attempt reports a conflict and leaves the row untouched.
func (s *Service) Valider(
	ctx context.Context,
	ident identity.Identity,
	id string,
) (*Prospect, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !ident.Owns(p.InfluenceurID) {
		return nil, fmt.Errorf("valider prospect: %w", core.ErrForbidden)
	}

	confirmed, err := s.repo.Confirm(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrConflict) {
			return nil, core.ConflictError("prospect is already confirmed")
		}
		return nil, err
	}

	return confirmed, nil
}

func (s *Service) ListSansRemise(ctx context.Context) ([]Prospect, error) {
	return s.repo.ListSansRemise(ctx)
}

func (s *Service) ListByInfluenceur(
	ctx context.Context,
	influenceurID string,
) ([]Prospect, error) {
	return s.repo.ListByInfluenceur(ctx, influenceurID)
}

func (s *Service) CountByInfluenceur(
	ctx context.Context,
	influenceurID string,
) (int, int, error) {
	return s.repo.CountByInfluenceur(ctx, influenceurID)
}

// PublicSignup handles the unauthenticated affiliation form. An unknown code
// and a disabled influencer are indistinguishable to the caller.
func (s *Service) PublicSignup(
	ctx context.Context,
	code string,
	req PublicSignupRequest,
) (*Prospect, error) {
	owner, err := s.ResolveCode(ctx, code)
	if err != nil {
		return nil, err
	}

	p := &Prospect{
		ID:            uuid.New().String(),
		Nom:           req.Nom,
		Email:         strings.ToLower(req.Email),
		Statut:        StatutEnAttente,
		InfluenceurID: owner.ID,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	go s.alerts.ProspectSignedUp(
		context.WithoutCancel(ctx),
		owner.Nom,
		owner.Email,
		p.Nom,
	)

	return p, nil
}

// ResolveCode maps an affiliation code to its active owner, ErrNotFound
// otherwise.
func (s *Service) ResolveCode(
	ctx context.Context,
	code string,
) (*Owner, error) {
	owner, err := s.owners.OwnerByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if !owner.Actif {
		return nil, fmt.Errorf("resolve code: %w", core.ErrNotFound)
	}

	return owner, nil
}
