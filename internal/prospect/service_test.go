// AngelaMos | 2026
// service_test.go

package prospect

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fofanamamadou/affiliation-project/internal/core"
	"github.com/fofanamamadou/affiliation-project/internal/identity"
)

type fakeRepo struct {
	mu   sync.Mutex
	byID map[string]*Prospect
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: make(map[string]*Prospect)}
}

func (f *fakeRepo) Create(_ context.Context, p *Prospect) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	p.DateInscription = now
	p.CreatedAt = now
	p.UpdatedAt = now
	f.byID[p.ID] = p
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Prospect, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.byID[id]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, core.ErrNotFound
}

func (f *fakeRepo) Confirm(_ context.Context, id string) (*Prospect, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	if p.Statut != StatutEnAttente {
		return nil, core.ErrConflict
	}
	p.Statut = StatutConfirme
	clone := *p
	return &clone, nil
}

func (f *fakeRepo) List(
	_ context.Context,
	params ListProspectsParams,
) ([]Prospect, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Prospect
	for _, p := range f.byID {
		if params.InfluenceurID != "" && p.InfluenceurID != params.InfluenceurID {
			continue
		}
		if params.Statut != "" && p.Statut != params.Statut {
			continue
		}
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (f *fakeRepo) ListByInfluenceur(
	ctx context.Context,
	influenceurID string,
) ([]Prospect, error) {
	out, _, err := f.List(ctx, ListProspectsParams{InfluenceurID: influenceurID})
	return out, err
}

func (f *fakeRepo) ListSansRemise(_ context.Context) ([]Prospect, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Prospect
	for _, p := range f.byID {
		if p.RemiseID == nil {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeRepo) CountByInfluenceur(
	_ context.Context,
	influenceurID string,
) (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	total, confirmes := 0, 0
	for _, p := range f.byID {
		if p.InfluenceurID != influenceurID {
			continue
		}
		total++
		if p.Statut == StatutConfirme {
			confirmes++
		}
	}
	return total, confirmes, nil
}

type fakeOwners struct {
	owners map[string]*Owner // keyed by code and by id
}

func newFakeOwners(owners ...*Owner) *fakeOwners {
	f := &fakeOwners{owners: make(map[string]*Owner)}
	for _, o := range owners {
		f.owners[o.ID] = o
		f.owners["code"+o.ID] = o
	}
	return f
}

func (f *fakeOwners) OwnerByCode(_ context.Context, code string) (*Owner, error) {
	if o, ok := f.owners[code]; ok {
		return o, nil
	}
	return nil, core.ErrNotFound
}

func (f *fakeOwners) OwnerByID(_ context.Context, id string) (*Owner, error) {
	if o, ok := f.owners[id]; ok {
		return o, nil
	}
	return nil, core.ErrNotFound
}

type fakeAlerts struct {
	mu      sync.Mutex
	signups []string
}

func (f *fakeAlerts) ProspectSignedUp(
	_ context.Context,
	_, influenceurEmail, _ string,
) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signups = append(f.signups, influenceurEmail)
}

func newTestService(owners ...*Owner) (*Service, *fakeRepo) {
	repo := newFakeRepo()
	return NewService(repo, newFakeOwners(owners...), &fakeAlerts{}), repo
}

func activeOwner(id string) *Owner {
	return &Owner{ID: id, Nom: "Awa", Email: "awa@example.com", Actif: true}
}

func TestCreateAsInfluenceurForcesOwnership(t *testing.T) {
	svc, _ := newTestService(activeOwner("i1"))
	ident := identity.Influenceur("i1", 0)

	p, err := svc.Create(context.Background(), ident, CreateProspectRequest{
		Nom:           "Moussa",
		Email:         "Moussa@Example.com",
		InfluenceurID: "someone-else",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if p.InfluenceurID != "i1" {
		t.Errorf("influenceur_id = %s, want caller's own id", p.InfluenceurID)
	}
	if p.Email != "moussa@example.com" {
		t.Errorf("email not lowercased: %s", p.Email)
	}
	if p.Statut != StatutEnAttente {
		t.Errorf("statut = %s", p.Statut)
	}
}

func TestCreateAsAdminRequiresInfluenceurID(t *testing.T) {
	svc, _ := newTestService(activeOwner("i1"))

	_, err := svc.Create(context.Background(), identity.Admin("a1"),
		CreateProspectRequest{Nom: "Moussa", Email: "m@example.com"})
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}

	p, err := svc.Create(context.Background(), identity.Admin("a1"),
		CreateProspectRequest{
			Nom:           "Moussa",
			Email:         "m@example.com",
			InfluenceurID: "i1",
		})
	if err != nil {
		t.Fatalf("Create with id: %v", err)
	}
	if p.InfluenceurID != "i1" {
		t.Errorf("influenceur_id = %s", p.InfluenceurID)
	}
}

func TestValiderIsOneWay(t *testing.T) {
	svc, _ := newTestService(activeOwner("i1"))
	ident := identity.Influenceur("i1", 0)

	p, err := svc.Create(context.Background(), ident, CreateProspectRequest{
		Nom:   "Moussa",
		Email: "m@example.com",
	})
	if err != nil {
		t.Fatal(err)
	}

	confirmed, err := svc.Valider(context.Background(), ident, p.ID)
	if err != nil {
		t.Fatalf("Valider: %v", err)
	}
	if confirmed.Statut != StatutConfirme {
		t.Errorf("statut = %s", confirmed.Statut)
	}

	_, err = svc.Valider(context.Background(), ident, p.ID)
	var appErr *core.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("second validation: err = %v, want AppError", err)
	}
	if appErr.Code != "CONFLICT" {
		t.Errorf("code = %s, want CONFLICT", appErr.Code)
	}
}

func TestValiderForeignProspectForbidden(t *testing.T) {
	svc, _ := newTestService(activeOwner("i1"))
	owner := identity.Influenceur("i1", 0)

	p, err := svc.Create(context.Background(), owner, CreateProspectRequest{
		Nom:   "Moussa",
		Email: "m@example.com",
	})
	if err != nil {
		t.Fatal(err)
	}

	intruder := identity.Influenceur("i2", identity.NewSet(identity.PermValidateProspects))
	if _, err := svc.Valider(context.Background(), intruder, p.ID); !errors.Is(err, core.ErrForbidden) {
		t.Errorf("err = %v, want ErrForbidden", err)
	}

	// admins may validate anyone's prospects
	if _, err := svc.Valider(context.Background(), identity.Admin("a1"), p.ID); err != nil {
		t.Errorf("admin validation: %v", err)
	}
}

func TestListScopesNonAdmins(t *testing.T) {
	svc, repo := newTestService(activeOwner("i1"), activeOwner("i2"))

	seed := []*Prospect{
		{ID: "p1", InfluenceurID: "i1", Statut: StatutEnAttente},
		{ID: "p2", InfluenceurID: "i2", Statut: StatutEnAttente},
	}
	for _, p := range seed {
		if err := repo.Create(context.Background(), p); err != nil {
			t.Fatal(err)
		}
	}

	own, _, err := svc.List(
		context.Background(),
		identity.Influenceur("i1", 0),
		ListProspectsParams{InfluenceurID: "i2"},
	)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range own {
		if p.InfluenceurID != "i1" {
			t.Errorf("leaked prospect of %s", p.InfluenceurID)
		}
	}

	all, _, err := svc.List(
		context.Background(),
		identity.Admin("a1"),
		ListProspectsParams{},
	)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("admin sees %d prospects, want 2", len(all))
	}
}

func TestGetForeignProspectForbidden(t *testing.T) {
	svc, repo := newTestService(activeOwner("i1"))

	p := &Prospect{ID: "p1", InfluenceurID: "i1", Statut: StatutEnAttente}
	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Get(
		context.Background(),
		identity.Influenceur("i2", 0),
		"p1",
	); !errors.Is(err, core.ErrForbidden) {
		t.Errorf("err = %v, want ErrForbidden", err)
	}
}

func TestPublicSignup(t *testing.T) {
	svc, _ := newTestService(activeOwner("i1"))

	p, err := svc.PublicSignup(context.Background(), "codei1", PublicSignupRequest{
		Nom:   "Moussa",
		Email: "m@example.com",
	})
	if err != nil {
		t.Fatalf("PublicSignup: %v", err)
	}

	if p.InfluenceurID != "i1" {
		t.Errorf("influenceur_id = %s", p.InfluenceurID)
	}
	if p.Statut != StatutEnAttente {
		t.Errorf("statut = %s", p.Statut)
	}
}

func TestPublicSignupUnknownCode(t *testing.T) {
	svc, _ := newTestService(activeOwner("i1"))

	_, err := svc.PublicSignup(context.Background(), "nope", PublicSignupRequest{
		Nom:   "Moussa",
		Email: "m@example.com",
	})
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestPublicSignupDisabledOwnerLooksUnknown(t *testing.T) {
	disabled := &Owner{ID: "i1", Nom: "Awa", Email: "a@example.com", Actif: false}
	svc, _ := newTestService(disabled)

	_, err := svc.PublicSignup(context.Background(), "codei1", PublicSignupRequest{
		Nom:   "Moussa",
		Email: "m@example.com",
	})
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
