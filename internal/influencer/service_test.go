// AngelaMos | 2026
// service_test.go

package influencer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fofanamamadou/affiliation-project/internal/commission"
	"github.com/fofanamamadou/affiliation-project/internal/core"
	"github.com/fofanamamadou/affiliation-project/internal/identity"
	"github.com/fofanamamadou/affiliation-project/internal/prospect"
)

type fakeRepo struct {
	mu             sync.Mutex
	byID           map[string]*Influenceur
	byEmail        map[string]*Influenceur
	byCode         map[string]*Influenceur
	codeCollisions int
	createCalls    int
	lastPassword   string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byID:    make(map[string]*Influenceur),
		byEmail: make(map[string]*Influenceur),
		byCode:  make(map[string]*Influenceur),
	}
}

func (f *fakeRepo) Create(_ context.Context, inf *Influenceur) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.createCalls++
	if _, exists := f.byEmail[inf.Email]; exists {
		return core.ErrDuplicateKey
	}
	if f.codeCollisions > 0 {
		f.codeCollisions--
		return core.ErrDuplicateKey
	}

	now := time.Now()
	inf.CreatedAt = now
	inf.UpdatedAt = now
	f.byID[inf.ID] = inf
	f.byEmail[inf.Email] = inf
	f.byCode[inf.CodeAffiliation] = inf
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Influenceur, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if inf, ok := f.byID[id]; ok {
		return inf, nil
	}
	return nil, core.ErrNotFound
}

func (f *fakeRepo) GetByEmail(
	_ context.Context,
	email string,
) (*Influenceur, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if inf, ok := f.byEmail[email]; ok {
		return inf, nil
	}
	return nil, core.ErrNotFound
}

func (f *fakeRepo) GetByCode(
	_ context.Context,
	code string,
) (*Influenceur, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if inf, ok := f.byCode[code]; ok {
		return inf, nil
	}
	return nil, core.ErrNotFound
}

func (f *fakeRepo) Update(_ context.Context, inf *Influenceur) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.byID[inf.ID]
	if !ok {
		return core.ErrNotFound
	}
	// the code column is absent from the UPDATE; mimic that here
	inf.CodeAffiliation = stored.CodeAffiliation
	f.byID[inf.ID] = inf
	return nil
}

func (f *fakeRepo) UpdatePassword(_ context.Context, id, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastPassword = hash
	if inf, ok := f.byID[id]; ok {
		inf.PasswordHash = hash
		return nil
	}
	return core.ErrNotFound
}

func (f *fakeRepo) RecordLoginFailure(
	_ context.Context,
	id string,
	failures int,
	lockedUntil *time.Time,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if inf, ok := f.byID[id]; ok {
		inf.FailedLogins = failures
		inf.LockedUntil = lockedUntil
		return nil
	}
	return core.ErrNotFound
}

func (f *fakeRepo) RecordLoginSuccess(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if inf, ok := f.byID[id]; ok {
		inf.FailedLogins = 0
		inf.LockedUntil = nil
		now := time.Now()
		inf.DerniereConnexion = &now
		return nil
	}
	return core.ErrNotFound
}

func (f *fakeRepo) Disable(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if inf, ok := f.byID[id]; ok && inf.Actif {
		inf.Actif = false
		return nil
	}
	return core.ErrNotFound
}

func (f *fakeRepo) List(
	_ context.Context,
	_ ListInfluenceursParams,
) ([]Influenceur, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Influenceur, 0, len(f.byID))
	for _, inf := range f.byID {
		out = append(out, *inf)
	}
	return out, len(out), nil
}

type fakeNotifier struct {
	mu      sync.Mutex
	created []string
}

func (f *fakeNotifier) AffiliationLink(code string) string {
	return "http://localhost:8080/affiliation/" + code
}

func (f *fakeNotifier) InfluenceurCreated(_ context.Context, _, email, _ string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, email)
}

type fakeProspects struct{}

func (fakeProspects) ListByInfluenceur(
	_ context.Context,
	_ string,
) ([]prospect.Prospect, error) {
	return []prospect.Prospect{
		{ID: "p1", Statut: prospect.StatutConfirme},
		{ID: "p2", Statut: prospect.StatutEnAttente},
	}, nil
}

func (fakeProspects) CountByInfluenceur(
	_ context.Context,
	_ string,
) (int, int, error) {
	return 2, 1, nil
}

type fakeRemises struct{}

func (fakeRemises) ListByInfluenceur(
	_ context.Context,
	_ string,
) ([]commission.Remise, error) {
	return []commission.Remise{{ID: "r1", Montant: 1000}}, nil
}

func (fakeRemises) TotalPaidForInfluenceur(
	_ context.Context,
	_ string,
) (int64, error) {
	return 1000, nil
}

func newTestService(repo *fakeRepo) (*Service, *fakeNotifier) {
	notifier := &fakeNotifier{}
	return NewService(repo, notifier, fakeProspects{}, fakeRemises{}), notifier
}

func TestCreateGeneratesCode(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	inf, err := svc.Create(context.Background(), CreateInfluenceurRequest{
		Nom:      "Awa",
		Email:    "Awa@Example.com",
		Password: "password1",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if len(inf.CodeAffiliation) != 8 {
		t.Errorf("code = %q, want 8 chars", inf.CodeAffiliation)
	}
	if inf.Email != "awa@example.com" {
		t.Errorf("email not lowercased: %s", inf.Email)
	}
	if inf.Role != identity.RoleInfluenceur {
		t.Errorf("default role = %s", inf.Role)
	}
	if !inf.Actif {
		t.Error("new account should be active")
	}
}

func TestCreateDuplicateEmail(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	req := CreateInfluenceurRequest{
		Nom:      "Awa",
		Email:    "awa@example.com",
		Password: "password1",
	}
	if _, err := svc.Create(context.Background(), req); err != nil {
		t.Fatal(err)
	}

	_, err := svc.Create(context.Background(), req)
	if !errors.Is(err, core.ErrDuplicateKey) {
		t.Errorf("err = %v, want ErrDuplicateKey", err)
	}

	// an email conflict must not burn all retry attempts
	if repo.createCalls != 2 {
		t.Errorf("create calls = %d, want 2", repo.createCalls)
	}
}

func TestCreateRetriesOnCodeCollision(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	// first insert collides on the code column, second draw goes through
	repo.codeCollisions = 1

	inf, err := svc.Create(context.Background(), CreateInfluenceurRequest{
		Nom:      "Second",
		Email:    "second@example.com",
		Password: "password1",
	})
	if err != nil {
		t.Fatalf("Create after collision: %v", err)
	}
	if repo.createCalls != 2 {
		t.Errorf("create calls = %d, want 2", repo.createCalls)
	}
	if len(inf.CodeAffiliation) != 8 {
		t.Errorf("code = %q, want 8 characters", inf.CodeAffiliation)
	}
}

func TestUpdateNeverTouchesCode(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	inf, err := svc.Create(context.Background(), CreateInfluenceurRequest{
		Nom:      "Awa",
		Email:    "awa@example.com",
		Password: "password1",
	})
	if err != nil {
		t.Fatal(err)
	}
	originalCode := inf.CodeAffiliation

	nom := "Awa Traore"
	updated, err := svc.Update(context.Background(), inf.ID, UpdateInfluenceurRequest{
		Nom: &nom,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.CodeAffiliation != originalCode {
		t.Errorf("code changed on update: %s -> %s",
			originalCode, updated.CodeAffiliation)
	}
	if updated.Nom != "Awa Traore" {
		t.Errorf("nom = %s", updated.Nom)
	}
}

func TestUpdatePasswordRehashes(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	inf, err := svc.Create(context.Background(), CreateInfluenceurRequest{
		Nom:      "Awa",
		Email:    "awa@example.com",
		Password: "password1",
	})
	if err != nil {
		t.Fatal(err)
	}

	newPassword := "newpassword2"
	if _, err := svc.Update(context.Background(), inf.ID, UpdateInfluenceurRequest{
		Password: &newPassword,
	}); err != nil {
		t.Fatal(err)
	}

	if repo.lastPassword == "" || repo.lastPassword == "newpassword2" {
		t.Error("password stored without hashing")
	}
	valid, err := core.VerifyPassword("newpassword2", repo.lastPassword)
	if err != nil || !valid {
		t.Errorf("stored hash does not verify: valid=%v err=%v", valid, err)
	}
}

func TestDisableIsIdempotentError(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	inf, err := svc.Create(context.Background(), CreateInfluenceurRequest{
		Nom:      "Awa",
		Email:    "awa@example.com",
		Password: "password1",
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Disable(context.Background(), inf.ID); err != nil {
		t.Fatalf("Disable: %v", err)
	}
	if err := svc.Disable(context.Background(), inf.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("second disable: err = %v, want ErrNotFound", err)
	}
}

func TestDashboard(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	inf, err := svc.Create(context.Background(), CreateInfluenceurRequest{
		Nom:      "Awa",
		Email:    "awa@example.com",
		Password: "password1",
	})
	if err != nil {
		t.Fatal(err)
	}

	dash, err := svc.Dashboard(context.Background(), inf.ID)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}

	if dash.Stats.NbProspects != 2 || dash.Stats.NbProspectsConfirme != 1 {
		t.Errorf("stats = %+v", dash.Stats)
	}
	if dash.Stats.TotalRemisesPayees != 1000 {
		t.Errorf("total paid = %d", dash.Stats.TotalRemisesPayees)
	}
	if len(dash.Prospects) != 2 || len(dash.Remises) != 1 {
		t.Errorf("listings: %d prospects, %d remises",
			len(dash.Prospects), len(dash.Remises))
	}
	if dash.Influenceur.LienAffiliation == "" {
		t.Error("affiliation link missing")
	}
}

func TestOwnerByCodeMapsAccount(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	inf, err := svc.Create(context.Background(), CreateInfluenceurRequest{
		Nom:      "Awa",
		Email:    "awa@example.com",
		Password: "password1",
	})
	if err != nil {
		t.Fatal(err)
	}

	owner, err := svc.OwnerByCode(context.Background(), inf.CodeAffiliation)
	if err != nil {
		t.Fatalf("OwnerByCode: %v", err)
	}
	if owner.ID != inf.ID || !owner.Actif {
		t.Errorf("owner = %+v", owner)
	}

	if _, err := svc.OwnerByCode(context.Background(), "unknown1"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("unknown code: err = %v", err)
	}
}

func TestNewAffiliationCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := NewAffiliationCode()
		if len(code) != 8 {
			t.Fatalf("code %q has length %d", code, len(code))
		}
		if seen[code] {
			t.Fatalf("duplicate code %q within 100 draws", code)
		}
		seen[code] = true
	}
}
