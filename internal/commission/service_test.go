// AngelaMos | 2026
// service_test.go

package commission

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fofanamamadou/affiliation-project/internal/core"
	"github.com/fofanamamadou/affiliation-project/internal/identity"
)

type fakeRepo struct {
	byID map[string]*Remise
}

func newFakeRepo(remises ...*Remise) *fakeRepo {
	f := &fakeRepo{byID: make(map[string]*Remise)}
	for _, r := range remises {
		f.byID[r.ID] = r
	}
	return f
}

func (f *fakeRepo) Create(_ context.Context, r *Remise) error {
	now := time.Now()
	r.CreatedAt = now
	r.UpdatedAt = now
	clone := *r
	f.byID[r.ID] = &clone
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Remise, error) {
	if r, ok := f.byID[id]; ok {
		clone := *r
		return &clone, nil
	}
	return nil, core.ErrNotFound
}

func (f *fakeRepo) List(
	_ context.Context,
	params ListRemisesParams,
) ([]Remise, int, error) {
	var out []Remise
	for _, r := range f.byID {
		if params.InfluenceurID != "" && r.InfluenceurID != params.InfluenceurID {
			continue
		}
		if params.Statut != "" && r.Statut != params.Statut {
			continue
		}
		out = append(out, *r)
	}
	return out, len(out), nil
}

func (f *fakeRepo) ListByInfluenceur(
	_ context.Context,
	influenceurID string,
) ([]Remise, error) {
	var out []Remise
	for _, r := range f.byID {
		if r.InfluenceurID == influenceurID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRepo) Pay(
	_ context.Context,
	id string,
	justificatif *string,
) (*Remise, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	if r.Statut != StatutEnAttente {
		return nil, core.ErrConflict
	}
	now := time.Now()
	r.Statut = StatutPayee
	r.DatePaiement = &now
	if justificatif != nil {
		r.Justificatif = justificatif
	}
	clone := *r
	return &clone, nil
}

func (f *fakeRepo) TotalPaidForInfluenceur(
	_ context.Context,
	influenceurID string,
) (int64, error) {
	var total int64
	for _, r := range f.byID {
		if r.InfluenceurID == influenceurID && r.Statut == StatutPayee {
			total += r.Montant
		}
	}
	return total, nil
}

func pendingRemise(id, influenceurID string, montant int64) *Remise {
	return &Remise{
		ID:            id,
		Montant:       montant,
		Statut:        StatutEnAttente,
		InfluenceurID: influenceurID,
	}
}

func TestPayerMarksPaid(t *testing.T) {
	repo := newFakeRepo(pendingRemise("r1", "i1", 3000))
	svc := NewService(repo, nil, t.TempDir())

	paid, err := svc.Payer(context.Background(), "r1", nil)
	if err != nil {
		t.Fatalf("Payer: %v", err)
	}

	if paid.Statut != StatutPayee {
		t.Errorf("statut = %s", paid.Statut)
	}
	if paid.DatePaiement == nil {
		t.Error("date_paiement not set")
	}
}

func TestPayerTwiceConflicts(t *testing.T) {
	repo := newFakeRepo(pendingRemise("r1", "i1", 3000))
	svc := NewService(repo, nil, t.TempDir())

	if _, err := svc.Payer(context.Background(), "r1", nil); err != nil {
		t.Fatal(err)
	}

	_, err := svc.Payer(context.Background(), "r1", nil)
	var appErr *core.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("err = %v, want AppError", err)
	}
	if appErr.Code != "CONFLICT" {
		t.Errorf("code = %s", appErr.Code)
	}
}

func TestPayerStoresProof(t *testing.T) {
	dir := t.TempDir()
	repo := newFakeRepo(pendingRemise("r1", "i1", 3000))
	svc := NewService(repo, nil, dir)

	paid, err := svc.Payer(context.Background(), "r1", &ProofUpload{
		Filename: "virement.pdf",
		Content:  strings.NewReader("%PDF-1.4 fake"),
	})
	if err != nil {
		t.Fatalf("Payer: %v", err)
	}

	if paid.Justificatif == nil || *paid.Justificatif != "r1.pdf" {
		t.Fatalf("justificatif = %v", paid.Justificatif)
	}

	data, err := os.ReadFile(filepath.Join(dir, "r1.pdf"))
	if err != nil {
		t.Fatalf("read stored proof: %v", err)
	}
	if string(data) != "%PDF-1.4 fake" {
		t.Errorf("stored content = %q", data)
	}
}

func TestPayerRejectsUnsupportedProofType(t *testing.T) {
	repo := newFakeRepo(pendingRemise("r1", "i1", 3000))
	svc := NewService(repo, nil, t.TempDir())

	_, err := svc.Payer(context.Background(), "r1", &ProofUpload{
		Filename: "payload.exe",
		Content:  strings.NewReader("MZ"),
	})
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}

	// the remise stays pending
	r, _ := repo.GetByID(context.Background(), "r1")
	if r.Statut != StatutEnAttente {
		t.Errorf("statut = %s, want en_attente", r.Statut)
	}
}

func TestGetForeignRemiseForbidden(t *testing.T) {
	repo := newFakeRepo(pendingRemise("r1", "i1", 3000))
	svc := NewService(repo, nil, t.TempDir())

	_, err := svc.Get(context.Background(), identity.Influenceur("i2", 0), "r1")
	if !errors.Is(err, core.ErrForbidden) {
		t.Errorf("err = %v, want ErrForbidden", err)
	}

	if _, err := svc.Get(
		context.Background(),
		identity.Influenceur("i1", 0),
		"r1",
	); err != nil {
		t.Errorf("owner access: %v", err)
	}
}

func TestListScopesNonAdmins(t *testing.T) {
	repo := newFakeRepo(
		pendingRemise("r1", "i1", 1000),
		pendingRemise("r2", "i2", 2000),
	)
	svc := NewService(repo, nil, t.TempDir())

	own, _, err := svc.List(
		context.Background(),
		identity.Influenceur("i1", 0),
		ListRemisesParams{InfluenceurID: "i2"},
	)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range own {
		if r.InfluenceurID != "i1" {
			t.Errorf("leaked remise of %s", r.InfluenceurID)
		}
	}

	all, _, err := svc.List(
		context.Background(),
		identity.Admin("a1"),
		ListRemisesParams{},
	)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("admin sees %d remises, want 2", len(all))
	}
}

func TestJustificatifPath(t *testing.T) {
	dir := t.TempDir()
	name := "r1.pdf"
	remise := pendingRemise("r1", "i1", 3000)
	remise.Justificatif = &name

	svc := NewService(newFakeRepo(remise), nil, dir)

	path, err := svc.JustificatifPath(
		context.Background(),
		identity.Admin("a1"),
		"r1",
	)
	if err != nil {
		t.Fatalf("JustificatifPath: %v", err)
	}
	if path != filepath.Join(dir, "r1.pdf") {
		t.Errorf("path = %s", path)
	}
}

func TestJustificatifPathMissingProof(t *testing.T) {
	svc := NewService(newFakeRepo(pendingRemise("r1", "i1", 3000)), nil, t.TempDir())

	_, err := svc.JustificatifPath(context.Background(), identity.Admin("a1"), "r1")
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestCreateIssuesPendingRemise(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, t.TempDir())

	remise, err := svc.Create(context.Background(), CreateRemiseRequest{
		InfluenceurID: "i1",
		Montant:       2500,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if remise.Statut != StatutEnAttente {
		t.Errorf("statut = %s, want %s", remise.Statut, StatutEnAttente)
	}
	if remise.Montant != 2500 {
		t.Errorf("montant = %d, want 2500", remise.Montant)
	}

	stored, err := repo.GetByID(context.Background(), remise.ID)
	if err != nil {
		t.Fatalf("remise not persisted: %v", err)
	}
	if stored.InfluenceurID != "i1" {
		t.Errorf("influenceur = %s, want i1", stored.InfluenceurID)
	}
}

func TestCreateRejectsNonPositiveMontant(t *testing.T) {
	svc := NewService(newFakeRepo(), nil, t.TempDir())

	for _, montant := range []int64{0, -5} {
		_, err := svc.Create(context.Background(), CreateRemiseRequest{
			InfluenceurID: "i1",
			Montant:       montant,
		})
		if !errors.Is(err, core.ErrInvalidInput) {
			t.Errorf("montant %d: err = %v, want ErrInvalidInput", montant, err)
		}
	}
}

func TestGenerateRejectsNonPositiveMontant(t *testing.T) {
	svc := NewService(newFakeRepo(), nil, t.TempDir())

	for _, montant := range []int64{0, -100} {
		if _, err := svc.Generate(
			context.Background(),
			montant,
			false,
		); !errors.Is(err, core.ErrInvalidInput) {
			t.Errorf("montant %d: err = %v, want ErrInvalidInput", montant, err)
		}
	}
}
