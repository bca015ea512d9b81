// AngelaMos | 2026
// service.go

package commission

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fofanamamadou/affiliation-project/internal/core"
	"github.com/fofanamamadou/affiliation-project/internal/identity"
)

// ProofUpload is a justificatif file attached to a payment.
type ProofUpload struct {
	Filename string
	Content  io.Reader
}

var allowedProofExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".webp": {},
	".pdf":  {},
}

type Service struct {
	repo            Repository
	db              *sqlx.DB
	justificatifDir string
}

func NewService(repo Repository, db *sqlx.DB, justificatifDir string) *Service {
	return &Service{
		repo:            repo,
		db:              db,
		justificatifDir: justificatifDir,
	}
}

// Create issues a pending remise by hand, outside any generation run. No
// prospects are linked to it; it exists for ad hoc compensation.
func (s *Service) Create(
	ctx context.Context,
	req CreateRemiseRequest,
) (*Remise, error) {
	if req.Montant <= 0 {
		return nil, fmt.Errorf(
			"create remise: montant must be positive: %w",
			core.ErrInvalidInput,
		)
	}

	remise := &Remise{
		ID:            uuid.New().String(),
		Montant:       req.Montant,
		Statut:        StatutEnAttente,
		InfluenceurID: req.InfluenceurID,
	}

	if err := s.repo.Create(ctx, remise); err != nil {
		return nil, err
	}

	return remise, nil
}

// List scopes to the caller: admins see every remise, influencers theirs.
func (s *Service) List(
	ctx context.Context,
	ident identity.Identity,
	params ListRemisesParams,
) ([]Remise, int, error) {
	if !ident.IsAdmin() {
		params.InfluenceurID = ident.ID
	}

	return s.repo.List(ctx, params)
}

func (s *Service) Get(
	ctx context.Context,
	ident identity.Identity,
	id string,
) (*Remise, error) {
	remise, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !ident.Owns(remise.InfluenceurID) {
		return nil, fmt.Errorf("get remise: %w", core.ErrForbidden)
	}

	return remise, nil
}

func (s *Service) ListByInfluenceur(
	ctx context.Context,
	influenceurID string,
) ([]Remise, error) {
	return s.repo.ListByInfluenceur(ctx, influenceurID)
}

func (s *Service) TotalPaidForInfluenceur(
	ctx context.Context,
	influenceurID string,
) (int64, error) {
	return s.repo.TotalPaidForInfluenceur(ctx, influenceurID)
}

// Payer marks a pending remise paid, optionally storing an uploaded proof
// file. Paying an already-paid remise is a conflict and leaves it untouched.
func (s *Service) Payer(
	ctx context.Context,
	id string,
	upload *ProofUpload,
) (*Remise, error) {
	remise, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if remise.IsPayee() {
		return nil, core.ConflictError("remise is already paid")
	}

	var justificatif *string
	if upload != nil {
		path, err := s.storeProof(id, upload)
		if err != nil {
			return nil, err
		}
		justificatif = &path
	}

	paid, err := s.repo.Pay(ctx, id, justificatif)
	if err != nil {
		if justificatif != nil {
			//nolint:errcheck // cleanup of the orphaned proof file
			_ = os.Remove(filepath.Join(s.justificatifDir, *justificatif))
		}
		if errors.Is(err, core.ErrConflict) {
			return nil, core.ConflictError("remise is already paid")
		}
		return nil, err
	}

	return paid, nil
}

// JustificatifPath resolves the on-disk path of a remise's proof file.
func (s *Service) JustificatifPath(
	ctx context.Context,
	ident identity.Identity,
	id string,
) (string, error) {
	remise, err := s.Get(ctx, ident, id)
	if err != nil {
		return "", err
	}

	if remise.Justificatif == nil {
		return "", fmt.Errorf("justificatif: %w", core.ErrNotFound)
	}

	return filepath.Join(s.justificatifDir, *remise.Justificatif), nil
}

// storeProof writes the upload under the configured directory, named after
// the remise so repeated attempts overwrite rather than accumulate. Returns
// the stored filename relative to the directory.
func (s *Service) storeProof(
	remiseID string,
	upload *ProofUpload,
) (string, error) {
	ext := strings.ToLower(filepath.Ext(upload.Filename))
	if _, ok := allowedProofExtensions[ext]; !ok {
		return "", fmt.Errorf(
			"justificatif: unsupported file type %q: %w",
			ext,
			core.ErrInvalidInput,
		)
	}

	if err := os.MkdirAll(s.justificatifDir, 0o755); err != nil {
		return "", fmt.Errorf("create justificatif dir: %w", err)
	}

	name := remiseID + ext
	dst, err := os.Create(filepath.Join(s.justificatifDir, name))
	if err != nil {
		return "", fmt.Errorf("store justificatif: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, upload.Content); err != nil {
		return "", fmt.Errorf("store justificatif: %w", err)
	}

	return name, nil
}
