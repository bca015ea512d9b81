// AngelaMos | 2026
// generator.go

package commission

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fofanamamadou/affiliation-project/internal/core"
)

// Mirrors prospect.StatutConfirme; generation reads the prospects table
// directly.
const statutProspectConfirme = "confirme"

type candidateProspect struct {
	ID             string `db:"id"`
	InfluenceurID  string `db:"influenceur_id"`
	InfluenceurNom string `db:"nom"`
}

// Generate creates one pending remise per influencer covering all of their
// confirmed prospects that no earlier run has compensated, and links those
// prospects to it. The whole run is a single transaction; the FOR UPDATE
// lock on the candidate rows keeps concurrent runs from paying the same
// prospect twice. A prospect with remise_id set never re-enters, so the run
// is idempotent.
func (s *Service) Generate(
	ctx context.Context,
	montantParProspect int64,
	dryRun bool,
) (*GenerationReport, error) {
	if montantParProspect <= 0 {
		return nil, fmt.Errorf(
			"generate remises: montant must be positive: %w",
			core.ErrInvalidInput,
		)
	}

	report := &GenerationReport{
		DryRun:             dryRun,
		MontantParProspect: montantParProspect,
	}

	err := core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		candidates, err := lockCandidates(ctx, tx)
		if err != nil {
			return err
		}

		for _, group := range groupCandidates(candidates, montantParProspect) {
			line := group.line

			if !dryRun {
				remiseID, err := createRemise(ctx, tx, line, group.prospectIDs)
				if err != nil {
					return err
				}
				line.RemiseID = remiseID
			}

			report.Lines = append(report.Lines, line)
			report.TotalProspects += line.Prospects
			report.TotalMontant += line.Montant
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return report, nil
}

type generationGroup struct {
	line        GenerationLine
	prospectIDs []string
}

// groupCandidates rolls the candidate rows up into one line per influencer,
// preserving the order the query returned them in.
func groupCandidates(
	candidates []candidateProspect,
	montantParProspect int64,
) []generationGroup {
	byInfluenceur := make(map[string]int)
	var groups []generationGroup

	for _, c := range candidates {
		idx, seen := byInfluenceur[c.InfluenceurID]
		if !seen {
			idx = len(groups)
			byInfluenceur[c.InfluenceurID] = idx
			groups = append(groups, generationGroup{
				line: GenerationLine{
					InfluenceurID:  c.InfluenceurID,
					InfluenceurNom: c.InfluenceurNom,
				},
			})
		}
		groups[idx].prospectIDs = append(groups[idx].prospectIDs, c.ID)
		groups[idx].line.Prospects++
		groups[idx].line.Montant += montantParProspect
	}

	return groups
}

func lockCandidates(
	ctx context.Context,
	tx *sqlx.Tx,
) ([]candidateProspect, error) {
	query := `
		SELECT p.id, p.influenceur_id, i.nom
		FROM prospects p
		JOIN influenceurs i ON i.id = p.influenceur_id
		WHERE p.statut = $1 AND p.remise_id IS NULL
		ORDER BY p.influenceur_id, p.date_inscription
		FOR UPDATE OF p`

	var candidates []candidateProspect
	err := tx.SelectContext(ctx, &candidates, query, statutProspectConfirme)
	if err != nil {
		return nil, fmt.Errorf("lock candidate prospects: %w", err)
	}

	return candidates, nil
}

func createRemise(
	ctx context.Context,
	tx *sqlx.Tx,
	line GenerationLine,
	prospectIDs []string,
) (string, error) {
	remiseID := uuid.New().String()

	insert := `
		INSERT INTO remises (id, montant, statut, influenceur_id)
		VALUES ($1, $2, $3, $4)`

	_, err := tx.ExecContext(
		ctx,
		insert,
		remiseID,
		line.Montant,
		StatutEnAttente,
		line.InfluenceurID,
	)
	if err != nil {
		return "", fmt.Errorf("create remise: %w", err)
	}

	// Link exactly the rows we locked and counted. A prospect confirmed by a
	// concurrent transaction after the lock must wait for the next run.
	update, args, err := sqlx.In(`
		UPDATE prospects
		SET remise_id = ?, updated_at = NOW()
		WHERE id IN (?)`,
		remiseID,
		prospectIDs,
	)
	if err != nil {
		return "", fmt.Errorf("link prospects to remise: %w", err)
	}

	if _, err := tx.ExecContext(ctx, tx.Rebind(update), args...); err != nil {
		return "", fmt.Errorf("link prospects to remise: %w", err)
	}

	return remiseID, nil
}
