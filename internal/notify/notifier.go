// AngelaMos | 2026
// notifier.go

package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Notifier composes and dispatches the transactional emails of the
// affiliation flow. Every dispatch is best-effort: failures are logged and
// swallowed, never surfaced to the caller and never retried.
type Notifier struct {
	sender  Sender
	baseURL string
	logger  *slog.Logger
}

func NewNotifier(sender Sender, baseURL string, logger *slog.Logger) *Notifier {
	return &Notifier{
		sender:  sender,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// AffiliationLink builds the public signup URL for a code.
func (n *Notifier) AffiliationLink(code string) string {
	return fmt.Sprintf("%s/affiliation/%s", n.baseURL, code)
}

// InfluenceurCreated sends the affiliation link followed by a welcome email.
func (n *Notifier) InfluenceurCreated(ctx context.Context, nom, email, code string) {
	link := n.AffiliationLink(code)

	body := fmt.Sprintf(
		"Bonjour %s,\n\n"+
			"Votre compte influenceur est actif.\n"+
			"Votre code d'affiliation : %s\n"+
			"Votre lien d'affiliation : %s\n\n"+
			"Partagez ce lien pour que vos prospects s'inscrivent.\n",
		nom, code, link,
	)
	n.dispatch(ctx, email, "Votre lien d'affiliation", body)

	welcome := fmt.Sprintf(
		"Bonjour %s,\n\n"+
			"Bienvenue sur la plateforme d'affiliation.\n"+
			"Suivez vos prospects et vos remises depuis votre tableau de bord.\n",
		nom,
	)
	n.dispatch(ctx, email, "Bienvenue", welcome)
}

// ProspectSignedUp alerts the owning influencer of a new signup.
func (n *Notifier) ProspectSignedUp(ctx context.Context, influenceurNom, influenceurEmail, prospectNom string) {
	body := fmt.Sprintf(
		"Bonjour %s,\n\n"+
			"Un nouveau prospect vient de s'inscrire via votre lien : %s.\n"+
			"Il sera comptabilisé pour vos remises une fois confirmé.\n",
		influenceurNom, prospectNom,
	)
	n.dispatch(ctx, influenceurEmail, "Nouveau prospect", body)
}

func (n *Notifier) dispatch(ctx context.Context, to, subject, body string) {
	if err := n.sender.Send(ctx, to, subject, body); err != nil {
		n.logger.Warn("notification dispatch failed",
			"to", to,
			"subject", subject,
			"error", err,
		)
	}
}
