// AngelaMos | 2026
// service.go

package stats

import (
	"context"
	"time"
)

const (
	defaultTopLimit = 5
	maxTopLimit     = 50
	histogramDays   = 7
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

func (s *Service) Overview(ctx context.Context) (*OverviewResponse, error) {
	return s.repo.Overview(ctx)
}

func (s *Service) TopInfluenceurs(
	ctx context.Context,
	limit int,
) ([]TopInfluenceur, error) {
	if limit < 1 {
		limit = defaultTopLimit
	}
	if limit > maxTopLimit {
		limit = maxTopLimit
	}

	return s.repo.TopInfluenceurs(ctx, limit)
}

// Inscriptions returns the trailing 7-day daily signup histogram, anchored
// to today, oldest day first. Days without signups appear with a zero.
func (s *Service) Inscriptions(ctx context.Context) ([]DailyInscriptions, error) {
	today := s.now().UTC().Truncate(24 * time.Hour)
	from := today.AddDate(0, 0, -(histogramDays - 1))

	counts, err := s.repo.InscriptionsSince(ctx, from)
	if err != nil {
		return nil, err
	}

	histogram := make([]DailyInscriptions, 0, histogramDays)
	for d := 0; d < histogramDays; d++ {
		day := from.AddDate(0, 0, d).Format("2006-01-02")
		histogram = append(histogram, DailyInscriptions{
			Date:  day,
			Count: counts[day],
		})
	}

	return histogram, nil
}
