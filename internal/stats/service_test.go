// AngelaMos | 2026
// service_test.go

package stats

import (
	"context"
	"testing"
	"time"
)

type fakeRepo struct {
	counts   map[string]int
	gotFrom  time.Time
	gotLimit int
	top      []TopInfluenceur
	overview *OverviewResponse
}

func (f *fakeRepo) Overview(_ context.Context) (*OverviewResponse, error) {
	return f.overview, nil
}

func (f *fakeRepo) TopInfluenceurs(
	_ context.Context,
	limit int,
) ([]TopInfluenceur, error) {
	f.gotLimit = limit
	return f.top, nil
}

func (f *fakeRepo) InscriptionsSince(
	_ context.Context,
	from time.Time,
) (map[string]int, error) {
	f.gotFrom = from
	return f.counts, nil
}

func newTestService(repo *fakeRepo, now time.Time) *Service {
	svc := NewService(repo)
	svc.now = func() time.Time { return now }
	return svc
}

func TestInscriptionsFillsMissingDays(t *testing.T) {
	now := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)
	repo := &fakeRepo{counts: map[string]int{
		"2026-08-30": 3,
		"2026-08-27": 1,
	}}
	svc := newTestService(repo, now)

	histogram, err := svc.Inscriptions(context.Background())
	if err != nil {
		t.Fatalf("Inscriptions: %v", err)
	}

	if len(histogram) != 7 {
		t.Fatalf("len = %d, want 7", len(histogram))
	}
	if got := repo.gotFrom.Format("2006-01-02"); got != "2026-08-24" {
		t.Errorf("query from = %s, want 2026-08-24", got)
	}
	if histogram[0].Date != "2026-08-24" {
		t.Errorf("first day = %s, want 2026-08-24", histogram[0].Date)
	}
	if histogram[6].Date != "2026-08-30" {
		t.Errorf("last day = %s, want 2026-08-30", histogram[6].Date)
	}
	if histogram[6].Count != 3 {
		t.Errorf("today's count = %d, want 3", histogram[6].Count)
	}
	if histogram[3].Count != 1 {
		t.Errorf("08-27 count = %d, want 1", histogram[3].Count)
	}
	for _, i := range []int{0, 1, 2, 4, 5} {
		if histogram[i].Count != 0 {
			t.Errorf("%s count = %d, want 0", histogram[i].Date, histogram[i].Count)
		}
	}
}

func TestInscriptionsBucketsInUTC(t *testing.T) {
	// 23:30 on Aug 30 in UTC+5 is still Aug 30 UTC; the histogram must key
	// on the UTC date, matching the query's UTC bucketing.
	zone := time.FixedZone("UTC+5", 5*60*60)
	now := time.Date(2026, 8, 30, 23, 30, 0, 0, zone)
	repo := &fakeRepo{counts: map[string]int{"2026-08-30": 2}}
	svc := newTestService(repo, now)

	histogram, err := svc.Inscriptions(context.Background())
	if err != nil {
		t.Fatalf("Inscriptions: %v", err)
	}

	if histogram[6].Date != "2026-08-30" {
		t.Errorf("last day = %s, want 2026-08-30", histogram[6].Date)
	}
	if histogram[6].Count != 2 {
		t.Errorf("count = %d, want 2", histogram[6].Count)
	}
	if loc := repo.gotFrom.Location(); loc != time.UTC {
		t.Errorf("query from in %v, want UTC", loc)
	}
}

func TestTopInfluenceursClampsLimit(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, defaultTopLimit},
		{-3, defaultTopLimit},
		{10, 10},
		{500, maxTopLimit},
	}

	for _, tt := range tests {
		repo := &fakeRepo{}
		svc := newTestService(repo, time.Now())
		if _, err := svc.TopInfluenceurs(context.Background(), tt.in); err != nil {
			t.Fatal(err)
		}
		if repo.gotLimit != tt.want {
			t.Errorf("limit %d clamped to %d, want %d", tt.in, repo.gotLimit, tt.want)
		}
	}
}
