package audit

import (
	"context"
	"time"

	"github.com/cargohub/cargohub-api/internal/web"
)

// Service exposes the audit log query operations.
type Service interface {
	All(ctx context.Context) ([]Entry, error)
	ByDate(ctx context.Context, date string) ([]Entry, error) // dd-mm-yyyy
	ByAPIKey(ctx context.Context, key string) ([]Entry, error)
	ByActor(ctx context.Context, actor string) ([]Entry, error)
}

type service struct {
	rec Recorder
}

func NewService(rec Recorder) Service { return &service{rec: rec} }

func (s *service) All(ctx context.Context) ([]Entry, error) {
	return s.rec.Entries(ctx)
}

func (s *service) ByDate(ctx context.Context, date string) ([]Entry, error) {
	day, err := time.Parse("02-01-2006", date)
	if err != nil {
		return nil, web.Invalid("invalid date %q, want dd-mm-yyyy", date)
	}
	return s.filter(ctx, func(e Entry) bool {
		y1, m1, d1 := e.Timestamp.Date()
		y2, m2, d2 := day.Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	})
}

func (s *service) ByAPIKey(ctx context.Context, key string) ([]Entry, error) {
	return s.filter(ctx, func(e Entry) bool { return e.APIKey == key })
}

func (s *service) ByActor(ctx context.Context, actor string) ([]Entry, error) {
	return s.filter(ctx, func(e Entry) bool { return e.PerformedBy == actor })
}

func (s *service) filter(ctx context.Context, keep func(Entry) bool) ([]Entry, error) {
	entries, err := s.rec.Entries(ctx)
	if err != nil {
		return nil, err
	}
	out := []Entry{}
	for _, e := range entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out, nil
}
