package feed

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ztrayner/airbnb-lock-manager/core/booking"
)

// Service combines fetching and parsing into one booking source.
type Service struct {
	fetcher *Fetcher
	loc     *time.Location
	logg    *zap.Logger
}

// NewService creates a feed service resolving all-day dates in loc.
func NewService(cfg Config, loc *time.Location, logg *zap.Logger) *Service {
	return &Service{
		fetcher: NewFetcher(cfg, logg),
		loc:     loc,
		logg:    logg,
	}
}

// Bookings fetches and parses the current feed snapshot.
func (s *Service) Bookings(ctx context.Context) (map[string]booking.Booking, error) {
	data, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return Parse(data, s.loc, s.logg)
}
