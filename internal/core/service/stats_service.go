package service

import (
	"context"
	"sort"
	"time"

	"github.com/shipwatch/tracking-engine/internal/core/ports"
)

// StatsService serves read-side projections over the shipment set. Counting
// happens in the storage engine; this layer only shapes and orders the
// buckets.
type StatsService struct {
	repo ports.ShipmentRepository
	now  func() time.Time
}

func NewStatsService(repo ports.ShipmentRepository) *StatsService {
	return &StatsService{repo: repo, now: time.Now}
}

func (s *StatsService) StatusDistribution(ctx context.Context) ([]ports.StatusCount, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ports.StatusCount, 0, len(counts))
	for status, n := range counts {
		out = append(out, ports.StatusCount{Status: string(status), Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Status < out[j].Status
	})
	return out, nil
}

func (s *StatsService) CarrierDistribution(ctx context.Context) ([]ports.CarrierCount, error) {
	counts, err := s.repo.CountByCarrier(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ports.CarrierCount, 0, len(counts))
	for carrier, n := range counts {
		out = append(out, ports.CarrierCount{Carrier: carrier, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Carrier < out[j].Carrier
	})
	return out, nil
}

func (s *StatsService) Volume(ctx context.Context, days int) (*ports.VolumeStats, error) {
	if days <= 0 {
		days = 7
	}
	since := s.now().UTC().AddDate(0, 0, -days)
	n, err := s.repo.CountCreatedSince(ctx, since)
	if err != nil {
		return nil, err
	}
	return &ports.VolumeStats{Days: days, Count: n}, nil
}
