package ports

import "context"

// StatusCount is one bucket of the status distribution.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// CarrierCount is one bucket of the carrier distribution.
type CarrierCount struct {
	Carrier string `json:"carrier"`
	Count   int64  `json:"count"`
}

// VolumeStats reports shipment volume over a trailing window.
type VolumeStats struct {
	Days  int   `json:"days"`
	Count int64 `json:"count"`
}

// StatsService exposes read-side projections over the shipment set. Pure
// filtering and grouping, no business logic.
type StatsService interface {
	StatusDistribution(ctx context.Context) ([]StatusCount, error)
	CarrierDistribution(ctx context.Context) ([]CarrierCount, error)
	Volume(ctx context.Context, days int) (*VolumeStats, error)
}
