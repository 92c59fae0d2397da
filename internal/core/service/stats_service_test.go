package service

import (
	"context"
	"testing"

	"github.com/shipwatch/tracking-engine/internal/core/domain"
)

func TestStatsService_StatusDistribution(t *testing.T) {
	repo := newStubShipmentRepo()
	seedShipment(repo, "shp_1", "ord_1", domain.StatusInTransit, testClock())
	seedShipment(repo, "shp_2", "ord_2", domain.StatusInTransit, testClock())
	seedShipment(repo, "shp_3", "ord_3", domain.StatusDelivered, testClock())
	svc := NewStatsService(repo)

	counts, err := svc.StatusDistribution(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(counts) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(counts))
	}
	if counts[0].Status != string(domain.StatusInTransit) || counts[0].Count != 2 {
		t.Errorf("largest bucket first: got %+v", counts[0])
	}
}

func TestStatsService_CarrierDistribution(t *testing.T) {
	repo := newStubShipmentRepo()
	seedShipment(repo, "shp_1", "ord_1", domain.StatusInTransit, testClock())
	seedShipment(repo, "shp_2", "ord_2", domain.StatusPending, testClock())
	repo.byID["shp_2"].Carrier = "ups"
	svc := NewStatsService(repo)

	counts, err := svc.CarrierDistribution(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(counts) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(counts))
	}
	// Equal counts order alphabetically.
	if counts[0].Carrier != "dhl" || counts[1].Carrier != "ups" {
		t.Errorf("unexpected bucket order: %+v", counts)
	}
}

func TestStatsService_Volume(t *testing.T) {
	repo := newStubShipmentRepo()
	seedShipment(repo, "shp_1", "ord_1", domain.StatusPending, testClock())      // created 48h ago
	old := seedShipment(repo, "shp_2", "ord_2", domain.StatusDelivered, testClock())
	old.CreatedAt = testClock().AddDate(0, 0, -30)
	svc := NewStatsService(repo)
	svc.now = testClock

	stats, err := svc.Volume(context.Background(), 7)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Days != 7 || stats.Count != 1 {
		t.Errorf("expected 1 shipment in the 7-day window, got %+v", stats)
	}
}

func TestStatsService_Volume_DefaultsWindow(t *testing.T) {
	repo := newStubShipmentRepo()
	svc := NewStatsService(repo)
	svc.now = testClock

	stats, err := svc.Volume(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Days != 7 {
		t.Errorf("expected default 7-day window, got %d", stats.Days)
	}
}
