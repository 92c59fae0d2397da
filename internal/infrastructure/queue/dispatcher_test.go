package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/shipwatch/tracking-engine/internal/core/ports"
)

type stubRefreshService struct {
	mu        sync.Mutex
	refreshed []string
	triggers  []ports.RefreshTrigger
}

func (s *stubRefreshService) CreateShipment(_ context.Context, _ ports.CreateShipmentInput) (*ports.ShipmentDetail, error) {
	return nil, nil
}

func (s *stubRefreshService) GetByOrderID(_ context.Context, _ string) (*ports.ShipmentDetail, error) {
	return nil, nil
}

func (s *stubRefreshService) RefreshShipment(_ context.Context, shipmentID string, trigger ports.RefreshTrigger) (*ports.ShipmentDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshed = append(s.refreshed, shipmentID)
	s.triggers = append(s.triggers, trigger)
	return &ports.ShipmentDetail{ID: shipmentID}, nil
}

func (s *stubRefreshService) UpdateShipment(_ context.Context, _ ports.UpdateShipmentInput) (*ports.ShipmentDetail, error) {
	return nil, nil
}

func (s *stubRefreshService) InsertTrackingEvent(_ context.Context, _ ports.InsertEventInput) (*ports.ShipmentDetail, error) {
	return nil, nil
}

func (s *stubRefreshService) snapshot() ([]string, []ports.RefreshTrigger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.refreshed...), append([]ports.RefreshTrigger(nil), s.triggers...)
}

func TestDispatcher_ShardIndexIsDeterministic(t *testing.T) {
	d := NewDispatcher(4, &stubRefreshService{}, zerolog.Nop())

	first := d.shardIndex("DHL123")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("DHL123"); got != first {
			t.Fatalf("shard index changed between calls: %d vs %d", first, got)
		}
	}
}

func TestDispatcher_ProcessesScheduledRefresh(t *testing.T) {
	svc := &stubRefreshService{}
	d := NewDispatcher(2, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Schedule("shp_1", "DHL123")

	deadline := time.After(2 * time.Second)
	for {
		ids, triggers := svc.snapshot()
		if len(ids) > 0 {
			if ids[0] != "shp_1" {
				t.Fatalf("refreshed wrong shipment: %q", ids[0])
			}
			if triggers[0] != ports.TriggerBackground {
				t.Fatalf("expected background trigger, got %q", triggers[0])
			}
			return
		}
		select {
		case <-deadline:
			t.Fatal("scheduled refresh never ran")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestDispatcher_DefaultWorkerCount(t *testing.T) {
	d := NewDispatcher(0, &stubRefreshService{}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}
