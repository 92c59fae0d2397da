package domain

import (
	"testing"
	"time"
)

func TestParseStatus_KnownValues(t *testing.T) {
	cases := map[string]CanonicalStatus{
		"pending":          StatusPending,
		"in_transit":       StatusInTransit,
		"out_for_delivery": StatusOutForDelivery,
		"delivered":        StatusDelivered,
		"exception":        StatusException,
		"returned":         StatusReturned,
		"unknown":          StatusUnknown,
	}
	for raw, want := range cases {
		if got := ParseStatus(raw); got != want {
			t.Errorf("ParseStatus(%q): want %q, got %q", raw, want, got)
		}
	}
}

func TestParseStatus_UnrecognizedMapsToUnknown(t *testing.T) {
	for _, raw := range []string{"", "transit", "DELIVERED", "lost_in_space"} {
		if got := ParseStatus(raw); got != StatusUnknown {
			t.Errorf("ParseStatus(%q): want unknown, got %q", raw, got)
		}
	}
}

func TestCanonicalStatus_IsTerminal(t *testing.T) {
	if !StatusDelivered.IsTerminal() || !StatusReturned.IsTerminal() {
		t.Error("delivered and returned must be terminal")
	}
	for _, s := range []CanonicalStatus{StatusPending, StatusInTransit, StatusOutForDelivery, StatusException, StatusUnknown} {
		if s.IsTerminal() {
			t.Errorf("%q must not be terminal", s)
		}
	}
}

func TestApplyStatus_AppendsOneEntryPerChange(t *testing.T) {
	s := &Shipment{Status: StatusPending}
	now := time.Now().UTC()

	if !s.ApplyStatus(StatusInTransit, now, "carrier update") {
		t.Fatal("expected transition pending -> in_transit to apply")
	}
	if len(s.StatusHistory) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(s.StatusHistory))
	}
	entry := s.StatusHistory[0]
	if entry.FromStatus != StatusPending || entry.ToStatus != StatusInTransit {
		t.Errorf("entry records %q -> %q, want pending -> in_transit", entry.FromStatus, entry.ToStatus)
	}
	if s.Status != StatusInTransit {
		t.Errorf("status not updated: %q", s.Status)
	}
}

func TestApplyStatus_SameStatusIsNoOp(t *testing.T) {
	s := &Shipment{Status: StatusInTransit}

	if s.ApplyStatus(StatusInTransit, time.Now(), "") {
		t.Error("same-status transition must report false")
	}
	if len(s.StatusHistory) != 0 {
		t.Errorf("no-op must not append history, got %d entries", len(s.StatusHistory))
	}
}

func TestApplyStatus_AcceptsNonMonotonicTransitions(t *testing.T) {
	s := &Shipment{Status: StatusException}

	// Carriers report recoveries: exception back to in_transit.
	if !s.ApplyStatus(StatusInTransit, time.Now(), "recovered") {
		t.Fatal("exception -> in_transit must be accepted")
	}
	if s.Status != StatusInTransit {
		t.Errorf("status: want in_transit, got %q", s.Status)
	}
}

func TestSortEventsDesc(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	events := []TrackingEvent{
		{Timestamp: base.Add(-2 * time.Hour), Description: "oldest"},
		{Timestamp: base, Description: "newest"},
		{Timestamp: base.Add(-1 * time.Hour), Description: "middle"},
	}

	SortEventsDesc(events)

	for i := 1; i < len(events); i++ {
		if events[i].Timestamp.After(events[i-1].Timestamp) {
			t.Fatalf("events not descending at index %d", i)
		}
	}
	if events[0].Description != "newest" || events[2].Description != "oldest" {
		t.Errorf("unexpected order: %v", events)
	}
}

func TestApplyTrackingResult_ReplacesAndSortsHistory(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := &Shipment{
		Status: StatusInTransit,
		TrackingHistory: []TrackingEvent{
			{Timestamp: base.Add(-5 * time.Hour), Description: "stale event"},
		},
	}

	res := &TrackingResult{
		Status: StatusOutForDelivery,
		Events: []TrackingEvent{
			{Timestamp: base.Add(-3 * time.Hour), Description: "departed facility", StatusCode: StatusInTransit},
			{Timestamp: base, Description: "out for delivery", StatusCode: StatusOutForDelivery},
		},
		Raw: []byte(`{"ok":true}`),
	}
	now := base.Add(time.Minute)
	s.ApplyTrackingResult(res, now)

	if len(s.TrackingHistory) != 2 {
		t.Fatalf("expected full replace with 2 events, got %d", len(s.TrackingHistory))
	}
	if s.TrackingHistory[0].Description != "out for delivery" {
		t.Errorf("history not sorted descending: %v", s.TrackingHistory)
	}
	if !s.LastUpdated.Equal(now) {
		t.Errorf("LastUpdated: want %v, got %v", now, s.LastUpdated)
	}
	if s.RawCarrierResponse != `{"ok":true}` {
		t.Errorf("raw response not stored: %q", s.RawCarrierResponse)
	}
}

func TestApplyTrackingResult_EstimateOnlyUpdatedWhenProvided(t *testing.T) {
	existing := time.Date(2026, 3, 4, 18, 0, 0, 0, time.UTC)
	s := &Shipment{Status: StatusInTransit, EstimatedDeliveryDate: &existing}

	s.ApplyTrackingResult(&TrackingResult{Status: StatusInTransit}, time.Now())
	if s.EstimatedDeliveryDate == nil || !s.EstimatedDeliveryDate.Equal(existing) {
		t.Error("estimate must be kept when the carrier provides none")
	}

	updated := existing.AddDate(0, 0, 1)
	s.ApplyTrackingResult(&TrackingResult{Status: StatusInTransit, EstimatedDelivery: &updated}, time.Now())
	if s.EstimatedDeliveryDate == nil || !s.EstimatedDeliveryDate.Equal(updated) {
		t.Error("estimate must be replaced when the carrier provides one")
	}
}

func TestIsStale(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := &Shipment{LastUpdated: now.Add(-7 * time.Hour)}

	if !s.IsStale(now, 6*time.Hour) {
		t.Error("7h old data must be stale at a 6h threshold")
	}
	s.LastUpdated = now.Add(-5 * time.Hour)
	if s.IsStale(now, 6*time.Hour) {
		t.Error("5h old data must not be stale at a 6h threshold")
	}
}

func TestInsertTrackingEvent_KeepsDescendingOrder(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := &Shipment{
		TrackingHistory: []TrackingEvent{
			{Timestamp: base, Description: "latest"},
			{Timestamp: base.Add(-2 * time.Hour), Description: "earlier"},
		},
	}

	s.InsertTrackingEvent(TrackingEvent{Timestamp: base.Add(-1 * time.Hour), Description: "manual scan"})

	if len(s.TrackingHistory) != 3 {
		t.Fatalf("expected 3 events, got %d", len(s.TrackingHistory))
	}
	if s.TrackingHistory[1].Description != "manual scan" {
		t.Errorf("inserted event not in timestamp position: %v", s.TrackingHistory)
	}
}
