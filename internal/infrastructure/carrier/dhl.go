package carrier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/shipwatch/tracking-engine/internal/core/domain"
)

// dhlStatusCodes maps DHL shipment-phase codes onto the canonical taxonomy.
var dhlStatusCodes = map[string]domain.CanonicalStatus{
	"pre-transit":      domain.StatusPending,
	"transit":          domain.StatusInTransit,
	"out-for-delivery": domain.StatusOutForDelivery,
	"delivered":        domain.StatusDelivered,
	"failure":          domain.StatusException,
	"returned":         domain.StatusReturned,
}

// DHLAdapter parses DHL's flat event-array format. DHL reports an explicit
// shipment-level status and a delivery estimate.
type DHLAdapter struct {
	backend Backend
	timeout time.Duration
	log     zerolog.Logger
}

func NewDHLAdapter(backend Backend, timeout time.Duration, log zerolog.Logger) *DHLAdapter {
	return &DHLAdapter{backend: backend, timeout: timeout, log: log}
}

type dhlResponse struct {
	Shipments []struct {
		TrackingNumber    string `json:"trackingNumber"`
		Status            string `json:"status"`
		EstimatedDelivery string `json:"estimatedDelivery,omitempty"`
		Events            []struct {
			Timestamp   string `json:"timestamp"`
			StatusCode  string `json:"statusCode"`
			Description string `json:"description"`
			Location    string `json:"location,omitempty"`
		} `json:"events"`
	} `json:"shipments"`
}

func (a *DHLAdapter) Fetch(ctx context.Context, trackingNumber string) (*domain.TrackingResult, error) {
	raw, err := fetchRaw(ctx, a.backend, "dhl", trackingNumber, a.timeout)
	if err != nil {
		return nil, err
	}

	var resp dhlResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("dhl: decode response: %w", domain.ErrCarrierUnavailable)
	}
	if len(resp.Shipments) == 0 {
		return nil, fmt.Errorf("dhl: no shipment for %s: %w", trackingNumber, domain.ErrTrackingNotFound)
	}

	sh := resp.Shipments[0]
	events := make([]domain.TrackingEvent, 0, len(sh.Events))
	for _, ev := range sh.Events {
		ts, perr := time.Parse(time.RFC3339, ev.Timestamp)
		if perr != nil {
			a.log.Warn().Str("carrier", "dhl").Str("timestamp", ev.Timestamp).Msg("unparseable event timestamp")
		}
		events = append(events, domain.TrackingEvent{
			Timestamp:   ts,
			Description: ev.Description,
			Location:    ev.Location,
			StatusCode:  mapCode(dhlStatusCodes, ev.StatusCode, "dhl", a.log),
		})
	}
	domain.SortEventsDesc(events)

	status := deriveStatus(events)
	if sh.Status != "" {
		status = mapCode(dhlStatusCodes, sh.Status, "dhl", a.log)
	}

	var est *time.Time
	if sh.EstimatedDelivery != "" {
		if t, perr := time.Parse(time.RFC3339, sh.EstimatedDelivery); perr == nil {
			est = &t
		}
	}

	return &domain.TrackingResult{
		Status:            status,
		Events:            events,
		EstimatedDelivery: est,
		Raw:               raw,
	}, nil
}
