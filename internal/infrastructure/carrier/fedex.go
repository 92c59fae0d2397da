package carrier

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/shipwatch/tracking-engine/internal/core/domain"
)

// fedexStatusCodes maps FedEx scan codes onto the canonical taxonomy.
var fedexStatusCodes = map[string]domain.CanonicalStatus{
	"OC": domain.StatusPending, // order created
	"PU": domain.StatusInTransit,
	"IT": domain.StatusInTransit,
	"OD": domain.StatusOutForDelivery,
	"DL": domain.StatusDelivered,
	"DE": domain.StatusException,
	"RS": domain.StatusReturned,
}

// FedExAdapter parses FedEx's Unix-timestamp-keyed scan map. FedEx reports
// no shipment-level status (it is derived from the most recent scan) and
// never provides a delivery estimate: EstimatedDelivery is always nil.
type FedExAdapter struct {
	backend Backend
	timeout time.Duration
	log     zerolog.Logger
}

func NewFedExAdapter(backend Backend, timeout time.Duration, log zerolog.Logger) *FedExAdapter {
	return &FedExAdapter{backend: backend, timeout: timeout, log: log}
}

type fedexScan struct {
	Code string `json:"code"`
	Desc string `json:"desc"`
	City string `json:"city,omitempty"`
}

type fedexResponse struct {
	TrackingNumber string               `json:"tracking_number"`
	Error          string               `json:"error,omitempty"`
	Scans          map[string]fedexScan `json:"scans"`
}

func (a *FedExAdapter) Fetch(ctx context.Context, trackingNumber string) (*domain.TrackingResult, error) {
	raw, err := fetchRaw(ctx, a.backend, "fedex", trackingNumber, a.timeout)
	if err != nil {
		return nil, err
	}

	var resp fedexResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("fedex: decode response: %w", domain.ErrCarrierUnavailable)
	}
	if resp.Error != "" || resp.Scans == nil {
		return nil, fmt.Errorf("fedex: no shipment for %s: %w", trackingNumber, domain.ErrTrackingNotFound)
	}

	events := make([]domain.TrackingEvent, 0, len(resp.Scans))
	for key, scan := range resp.Scans {
		unix, perr := strconv.ParseInt(key, 10, 64)
		if perr != nil {
			a.log.Warn().Str("carrier", "fedex").Str("key", key).Msg("non-numeric scan key")
			continue
		}
		events = append(events, domain.TrackingEvent{
			Timestamp:   time.Unix(unix, 0).UTC(),
			Description: scan.Desc,
			Location:    scan.City,
			StatusCode:  mapCode(fedexStatusCodes, scan.Code, "fedex", a.log),
		})
	}
	domain.SortEventsDesc(events)

	return &domain.TrackingResult{
		Status: deriveStatus(events),
		Events: events,
		Raw:    raw,
	}, nil
}
