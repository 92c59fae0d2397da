package carrier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/shipwatch/tracking-engine/internal/core/domain"
)

// upsStatusCodes maps UPS activity codes onto the canonical taxonomy.
var upsStatusCodes = map[string]domain.CanonicalStatus{
	"M":  domain.StatusPending, // manifest received
	"P":  domain.StatusPending, // pickup scheduled
	"I":  domain.StatusInTransit,
	"O":  domain.StatusOutForDelivery,
	"D":  domain.StatusDelivered,
	"X":  domain.StatusException,
	"RS": domain.StatusReturned,
}

// UPSAdapter parses UPS's nested trackResponse envelope
// (shipment -> package -> activity). UPS reports a package-level current
// status and a scheduled delivery date.
type UPSAdapter struct {
	backend Backend
	timeout time.Duration
	log     zerolog.Logger
}

func NewUPSAdapter(backend Backend, timeout time.Duration, log zerolog.Logger) *UPSAdapter {
	return &UPSAdapter{backend: backend, timeout: timeout, log: log}
}

type upsResponse struct {
	TrackResponse struct {
		Shipment []struct {
			Package []struct {
				CurrentStatus struct {
					Code        string `json:"code"`
					Description string `json:"description"`
				} `json:"currentStatus"`
				DeliveryDate []struct {
					Type string `json:"type"`
					Date string `json:"date"` // YYYYMMDD
				} `json:"deliveryDate"`
				Activity []struct {
					Date   string `json:"date"` // YYYYMMDD
					Time   string `json:"time"` // HHMMSS
					Status struct {
						Code        string `json:"code"`
						Description string `json:"description"`
					} `json:"status"`
					Location struct {
						Address struct {
							City string `json:"city"`
						} `json:"address"`
					} `json:"location"`
				} `json:"activity"`
			} `json:"package"`
		} `json:"shipment"`
	} `json:"trackResponse"`
}

func (a *UPSAdapter) Fetch(ctx context.Context, trackingNumber string) (*domain.TrackingResult, error) {
	raw, err := fetchRaw(ctx, a.backend, "ups", trackingNumber, a.timeout)
	if err != nil {
		return nil, err
	}

	var resp upsResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("ups: decode response: %w", domain.ErrCarrierUnavailable)
	}
	shipments := resp.TrackResponse.Shipment
	if len(shipments) == 0 || len(shipments[0].Package) == 0 {
		return nil, fmt.Errorf("ups: no shipment for %s: %w", trackingNumber, domain.ErrTrackingNotFound)
	}

	pkg := shipments[0].Package[0]
	events := make([]domain.TrackingEvent, 0, len(pkg.Activity))
	for _, act := range pkg.Activity {
		ts, perr := time.Parse("20060102 150405", act.Date+" "+act.Time)
		if perr != nil {
			a.log.Warn().Str("carrier", "ups").Str("date", act.Date).Str("time", act.Time).Msg("unparseable activity timestamp")
		}
		events = append(events, domain.TrackingEvent{
			Timestamp:   ts,
			Description: act.Status.Description,
			Location:    act.Location.Address.City,
			StatusCode:  mapCode(upsStatusCodes, act.Status.Code, "ups", a.log),
		})
	}
	domain.SortEventsDesc(events)

	status := deriveStatus(events)
	if pkg.CurrentStatus.Code != "" {
		status = mapCode(upsStatusCodes, pkg.CurrentStatus.Code, "ups", a.log)
	}

	var est *time.Time
	for _, dd := range pkg.DeliveryDate {
		if dd.Type != "SDD" { // scheduled delivery date
			continue
		}
		if t, perr := time.Parse("20060102", dd.Date); perr == nil {
			est = &t
			break
		}
	}

	return &domain.TrackingResult{
		Status:            status,
		Events:            events,
		EstimatedDelivery: est,
		Raw:               raw,
	}, nil
}
