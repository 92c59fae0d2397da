package carrier

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
	"time"

	"github.com/shipwatch/tracking-engine/internal/core/domain"
)

// SyntheticBackend simulates the carrier APIs with deterministic data: the
// journey for a tracking number is derived from an FNV hash of the number
// and timestamps from the injected clock, so repeated fetches and tests see
// identical responses. Tracking numbers containing "NOTFOUND" produce each
// carrier's no-record response.
type SyntheticBackend struct {
	clock func() time.Time
}

func NewSyntheticBackend(clock func() time.Time) *SyntheticBackend {
	if clock == nil {
		clock = time.Now
	}
	return &SyntheticBackend{clock: clock}
}

type syntheticStage struct {
	Status      domain.CanonicalStatus
	Description string
	City        string
}

var syntheticCities = []string{"Leipzig", "Louisville", "Memphis", "Cincinnati", "Guadalajara", "Monterrey"}

// journey derives the visible stage list for a tracking number. The hash
// fixes how far along the shipment is and whether it hit an exception or a
// return, so every number behaves consistently across calls.
func (b *SyntheticBackend) journey(trackingNumber string) []syntheticStage {
	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.ToUpper(trackingNumber)))
	seed := h.Sum64()

	city := func(i uint64) string { return syntheticCities[(seed+i)%uint64(len(syntheticCities))] }

	full := []syntheticStage{
		{domain.StatusPending, "Shipment information received", city(0)},
		{domain.StatusInTransit, "Departed origin facility", city(1)},
		{domain.StatusInTransit, "Arrived at sortation hub", city(2)},
		{domain.StatusOutForDelivery, "Out for delivery", city(3)},
		{domain.StatusDelivered, "Delivered", city(3)},
	}
	if seed%7 == 0 {
		full = append(full[:3:3], append([]syntheticStage{
			{domain.StatusException, "Delivery attempt failed", city(3)},
			{domain.StatusInTransit, "Package rerouted", city(4)},
		}, full[3:]...)...)
	}
	if seed%11 == 0 {
		full[len(full)-1] = syntheticStage{domain.StatusReturned, "Returned to sender", city(0)}
	}

	visible := int(seed%uint64(len(full))) + 1
	return full[:visible]
}

// stageTimes assigns one timestamp per stage, six hours apart, ending in
// the recent past relative to the injected clock.
func (b *SyntheticBackend) stageTimes(n int) []time.Time {
	now := b.clock().UTC()
	times := make([]time.Time, n)
	for i := range times {
		times[i] = now.Add(-time.Duration(n-i)*6*time.Hour - 30*time.Minute)
	}
	return times
}

func isSyntheticNotFound(trackingNumber string) bool {
	return strings.Contains(strings.ToUpper(trackingNumber), "NOTFOUND")
}

func (b *SyntheticBackend) Fetch(_ context.Context, carrierCode, trackingNumber string) ([]byte, error) {
	switch carrierCode {
	case "dhl":
		return b.dhlPayload(trackingNumber)
	case "ups":
		return b.upsPayload(trackingNumber)
	case "fedex":
		return b.fedexPayload(trackingNumber)
	default:
		return nil, fmt.Errorf("synthetic backend: no simulation for carrier %q", carrierCode)
	}
}

var dhlNativeCodes = map[domain.CanonicalStatus]string{
	domain.StatusPending:        "pre-transit",
	domain.StatusInTransit:      "transit",
	domain.StatusOutForDelivery: "out-for-delivery",
	domain.StatusDelivered:      "delivered",
	domain.StatusException:      "failure",
	domain.StatusReturned:       "returned",
}

func (b *SyntheticBackend) dhlPayload(trackingNumber string) ([]byte, error) {
	if isSyntheticNotFound(trackingNumber) {
		return json.Marshal(map[string]any{"shipments": []any{}})
	}

	stages := b.journey(trackingNumber)
	times := b.stageTimes(len(stages))

	events := make([]map[string]any, len(stages))
	for i, st := range stages {
		events[i] = map[string]any{
			"timestamp":   times[i].Format(time.RFC3339),
			"statusCode":  dhlNativeCodes[st.Status],
			"description": st.Description,
			"location":    st.City,
		}
	}

	last := stages[len(stages)-1]
	shipment := map[string]any{
		"trackingNumber": trackingNumber,
		"status":         dhlNativeCodes[last.Status],
		"events":         events,
	}
	if !last.Status.IsTerminal() {
		shipment["estimatedDelivery"] = b.clock().UTC().Add(48 * time.Hour).Format(time.RFC3339)
	}
	return json.Marshal(map[string]any{"shipments": []any{shipment}})
}

var upsNativeCodes = map[domain.CanonicalStatus]string{
	domain.StatusPending:        "M",
	domain.StatusInTransit:      "I",
	domain.StatusOutForDelivery: "O",
	domain.StatusDelivered:      "D",
	domain.StatusException:      "X",
	domain.StatusReturned:       "RS",
}

func (b *SyntheticBackend) upsPayload(trackingNumber string) ([]byte, error) {
	if isSyntheticNotFound(trackingNumber) {
		return json.Marshal(map[string]any{"trackResponse": map[string]any{"shipment": []any{}}})
	}

	stages := b.journey(trackingNumber)
	times := b.stageTimes(len(stages))

	activity := make([]map[string]any, len(stages))
	for i, st := range stages {
		activity[i] = map[string]any{
			"date": times[i].Format("20060102"),
			"time": times[i].Format("150405"),
			"status": map[string]any{
				"code":        upsNativeCodes[st.Status],
				"description": st.Description,
			},
			"location": map[string]any{"address": map[string]any{"city": st.City}},
		}
	}

	last := stages[len(stages)-1]
	pkg := map[string]any{
		"currentStatus": map[string]any{
			"code":        upsNativeCodes[last.Status],
			"description": last.Description,
		},
		"activity": activity,
	}
	if !last.Status.IsTerminal() {
		pkg["deliveryDate"] = []any{map[string]any{
			"type": "SDD",
			"date": b.clock().UTC().Add(48 * time.Hour).Format("20060102"),
		}}
	}
	return json.Marshal(map[string]any{
		"trackResponse": map[string]any{
			"shipment": []any{map[string]any{"package": []any{pkg}}},
		},
	})
}

var fedexNativeCodes = map[domain.CanonicalStatus]string{
	domain.StatusPending:        "OC",
	domain.StatusInTransit:      "IT",
	domain.StatusOutForDelivery: "OD",
	domain.StatusDelivered:      "DL",
	domain.StatusException:      "DE",
	domain.StatusReturned:       "RS",
}

func (b *SyntheticBackend) fedexPayload(trackingNumber string) ([]byte, error) {
	if isSyntheticNotFound(trackingNumber) {
		return json.Marshal(map[string]any{
			"tracking_number": trackingNumber,
			"error":           "tracking.id.notfound",
		})
	}

	stages := b.journey(trackingNumber)
	times := b.stageTimes(len(stages))

	scans := make(map[string]any, len(stages))
	for i, st := range stages {
		scans[strconv.FormatInt(times[i].Unix(), 10)] = map[string]any{
			"code": fedexNativeCodes[st.Status],
			"desc": st.Description,
			"city": st.City,
		}
	}
	return json.Marshal(map[string]any{
		"tracking_number": trackingNumber,
		"scans":           scans,
	})
}
