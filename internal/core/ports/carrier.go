package ports

import (
	"context"

	"github.com/shipwatch/tracking-engine/internal/core/domain"
)

// CarrierAdapter fetches and normalizes tracking data for one carrier.
// Implementations are pure with respect to their inputs: no cross-call
// mutable state, safe for concurrent use.
//
// Error contract:
//   - domain.ErrTrackingNotFound when the carrier has no record for the
//     number (structurally absent shipment).
//   - domain.ErrCarrierUnavailable for network, timeout, or malformed
//     responses.
//
// Recoverable parsing gaps (missing location, unmapped status code) never
// fail the fetch; they degrade to empty string / StatusUnknown.
type CarrierAdapter interface {
	Fetch(ctx context.Context, trackingNumber string) (*domain.TrackingResult, error)
}

// CarrierRegistry resolves a carrier code to an adapter. Resolution is
// case-insensitive, honors aliases, and never fails: unrecognized codes
// resolve to the generic fallback adapter.
type CarrierRegistry interface {
	Resolve(carrierCode string) CarrierAdapter
}
