// Package carrier implements the per-carrier tracking adapters and the
// registry that resolves carrier codes to them.
//
// Each adapter owns a constant status-code table mapping the carrier's
// native codes onto the canonical taxonomy, and a parser for that
// carrier's wire shape. Adapters never fail for recoverable parsing gaps:
// unmapped codes degrade to StatusUnknown, missing locations to "".
package carrier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/shipwatch/tracking-engine/internal/core/domain"
)

const defaultFetchTimeout = 10 * time.Second

// Backend fetches a carrier's raw response for a tracking number. The
// shipped implementation is the deterministic synthetic backend; swapping
// in a real HTTP backend is a construction-time choice, not a runtime
// check inside the adapters.
type Backend interface {
	Fetch(ctx context.Context, carrierCode, trackingNumber string) ([]byte, error)
}

// fetchRaw bounds one backend call with the adapter's timeout. Timeouts and
// transport failures surface as ErrCarrierUnavailable.
func fetchRaw(ctx context.Context, backend Backend, carrierCode, trackingNumber string, timeout time.Duration) ([]byte, error) {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	raw, err := backend.Fetch(ctx, carrierCode, trackingNumber)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%s: fetch timed out: %w", carrierCode, domain.ErrCarrierUnavailable)
		}
		return nil, fmt.Errorf("%s: fetch: %v: %w", carrierCode, err, domain.ErrCarrierUnavailable)
	}
	return raw, nil
}

// mapCode translates a native status code through an adapter's table.
// Unknown codes are logged and degrade to StatusUnknown.
func mapCode(table map[string]domain.CanonicalStatus, code, carrierCode string, log zerolog.Logger) domain.CanonicalStatus {
	if status, ok := table[code]; ok {
		return status
	}
	log.Warn().Str("carrier", carrierCode).Str("code", code).Msg("unmapped carrier status code")
	return domain.StatusUnknown
}

// deriveStatus picks the overall status from the most recent event when the
// carrier reports no shipment-level status. Events must already be sorted
// descending.
func deriveStatus(events []domain.TrackingEvent) domain.CanonicalStatus {
	if len(events) == 0 {
		return domain.StatusUnknown
	}
	return events[0].StatusCode
}
