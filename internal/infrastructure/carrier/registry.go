package carrier

import (
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/shipwatch/tracking-engine/internal/core/ports"
)

// Config controls adapter construction.
type Config struct {
	// FetchTimeout bounds each carrier call; timeouts surface as
	// ErrCarrierUnavailable.
	FetchTimeout time.Duration
	// Clock drives the fallback adapter's synthetic trajectory. Defaults
	// to time.Now.
	Clock func() time.Time
}

// Registry resolves carrier codes to adapters. It is stateless after
// construction: adapters are built once and shared, and each adapter is
// pure with respect to its inputs.
type Registry struct {
	adapters map[string]ports.CarrierAdapter
	fallback ports.CarrierAdapter
}

// NewRegistry builds the known-carrier table. Codes are matched
// case-insensitively; each carrier may be addressable by aliases.
func NewRegistry(backend Backend, cfg Config, log zerolog.Logger) *Registry {
	dhl := NewDHLAdapter(backend, cfg.FetchTimeout, log)
	ups := NewUPSAdapter(backend, cfg.FetchTimeout, log)
	fedex := NewFedExAdapter(backend, cfg.FetchTimeout, log)

	return &Registry{
		adapters: map[string]ports.CarrierAdapter{
			"dhl":         dhl,
			"dhl_express": dhl,
			"ups":         ups,
			"fedex":       fedex,
			"fdx":         fedex,
		},
		fallback: NewFallbackAdapter(cfg.Clock),
	}
}

// Resolve returns the adapter for a carrier code. Unrecognized codes
// resolve to the fallback adapter; resolution never fails.
func (r *Registry) Resolve(carrierCode string) ports.CarrierAdapter {
	if a, ok := r.adapters[strings.ToLower(strings.TrimSpace(carrierCode))]; ok {
		return a
	}
	return r.fallback
}
