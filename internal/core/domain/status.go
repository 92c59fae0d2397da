package domain

// CanonicalStatus is the carrier-independent shipment status vocabulary.
// Every carrier-specific code is normalized into one of these values.
type CanonicalStatus string

const (
	StatusPending        CanonicalStatus = "pending"
	StatusInTransit      CanonicalStatus = "in_transit"
	StatusOutForDelivery CanonicalStatus = "out_for_delivery"
	StatusDelivered      CanonicalStatus = "delivered"
	StatusException      CanonicalStatus = "exception"
	StatusReturned       CanonicalStatus = "returned"
	StatusUnknown        CanonicalStatus = "unknown"
)

// canonicalStatuses is the closed set of valid values.
var canonicalStatuses = map[CanonicalStatus]struct{}{
	StatusPending:        {},
	StatusInTransit:      {},
	StatusOutForDelivery: {},
	StatusDelivered:      {},
	StatusException:      {},
	StatusReturned:       {},
	StatusUnknown:        {},
}

// ParseStatus normalizes a raw string into a CanonicalStatus. Values outside
// the closed enumeration map to StatusUnknown; parsing never fails.
func ParseStatus(s string) CanonicalStatus {
	status := CanonicalStatus(s)
	if _, ok := canonicalStatuses[status]; ok {
		return status
	}
	return StatusUnknown
}

// IsTerminal reports whether the status ends the delivery lifecycle.
// Carriers may still report events after a terminal status (data correction);
// terminality only gates the delivery side effect.
func (s CanonicalStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusReturned
}

// IsValid reports whether s belongs to the closed enumeration.
func (s CanonicalStatus) IsValid() bool {
	_, ok := canonicalStatuses[s]
	return ok
}
