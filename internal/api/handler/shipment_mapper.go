package handler

import (
	"github.com/shipwatch/tracking-engine/internal/core/ports"
)

// --- Service result → HTTP response ---

func toShipmentResponse(d *ports.ShipmentDetail) shipmentResponse {
	events := make([]trackingEventResponse, len(d.TrackingHistory))
	for i, ev := range d.TrackingHistory {
		events[i] = toEventResponse(ev)
	}
	history := make([]statusHistoryItemResponse, len(d.StatusHistory))
	for i, entry := range d.StatusHistory {
		history[i] = statusHistoryItemResponse{
			FromStatus: entry.FromStatus,
			ToStatus:   entry.ToStatus,
			Timestamp:  entry.Timestamp.UTC(),
			Note:       entry.Note,
		}
	}
	return shipmentResponse{
		ID:                    d.ID,
		OrderID:               d.OrderID,
		Carrier:               d.Carrier,
		TrackingNumber:        d.TrackingNumber,
		Status:                d.Status,
		TrackingHistory:       events,
		StatusHistory:         history,
		ShippedDate:           d.ShippedDate.UTC(),
		EstimatedDeliveryDate: d.EstimatedDeliveryDate,
		DeliveredDate:         d.DeliveredDate,
		LastUpdated:           d.LastUpdated.UTC(),
		CreatedAt:             d.CreatedAt.UTC(),
		Links: shipmentLinks{
			Self:    "/v1/orders/" + d.OrderID + "/shipment",
			Refresh: "/v1/shipments/" + d.ID + "/refresh",
		},
	}
}

func toEventResponse(ev ports.TrackingEventView) trackingEventResponse {
	return trackingEventResponse{
		Timestamp:   ev.Timestamp.UTC(),
		Description: ev.Description,
		Location:    ev.Location,
		StatusCode:  ev.StatusCode,
	}
}

func toSnapshotResponse(s *ports.TrackingSnapshot) trackingSnapshotResponse {
	events := make([]trackingEventResponse, len(s.Events))
	for i, ev := range s.Events {
		events[i] = toEventResponse(ev)
	}
	return trackingSnapshotResponse{
		Carrier:           s.Carrier,
		TrackingNumber:    s.TrackingNumber,
		Status:            s.Status,
		Events:            events,
		EstimatedDelivery: s.EstimatedDelivery,
		Synthetic:         s.Synthetic,
	}
}
