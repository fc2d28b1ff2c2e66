package handler

import (
	"fmt"
	"sort"

	"github.com/cargotrail/custody-ledger/internal/core/domain"
	"github.com/cargotrail/custody-ledger/internal/core/ports"
)

// --- Service result → HTTP response ---

func links(id uint64) shipmentLinks {
	base := fmt.Sprintf("/v1/shipments/%d", id)
	return shipmentLinks{
		Self:          base,
		Damage:        base + "/damage",
		Notifications: base + "/notifications",
	}
}

func toGetResponse(d *ports.ShipmentDetail) getShipmentResponse {
	sh := d.Shipment

	passed := make([]string, 0, len(sh.StationsPassed))
	for station := range sh.StationsPassed {
		passed = append(passed, station)
	}
	sort.Strings(passed)

	return getShipmentResponse{
		ID:                   sh.ID,
		Origin:               sh.Origin,
		Destination:          sh.Destination,
		Quantity:             sh.Quantity,
		Status:               string(sh.Status),
		TransitStations:      sh.TransitStations,
		CurrentStationIndex:  sh.CurrentStationIndex,
		TotalDamagedQuantity: sh.TotalDamagedQuantity,
		Reporters:            sh.Reporters,
		StationsPassed:       passed,
		CallerClaim: damageClaimResponse{
			Quantity: d.CallerClaim.Quantity,
			Reason:   d.CallerClaim.Reason,
		},
		CreatedAt: sh.CreatedAt.UTC(),
		UpdatedAt: sh.UpdatedAt.UTC(),
		Links:     links(sh.ID),
	}
}

func toDamageReportResponses(reports []ports.DamageReportView) []damageReportResponse {
	out := make([]damageReportResponse, 0, len(reports))
	for _, r := range reports {
		out = append(out, damageReportResponse{
			Station:  r.Station,
			Quantity: r.Quantity,
			Reason:   r.Reason,
		})
	}
	return out
}

func toNotificationResponses(notes []domain.Notification) []notificationResponse {
	out := make([]notificationResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, notificationResponse{
			Sequence:  n.Sequence,
			Kind:      string(n.Kind),
			Status:    string(n.Status),
			Station:   n.Station,
			Quantity:  n.Quantity,
			Reason:    n.Reason,
			EmittedAt: n.EmittedAt.UTC(),
		})
	}
	return out
}
