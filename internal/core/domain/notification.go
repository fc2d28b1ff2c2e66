package domain

import "time"

// NotificationKind identifies the event a ledger mutation emitted.
type NotificationKind string

const (
	NotificationCreated        NotificationKind = "created"
	NotificationStatusChanged  NotificationKind = "status_changed"
	NotificationStationReached NotificationKind = "station_reached"
	NotificationDamageReported NotificationKind = "damage_reported"
)

// Notification is one entry of the append-only feed. Sequence is per shipment
// and strictly increasing in mutation order.
type Notification struct {
	ShipmentID uint64           `json:"shipment_id" bson:"shipment_id"`
	Sequence   uint64           `json:"sequence" bson:"sequence"`
	Kind       NotificationKind `json:"kind" bson:"kind"`
	Status     Status           `json:"status,omitempty" bson:"status,omitempty"`
	Station    string           `json:"station,omitempty" bson:"station,omitempty"`
	Quantity   uint64           `json:"quantity,omitempty" bson:"quantity,omitempty"`
	Reason     string           `json:"reason,omitempty" bson:"reason,omitempty"`
	EmittedAt  time.Time        `json:"emitted_at" bson:"emitted_at"`
}
