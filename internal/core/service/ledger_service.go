package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/cargotrail/custody-ledger/internal/api/metrics"
	"github.com/cargotrail/custody-ledger/internal/core/domain"
	"github.com/cargotrail/custody-ledger/internal/core/ports"
)

// MutationScheduler serializes mutations per shipment identifier. Submissions
// with the same key execute in submission order, never concurrently.
type MutationScheduler interface {
	Submit(ctx context.Context, key uint64, fn func() error) error
}

// LedgerService is the authoritative shipment store. It owns creation
// uniqueness and existence checks, delegates status progression and damage
// accumulation to the domain record, persists the result atomically, and
// emits one notification per event.
type LedgerService struct {
	shipments ports.ShipmentRepository
	feed      ports.NotificationRepository
	publisher ports.NotificationPublisher
	sched     MutationScheduler
	log       zerolog.Logger
}

func NewLedgerService(
	shipments ports.ShipmentRepository,
	feed ports.NotificationRepository,
	publisher ports.NotificationPublisher,
	sched MutationScheduler,
	log zerolog.Logger,
) *LedgerService {
	return &LedgerService{
		shipments: shipments,
		feed:      feed,
		publisher: publisher,
		sched:     sched,
		log:       log,
	}
}

// Create registers a fresh ledger record. Any authenticated identity may
// create a shipment for an unused identifier; uniqueness is the only check.
func (s *LedgerService) Create(ctx context.Context, in ports.CreateShipmentInput) error {
	start := time.Now()
	err := s.sched.Submit(ctx, in.ID, func() error {
		shipment := domain.NewShipment(in.ID, in.Origin, in.Destination, in.Quantity, in.TransitStations)

		note := domain.Notification{ShipmentID: in.ID, Kind: domain.NotificationCreated}
		stamp(shipment, &note)

		if err := s.shipments.Insert(ctx, shipment); err != nil {
			return err
		}
		s.emit(ctx, note)
		return nil
	})
	s.observe("create", start, err)
	if err != nil {
		return err
	}

	s.log.Info().Uint64("shipment_id", in.ID).Int("stations", len(in.TransitStations)).Msg("shipment created")
	return nil
}

// SetStatus overwrites the shipment status on behalf of caller. Unrecognized
// status strings are rejected before the record is touched.
func (s *LedgerService) SetStatus(ctx context.Context, id uint64, newStatus string, caller string) error {
	status, err := domain.ParseStatus(newStatus)
	if err != nil {
		metrics.OpErrorsTotal.WithLabelValues("set_status", metrics.Reason(err)).Inc()
		return err
	}

	err = s.mutate(ctx, "set_status", id, func(sh *domain.Shipment) ([]domain.Notification, error) {
		if err := sh.SetStatus(status, caller); err != nil {
			return nil, err
		}
		return []domain.Notification{
			{Kind: domain.NotificationStatusChanged, Status: status},
		}, nil
	})
	if err != nil {
		return err
	}

	s.log.Info().Uint64("shipment_id", id).Str("status", newStatus).Str("caller", caller).Msg("status changed")
	return nil
}

// Advance progresses the shipment to its next transit station on behalf of
// caller, recording custody and emitting StationReached followed by the
// resulting StatusChanged.
func (s *LedgerService) Advance(ctx context.Context, id uint64, caller string) error {
	var delivered bool
	err := s.mutate(ctx, "advance", id, func(sh *domain.Shipment) ([]domain.Notification, error) {
		if err := sh.Advance(caller); err != nil {
			return nil, err
		}
		delivered = sh.Status == domain.StatusDelivered
		return []domain.Notification{
			{Kind: domain.NotificationStationReached, Station: caller},
			{Kind: domain.NotificationStatusChanged, Status: sh.Status},
		}, nil
	})
	if err != nil {
		return err
	}

	s.log.Info().Uint64("shipment_id", id).Str("station", caller).Bool("delivered", delivered).Msg("station reached")
	return nil
}

// ReportDamage files caller's damage claim against the shipment.
func (s *LedgerService) ReportDamage(ctx context.Context, id uint64, caller string, quantity uint64, reason string) error {
	err := s.mutate(ctx, "report_damage", id, func(sh *domain.Shipment) ([]domain.Notification, error) {
		if err := sh.RecordDamage(caller, quantity, reason); err != nil {
			return nil, err
		}
		return []domain.Notification{
			{Kind: domain.NotificationDamageReported, Station: caller, Quantity: quantity, Reason: reason},
		}, nil
	})
	if err != nil {
		return err
	}

	metrics.DamagedUnitsTotal.Add(float64(quantity))
	s.log.Info().Uint64("shipment_id", id).Str("station", caller).Uint64("quantity", quantity).Msg("damage reported")
	return nil
}

// Get returns a copy of the full record plus the calling station's own claim,
// zero-valued if caller never filed one. Reads bypass the scheduler.
func (s *LedgerService) Get(ctx context.Context, id uint64, caller string) (*ports.ShipmentDetail, error) {
	shipment, err := s.shipments.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	clone := shipment.Clone()
	return &ports.ShipmentDetail{
		Shipment:    *clone,
		CallerClaim: clone.ClaimBy(caller),
	}, nil
}

// ListDamageReports returns each reporter's latest claim in insertion order.
func (s *LedgerService) ListDamageReports(ctx context.Context, id uint64) ([]ports.DamageReportView, error) {
	shipment, err := s.shipments.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	views := make([]ports.DamageReportView, 0, len(shipment.Reporters))
	for _, station := range shipment.Reporters {
		claim := shipment.DamageReports[station]
		views = append(views, ports.DamageReportView{
			Station:  station,
			Quantity: claim.Quantity,
			Reason:   claim.Reason,
		})
	}
	return views, nil
}

// StationHasPassed reports whether station was ever recorded as having
// custody of the shipment.
func (s *LedgerService) StationHasPassed(ctx context.Context, id uint64, station string) (bool, error) {
	shipment, err := s.shipments.Find(ctx, id)
	if err != nil {
		return false, err
	}
	return shipment.HasPassed(station), nil
}

// ListNotifications returns the shipment's durable feed in emission order.
func (s *LedgerService) ListNotifications(ctx context.Context, id uint64) ([]domain.Notification, error) {
	if _, err := s.shipments.Find(ctx, id); err != nil {
		return nil, err
	}
	return s.feed.ListByShipment(ctx, id)
}

// mutate runs one serialized read-apply-persist cycle against the record.
// A rejection from apply leaves the stored record untouched; notifications
// are emitted only after the write committed.
func (s *LedgerService) mutate(
	ctx context.Context,
	op string,
	id uint64,
	apply func(*domain.Shipment) ([]domain.Notification, error),
) error {
	start := time.Now()
	err := s.sched.Submit(ctx, id, func() error {
		shipment, err := s.shipments.Find(ctx, id)
		if err != nil {
			return err
		}

		notes, err := apply(shipment)
		if err != nil {
			return err
		}
		for i := range notes {
			notes[i].ShipmentID = id
			stamp(shipment, &notes[i])
		}
		shipment.UpdatedAt = time.Now().UTC()

		if err := s.shipments.Replace(ctx, shipment); err != nil {
			return fmt.Errorf("%s: persist shipment %d: %w", op, id, err)
		}
		s.emit(ctx, notes...)
		return nil
	})
	s.observe(op, start, err)
	return err
}

// stamp assigns the next per-shipment feed sequence and the emission time.
// The sequence counter persists with the record in the same write.
func stamp(shipment *domain.Shipment, n *domain.Notification) {
	shipment.FeedSequence++
	n.Sequence = shipment.FeedSequence
	n.EmittedAt = time.Now().UTC()
}

// emit appends committed notifications to the durable feed and pushes them to
// subscribers. Failures here are logged, never propagated: the mutation has
// already committed.
func (s *LedgerService) emit(ctx context.Context, notes ...domain.Notification) {
	for i := range notes {
		n := &notes[i]
		if err := s.feed.Append(ctx, n); err != nil {
			metrics.FeedErrorsTotal.WithLabelValues("store").Inc()
			s.log.Error().Err(err).Uint64("shipment_id", n.ShipmentID).Str("kind", string(n.Kind)).Msg("failed to append notification")
		}
		if s.publisher != nil {
			if err := s.publisher.Publish(ctx, n); err != nil {
				metrics.FeedErrorsTotal.WithLabelValues("stream").Inc()
				s.log.Warn().Err(err).Uint64("shipment_id", n.ShipmentID).Str("kind", string(n.Kind)).Msg("failed to publish notification")
			}
		}
		metrics.NotificationsEmittedTotal.WithLabelValues(string(n.Kind)).Inc()
	}
}

func (s *LedgerService) observe(op string, start time.Time, err error) {
	metrics.OpDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.OpErrorsTotal.WithLabelValues(op, metrics.Reason(err)).Inc()
		return
	}
	metrics.OpsTotal.WithLabelValues(op).Inc()
}
