package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/cargotrail/custody-ledger/internal/core/domain"
	"github.com/cargotrail/custody-ledger/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stubs
// ---------------------------------------------------------------------------

type stubShipmentRepo struct {
	byID       map[uint64]*domain.Shipment
	insertErr  error // if set, Insert returns this error
	replaceErr error // if set, Replace returns this error
}

func newStubShipmentRepo() *stubShipmentRepo {
	return &stubShipmentRepo{byID: make(map[uint64]*domain.Shipment)}
}

func (r *stubShipmentRepo) Insert(_ context.Context, s *domain.Shipment) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	if _, ok := r.byID[s.ID]; ok {
		return domain.ErrShipmentExists
	}
	r.byID[s.ID] = s.Clone()
	return nil
}

func (r *stubShipmentRepo) Find(_ context.Context, id uint64) (*domain.Shipment, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrShipmentNotFound
	}
	return s.Clone(), nil
}

// Replace enforces the same revision guard as the real Mongo repo.
func (r *stubShipmentRepo) Replace(_ context.Context, s *domain.Shipment) error {
	if r.replaceErr != nil {
		return r.replaceErr
	}
	stored, ok := r.byID[s.ID]
	if !ok || stored.Revision != s.Revision {
		return domain.ErrStaleRevision
	}
	clone := s.Clone()
	clone.Revision++
	r.byID[s.ID] = clone
	return nil
}

type stubFeed struct {
	appended  []domain.Notification
	appendErr error
}

func (f *stubFeed) Append(_ context.Context, n *domain.Notification) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, *n)
	return nil
}

func (f *stubFeed) ListByShipment(_ context.Context, shipmentID uint64) ([]domain.Notification, error) {
	var out []domain.Notification
	for _, n := range f.appended {
		if n.ShipmentID == shipmentID {
			out = append(out, n)
		}
	}
	return out, nil
}

type stubPublisher struct {
	published []domain.Notification
}

func (p *stubPublisher) Publish(_ context.Context, n *domain.Notification) error {
	p.published = append(p.published, *n)
	return nil
}

// syncScheduler runs mutations inline; ordering is trivially serial in tests.
type syncScheduler struct{}

func (syncScheduler) Submit(_ context.Context, _ uint64, fn func() error) error {
	return fn()
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type fixture struct {
	repo *stubShipmentRepo
	feed *stubFeed
	pub  *stubPublisher
	svc  *LedgerService
}

func newFixture() *fixture {
	repo := newStubShipmentRepo()
	feed := &stubFeed{}
	pub := &stubPublisher{}
	return &fixture{
		repo: repo,
		feed: feed,
		pub:  pub,
		svc:  NewLedgerService(repo, feed, pub, syncScheduler{}, zerolog.Nop()),
	}
}

func (f *fixture) create(t *testing.T, id uint64, stations ...string) {
	t.Helper()
	err := f.svc.Create(context.Background(), ports.CreateShipmentInput{
		ID:              id,
		Origin:          "A",
		Destination:     "B",
		Quantity:        100,
		TransitStations: stations,
	})
	if err != nil {
		t.Fatalf("create shipment %d: %v", id, err)
	}
}

func (f *fixture) kinds(shipmentID uint64) []domain.NotificationKind {
	var kinds []domain.NotificationKind
	for _, n := range f.feed.appended {
		if n.ShipmentID == shipmentID {
			kinds = append(kinds, n.Kind)
		}
	}
	return kinds
}

// ---------------------------------------------------------------------------
// Create / Get
// ---------------------------------------------------------------------------

func TestLedger_CreateThenGet_InitialState(t *testing.T) {
	f := newFixture()
	f.create(t, 1, "S1", "S2")

	detail, err := f.svc.Get(context.Background(), 1, "S1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	sh := detail.Shipment
	if sh.Status != domain.StatusPending {
		t.Errorf("status: want %q, got %q", domain.StatusPending, sh.Status)
	}
	if sh.CurrentStationIndex != 0 {
		t.Errorf("index: want 0, got %d", sh.CurrentStationIndex)
	}
	if sh.TotalDamagedQuantity != 0 {
		t.Errorf("total damaged: want 0, got %d", sh.TotalDamagedQuantity)
	}
	if detail.CallerClaim.Quantity != 0 || detail.CallerClaim.Reason != "" {
		t.Errorf("caller claim must default to zero, got %+v", detail.CallerClaim)
	}
	if got := f.kinds(1); len(got) != 1 || got[0] != domain.NotificationCreated {
		t.Errorf("feed after create: want [created], got %v", got)
	}
}

func TestLedger_Create_DuplicateIDFails(t *testing.T) {
	f := newFixture()
	f.create(t, 1, "S1")

	err := f.svc.Create(context.Background(), ports.CreateShipmentInput{
		ID: 1, Origin: "X", Destination: "Y", Quantity: 5, TransitStations: []string{"S9"},
	})
	if !errors.Is(err, domain.ErrShipmentExists) {
		t.Fatalf("expected ErrShipmentExists, got %v", err)
	}

	// The losing create must have no side effects.
	detail, _ := f.svc.Get(context.Background(), 1, "S1")
	if detail.Shipment.Origin != "A" {
		t.Errorf("stored record must be unchanged, got origin %q", detail.Shipment.Origin)
	}
	if got := f.kinds(1); len(got) != 1 {
		t.Errorf("rejected create must not emit, feed: %v", got)
	}
}

func TestLedger_Get_NotFound(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.Get(context.Background(), 99, "S1"); !errors.Is(err, domain.ErrShipmentNotFound) {
		t.Fatalf("expected ErrShipmentNotFound, got %v", err)
	}
}

func TestLedger_Get_ReturnsCopies(t *testing.T) {
	f := newFixture()
	f.create(t, 1, "S1")

	detail, _ := f.svc.Get(context.Background(), 1, "S1")
	detail.Shipment.StationsPassed["S1"] = true
	detail.Shipment.TransitStations[0] = "tampered"

	fresh, _ := f.svc.Get(context.Background(), 1, "S1")
	if fresh.Shipment.HasPassed("S1") {
		t.Error("mutating a read result must not alias ledger state")
	}
	if fresh.Shipment.TransitStations[0] != "S1" {
		t.Error("mutating a read result's slices must not alias ledger state")
	}
}

// ---------------------------------------------------------------------------
// Advance
// ---------------------------------------------------------------------------

func TestLedger_Advance_FullScenario(t *testing.T) {
	f := newFixture()
	f.create(t, 1, "S1", "S2")
	ctx := context.Background()

	if err := f.svc.Advance(ctx, 1, "S1"); err != nil {
		t.Fatalf("advance S1: %v", err)
	}
	detail, _ := f.svc.Get(ctx, 1, "S1")
	if detail.Shipment.CurrentStationIndex != 1 || detail.Shipment.Status != domain.StatusInTransit {
		t.Fatalf("after S1: want (1, in_transit), got (%d, %s)",
			detail.Shipment.CurrentStationIndex, detail.Shipment.Status)
	}

	if err := f.svc.Advance(ctx, 1, "S2"); err != nil {
		t.Fatalf("advance S2: %v", err)
	}
	detail, _ = f.svc.Get(ctx, 1, "S2")
	if detail.Shipment.CurrentStationIndex != 2 || detail.Shipment.Status != domain.StatusDelivered {
		t.Fatalf("after S2: want (2, delivered), got (%d, %s)",
			detail.Shipment.CurrentStationIndex, detail.Shipment.Status)
	}

	if err := f.svc.ReportDamage(ctx, 1, "S1", 10, "crushed box"); err != nil {
		t.Fatalf("report damage: %v", err)
	}
	detail, _ = f.svc.Get(ctx, 1, "S1")
	if detail.Shipment.TotalDamagedQuantity != 10 {
		t.Errorf("total damaged: want 10, got %d", detail.Shipment.TotalDamagedQuantity)
	}
	if len(detail.Shipment.Reporters) != 1 || detail.Shipment.Reporters[0] != "S1" {
		t.Errorf("reporters: want [S1], got %v", detail.Shipment.Reporters)
	}

	// S3 was never a station on this shipment.
	if err := f.svc.ReportDamage(ctx, 1, "S3", 1, "dent"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("S3 claim: expected ErrUnauthorized, got %v", err)
	}
}

func TestLedger_Advance_WrongCallerLeavesIndexUnchanged(t *testing.T) {
	f := newFixture()
	f.create(t, 1, "S1", "S2")

	if err := f.svc.Advance(context.Background(), 1, "S2"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	detail, _ := f.svc.Get(context.Background(), 1, "S2")
	if detail.Shipment.CurrentStationIndex != 0 {
		t.Errorf("index must stay 0 after rejected advance, got %d", detail.Shipment.CurrentStationIndex)
	}
	if detail.Shipment.Status != domain.StatusPending {
		t.Errorf("status must stay pending, got %q", detail.Shipment.Status)
	}
	if got := f.kinds(1); len(got) != 1 {
		t.Errorf("rejected advance must not emit, feed: %v", got)
	}
}

func TestLedger_Advance_NotFound(t *testing.T) {
	f := newFixture()
	if err := f.svc.Advance(context.Background(), 42, "S1"); !errors.Is(err, domain.ErrShipmentNotFound) {
		t.Fatalf("expected ErrShipmentNotFound, got %v", err)
	}
}

func TestLedger_Advance_AfterDeliveryIsInvalidState(t *testing.T) {
	f := newFixture()
	f.create(t, 1, "S1")
	ctx := context.Background()

	if err := f.svc.Advance(ctx, 1, "S1"); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if err := f.svc.Advance(ctx, 1, "S1"); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState after delivery, got %v", err)
	}
}

func TestLedger_Advance_ZeroStations(t *testing.T) {
	f := newFixture()
	f.create(t, 1)

	if err := f.svc.Advance(context.Background(), 1, "S1"); !errors.Is(err, domain.ErrStationsExhausted) {
		t.Fatalf("expected ErrStationsExhausted, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// SetStatus
// ---------------------------------------------------------------------------

func TestLedger_SetStatus_ByCurrentStation(t *testing.T) {
	f := newFixture()
	f.create(t, 1, "S1", "S2")

	if err := f.svc.SetStatus(context.Background(), 1, "cancelled", "S1"); err != nil {
		t.Fatalf("set status: %v", err)
	}
	detail, _ := f.svc.Get(context.Background(), 1, "S1")
	if detail.Shipment.Status != domain.StatusCancelled {
		t.Errorf("want cancelled, got %q", detail.Shipment.Status)
	}
}

func TestLedger_SetStatus_RejectsUnknownStatusBeforeLookup(t *testing.T) {
	f := newFixture()

	// Even for a missing shipment, the boundary rejects the value first.
	err := f.svc.SetStatus(context.Background(), 42, "teleported", "S1")
	if !errors.Is(err, domain.ErrUnknownStatus) {
		t.Fatalf("expected ErrUnknownStatus, got %v", err)
	}
}

func TestLedger_SetStatus_WrongCaller(t *testing.T) {
	f := newFixture()
	f.create(t, 1, "S1", "S2")

	err := f.svc.SetStatus(context.Background(), 1, "cancelled", "S2")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestLedger_SetStatus_ZeroStationsIsUnauthorized(t *testing.T) {
	f := newFixture()
	f.create(t, 1)

	err := f.svc.SetStatus(context.Background(), 1, "delivered", "S1")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for zero-station shipment, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Damage reports
// ---------------------------------------------------------------------------

func TestLedger_ReportDamage_CumulativeTotalLatestRecord(t *testing.T) {
	f := newFixture()
	f.create(t, 1, "S1", "S2")
	ctx := context.Background()

	if err := f.svc.Advance(ctx, 1, "S1"); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if err := f.svc.ReportDamage(ctx, 1, "S1", 5, "wet corner"); err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if err := f.svc.ReportDamage(ctx, 1, "S1", 3, "torn label"); err != nil {
		t.Fatalf("second claim: %v", err)
	}

	detail, _ := f.svc.Get(ctx, 1, "S1")
	if detail.CallerClaim.Quantity != 3 || detail.CallerClaim.Reason != "torn label" {
		t.Errorf("caller claim: want (3, torn label), got %+v", detail.CallerClaim)
	}
	if detail.Shipment.TotalDamagedQuantity != 8 {
		t.Errorf("total: want 8, got %d", detail.Shipment.TotalDamagedQuantity)
	}

	reports, err := f.svc.ListDamageReports(ctx, 1)
	if err != nil {
		t.Fatalf("list reports: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("want 1 reporter, got %d", len(reports))
	}
	if reports[0].Station != "S1" || reports[0].Quantity != 3 {
		t.Errorf("report: want (S1, 3), got %+v", reports[0])
	}
}

func TestLedger_ListDamageReports_InsertionOrder(t *testing.T) {
	f := newFixture()
	f.create(t, 1, "S1", "S2", "S3")
	ctx := context.Background()

	for _, station := range []string{"S1", "S2", "S3"} {
		if err := f.svc.Advance(ctx, 1, station); err != nil {
			t.Fatalf("advance %s: %v", station, err)
		}
	}
	// File in reverse station order; listing must preserve filing order.
	if err := f.svc.ReportDamage(ctx, 1, "S3", 2, "c"); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.ReportDamage(ctx, 1, "S1", 1, "a"); err != nil {
		t.Fatal(err)
	}

	reports, _ := f.svc.ListDamageReports(ctx, 1)
	if len(reports) != 2 || reports[0].Station != "S3" || reports[1].Station != "S1" {
		t.Fatalf("want [S3 S1], got %+v", reports)
	}
}

func TestLedger_ReportDamage_ListedButUnpassedStation(t *testing.T) {
	f := newFixture()
	f.create(t, 1, "S1", "S2")

	// S2 appears in the transit chain but has not had custody yet.
	err := f.svc.ReportDamage(context.Background(), 1, "S2", 5, "dent")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// StationHasPassed
// ---------------------------------------------------------------------------

func TestLedger_StationHasPassed(t *testing.T) {
	f := newFixture()
	f.create(t, 1, "S1", "S2")
	ctx := context.Background()

	passed, err := f.svc.StationHasPassed(ctx, 1, "S1")
	if err != nil {
		t.Fatalf("has passed: %v", err)
	}
	if passed {
		t.Error("S1 must not be passed before advancing")
	}

	if err := f.svc.Advance(ctx, 1, "S1"); err != nil {
		t.Fatalf("advance: %v", err)
	}

	passed, _ = f.svc.StationHasPassed(ctx, 1, "S1")
	if !passed {
		t.Error("S1 must be passed immediately after advancing")
	}

	if _, err := f.svc.StationHasPassed(ctx, 42, "S1"); !errors.Is(err, domain.ErrShipmentNotFound) {
		t.Errorf("expected ErrShipmentNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Notification feed
// ---------------------------------------------------------------------------

func TestLedger_FeedMatchesMutationOrder(t *testing.T) {
	f := newFixture()
	f.create(t, 1, "S1", "S2")
	ctx := context.Background()

	if err := f.svc.Advance(ctx, 1, "S1"); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.Advance(ctx, 1, "S2"); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.ReportDamage(ctx, 1, "S1", 10, "crushed box"); err != nil {
		t.Fatal(err)
	}

	want := []domain.NotificationKind{
		domain.NotificationCreated,
		domain.NotificationStationReached, // S1
		domain.NotificationStatusChanged,  // in_transit
		domain.NotificationStationReached, // S2
		domain.NotificationStatusChanged,  // delivered
		domain.NotificationDamageReported,
	}
	got := f.kinds(1)
	if len(got) != len(want) {
		t.Fatalf("feed length: want %d, got %d (%v)", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("feed[%d]: want %q, got %q", i, want[i], got[i])
		}
	}

	// Sequences are strictly increasing per shipment.
	notes, err := f.svc.ListNotifications(ctx, 1)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	for i, n := range notes {
		if n.Sequence != uint64(i+1) {
			t.Errorf("sequence[%d]: want %d, got %d", i, i+1, n.Sequence)
		}
	}

	// Subscribers see the same entries in the same order.
	if len(f.pub.published) != len(want) {
		t.Errorf("published: want %d entries, got %d", len(want), len(f.pub.published))
	}
}

func TestLedger_FeedAppendFailureDoesNotRollBack(t *testing.T) {
	f := newFixture()
	f.create(t, 1, "S1")
	f.feed.appendErr = errors.New("feed store down")

	if err := f.svc.Advance(context.Background(), 1, "S1"); err != nil {
		t.Fatalf("advance must commit despite feed failure, got %v", err)
	}
	detail, _ := f.svc.Get(context.Background(), 1, "S1")
	if detail.Shipment.Status != domain.StatusDelivered {
		t.Errorf("mutation must have committed, status %q", detail.Shipment.Status)
	}
}

func TestLedger_ListNotifications_NotFound(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.ListNotifications(context.Background(), 42); !errors.Is(err, domain.ErrShipmentNotFound) {
		t.Fatalf("expected ErrShipmentNotFound, got %v", err)
	}
}
