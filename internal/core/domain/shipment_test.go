package domain

import (
	"errors"
	"testing"
)

func TestParseStatus_Valid(t *testing.T) {
	cases := []struct {
		in   string
		want Status
	}{
		{"pending", StatusPending},
		{"in_transit", StatusInTransit},
		{"delivered", StatusDelivered},
		{"cancelled", StatusCancelled},
	}
	for _, tc := range cases {
		got, err := ParseStatus(tc.in)
		if err != nil {
			t.Errorf("ParseStatus(%q): unexpected error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseStatus(%q): want %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestParseStatus_RejectsUnknown(t *testing.T) {
	for _, in := range []string{"", "shipped", "PENDING", "done"} {
		if _, err := ParseStatus(in); !errors.Is(err, ErrUnknownStatus) {
			t.Errorf("ParseStatus(%q): expected ErrUnknownStatus, got %v", in, err)
		}
	}
}

func TestStatus_Terminal(t *testing.T) {
	if StatusPending.Terminal() || StatusInTransit.Terminal() {
		t.Error("pending/in_transit must not be terminal")
	}
	if !StatusDelivered.Terminal() || !StatusCancelled.Terminal() {
		t.Error("delivered/cancelled must be terminal")
	}
}

func TestNewShipment_InitialState(t *testing.T) {
	s := NewShipment(1, "A", "B", 100, []string{"S1", "S2"})

	if s.Status != StatusPending {
		t.Errorf("status: want %q, got %q", StatusPending, s.Status)
	}
	if s.CurrentStationIndex != 0 {
		t.Errorf("index: want 0, got %d", s.CurrentStationIndex)
	}
	if s.TotalDamagedQuantity != 0 {
		t.Errorf("total damaged: want 0, got %d", s.TotalDamagedQuantity)
	}
	if len(s.Reporters) != 0 || len(s.DamageReports) != 0 || len(s.StationsPassed) != 0 {
		t.Error("damage and custody state must start empty")
	}
	if s.CreatedAt.IsZero() || s.UpdatedAt.IsZero() {
		t.Error("timestamps must be set")
	}
}

func TestNewShipment_CopiesStationList(t *testing.T) {
	stations := []string{"S1", "S2"}
	s := NewShipment(1, "A", "B", 100, stations)

	stations[0] = "mutated"
	if s.TransitStations[0] != "S1" {
		t.Error("transit stations must not alias the caller's slice")
	}
}

func TestCurrentStation(t *testing.T) {
	s := NewShipment(1, "A", "B", 100, []string{"S1", "S2"})

	station, ok := s.CurrentStation()
	if !ok || station != "S1" {
		t.Errorf("expected (S1, true), got (%q, %v)", station, ok)
	}

	s.CurrentStationIndex = 2
	if _, ok := s.CurrentStation(); ok {
		t.Error("expected no current station once index reaches the chain length")
	}

	empty := NewShipment(2, "A", "B", 1, nil)
	if _, ok := empty.CurrentStation(); ok {
		t.Error("zero-station shipment must have no current station")
	}
}

func TestClone_IsDeep(t *testing.T) {
	s := NewShipment(1, "A", "B", 100, []string{"S1"})
	s.StationsPassed["S1"] = true
	s.Reporters = []string{"S1"}
	s.DamageReports["S1"] = DamageClaim{Quantity: 5, Reason: "wet"}

	clone := s.Clone()
	clone.StationsPassed["S2"] = true
	clone.DamageReports["S1"] = DamageClaim{Quantity: 9, Reason: "crushed"}
	clone.Reporters[0] = "S9"
	clone.TransitStations[0] = "S9"

	if s.StationsPassed["S2"] {
		t.Error("clone must not share StationsPassed")
	}
	if s.DamageReports["S1"].Quantity != 5 {
		t.Error("clone must not share DamageReports")
	}
	if s.Reporters[0] != "S1" || s.TransitStations[0] != "S1" {
		t.Error("clone must not share slices")
	}
}
