package domain

import (
	"errors"
	"testing"
)

func passedShipment(t *testing.T) *Shipment {
	t.Helper()
	s := NewShipment(1, "A", "B", 100, []string{"S1", "S2"})
	if err := s.Advance("S1"); err != nil {
		t.Fatalf("seed advance: %v", err)
	}
	return s
}

func TestRecordDamage_ByPassedStation(t *testing.T) {
	s := passedShipment(t)

	if err := s.RecordDamage("S1", 10, "crushed box"); err != nil {
		t.Fatalf("record damage: %v", err)
	}
	if s.TotalDamagedQuantity != 10 {
		t.Errorf("total: want 10, got %d", s.TotalDamagedQuantity)
	}
	if len(s.Reporters) != 1 || s.Reporters[0] != "S1" {
		t.Errorf("reporters: want [S1], got %v", s.Reporters)
	}
	claim := s.ClaimBy("S1")
	if claim.Quantity != 10 || claim.Reason != "crushed box" {
		t.Errorf("claim: want (10, crushed box), got (%d, %q)", claim.Quantity, claim.Reason)
	}
}

func TestRecordDamage_UnpassedStationIsUnauthorized(t *testing.T) {
	s := passedShipment(t)

	// S2 is in the transit chain but has not advanced yet; S3 never appears.
	for _, caller := range []string{"S2", "S3"} {
		if err := s.RecordDamage(caller, 5, "dent"); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("caller %q: expected ErrUnauthorized, got %v", caller, err)
		}
	}
	if s.TotalDamagedQuantity != 0 || len(s.Reporters) != 0 {
		t.Error("rejected claim must leave damage state unchanged")
	}
}

func TestRecordDamage_RepeatReportAccumulatesTotal(t *testing.T) {
	s := passedShipment(t)

	if err := s.RecordDamage("S1", 5, "wet corner"); err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if err := s.RecordDamage("S1", 3, "torn label"); err != nil {
		t.Fatalf("second claim: %v", err)
	}

	// Latest claim replaces the per-station record...
	claim := s.ClaimBy("S1")
	if claim.Quantity != 3 || claim.Reason != "torn label" {
		t.Errorf("claim: want (3, torn label), got (%d, %q)", claim.Quantity, claim.Reason)
	}
	// ...but the running total keeps both contributions.
	if s.TotalDamagedQuantity != 8 {
		t.Errorf("total: want 8 (5+3), got %d", s.TotalDamagedQuantity)
	}
	if len(s.Reporters) != 1 {
		t.Errorf("reporters must contain S1 exactly once, got %v", s.Reporters)
	}
}

func TestRecordDamage_ZeroClaimByOtherStationDefaultsEmpty(t *testing.T) {
	s := passedShipment(t)

	claim := s.ClaimBy("S2")
	if claim.Quantity != 0 || claim.Reason != "" {
		t.Errorf("expected zero claim for a station that never filed, got %+v", claim)
	}
}
