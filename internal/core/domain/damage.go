package domain

// RecordDamage files a damage claim by caller against the shipment. Only a
// station that has had custody (member of StationsPassed) may file.
//
// Accumulation policy: the per-station record is overwritten by the latest
// claim, but TotalDamagedQuantity keeps the sum of every claim ever filed —
// a station's second report adds on top of its first instead of replacing
// its earlier contribution. The asymmetry mirrors the recorded ledger
// behavior and is confined to this method.
func (s *Shipment) RecordDamage(caller string, quantity uint64, reason string) error {
	if !s.HasPassed(caller) {
		return ErrUnauthorized
	}

	if _, filed := s.DamageReports[caller]; !filed {
		s.Reporters = append(s.Reporters, caller)
	}
	s.DamageReports[caller] = DamageClaim{Quantity: quantity, Reason: reason}
	s.TotalDamagedQuantity += quantity
	return nil
}
