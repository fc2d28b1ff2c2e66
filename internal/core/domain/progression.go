package domain

// SetStatus overwrites the shipment status on behalf of caller.
//
// While the shipment is pending or in transit only the station currently
// expected to act (TransitStations[CurrentStationIndex]) may change the
// status; when the index has already run past the chain (including the
// zero-station case) there is no current station to match, which is treated
// as an authorization failure rather than a panic.
//
// Once the status is terminal any caller may overwrite it.
func (s *Shipment) SetStatus(next Status, caller string) error {
	if s.Status == StatusPending || s.Status == StatusInTransit {
		current, ok := s.CurrentStation()
		if !ok || current != caller {
			return ErrUnauthorized
		}
	}
	s.Status = next
	return nil
}

// Advance records custody at the next transit station and moves the index
// forward. Only the expected station may advance; reaching the end of the
// chain delivers the shipment, otherwise it is marked in transit.
func (s *Shipment) Advance(caller string) error {
	if s.Status != StatusPending && s.Status != StatusInTransit {
		return ErrInvalidState
	}
	expected, ok := s.CurrentStation()
	if !ok {
		return ErrStationsExhausted
	}
	if caller != expected {
		return ErrUnauthorized
	}

	s.StationsPassed[caller] = true
	s.CurrentStationIndex++
	if s.CurrentStationIndex == len(s.TransitStations) {
		s.Status = StatusDelivered
	} else {
		s.Status = StatusInTransit
	}
	return nil
}
