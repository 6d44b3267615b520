package domain

// FindConflict returns the first slot in existing whose interval overlaps
// candidate, or nil if none does. A slot whose ID equals excludeID is skipped,
// so an existing slot can be moved without conflicting with itself. Adjacent
// intervals (shared boundary instant) never conflict.
func FindConflict(candidate TimeInterval, existing []Slot, excludeID string) *Slot {
	for i := range existing {
		if excludeID != "" && existing[i].ID == excludeID {
			continue
		}
		if candidate.Overlaps(existing[i].Interval) {
			return &existing[i]
		}
	}
	return nil
}

// HasConflict reports whether candidate overlaps any interval in existing.
func HasConflict(candidate TimeInterval, existing []TimeInterval) bool {
	for _, e := range existing {
		if candidate.Overlaps(e) {
			return true
		}
	}
	return false
}
