package usecase

import "github.com/riskibarqy/court-spotter/internal/domain/availability"

// Diff compares the freshly fetched snapshot against what the store holds.
// Slots are matched by availability.Key only; matching slots are left alone.
func Diff(current, existing []availability.Slot) (toAdd, toRemove []availability.Slot) {
	existingByKey := make(map[availability.Key]struct{}, len(existing))
	for _, slot := range existing {
		existingByKey[slot.Key()] = struct{}{}
	}

	currentByKey := make(map[availability.Key]struct{}, len(current))
	for _, slot := range current {
		key := slot.Key()
		if _, dup := currentByKey[key]; dup {
			continue
		}
		currentByKey[key] = struct{}{}
		if _, ok := existingByKey[key]; !ok {
			toAdd = append(toAdd, slot)
		}
	}

	for _, slot := range existing {
		if _, ok := currentByKey[slot.Key()]; !ok {
			toRemove = append(toRemove, slot)
		}
	}
	return toAdd, toRemove
}
