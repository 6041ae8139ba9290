package ofx

import (
	"github.com/Veraticus/budjet/internal/model"
)

type entryKey struct {
	date   string
	title  string
	amount string
}

func keyOf(e model.Expense) entryKey {
	return entryKey{
		date:   e.Date.Format(model.DateLayout),
		title:  e.Title,
		amount: e.Amount.String(),
	}
}

// Deduplicate drops entries already present in existing, matched on date,
// title and amount, and repeated FITIDs within the batch.
// It returns the remaining entries in input order and the number dropped.
func Deduplicate(entries []Entry, existing []model.Expense) ([]Entry, int) {
	stored := make(map[entryKey]int, len(existing))
	for _, e := range existing {
		stored[keyOf(e)]++
	}

	seenFitID := make(map[string]bool, len(entries))
	fresh := make([]Entry, 0, len(entries))
	dropped := 0

	for _, entry := range entries {
		if entry.FitID != "" {
			id := entry.Account + "/" + entry.FitID
			if seenFitID[id] {
				dropped++
				continue
			}
			seenFitID[id] = true
		}

		key := keyOf(entry.Draft)
		if stored[key] > 0 {
			stored[key]--
			dropped++
			continue
		}
		fresh = append(fresh, entry)
	}

	return fresh, dropped
}
