package memory

import "sort"

// sortNewestFirst ordena por fecha descendente y, a igual fecha, por secuencia descendente.
func sortNewestFirst(entries []ledgerEntry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.tx.Date.Equal(b.tx.Date) {
			return a.tx.Date.After(b.tx.Date)
		}
		return a.seq > b.seq
	})
}
