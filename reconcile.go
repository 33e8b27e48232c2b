package goalfolio

import (
	"fmt"
	"strings"
)

// ImportMode tells how imported records combine with existing ones.
type ImportMode int

const (
	// Merge keeps existing records and adds the incoming ones whose name is new.
	Merge ImportMode = iota
	// Replace discards existing records.
	Replace
)

func (m ImportMode) String() string {
	if m == Replace {
		return "replace"
	}
	return "merge"
}

// ParseImportMode parses "merge" or "replace".
func ParseImportMode(s string) (ImportMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "merge", "":
		return Merge, nil
	case "replace":
		return Replace, nil
	}
	return Merge, fmt.Errorf("unknown import mode %q, want merge or replace", s)
}

// ReconcileHoldings combines existing and incoming holdings, it returns the
// resulting list and the number of incoming holdings skipped as duplicates.
func ReconcileHoldings(existing, incoming []Holding, mode ImportMode) ([]Holding, int) {
	return reconcile(existing, incoming, mode, func(h Holding) string { return h.Name })
}

// ReconcileGoals is like [ReconcileHoldings] for goals.
func ReconcileGoals(existing, incoming []Goal, mode ImportMode) ([]Goal, int) {
	return reconcile(existing, incoming, mode, func(g Goal) string { return g.Name })
}

// reconcile merges by name: an incoming record is skipped when its name is
// already present, including in a previous incoming record.
func reconcile[T any](existing, incoming []T, mode ImportMode, name func(T) string) ([]T, int) {
	if mode == Replace {
		return append([]T{}, incoming...), 0
	}
	result := append([]T{}, existing...)
	seen := make(map[string]bool, len(existing)+len(incoming))
	for _, e := range existing {
		seen[name(e)] = true
	}
	skipped := 0
	for _, in := range incoming {
		if seen[name(in)] {
			skipped++
			continue
		}
		seen[name(in)] = true
		result = append(result, in)
	}
	return result, skipped
}
