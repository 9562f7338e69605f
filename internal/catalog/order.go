package catalog

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Tiebreak selects the secondary key for files mapped to the same book.
type Tiebreak string

const (
	// TiebreakNumeric orders by the leading number of the filename.
	TiebreakNumeric Tiebreak = "numeric"
	// TiebreakTitle orders by the derived title.
	TiebreakTitle Tiebreak = "title"
)

// ParseTiebreak accepts "numeric" (the default when empty) or "title".
func ParseTiebreak(value string) (Tiebreak, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(TiebreakNumeric):
		return TiebreakNumeric, nil
	case string(TiebreakTitle):
		return TiebreakTitle, nil
	default:
		return "", fmt.Errorf("unknown tiebreak %q (want %q or %q)", value, TiebreakNumeric, TiebreakTitle)
	}
}

// Key orders an episode: canonical book first, then the tiebreak value.
type Key struct {
	Book   int
	Number int
	Title  string
}

// SortKey computes the ordering key of filename against the canonical order.
func SortKey(filename string, order []string, tiebreak Tiebreak) Key {
	key := Key{Book: BookIndex(filename, order)}
	if tiebreak == TiebreakTitle {
		key.Title = DeriveTitle(filename)
	} else {
		key.Number = NumericPrefix(filename)
	}
	return key
}

// Compare returns -1, 0 or +1 as k sorts before, with, or after other.
func (k Key) Compare(other Key) int {
	if c := cmp.Compare(k.Book, other.Book); c != 0 {
		return c
	}
	if c := cmp.Compare(k.Number, other.Number); c != 0 {
		return c
	}
	return strings.Compare(k.Title, other.Title)
}

// Less reports whether k sorts strictly before other.
func (k Key) Less(other Key) bool {
	return k.Compare(other) < 0
}

// Order stably sorts items in place by the key computed for each one.
// Items with equal keys keep their input order.
func Order[T any](items []T, key func(T) Key) {
	type keyed struct {
		item T
		key  Key
	}

	entries := make([]keyed, len(items))
	for i, item := range items {
		entries[i] = keyed{item: item, key: key(item)}
	}

	slices.SortStableFunc(entries, func(a, b keyed) int {
		return a.key.Compare(b.key)
	})

	for i := range entries {
		items[i] = entries[i].item
	}
}
