// Package view implements the collection's filter/sort pass as pure
// functions over plain values, so the same rules drive server-side filtering
// (query params on the index page) and stay testable without a DOM. The
// browser script in static/app.js applies the identical rules client-side.
package view

import (
	"sort"
	"strings"
	"time"
)

// Seen filter values.
const (
	SeenAll  = "all"
	SeenOnly = "seen"
	SeenNot  = "not-seen"
)

// Sort orders.
const (
	SortNewest = "newest"
	SortOldest = "oldest"
)

// State is the full filter/sort state. The zero value is not useful; build
// with DefaultState and override fields.
type State struct {
	Genre  string
	Search string
	Seen   string
	Sort   string
}

func DefaultState() State {
	return State{Genre: "all", Search: "", Seen: SeenAll, Sort: SortNewest}
}

// Card is the per-movie data the filter pass looks at, mirroring the data
// attributes rendered on each movie card.
type Card struct {
	ID      int
	Title   string
	Genres  []string
	Seen    bool
	AddedAt time.Time
}

// Result of a recompute pass.
type Result struct {
	// Visible holds the matching cards in display order.
	Visible []Card
	// HiddenCount is how many cards the filters excluded.
	HiddenCount int
}

// Empty reports whether the empty-state indicator should show.
func (r Result) Empty() bool {
	return len(r.Visible) == 0
}

// Compute runs the recompute pass: a card is visible iff it matches the
// search text, the genre filter and the seen filter; visible cards are then
// ordered by creation time per the sort order. Hidden cards keep no defined
// order.
func Compute(state State, cards []Card) Result {
	var visible []Card
	for _, c := range cards {
		if Matches(state, c) {
			visible = append(visible, c)
		}
	}

	sort.SliceStable(visible, func(i, j int) bool {
		if state.Sort == SortOldest {
			return visible[i].AddedAt.Before(visible[j].AddedAt)
		}
		return visible[i].AddedAt.After(visible[j].AddedAt)
	})

	return Result{Visible: visible, HiddenCount: len(cards) - len(visible)}
}

// Matches applies all three filter predicates to one card.
func Matches(state State, c Card) bool {
	return matchesSearch(state.Search, c) &&
		matchesGenre(state.Genre, c) &&
		matchesSeen(state.Seen, c)
}

// matchesSearch is a case-insensitive substring test against the title.
func matchesSearch(search string, c Card) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Title), strings.ToLower(search))
}

// matchesGenre requires exact membership in the card's genre list.
func matchesGenre(genre string, c Card) bool {
	if genre == "" || genre == "all" {
		return true
	}
	for _, g := range c.Genres {
		if g == genre {
			return true
		}
	}
	return false
}

func matchesSeen(filter string, c Card) bool {
	switch filter {
	case SeenOnly:
		return c.Seen
	case SeenNot:
		return !c.Seen
	default:
		return true
	}
}
