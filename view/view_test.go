package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func card(id int, title string, genres []string, seen bool, added time.Time) Card {
	return Card{ID: id, Title: title, Genres: genres, Seen: seen, AddedAt: added}
}

func visibleIDs(r Result) []int {
	ids := make([]int, 0, len(r.Visible))
	for _, c := range r.Visible {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestCompute_DefaultStateShowsEverything(t *testing.T) {
	now := time.Now()
	cards := []Card{
		card(1, "Dune", []string{"Action"}, false, now.Add(-time.Hour)),
		card(2, "Her", []string{"Drama"}, true, now),
	}

	result := Compute(DefaultState(), cards)
	require.Len(t, result.Visible, 2)
	assert.Zero(t, result.HiddenCount)
	assert.False(t, result.Empty())
	// Default sort is newest first.
	assert.Equal(t, 2, result.Visible[0].ID)
}

func TestCompute_CombinedFilters(t *testing.T) {
	now := time.Now()
	cards := []Card{
		card(1, "Dune", []string{"Action"}, false, now),
		card(2, "Dune", []string{"Action"}, true, now),
		card(3, "Dune", []string{"Drama"}, false, now),
		card(4, "Her", []string{"Action"}, false, now),
	}

	state := DefaultState()
	state.Seen = SeenNot
	state.Genre = "Action"
	state.Search = "du"

	result := Compute(state, cards)
	// Only the unseen, Action-tagged "Dune" survives all three predicates.
	require.Len(t, result.Visible, 1)
	assert.Equal(t, 1, result.Visible[0].ID)
	assert.Equal(t, 3, result.HiddenCount)
}

func TestCompute_SearchIsCaseInsensitiveSubstring(t *testing.T) {
	cards := []Card{
		card(1, "The Grand Budapest Hotel", nil, false, time.Now()),
		card(2, "Grand Tour", nil, false, time.Now()),
		card(3, "Dune", nil, false, time.Now()),
	}

	state := DefaultState()
	state.Search = "GRAND"

	result := Compute(state, cards)
	require.Len(t, result.Visible, 2)
}

func TestCompute_GenreRequiresExactMembership(t *testing.T) {
	cards := []Card{
		card(1, "A", []string{"Science Fiction", "Drama"}, false, time.Now()),
		card(2, "B", []string{"Science"}, false, time.Now()),
	}

	state := DefaultState()
	state.Genre = "Science Fiction"

	result := Compute(state, cards)
	require.Len(t, result.Visible, 1)
	assert.Equal(t, 1, result.Visible[0].ID)
}

func TestCompute_SeenFilter(t *testing.T) {
	cards := []Card{
		card(1, "A", nil, true, time.Now()),
		card(2, "B", nil, false, time.Now()),
	}

	state := DefaultState()
	state.Seen = SeenOnly
	result := Compute(state, cards)
	require.Len(t, result.Visible, 1)
	assert.Equal(t, 1, result.Visible[0].ID)

	state.Seen = SeenNot
	result = Compute(state, cards)
	require.Len(t, result.Visible, 1)
	assert.Equal(t, 2, result.Visible[0].ID)
}

func TestCompute_SortOrder(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(24 * time.Hour)
	t3 := t2.Add(24 * time.Hour)
	cards := []Card{
		card(1, "A", nil, false, t2),
		card(2, "B", nil, false, t1),
		card(3, "C", nil, false, t3),
	}

	state := DefaultState()
	result := Compute(state, cards)
	require.Len(t, result.Visible, 3)
	assert.Equal(t, []int{3, 1, 2}, visibleIDs(result))

	state.Sort = SortOldest
	result = Compute(state, cards)
	assert.Equal(t, []int{2, 1, 3}, visibleIDs(result))
}

func TestCompute_EmptyState(t *testing.T) {
	cards := []Card{
		card(1, "Dune", []string{"Action"}, false, time.Now()),
	}

	state := DefaultState()
	state.Search = "nothing matches this"

	result := Compute(state, cards)
	assert.True(t, result.Empty())
	assert.Equal(t, 1, result.HiddenCount)

	result = Compute(DefaultState(), nil)
	assert.True(t, result.Empty())
}
