package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pokeatlas/pokedex/internal/logging"
	"github.com/pokeatlas/pokedex/internal/models"
)

func newLoadedStore(t *testing.T) *Store {
	t.Helper()
	s := New(logging.NewNop())
	require.NoError(t, s.Load())
	require.True(t, s.Loaded())
	return s
}

func TestLoadIsIdempotent(t *testing.T) {
	s := newLoadedStore(t)
	count := len(s.All())

	require.NoError(t, s.Load())
	assert.Len(t, s.All(), count)
}

func TestByID(t *testing.T) {
	s := newLoadedStore(t)

	p, ok := s.ByID(25)
	require.True(t, ok)
	assert.Equal(t, "Pikachu", p.Name.Get(models.LanguageFR))

	_, ok = s.ByID(99999)
	assert.False(t, ok)
}

func TestFilteredByName(t *testing.T) {
	s := newLoadedStore(t)

	got := s.Filtered("chu", "", nil, models.LanguageFR)
	names := make([]string, 0, len(got))
	for _, p := range got {
		names = append(names, p.Name.Get(models.LanguageFR))
	}
	assert.ElementsMatch(t, []string{"Pikachu", "Raichu"}, names)
}

func TestFilteredIsCaseInsensitive(t *testing.T) {
	s := newLoadedStore(t)

	assert.Len(t, s.Filtered("PIKA", "", nil, models.LanguageFR), 1)
	assert.Len(t, s.Filtered("pika", "", nil, models.LanguageFR), 1)
}

func TestFilteredByType(t *testing.T) {
	s := newLoadedStore(t)

	got := s.Filtered("", "Feu", nil, models.LanguageFR)
	require.Len(t, got, 2)
	for _, p := range got {
		assert.True(t, p.HasType("Feu"))
	}
}

func TestFilteredByGeneration(t *testing.T) {
	s := newLoadedStore(t)

	got := s.Filtered("", "", []int{4, 8}, models.LanguageFR)
	require.Len(t, got, 2)
	for _, p := range got {
		assert.Contains(t, []int{4, 8}, p.Generation)
	}
}

func TestFilteredCombined(t *testing.T) {
	s := newLoadedStore(t)

	got := s.Filtered("ouis", "Plante", []int{8}, models.LanguageFR)
	require.Len(t, got, 1)
	assert.Equal(t, 810, got[0].PokedexID)
}

func TestFilteredNoMatch(t *testing.T) {
	s := newLoadedStore(t)
	assert.Empty(t, s.Filtered("zzzz", "", nil, models.LanguageFR))
}

func TestSortedByID(t *testing.T) {
	s := newLoadedStore(t)

	got := s.Sorted(s.All(), &SortSpec{Field: SortByID}, models.LanguageFR)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].PokedexID, got[i].PokedexID)
	}
}

func TestSortedByNameDescending(t *testing.T) {
	s := newLoadedStore(t)

	got := s.Sorted(s.All(), &SortSpec{Field: SortByName, Desc: true}, models.LanguageFR)
	require.NotEmpty(t, got)
	// Évoli sorts after the ASCII names under simple lowercase comparison,
	// so the descending list starts with it.
	assert.Equal(t, "Évoli", got[0].Name.Get(models.LanguageFR))
}

func TestSortedByStat(t *testing.T) {
	s := newLoadedStore(t)

	got := s.Sorted(s.All(), &SortSpec{Field: "atk", Desc: true}, models.LanguageFR)
	require.NotEmpty(t, got)
	top, _ := got[0].Stat("atk")
	assert.Equal(t, 110, top)
}

func TestSortedNilSpecKeepsOrder(t *testing.T) {
	s := newLoadedStore(t)

	all := s.All()
	got := s.Sorted(all, nil, models.LanguageFR)
	assert.Equal(t, all, got)
}

func TestGroupedByGeneration(t *testing.T) {
	s := newLoadedStore(t)

	groups := s.GroupedByGeneration(s.All())
	require.NotEmpty(t, groups)

	// Ascending generation order, every bucket homogeneous.
	prev := 0
	total := 0
	for _, g := range groups {
		assert.Greater(t, g.Generation, prev)
		prev = g.Generation
		total += len(g.Pokemons)
		for _, p := range g.Pokemons {
			assert.Equal(t, g.Generation, p.Generation)
		}
	}
	assert.Equal(t, len(s.All()), total)
}

func TestAllTypes(t *testing.T) {
	s := newLoadedStore(t)

	types := s.AllTypes()
	assert.Contains(t, types, "Feu")
	assert.Contains(t, types, "Électrik")

	// Distinct entries only.
	seen := make(map[string]bool)
	for _, tn := range types {
		assert.False(t, seen[tn], "duplicate type %s", tn)
		seen[tn] = true
	}
}
