// Package catalog owns the in-memory Pokémon list and its derived views.
// The list is seeded once from the bundled dataset; enrichment happens
// elsewhere and never mutates catalog records.
package catalog

import (
	_ "embed"
	"encoding/json"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/pokeatlas/pokedex/internal/models"
)

//go:embed data/pokedex.json
var pokedexData []byte

// SortField selects the ordering of a catalog view.
type SortField string

const (
	SortByName SortField = "name"
	SortByID   SortField = "id"
	// Any of the six stat JSON names ("hp", "atk", ...) is also accepted.
)

// SortSpec describes an optional sort. A nil spec preserves filter order.
type SortSpec struct {
	Field SortField
	Desc  bool
}

// GenerationGroup is one bucket of the grouped view.
type GenerationGroup struct {
	Generation int              `json:"generation"`
	Pokemons   []models.Pokemon `json:"pokemons"`
}

// Store loads the bundled dataset exactly once and serves derived views.
type Store struct {
	mu      sync.RWMutex
	all     []models.Pokemon
	byID    map[int]int
	loaded  bool
	loadErr error
	logger  *zap.Logger
}

// New returns an empty catalog store. Call Load before reading views.
func New(logger *zap.Logger) *Store {
	return &Store{logger: logger, byID: make(map[int]int)}
}

// Load parses the bundled dataset into memory. Idempotent: once data is
// present further calls are no-ops. A parse failure is retained and
// visible through LoadError.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return nil
	}

	var pokemons []models.Pokemon
	if err := json.Unmarshal(pokedexData, &pokemons); err != nil {
		s.loadErr = err
		s.logger.Error("catalog dataset load failed", zap.Error(err))
		return err
	}

	s.all = pokemons
	for i := range pokemons {
		s.byID[pokemons[i].PokedexID] = i
	}
	s.loaded = true
	s.loadErr = nil
	s.logger.Info("catalog loaded", zap.Int("count", len(pokemons)))
	return nil
}

// Loaded reports whether the dataset is in memory.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// LoadError returns the retained dataset load failure, if any.
func (s *Store) LoadError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

// All returns a copy of the full catalog.
func (s *Store) All() []models.Pokemon {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Pokemon(nil), s.all...)
}

// ByID returns the catalog record with the given pokédex id.
func (s *Store) ByID(id int) (models.Pokemon, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return models.Pokemon{}, false
	}
	return s.all[i], true
}

// Filtered returns the Pokémon whose active-language name contains query
// (case-insensitive), whose type list contains typ (empty = match all),
// and whose generation is in generations (empty = match all).
func (s *Store) Filtered(query, typ string, generations []int, lang models.Language) []models.Pokemon {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query = strings.ToLower(query)
	genSet := make(map[int]struct{}, len(generations))
	for _, g := range generations {
		genSet[g] = struct{}{}
	}

	var out []models.Pokemon
	for i := range s.all {
		p := &s.all[i]
		if query != "" && !strings.Contains(strings.ToLower(p.Name.Get(lang)), query) {
			continue
		}
		if typ != "" && !p.HasType(typ) {
			continue
		}
		if len(genSet) > 0 {
			if _, ok := genSet[p.Generation]; !ok {
				continue
			}
		}
		out = append(out, *p)
	}
	return out
}

// Sorted returns list ordered by spec. The sort is stable; a nil spec
// returns the list unchanged. Unknown stat fields leave the order as-is.
func (s *Store) Sorted(list []models.Pokemon, spec *SortSpec, lang models.Language) []models.Pokemon {
	if spec == nil {
		return list
	}
	out := append([]models.Pokemon(nil), list...)

	less := func(a, b *models.Pokemon) bool { return false }
	switch spec.Field {
	case SortByName:
		less = func(a, b *models.Pokemon) bool {
			return strings.ToLower(a.Name.Get(lang)) < strings.ToLower(b.Name.Get(lang))
		}
	case SortByID:
		less = func(a, b *models.Pokemon) bool { return a.PokedexID < b.PokedexID }
	default:
		field := string(spec.Field)
		less = func(a, b *models.Pokemon) bool {
			av, aok := a.Stat(field)
			bv, bok := b.Stat(field)
			if !aok || !bok {
				return false
			}
			return av < bv
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if spec.Desc {
			return less(&out[j], &out[i])
		}
		return less(&out[i], &out[j])
	})
	return out
}

// GroupedByGeneration buckets list by generation, ascending.
func (s *Store) GroupedByGeneration(list []models.Pokemon) []GenerationGroup {
	buckets := make(map[int][]models.Pokemon)
	for _, p := range list {
		buckets[p.Generation] = append(buckets[p.Generation], p)
	}
	gens := make([]int, 0, len(buckets))
	for g := range buckets {
		gens = append(gens, g)
	}
	sort.Ints(gens)

	out := make([]GenerationGroup, 0, len(gens))
	for _, g := range gens {
		out = append(out, GenerationGroup{Generation: g, Pokemons: buckets[g]})
	}
	return out
}

// AllTypes returns the distinct type names present in the catalog, sorted
// with locale-aware collation (type names are French).
func (s *Store) AllTypes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	var types []string
	for i := range s.all {
		for _, t := range s.all[i].Types {
			if _, ok := seen[t.Name]; !ok {
				seen[t.Name] = struct{}{}
				types = append(types, t.Name)
			}
		}
	}
	collate.New(language.French).SortStrings(types)
	return types
}
