package pokeapi

import (
	"strconv"
	"strings"
)

// Typed schema for the PokeAPI payloads consumed by the pipeline. The
// JSON is decoded straight into these structs at the client edge; nothing
// loosely typed travels further inward.

// NamedResource is PokeAPI's ubiquitous {name, url} pair.
type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ID extracts the trailing numeric id from the resource URL, 0 when the
// URL does not carry one.
func (r NamedResource) ID() int {
	parts := strings.Split(strings.TrimSuffix(r.URL, "/"), "/")
	if len(parts) == 0 {
		return 0
	}
	id, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 0
	}
	return id
}

// PokemonResource is the per-Pokémon detail record.
type PokemonResource struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Height int    `json:"height"`
	Weight int    `json:"weight"`
	Types  []struct {
		Slot int           `json:"slot"`
		Type NamedResource `json:"type"`
	} `json:"types"`
	Sprites struct {
		FrontDefault *string `json:"front_default"`
		FrontShiny   *string `json:"front_shiny"`
		Other        struct {
			OfficialArtwork struct {
				FrontDefault *string `json:"front_default"`
				FrontShiny   *string `json:"front_shiny"`
			} `json:"official-artwork"`
			Home struct {
				FrontDefault *string `json:"front_default"`
				FrontShiny   *string `json:"front_shiny"`
			} `json:"home"`
		} `json:"other"`
	} `json:"sprites"`
	Stats []struct {
		BaseStat int           `json:"base_stat"`
		Stat     NamedResource `json:"stat"`
	} `json:"stats"`
	Abilities []struct {
		IsHidden bool          `json:"is_hidden"`
		Ability  NamedResource `json:"ability"`
	} `json:"abilities"`
}

// SpeciesResource is the per-species record: localized names, generation,
// evolution chain reference and the variety list.
type SpeciesResource struct {
	ID         int           `json:"id"`
	Name       string        `json:"name"`
	Generation NamedResource `json:"generation"`
	Names      []struct {
		Language NamedResource `json:"language"`
		Name     string        `json:"name"`
	} `json:"names"`
	Genera []struct {
		Genus    string        `json:"genus"`
		Language NamedResource `json:"language"`
	} `json:"genera"`
	FlavorTextEntries []struct {
		FlavorText string        `json:"flavor_text"`
		Language   NamedResource `json:"language"`
	} `json:"flavor_text_entries"`
	EvolutionChain struct {
		URL string `json:"url"`
	} `json:"evolution_chain"`
	Varieties []struct {
		IsDefault bool          `json:"is_default"`
		Pokemon   NamedResource `json:"pokemon"`
	} `json:"varieties"`
}

// LocalizedName returns the species name for a PokeAPI language code,
// falling back to the species' default name.
func (s *SpeciesResource) LocalizedName(lang string) string {
	for _, n := range s.Names {
		if n.Language.Name == lang {
			return n.Name
		}
	}
	return s.Name
}

// EvolutionDetail is one trigger of an evolution edge.
type EvolutionDetail struct {
	MinLevel     *int           `json:"min_level"`
	Item         *NamedResource `json:"item"`
	Trigger      NamedResource  `json:"trigger"`
	HeldItem     *NamedResource `json:"held_item"`
	TimeOfDay    string         `json:"time_of_day"`
	Location     *NamedResource `json:"location"`
	KnownMove    *NamedResource `json:"known_move"`
	MinHappiness *int           `json:"min_happiness"`
	MinBeauty    *int           `json:"min_beauty"`
	MinAffection *int           `json:"min_affection"`
}

// EvolutionLink is one node of the evolution chain graph.
type EvolutionLink struct {
	Species          NamedResource     `json:"species"`
	EvolutionDetails []EvolutionDetail `json:"evolution_details"`
	EvolvesTo        []EvolutionLink   `json:"evolves_to"`
}

// EvolutionChainResource is a whole evolution chain.
type EvolutionChainResource struct {
	ID    int           `json:"id"`
	Chain EvolutionLink `json:"chain"`
}

// FormResource is the pokemon-form record.
type FormResource struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	FormName     string `json:"form_name"`
	IsDefault    bool   `json:"is_default"`
	IsMega       bool   `json:"is_mega"`
	IsBattleOnly bool   `json:"is_battle_only"`
	Names        []struct {
		Language NamedResource `json:"language"`
		Name     string        `json:"name"`
	} `json:"names"`
	Sprites struct {
		FrontDefault *string `json:"front_default"`
		FrontShiny   *string `json:"front_shiny"`
	} `json:"sprites"`
	Types []struct {
		Slot int           `json:"slot"`
		Type NamedResource `json:"type"`
	} `json:"types"`
}

// LocalizedName returns the form's display name for a PokeAPI language
// code, falling back to the form's API name.
func (f *FormResource) LocalizedName(lang string) string {
	for _, n := range f.Names {
		if n.Language.Name == lang {
			return n.Name
		}
	}
	return f.Name
}

// ListResponse is one page of the paginated pokemon list.
type ListResponse struct {
	Count    int             `json:"count"`
	Next     *string         `json:"next"`
	Previous *string         `json:"previous"`
	Results  []NamedResource `json:"results"`
}
