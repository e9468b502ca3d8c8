// internal/models/pokemon.go
package models

// Language is one of the three display languages carried by the dataset.
type Language string

const (
	LanguageFR Language = "fr"
	LanguageEN Language = "en"
	LanguageJP Language = "jp"
)

// SupportedLanguages lists every language code the application accepts.
var SupportedLanguages = []Language{LanguageFR, LanguageEN, LanguageJP}

// IsValidLanguage reports whether code is one of the supported languages.
func IsValidLanguage(code string) bool {
	for _, l := range SupportedLanguages {
		if string(l) == code {
			return true
		}
	}
	return false
}

// LocalizedName holds the display name of a Pokémon per language.
type LocalizedName struct {
	FR string `json:"fr"`
	EN string `json:"en"`
	JP string `json:"jp"`
}

// Get returns the name for the given language, defaulting to French.
func (n LocalizedName) Get(lang Language) string {
	switch lang {
	case LanguageEN:
		return n.EN
	case LanguageJP:
		return n.JP
	default:
		return n.FR
	}
}

// GigamaxSprite is the sprite pair of a gigamax form.
type GigamaxSprite struct {
	Regular string  `json:"regular"`
	Shiny   *string `json:"shiny"`
}

// Sprite holds the artwork URLs for a Pokémon.
type Sprite struct {
	Regular string         `json:"regular"`
	Shiny   *string        `json:"shiny"`
	Gmax    *GigamaxSprite `json:"gmax"`
}

// PokemonType is a single typing entry (name plus local type icon).
type PokemonType struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Talent is an ability; TC marks hidden abilities.
type Talent struct {
	Name string `json:"name"`
	TC   bool   `json:"tc"`
}

// Stats are the six base stats.
type Stats struct {
	HP     int `json:"hp"`
	Atk    int `json:"atk"`
	Def    int `json:"def"`
	SpeAtk int `json:"spe_atk"`
	SpeDef int `json:"spe_def"`
	Vit    int `json:"vit"`
}

// Resistance is a type effectiveness entry (opaque passthrough).
type Resistance struct {
	Name       string  `json:"name"`
	Multiplier float64 `json:"multiplier"`
}

// EvolutionStep is one edge of the evolution graph. Condition is a
// human-readable string, empty when unknown. VarietyID is set when a
// regional variety of the step exists and points at its API id.
type EvolutionStep struct {
	PokedexID int    `json:"pokedex_id"`
	Name      string `json:"name"`
	Condition string `json:"condition"`
	VarietyID int    `json:"variety_id,omitempty"`
}

// MegaSprite is the sprite pair of a mega evolution.
type MegaSprite struct {
	Regular string  `json:"regular"`
	Shiny   *string `json:"shiny"`
}

// MegaEvolution describes one mega variant, labelled by its mega stone.
type MegaEvolution struct {
	Orbe    string     `json:"orbe"`
	Sprites MegaSprite `json:"sprites"`
}

// Evolution holds the immediate neighbourhood of a Pokémon in its
// evolution chain plus any mega variants.
type Evolution struct {
	Pre  []EvolutionStep `json:"pre"`
	Next []EvolutionStep `json:"next"`
	Mega []MegaEvolution `json:"mega"`
}

// RegionalForm is a selectable regional variant of a base Pokémon.
type RegionalForm struct {
	Region string        `json:"region"`
	Name   LocalizedName `json:"name"`
}

// Sexe is the gender ratio (opaque passthrough).
type Sexe struct {
	Male   float64 `json:"male"`
	Female float64 `json:"female"`
}

// Pokemon is the catalog record. Records loaded from the bundled dataset
// are treated as immutable; enrichment produces new values.
type Pokemon struct {
	PokedexID   int            `json:"pokedex_id"`
	Generation  int            `json:"generation"`
	Category    string         `json:"category"`
	Name        LocalizedName  `json:"name"`
	Sprites     Sprite         `json:"sprites"`
	Types       []PokemonType  `json:"types"`
	Talents     []Talent       `json:"talents"`
	Stats       *Stats         `json:"stats"`
	Resistances []Resistance   `json:"resistances"`
	Evolution   *Evolution     `json:"evolution"`
	Height      string         `json:"height"`
	Weight      string         `json:"weight"`
	EggGroups   []string       `json:"egg_groups"`
	Sexe        *Sexe          `json:"sexe"`
	CatchRate   int            `json:"catch_rate"`
	Level100    int            `json:"level_100"`
	Formes      []RegionalForm `json:"formes"`
}

// Stat returns the named base stat, false when the record has no stats or
// the name is unknown. Names follow the JSON field names.
func (p *Pokemon) Stat(name string) (int, bool) {
	if p.Stats == nil {
		return 0, false
	}
	switch name {
	case "hp":
		return p.Stats.HP, true
	case "atk":
		return p.Stats.Atk, true
	case "def":
		return p.Stats.Def, true
	case "spe_atk":
		return p.Stats.SpeAtk, true
	case "spe_def":
		return p.Stats.SpeDef, true
	case "vit":
		return p.Stats.Vit, true
	}
	return 0, false
}

// HasType reports whether the Pokémon carries the given type name.
func (p *Pokemon) HasType(name string) bool {
	for _, t := range p.Types {
		if t.Name == name {
			return true
		}
	}
	return false
}
