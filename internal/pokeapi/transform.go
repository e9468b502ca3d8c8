package pokeapi

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pokeatlas/pokedex/internal/models"
)

// Pokemon type to local image mapping.
var typeImageMap = map[string]string{
	"normal":   "/types/normal.png",
	"fire":     "/types/feu.png",
	"water":    "/types/eau.png",
	"electric": "/types/electrik.png",
	"grass":    "/types/plante.png",
	"ice":      "/types/glace.png",
	"fighting": "/types/combat.png",
	"poison":   "/types/poison.png",
	"ground":   "/types/sol.png",
	"flying":   "/types/vol.png",
	"psychic":  "/types/psy.png",
	"bug":      "/types/insecte.png",
	"rock":     "/types/roche.png",
	"ghost":    "/types/spectre.png",
	"dragon":   "/types/dragon.png",
	"dark":     "/types/tenebres.png",
	"steel":    "/types/acier.png",
	"fairy":    "/types/fee.png",
}

// Type names EN -> FR mapping, matching the bundled dataset.
var typeNameMap = map[string]string{
	"normal":   "Normal",
	"fire":     "Feu",
	"water":    "Eau",
	"electric": "Électrik",
	"grass":    "Plante",
	"ice":      "Glace",
	"fighting": "Combat",
	"poison":   "Poison",
	"ground":   "Sol",
	"flying":   "Vol",
	"psychic":  "Psy",
	"bug":      "Insecte",
	"rock":     "Roche",
	"ghost":    "Spectre",
	"dragon":   "Dragon",
	"dark":     "Ténèbres",
	"steel":    "Acier",
	"fairy":    "Fée",
}

var generationRegex = regexp.MustCompile(`generation-(\d+)`)

// romanNumerals maps the generation names PokeAPI actually uses
// ("generation-i" .. "generation-ix").
var romanNumerals = map[string]int{
	"i": 1, "ii": 2, "iii": 3, "iv": 4, "v": 5,
	"vi": 6, "vii": 7, "viii": 8, "ix": 9,
}

// GenerationNumber extracts the generation index from a PokeAPI
// generation name, defaulting to 1.
func GenerationNumber(name string) int {
	if m := generationRegex.FindStringSubmatch(name); m != nil {
		var n int
		fmt.Sscanf(m[1], "%d", &n)
		return n
	}
	if suffix, ok := strings.CutPrefix(name, "generation-"); ok {
		if n, ok := romanNumerals[suffix]; ok {
			return n
		}
	}
	return 1
}

// ExtractLocalizedNames pulls the fr/en/jp display names out of a species
// record, falling back to the API name for missing languages.
func ExtractLocalizedNames(species *SpeciesResource) models.LocalizedName {
	return models.LocalizedName{
		FR: species.LocalizedName("fr"),
		EN: species.LocalizedName("en"),
		JP: species.LocalizedName("ja"),
	}
}

// ExtractCategory returns the French genus with the "Pokémon" filler
// stripped ("Pokémon Souris" -> "Souris").
func ExtractCategory(species *SpeciesResource) string {
	for _, g := range species.Genera {
		if g.Language.Name == "fr" {
			genus := strings.TrimPrefix(g.Genus, "Pokémon ")
			return strings.TrimSuffix(genus, " Pokémon")
		}
	}
	return ""
}

// TransformTypes converts API typings into the domain format.
func TransformTypes(p *PokemonResource) []models.PokemonType {
	out := make([]models.PokemonType, 0, len(p.Types))
	for _, t := range p.Types {
		name := t.Type.Name
		if fr, ok := typeNameMap[name]; ok {
			name = fr
		}
		out = append(out, models.PokemonType{
			Name:  name,
			Image: typeImageMap[t.Type.Name],
		})
	}
	return out
}

// TransformStats converts API stats into the domain format.
func TransformStats(p *PokemonResource) *models.Stats {
	byName := make(map[string]int, len(p.Stats))
	for _, s := range p.Stats {
		byName[s.Stat.Name] = s.BaseStat
	}
	return &models.Stats{
		HP:     byName["hp"],
		Atk:    byName["attack"],
		Def:    byName["defense"],
		SpeAtk: byName["special-attack"],
		SpeDef: byName["special-defense"],
		Vit:    byName["speed"],
	}
}

// TransformSprites picks artwork preferring the official artwork source,
// then the home renders, then the basic sprite.
func TransformSprites(p *PokemonResource) models.Sprite {
	art := p.Sprites.Other.OfficialArtwork
	home := p.Sprites.Other.Home

	regular := firstNonNil(art.FrontDefault, home.FrontDefault, p.Sprites.FrontDefault)
	shiny := coalesce(art.FrontShiny, home.FrontShiny, p.Sprites.FrontShiny)

	return models.Sprite{Regular: regular, Shiny: shiny}
}

func firstNonNil(candidates ...*string) string {
	for _, c := range candidates {
		if c != nil && *c != "" {
			return *c
		}
	}
	return ""
}

func coalesce(candidates ...*string) *string {
	for _, c := range candidates {
		if c != nil && *c != "" {
			return c
		}
	}
	return nil
}

// EvolutionCondition renders the first evolution trigger of an edge as a
// human-readable string, empty when no details exist.
func EvolutionCondition(details []EvolutionDetail) string {
	if len(details) == 0 {
		return ""
	}
	d := details[0]

	switch {
	case d.MinLevel != nil && *d.MinLevel > 0:
		return fmt.Sprintf("Niveau %d", *d.MinLevel)
	case d.Item != nil:
		return "Utiliser " + strings.ReplaceAll(d.Item.Name, "-", " ")
	case d.Trigger.Name == "trade":
		return "Échange"
	case d.MinHappiness != nil && *d.MinHappiness > 0:
		return fmt.Sprintf("Bonheur %d+", *d.MinHappiness)
	case d.KnownMove != nil:
		return "Apprendre " + d.KnownMove.Name
	}
	return "Condition spéciale"
}

// ExtractEvolutions walks the chain graph to the node matching
// currentID and returns its immediate parent (condition left blank) and
// children (condition derived from each edge's trigger).
func ExtractEvolutions(chain *EvolutionLink, currentID int) (pre, next []models.EvolutionStep) {
	var walk func(link *EvolutionLink, parent *EvolutionLink)
	walk = func(link *EvolutionLink, parent *EvolutionLink) {
		if link.Species.ID() == currentID {
			if parent != nil {
				pre = append(pre, models.EvolutionStep{
					PokedexID: parent.Species.ID(),
					Name:      parent.Species.Name,
					Condition: "",
				})
			}
			for i := range link.EvolvesTo {
				child := &link.EvolvesTo[i]
				next = append(next, models.EvolutionStep{
					PokedexID: child.Species.ID(),
					Name:      child.Species.Name,
					Condition: EvolutionCondition(child.EvolutionDetails),
				})
			}
		}
		for i := range link.EvolvesTo {
			walk(&link.EvolvesTo[i], link)
		}
	}
	walk(chain, nil)
	return pre, next
}
