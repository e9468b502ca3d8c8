package pokeapi

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pokeatlas/pokedex/internal/models"
)

// regionPrefixes are the variety-name tokens surfaced as selectable
// regional forms.
var regionPrefixes = []string{"alola", "galar", "hisui", "paldea"}

const fetchAllBatchSize = 20

// Pipeline augments catalog records with remote data. Enrichment is
// always best-effort: every failure is logged and degrades to the
// unenriched input, never to an error for the caller.
type Pipeline struct {
	client *Client
	logger *zap.Logger
}

// NewPipeline builds an enrichment pipeline over client.
func NewPipeline(client *Client, logger *zap.Logger) *Pipeline {
	return &Pipeline{client: client, logger: logger}
}

// Client exposes the underlying cached client.
func (p *Pipeline) Client() *Client { return p.client }

// Enrich fetches the detail and species records for base concurrently,
// resolves its evolution chain, mega/gigamax variants and regional forms,
// and merges everything into a new record. On any failure the original
// record is returned unchanged.
func (p *Pipeline) Enrich(ctx context.Context, base models.Pokemon) models.Pokemon {
	var (
		detail  *PokemonResource
		species *SpeciesResource
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		detail, err = p.client.FetchPokemonByID(gctx, base.PokedexID)
		return err
	})
	g.Go(func() (err error) {
		species, err = p.client.FetchSpecies(gctx, base.PokedexID)
		return err
	})
	if err := g.Wait(); err != nil {
		p.logger.Warn("enrichment fetch failed, returning base record",
			zap.Int("pokedex_id", base.PokedexID), zap.Error(err))
		return base
	}

	evolution := p.evolutionChain(ctx, species, base.PokedexID, false)
	formes := p.regionalForms(ctx, species)
	_, gmax := p.megaAndGigamax(ctx, species)

	sprites := TransformSprites(detail)
	sprites.Gmax = gmax

	enriched := base
	enriched.Generation = GenerationNumber(species.Generation.Name)
	enriched.Category = ExtractCategory(species)
	enriched.Name = ExtractLocalizedNames(species)
	enriched.Sprites = sprites
	enriched.Types = TransformTypes(detail)
	enriched.Stats = TransformStats(detail)
	enriched.Height = fmt.Sprintf("%.1f m", float64(detail.Height)/10)
	enriched.Weight = fmt.Sprintf("%.1f kg", float64(detail.Weight)/10)
	enriched.Evolution = evolution
	enriched.Formes = formes
	// Talents and the other passthrough fields stay as locally sourced;
	// the remote API does not carry them in this shape.
	return enriched
}

// LoadMegaEvolutionData re-derives sprites, stats and dimensions for a
// mega variant ("X", "Y" or ""). Returns base unchanged on failure.
func (p *Pipeline) LoadMegaEvolutionData(ctx context.Context, base models.Pokemon, variant string) models.Pokemon {
	name := strings.ToLower(base.Name.EN)
	megaName := name + "-mega"
	if v := strings.ToLower(variant); v == "x" || v == "y" {
		megaName = fmt.Sprintf("%s-mega-%s", name, v)
	}

	mega, err := p.client.FetchPokemon(ctx, megaName)
	if err != nil {
		p.logger.Warn("mega evolution load failed",
			zap.String("variety", megaName), zap.Error(err))
		return base
	}

	sprites := TransformSprites(mega)
	if base.Evolution != nil {
		for _, m := range base.Evolution.Mega {
			if variant != "" && strings.Contains(strings.ToLower(m.Orbe), strings.ToLower(variant)) {
				sprites = models.Sprite{Regular: m.Sprites.Regular, Shiny: m.Sprites.Shiny}
				break
			}
		}
	}

	out := base
	out.Sprites = models.Sprite{Regular: sprites.Regular, Shiny: sprites.Shiny}
	out.Types = TransformTypes(mega)
	out.Stats = TransformStats(mega)
	out.Height = fmt.Sprintf("%.1f m", float64(mega.Height)/10)
	out.Weight = fmt.Sprintf("%.1f kg", float64(mega.Weight)/10)
	return out
}

// LoadGigamaxData re-derives sprites, stats and dimensions for the
// gigamax form. Returns base unchanged on failure.
func (p *Pipeline) LoadGigamaxData(ctx context.Context, base models.Pokemon) models.Pokemon {
	gmaxName := strings.ToLower(base.Name.EN) + "-gmax"

	gmax, err := p.client.FetchPokemon(ctx, gmaxName)
	if err != nil {
		p.logger.Warn("gigamax load failed", zap.String("variety", gmaxName), zap.Error(err))
		return base
	}

	var gmaxSprites models.GigamaxSprite
	if base.Sprites.Gmax != nil {
		gmaxSprites = *base.Sprites.Gmax
	} else {
		s := TransformSprites(gmax)
		gmaxSprites = models.GigamaxSprite{Regular: s.Regular, Shiny: s.Shiny}
	}

	out := base
	out.Sprites = models.Sprite{
		Regular: gmaxSprites.Regular,
		Shiny:   gmaxSprites.Shiny,
		Gmax:    &gmaxSprites,
	}
	out.Types = TransformTypes(gmax)
	out.Stats = TransformStats(gmax)
	out.Height = fmt.Sprintf("%.1f m", float64(gmax.Height)/10)
	out.Weight = fmt.Sprintf("%.1f kg", float64(gmax.Weight)/10)
	return out
}

// LoadRegionalForm re-derives the record for a regional form (for example
// "alola"). The evolution chain is rebuilt with the regional name
// pattern; a missing regional variety for a pre/next step is tolerated
// and leaves the step untouched. Returns base unchanged on failure.
func (p *Pipeline) LoadRegionalForm(ctx context.Context, base models.Pokemon, formName string) models.Pokemon {
	species, err := p.client.FetchSpecies(ctx, base.PokedexID)
	if err != nil {
		p.logger.Warn("regional form species fetch failed",
			zap.Int("pokedex_id", base.PokedexID), zap.Error(err))
		return base
	}

	formPokemon, err := p.client.FetchPokemon(ctx, strings.ToLower(species.Name)+"-"+formName)
	if err != nil {
		p.logger.Warn("regional form load failed",
			zap.String("form", formName), zap.Error(err))
		return base
	}

	evolution := p.evolutionChain(ctx, species, base.PokedexID, true)
	if evolution != nil {
		p.resolveRegionalSteps(ctx, evolution.Pre, formName)
		p.resolveRegionalSteps(ctx, evolution.Next, formName)
	}

	out := base
	out.Sprites = TransformSprites(formPokemon)
	out.Types = TransformTypes(formPokemon)
	out.Stats = TransformStats(formPokemon)
	out.Height = fmt.Sprintf("%.1f m", float64(formPokemon.Height)/10)
	out.Weight = fmt.Sprintf("%.1f kg", float64(formPokemon.Weight)/10)
	out.Evolution = evolution
	return out
}

// resolveRegionalSteps looks up the regional variety of each evolution
// step in parallel, attaching its variety id when one exists. Lookups for
// steps without a regional form fail silently.
func (p *Pipeline) resolveRegionalSteps(ctx context.Context, steps []models.EvolutionStep, formName string) {
	g, gctx := errgroup.WithContext(ctx)
	for i := range steps {
		g.Go(func() error {
			regionalName := strings.ToLower(steps[i].Name) + "-" + formName
			variant, err := p.client.FetchPokemon(gctx, regionalName)
			if err != nil {
				return nil // no regional form for this step
			}
			steps[i].VarietyID = variant.ID
			return nil
		})
	}
	g.Wait()
}

// FetchAllPokemon loads and transforms the whole remote catalog in
// batches, reporting progress after each batch. Unlike Enrich this
// surfaces errors: it is a bulk loader, not a best-effort detail view.
func (p *Pipeline) FetchAllPokemon(ctx context.Context, limit int, onProgress func(loaded, total int)) ([]models.Pokemon, error) {
	list, err := p.client.FetchList(ctx, limit, 0)
	if err != nil {
		return nil, err
	}
	total := limit
	if list.Count < total {
		total = list.Count
	}

	out := make([]models.Pokemon, 0, total)
	for start := 0; start < total; start += fetchAllBatchSize {
		end := start + fetchAllBatchSize
		if end > total {
			end = total
		}

		batch := make([]models.Pokemon, end-start)
		g, gctx := errgroup.WithContext(ctx)
		for i, entry := range list.Results[start:end] {
			g.Go(func() error {
				id := entry.ID()
				detail, err := p.client.FetchPokemonByID(gctx, id)
				if err != nil {
					return err
				}
				species, err := p.client.FetchSpecies(gctx, id)
				if err != nil {
					return err
				}
				batch[i] = p.buildRecord(gctx, detail, species)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		out = append(out, batch...)

		if onProgress != nil {
			onProgress(len(out), total)
		}
		if end < total {
			// Pace the bulk load so the remote API is not hammered.
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(100 * time.Millisecond):
			}
		}
	}
	return out, nil
}

// buildRecord assembles a full domain record from a detail+species pair,
// including the evolution neighbourhood and alternate forms.
func (p *Pipeline) buildRecord(ctx context.Context, detail *PokemonResource, species *SpeciesResource) models.Pokemon {
	_, gmax := p.megaAndGigamax(ctx, species)
	sprites := TransformSprites(detail)
	sprites.Gmax = gmax

	return models.Pokemon{
		PokedexID:  detail.ID,
		Generation: GenerationNumber(species.Generation.Name),
		Category:   ExtractCategory(species),
		Name:       ExtractLocalizedNames(species),
		Sprites:    sprites,
		Types:      TransformTypes(detail),
		Stats:      TransformStats(detail),
		Evolution:  p.evolutionChain(ctx, species, detail.ID, false),
		Height:     fmt.Sprintf("%.1f m", float64(detail.Height)/10),
		Weight:     fmt.Sprintf("%.1f kg", float64(detail.Weight)/10),
		Formes:     p.regionalForms(ctx, species),
	}
}

// evolutionChain resolves the chain referenced by species and extracts
// the neighbourhood of currentID. Mega variants are skipped for regional
// forms. Returns nil (logged) on failure or when nothing was found.
func (p *Pipeline) evolutionChain(ctx context.Context, species *SpeciesResource, currentID int, skipMega bool) *models.Evolution {
	chainID := (NamedResource{URL: species.EvolutionChain.URL}).ID()
	if chainID == 0 {
		return nil
	}
	chain, err := p.client.FetchEvolutionChain(ctx, chainID)
	if err != nil {
		p.logger.Warn("evolution chain fetch failed",
			zap.Int("chain_id", chainID), zap.Error(err))
		return nil
	}

	pre, next := ExtractEvolutions(&chain.Chain, currentID)

	var mega []models.MegaEvolution
	if !skipMega {
		mega, _ = p.megaAndGigamax(ctx, species)
	}

	if len(pre) == 0 && len(next) == 0 && len(mega) == 0 {
		return nil
	}
	return &models.Evolution{Pre: pre, Next: next, Mega: mega}
}

// megaAndGigamax scans the non-default varieties of a species for mega
// and gigamax entries. Individual variety failures are logged and
// skipped. Results come from the client cache on repeated calls.
func (p *Pipeline) megaAndGigamax(ctx context.Context, species *SpeciesResource) ([]models.MegaEvolution, *models.GigamaxSprite) {
	var (
		megas []models.MegaEvolution
		gmax  *models.GigamaxSprite
	)
	frName := species.LocalizedName("fr")

	for _, variety := range species.Varieties {
		if variety.IsDefault {
			continue
		}
		name := strings.ToLower(variety.Pokemon.Name)

		switch {
		case strings.Contains(name, "-mega"):
			detail, err := p.client.FetchPokemon(ctx, name)
			if err != nil {
				p.logger.Warn("mega variety fetch failed", zap.String("variety", name), zap.Error(err))
				continue
			}
			sprites := TransformSprites(detail)
			orbe := frName + "ite"
			if strings.Contains(name, "-mega-x") {
				orbe = frName + "ite X"
			} else if strings.Contains(name, "-mega-y") {
				orbe = frName + "ite Y"
			}
			megas = append(megas, models.MegaEvolution{
				Orbe:    orbe,
				Sprites: models.MegaSprite{Regular: sprites.Regular, Shiny: sprites.Shiny},
			})

		case strings.Contains(name, "-gmax"):
			detail, err := p.client.FetchPokemon(ctx, name)
			if err != nil {
				p.logger.Warn("gigamax variety fetch failed", zap.String("variety", name), zap.Error(err))
				continue
			}
			sprites := TransformSprites(detail)
			gmax = &models.GigamaxSprite{Regular: sprites.Regular, Shiny: sprites.Shiny}
		}
	}
	return megas, gmax
}

// regionalForms surfaces varieties whose name carries a known regional
// token, with display names from the pokemon-form record. Form metadata
// failures fall back to the API slug.
func (p *Pipeline) regionalForms(ctx context.Context, species *SpeciesResource) []models.RegionalForm {
	var forms []models.RegionalForm
	for _, variety := range species.Varieties {
		if variety.IsDefault {
			continue
		}
		name := strings.ToLower(variety.Pokemon.Name)
		for _, region := range regionPrefixes {
			if strings.Contains(name, region) {
				localized := models.LocalizedName{
					FR: variety.Pokemon.Name,
					EN: variety.Pokemon.Name,
					JP: variety.Pokemon.Name,
				}
				if form, err := p.client.FetchForm(ctx, variety.Pokemon.Name); err == nil {
					localized = models.LocalizedName{
						FR: form.LocalizedName("fr"),
						EN: form.LocalizedName("en"),
						JP: form.LocalizedName("ja"),
					}
				}
				forms = append(forms, models.RegionalForm{Region: region, Name: localized})
				break
			}
		}
	}
	return forms
}
