package catalog

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pokeatlas/pokedex/internal/models"
	"github.com/pokeatlas/pokedex/internal/pokeapi"
	"github.com/pokeatlas/pokedex/internal/translation"
	"github.com/pokeatlas/pokedex/pkg/responses"
)

// Controller serves the catalog views and the on-demand enriched detail.
type Controller struct {
	store      *Store
	pipeline   *pokeapi.Pipeline
	translator *translation.Store
}

// NewController creates a catalog controller.
func NewController(store *Store, pipeline *pokeapi.Pipeline, translator *translation.Store) *Controller {
	return &Controller{store: store, pipeline: pipeline, translator: translator}
}

// List returns the filtered, sorted, optionally generation-grouped
// catalog. Query params: q, type, generations (comma-separated), sort,
// order (asc|desc), grouped (bool), lang.
func (cc *Controller) List(c *gin.Context) {
	if err := cc.store.LoadError(); err != nil {
		responses.InternalServerError(c, cc.translator.T("catalog.load_failed"))
		return
	}

	lang := cc.translator.Language()
	if l := c.Query("lang"); models.IsValidLanguage(l) {
		lang = models.Language(l)
	}

	var generations []int
	if raw := c.Query("generations"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if g, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
				generations = append(generations, g)
			}
		}
	}

	list := cc.store.Filtered(c.Query("q"), c.Query("type"), generations, lang)

	if field := c.Query("sort"); field != "" {
		list = cc.store.Sorted(list, &SortSpec{
			Field: SortField(field),
			Desc:  c.Query("order") == "desc",
		}, lang)
	}

	if c.Query("grouped") == "true" {
		responses.SendSuccess(c, http.StatusOK, "", cc.store.GroupedByGeneration(list))
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", list)
}

// Types returns the distinct type names in the catalog.
func (cc *Controller) Types(c *gin.Context) {
	responses.SendSuccess(c, http.StatusOK, "", cc.store.AllTypes())
}

// GetOne returns the base catalog record for one Pokémon.
func (cc *Controller) GetOne(c *gin.Context) {
	p, ok := cc.lookup(c)
	if !ok {
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", p)
}

// GetEnriched returns the record augmented with remote data. Enrichment
// is best-effort: on remote failure the base record is served.
func (cc *Controller) GetEnriched(c *gin.Context) {
	p, ok := cc.lookup(c)
	if !ok {
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", cc.pipeline.Enrich(c.Request.Context(), p))
}

// GetRegionalForm returns the record re-derived for a regional form.
func (cc *Controller) GetRegionalForm(c *gin.Context) {
	p, ok := cc.lookup(c)
	if !ok {
		return
	}
	form := c.Param("form")
	responses.SendSuccess(c, http.StatusOK, "", cc.pipeline.LoadRegionalForm(c.Request.Context(), p, form))
}

// GetMega returns the record re-derived for a mega variant. The variant
// query param selects "x" or "y" when the species has two.
func (cc *Controller) GetMega(c *gin.Context) {
	p, ok := cc.lookup(c)
	if !ok {
		return
	}
	responses.SendSuccess(c, http.StatusOK, "",
		cc.pipeline.LoadMegaEvolutionData(c.Request.Context(), p, c.Query("variant")))
}

// GetGigamax returns the record re-derived for the gigamax form.
func (cc *Controller) GetGigamax(c *gin.Context) {
	p, ok := cc.lookup(c)
	if !ok {
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", cc.pipeline.LoadGigamaxData(c.Request.Context(), p))
}

func (cc *Controller) lookup(c *gin.Context) (models.Pokemon, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		responses.BadRequest(c, "invalid pokedex id")
		return models.Pokemon{}, false
	}
	p, ok := cc.store.ByID(id)
	if !ok {
		responses.NotFound(c, "Pokemon")
		return models.Pokemon{}, false
	}
	return p, true
}

// RegisterRoutes mounts the public catalog endpoints.
func RegisterRoutes(router *gin.RouterGroup, store *Store, pipeline *pokeapi.Pipeline, translator *translation.Store) {
	controller := NewController(store, pipeline, translator)

	group := router.Group("/pokemons")
	{
		group.GET("", controller.List)
		group.GET("/:id", controller.GetOne)
		group.GET("/:id/enriched", controller.GetEnriched)
		group.GET("/:id/forms/:form", controller.GetRegionalForm)
		group.GET("/:id/mega", controller.GetMega)
		group.GET("/:id/gmax", controller.GetGigamax)
	}
	router.GET("/types", controller.Types)
}
