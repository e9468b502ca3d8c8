package favorites

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pokeatlas/pokedex/pkg/responses"
	"github.com/pokeatlas/pokedex/pkg/validator"
)

// Controller handles favorites HTTP requests.
type Controller struct {
	store *Store
}

// NewController creates a favorites controller over the store.
func NewController(store *Store) *Controller {
	return &Controller{store: store}
}

// List returns the current user's favorites.
func (fc *Controller) List(c *gin.Context) {
	responses.SendSuccess(c, http.StatusOK, "", fc.store.List())
}

// Add favorites a Pokémon.
func (fc *Controller) Add(c *gin.Context) {
	var req AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequestFields(c, validator.ParseError(err))
		return
	}

	fav, err := fc.store.Add(req.PokemonID)
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "", fav)
}

// Remove unfavorites a Pokémon by its pokédex id.
func (fc *Controller) Remove(c *gin.Context) {
	pokemonID, err := strconv.Atoi(c.Param("pokemonId"))
	if err != nil {
		responses.BadRequest(c, "invalid pokemon id")
		return
	}

	if err := fc.store.Remove(pokemonID); err != nil {
		responses.NotFoundMessage(c, err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Favorite removed", nil)
}

// Toggle flips the favorite state of a Pokémon.
func (fc *Controller) Toggle(c *gin.Context) {
	pokemonID, err := strconv.Atoi(c.Param("pokemonId"))
	if err != nil {
		responses.BadRequest(c, "invalid pokemon id")
		return
	}

	if err := fc.store.Toggle(pokemonID); err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", gin.H{
		"pokemon_id":  pokemonID,
		"is_favorite": fc.store.IsFavorite(pokemonID),
	})
}

// RegisterRoutes mounts the favorites endpoints, all authenticated.
func RegisterRoutes(router *gin.RouterGroup, store *Store, authMW gin.HandlerFunc) {
	controller := NewController(store)

	group := router.Group("/favorites")
	group.Use(authMW)
	{
		group.GET("", controller.List)
		group.POST("", controller.Add)
		group.DELETE("/:pokemonId", controller.Remove)
		group.POST("/:pokemonId/toggle", controller.Toggle)
	}
}
