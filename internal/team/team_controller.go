package team

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pokeatlas/pokedex/pkg/responses"
	"github.com/pokeatlas/pokedex/pkg/validator"
)

// Controller handles team-related HTTP requests.
type Controller struct {
	store *Store
}

// NewController creates a team controller over the store.
func NewController(store *Store) *Controller {
	return &Controller{store: store}
}

// List returns the current user's teams.
func (tc *Controller) List(c *gin.Context) {
	responses.SendSuccess(c, http.StatusOK, "", tc.store.List())
}

// GetOne selects and returns one team.
func (tc *Controller) GetOne(c *gin.Context) {
	t, err := tc.store.FetchOne(c.Param("teamId"))
	if err != nil {
		responses.NotFoundMessage(c, err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", t)
}

// Create adds a new team.
func (tc *Controller) Create(c *gin.Context) {
	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequestFields(c, validator.ParseError(err))
		return
	}

	t, err := tc.store.Create(req.Name)
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "", t)
}

// Delete removes a team.
func (tc *Controller) Delete(c *gin.Context) {
	if err := tc.store.DeleteOne(c.Param("teamId")); err != nil {
		responses.NotFoundMessage(c, err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Team deleted", nil)
}

// AddPokemon fills a slot of a team.
func (tc *Controller) AddPokemon(c *gin.Context) {
	var req AddPokemonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequestFields(c, validator.ParseError(err))
		return
	}

	tp, err := tc.store.AddPokemon(c.Param("teamId"), req.PokemonID, req.Position, req.Nickname, req.IsShiny)
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "", tp)
}

// RemovePokemon empties the slot holding the given Pokémon.
func (tc *Controller) RemovePokemon(c *gin.Context) {
	pokemonID, err := strconv.Atoi(c.Param("pokemonId"))
	if err != nil {
		responses.BadRequest(c, "invalid pokemon id")
		return
	}

	if err := tc.store.RemovePokemon(c.Param("teamId"), pokemonID); err != nil {
		responses.NotFoundMessage(c, err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Pokemon removed from team", nil)
}

// Capacity reports the advisory capacity checks for the UI.
func (tc *Controller) Capacity(c *gin.Context) {
	teamID := c.Param("teamId")
	responses.SendSuccess(c, http.StatusOK, "", gin.H{
		"can_create_team": tc.store.CanCreateTeam(),
		"can_add_pokemon": tc.store.CanAddPokemon(teamID),
	})
}

// RegisterRoutes mounts the team endpoints, all authenticated.
func RegisterRoutes(router *gin.RouterGroup, store *Store, authMW gin.HandlerFunc) {
	controller := NewController(store)

	group := router.Group("/teams")
	group.Use(authMW)
	{
		group.GET("", controller.List)
		group.POST("", controller.Create)
		group.GET("/:teamId", controller.GetOne)
		group.DELETE("/:teamId", controller.Delete)
		group.GET("/:teamId/capacity", controller.Capacity)
		group.POST("/:teamId/pokemons", controller.AddPokemon)
		group.DELETE("/:teamId/pokemons/:pokemonId", controller.RemovePokemon)
	}
}
