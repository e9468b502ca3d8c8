// team/model.go
package team

import "time"

const (
	// MaxTeams is the per-user team cap.
	MaxTeams = 3
	// MaxPokemonPerTeam is the slot cap of a single team.
	MaxPokemonPerTeam = 6
)

// KeyPrefix is the storage key prefix; the full key is KeyPrefix plus
// the owning user's id.
const KeyPrefix = "teams_"

// Key returns the storage key for a user's teams.
func Key(userID string) string { return KeyPrefix + userID }

// Team is a named roster of up to six Pokémon.
type Team struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	UserID    string        `json:"user_id"`
	Name      string        `json:"name"`
	Pokemons  []TeamPokemon `json:"pokemons"`
}

// TeamPokemon is one slot of a team.
type TeamPokemon struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	TeamID    string    `json:"team_id"`
	PokemonID int       `json:"pokemon_id"`
	Position  int       `json:"position"`
	Nickname  string    `json:"nickname"`
	IsShiny   bool      `json:"is_shiny"`
}

// CreateTeamRequest is the payload for creating a team.
type CreateTeamRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// AddPokemonRequest is the payload for filling a team slot.
type AddPokemonRequest struct {
	PokemonID int    `json:"pokemon_id" binding:"required,gt=0"`
	Position  int    `json:"position" binding:"gte=0,lt=6"`
	Nickname  string `json:"nickname" binding:"max=50"`
	IsShiny   bool   `json:"is_shiny"`
}
