package favorites

import "time"

// KeyPrefix is the storage key prefix; the full key is KeyPrefix plus the
// owning user's id.
const KeyPrefix = "favorites_"

// Key returns the storage key for a user's favorites.
func Key(userID string) string { return KeyPrefix + userID }

// Favorite is one favorited Pokémon for one user.
type Favorite struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    string    `json:"user_id"`
	PokemonID int       `json:"pokemon_id"`
}

// AddRequest is the payload for adding a favorite.
type AddRequest struct {
	PokemonID int `json:"pokemon_id" binding:"required,gt=0"`
}
