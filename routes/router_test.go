package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pokeatlas/pokedex/config"
	"github.com/pokeatlas/pokedex/internal/auth"
	"github.com/pokeatlas/pokedex/internal/catalog"
	"github.com/pokeatlas/pokedex/internal/favorites"
	"github.com/pokeatlas/pokedex/internal/logging"
	"github.com/pokeatlas/pokedex/internal/pokeapi"
	"github.com/pokeatlas/pokedex/internal/storage"
	"github.com/pokeatlas/pokedex/internal/team"
	"github.com/pokeatlas/pokedex/internal/translation"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.JWT.AccessTokenSecret = "test-secret"
	cfg.JWT.AccessTokenExpiryMinutes = 60

	logger := logging.NewNop()
	st, err := storage.New(t.TempDir(), 0, logger)
	require.NoError(t, err)
	tr, err := translation.New(st, logger)
	require.NoError(t, err)

	catalogStore := catalog.New(logger)
	require.NoError(t, catalogStore.Load())

	authStore := auth.NewStore(st, tr, cfg, logger)
	favoritesStore := favorites.NewStore(st, nil, authStore, tr, logger)
	t.Cleanup(favoritesStore.Close)
	teamStore := team.NewStore(st, nil, authStore, tr, logger)
	t.Cleanup(teamStore.Close)

	client := pokeapi.NewClient("http://127.0.0.1:0", logger)

	return SetupRoutes(cfg, Stores{
		Auth:        authStore,
		Favorites:   favoritesStore,
		Teams:       teamStore,
		Catalog:     catalogStore,
		Translation: tr,
		Pipeline:    pokeapi.NewPipeline(client, logger),
	})
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registerUser(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "sacha",
		"email":    "sacha@kanto.jp",
		"password": "Pikachu25",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)
	return resp.Data.Token
}

func TestHealthz(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterLoginFlow(t *testing.T) {
	r := newTestRouter(t)
	token := registerUser(t, r)

	// Profile with the issued token.
	w := doJSON(t, r, http.MethodGet, "/api/auth/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sacha@kanto.jp")

	// Logout, then login again.
	w = doJSON(t, r, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "sacha@kanto.jp",
		"password": "Pikachu25",
	})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestRegisterRejectsMalformedPayload(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "sacha",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "errors")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := newTestRouter(t)

	for _, path := range []string{"/api/auth/profile", "/api/favorites", "/api/teams"} {
		w := doJSON(t, r, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	w := doJSON(t, r, http.MethodGet, "/api/auth/profile", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFavoritesFlow(t *testing.T) {
	r := newTestRouter(t)
	token := registerUser(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/favorites", token, gin.H{"pokemon_id": 25})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Duplicate add is rejected.
	w = doJSON(t, r, http.MethodPost, "/api/favorites", token, gin.H{"pokemon_id": 25})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/favorites", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"pokemon_id":25`)
}

func TestTeamsFlow(t *testing.T) {
	r := newTestRouter(t)
	token := registerUser(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/teams", token, gin.H{"name": "Ligue Indigo"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Data team.Team `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.Data.ID)

	w = doJSON(t, r, http.MethodPost, "/api/teams/"+created.Data.ID+"/pokemons", token, gin.H{
		"pokemon_id": 25,
		"position":   0,
		"nickname":   "Pika",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/api/teams", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ligue Indigo")
	assert.Contains(t, w.Body.String(), "Pika")
}

func TestCatalogEndpoints(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/pokemons", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Pikachu")

	w = doJSON(t, r, http.MethodGet, "/api/pokemons?q=chu&sort=id", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Raichu")
	assert.NotContains(t, w.Body.String(), "Bulbizarre")

	w = doJSON(t, r, http.MethodGet, "/api/pokemons/25", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/pokemons/99999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/pokemons/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/types", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Feu")
}

func TestLanguageEndpoints(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/language", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"language":"fr"`)

	w = doJSON(t, r, http.MethodPut, "/api/language", "", gin.H{"language": "en"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"language":"en"`)

	w = doJSON(t, r, http.MethodPut, "/api/language", "", gin.H{"language": "de"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
