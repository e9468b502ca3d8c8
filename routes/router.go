package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/pokeatlas/pokedex/config"
	"github.com/pokeatlas/pokedex/internal/auth"
	"github.com/pokeatlas/pokedex/internal/catalog"
	"github.com/pokeatlas/pokedex/internal/favorites"
	"github.com/pokeatlas/pokedex/internal/middleware"
	"github.com/pokeatlas/pokedex/internal/pokeapi"
	"github.com/pokeatlas/pokedex/internal/team"
	"github.com/pokeatlas/pokedex/internal/translation"
)

// Stores bundles the state stores the routes are built over.
type Stores struct {
	Auth        *auth.Store
	Favorites   *favorites.Store
	Teams       *team.Store
	Catalog     *catalog.Store
	Translation *translation.Store
	Pipeline    *pokeapi.Pipeline
}

func SetupRoutes(cfg *config.Config, stores Stores) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	if cfg.App.FrontendURL != "" {
		corsConfig.AllowOrigins = []string{cfg.App.FrontendURL}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authMW := middleware.AuthMiddleware(cfg.JWT.AccessTokenSecret,
		middleware.UserLookupFunc(func(id string) bool {
			_, ok := stores.Auth.UserByID(id)
			return ok
		}))

	// API routes
	api := r.Group("/api")
	auth.RegisterRoutes(api, stores.Auth, authMW)
	favorites.RegisterRoutes(api, stores.Favorites, authMW)
	team.RegisterRoutes(api, stores.Teams, authMW)
	catalog.RegisterRoutes(api, stores.Catalog, stores.Pipeline, stores.Translation)
	translation.RegisterRoutes(api, stores.Translation)

	return r
}
