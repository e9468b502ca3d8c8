package translation

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pokeatlas/pokedex/pkg/responses"
)

// Controller exposes the active UI language over HTTP.
type Controller struct {
	store *Store
}

func NewController(store *Store) *Controller {
	return &Controller{store: store}
}

type setLanguageRequest struct {
	Language string `json:"language" binding:"required"`
}

// GetLanguage returns the active language code.
func (tc *Controller) GetLanguage(c *gin.Context) {
	responses.SendSuccess(c, http.StatusOK, "", gin.H{"language": tc.store.Language()})
}

// SetLanguage switches the active language. Unknown codes are rejected
// and the previous language stays in effect.
func (tc *Controller) SetLanguage(c *gin.Context) {
	var req setLanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "language is required")
		return
	}
	if !tc.store.SetLanguage(req.Language) {
		responses.BadRequest(c, "unsupported language: "+req.Language)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", gin.H{"language": tc.store.Language()})
}

// RegisterRoutes mounts the language endpoints.
func RegisterRoutes(router *gin.RouterGroup, store *Store) {
	controller := NewController(store)

	group := router.Group("/language")
	{
		group.GET("", controller.GetLanguage)
		group.PUT("", controller.SetLanguage)
	}
}
