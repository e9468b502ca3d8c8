package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pokeatlas/pokedex/internal/middleware"
	"github.com/pokeatlas/pokedex/pkg/responses"
	"github.com/pokeatlas/pokedex/pkg/validator"
)

// Controller handles auth-related HTTP requests.
type Controller struct {
	store *Store
}

// NewController creates an auth controller over the store.
func NewController(store *Store) *Controller {
	return &Controller{store: store}
}

// Register creates a new account and opens a session.
func (ac *Controller) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequestFields(c, validator.ParseError(err))
		return
	}

	user, err := ac.store.Register(req.Username, req.Email, req.Password)
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusCreated, "", AuthResponse{
		Token: ac.store.Token(),
		User:  user,
	})
}

// Login verifies credentials and opens a session.
func (ac *Controller) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequestFields(c, validator.ParseError(err))
		return
	}

	user, err := ac.store.Login(req.Email, req.Password)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusOK, "", AuthResponse{
		Token: ac.store.Token(),
		User:  user,
	})
}

// Logout closes the current session. Safe to call when anonymous.
func (ac *Controller) Logout(c *gin.Context) {
	ac.store.Logout()
	responses.SendSuccess(c, http.StatusOK, "Logged out", nil)
}

// GetProfile returns the account of the user named by the request
// token, so a stale session singleton cannot answer for another user.
func (ac *Controller) GetProfile(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	user, ok := ac.store.UserByID(userID)
	if !ok {
		responses.Unauthorized(c, "User not found or inactive")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", user)
}
