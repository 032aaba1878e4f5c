package controllers

import (
	"github.com/freshmandi/freshmandi/app/resources"
	"github.com/freshmandi/freshmandi/app/services"
	"github.com/freshmandi/freshmandi/pkg/ctx"
	"github.com/freshmandi/freshmandi/pkg/resource"
)

// AuthController serves registration, login, and account endpoints.
type AuthController struct {
	service *services.AuthService
}

func NewAuthController() *AuthController {
	return &AuthController{service: services.NewAuthService()}
}

// Register creates a new client or farmer account.
// POST /api/auth/register
func (ac *AuthController) Register(c *ctx.Context) {
	var in services.RegisterInput
	if !c.BindJSON(&in) {
		return
	}

	user, token, err := ac.service.Register(in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Created(resource.Map{
		"user":  resources.User(user),
		"token": token,
	})
}

// Login exchanges credentials for a token.
// POST /api/auth/login
func (ac *AuthController) Login(c *ctx.Context) {
	var in struct {
		Email    string `json:"email"    validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if !c.BindJSON(&in) {
		return
	}

	user, token, err := ac.service.Login(in.Email, in.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Success(resource.Map{
		"user":  resources.User(user),
		"token": token,
	})
}

// Profile returns the authenticated account.
// GET /api/auth/profile
func (ac *AuthController) Profile(c *ctx.Context) {
	user, err := ac.service.Profile(c.UserID())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(resources.User(user))
}

// UpdateProfile edits the authenticated account.
// PUT /api/auth/profile
func (ac *AuthController) UpdateProfile(c *ctx.Context) {
	var in services.UpdateProfileInput
	if !c.BindJSON(&in) {
		return
	}

	user, err := ac.service.UpdateProfile(c.UserID(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(resources.User(user))
}

// DeleteAccount removes the authenticated account and its data.
// DELETE /api/auth/account
func (ac *AuthController) DeleteAccount(c *ctx.Context) {
	if err := ac.service.DeleteAccount(c.UserID()); err != nil {
		respondError(c, err)
		return
	}
	c.Success(resource.Map{"deleted": true})
}
