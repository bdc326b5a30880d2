package v1

import (
	"github.com/labstack/echo/v4"

	"github.com/ABDUL-REHMAN392/moviebackend/internal/adapters/http/api/v1/handlers"
)

type Router struct {
	handlers *handlers.AuthHandler
	authMW   echo.MiddlewareFunc
}

func NewRouter(h *handlers.AuthHandler, authMW echo.MiddlewareFunc) *Router {
	return &Router{handlers: h, authMW: authMW}
}

func (r *Router) Register(g *echo.Group) {
	auth := g.Group("/auth")
	auth.POST("/register", r.handlers.Register)
	auth.POST("/login", r.handlers.Login)
	auth.GET("/google", r.handlers.GoogleStart)
	auth.GET("/google/callback", r.handlers.GoogleCallback)
	auth.POST("/refresh-token", r.handlers.RefreshToken)

	protected := auth.Group("", r.authMW)
	protected.GET("/profile", r.handlers.GetProfile)
	protected.PATCH("/profile", r.handlers.UpdateProfile)
	protected.POST("/logout", r.handlers.Logout)
	protected.DELETE("/avatar", r.handlers.RemoveAvatar)
	protected.DELETE("/account", r.handlers.DeleteAccount)
}
