package routes

import (
	"gearguard/internal/controllers"

	"github.com/labstack/echo/v4"
)

func registerAuthRoutes(g *echo.Group, ctrl *controllers.AuthController) {
	g.POST("/auth/login", ctrl.Login)
	g.POST("/auth/signup", ctrl.Signup)
	g.POST("/auth/refresh", ctrl.Refresh)
}
