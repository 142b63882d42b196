package routes

import (
	"gearguard/internal/controllers"

	"github.com/labstack/echo/v4"
)

func registerDashboardRoutes(g *echo.Group, dashboardCtrl *controllers.DashboardController, reportCtrl *controllers.ReportController) {
	g.GET("/dashboard", dashboardCtrl.GetStats)
	g.GET("/reports/requests", reportCtrl.GetRequestReport)
}
