package routes

import (
	"gearguard/internal/controllers"

	"github.com/labstack/echo/v4"
)

func registerRequestRoutes(g *echo.Group, ctrl *controllers.RequestController) {
	g.GET("/requests", ctrl.GetRequests)
	g.GET("/requests/kanban", ctrl.GetKanbanBoard)
	g.GET("/requests/calendar", ctrl.GetCalendarEvents)
	g.GET("/requests/:id", ctrl.FindRequest)
	g.POST("/requests", ctrl.CreateRequest)
	g.PUT("/requests/:id", ctrl.UpdateRequest)
	g.POST("/requests/:id/status", ctrl.UpdateStatus)
	g.POST("/requests/:id/start", ctrl.StartRequest)
	g.POST("/requests/:id/complete", ctrl.CompleteRequest)
	g.POST("/requests/:id/scrap", ctrl.ScrapRequest)
	g.POST("/requests/:id/duration", ctrl.SetDuration)
}
