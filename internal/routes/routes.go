package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"gearguard/internal/controllers"
	"gearguard/internal/repositories"
	"gearguard/internal/services"
	"gearguard/pkg/config"
	"gearguard/pkg/middleware"
	"gearguard/pkg/service"
)

func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, jwtSvc service.JWTService, logger *zap.Logger, cfg *config.Config) {
	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, logger)

	// Repositories
	userRepo := repositories.NewUserRepository(dbConn)
	teamRepo := repositories.NewTeamRepository(dbConn)
	equipmentRepo := repositories.NewEquipmentRepository(dbConn)
	requestRepo := repositories.NewRequestRepository(dbConn)
	dashboardRepo := repositories.NewDashboardRepository(dbConn)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	// Services
	authService := services.NewAuthService(userRepo, jwtSvc, logger)
	teamService := services.NewTeamService(teamRepo, logger)
	equipmentService := services.NewEquipmentService(equipmentRepo, teamRepo, logger)
	requestService := services.NewRequestService(dbConn, requestRepo, equipmentRepo, teamRepo, logger)
	dashboardService := services.NewDashboardService(dashboardRepo, cacheRepo, cfg.Dashboard.CacheTTL, logger)
	reportService := services.NewReportService(requestRepo, logger)

	// Controllers
	authCtrl := controllers.NewAuthController(authService, logger)
	teamCtrl := controllers.NewTeamController(teamService, logger)
	equipmentCtrl := controllers.NewEquipmentController(equipmentService, requestService, logger)
	requestCtrl := controllers.NewRequestController(requestService, logger)
	dashboardCtrl := controllers.NewDashboardController(dashboardService, logger)
	reportCtrl := controllers.NewReportController(reportService, logger)

	registerAuthRoutes(api, authCtrl)

	protected := api.Group("", authMW.Auth)
	registerTeamRoutes(protected, teamCtrl)
	registerEquipmentRoutes(protected, equipmentCtrl)
	registerRequestRoutes(protected, requestCtrl)
	registerDashboardRoutes(protected, dashboardCtrl, reportCtrl)
}
