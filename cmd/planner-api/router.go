package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/horario-planner/internal/handler"
	internalmiddleware "github.com/noah-isme/horario-planner/internal/middleware"
	"github.com/noah-isme/horario-planner/internal/models"
	"github.com/noah-isme/horario-planner/internal/service"
	"github.com/noah-isme/horario-planner/pkg/config"
	"github.com/noah-isme/horario-planner/pkg/logger"
	corsmiddleware "github.com/noah-isme/horario-planner/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/horario-planner/pkg/middleware/requestid"
)

type routerDeps struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *service.MetricsService
	auth    *service.AuthService
	catalog *handler.CatalogHandler
	planner *handler.PlannerHandler
	admin   *handler.AdminHandler
	system  *handler.MetricsHandler
}

func newRouter(d routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(d.logger, "/health", "/ready", "/metrics"))
	r.Use(corsmiddleware.New(d.cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(d.metrics))
	r.Use(internalmiddleware.WithResponseMeta())

	r.GET("/health", d.system.Health)
	r.GET("/ready", d.system.Ready)
	r.GET("/metrics", d.system.Prometheus)

	if d.cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(d.cfg.APIPrefix)

	api.GET("/faculties", d.catalog.ListFaculties)
	api.GET("/faculties/:id/schools", d.catalog.ListSchools)
	api.GET("/schools/:id/courses", d.catalog.ListSchoolCourses)
	api.GET("/courses", d.catalog.ListCourses)
	api.GET("/courses/:id", d.catalog.GetCourse)
	api.GET("/time-blocks/day/:day", d.catalog.BlocksByDay)
	api.GET("/catalog/stats", d.catalog.Stats)
	api.GET("/catalog/initial", d.catalog.InitialData)

	plannerGroup := api.Group("/planner")
	plannerGroup.POST("/conflicts", d.planner.CheckConflicts)
	plannerGroup.POST("/score", d.planner.Score)
	plannerGroup.POST("/combinations", d.planner.GenerateCombinations)
	plannerGroup.POST("/timetable", d.planner.Timetable)
	plannerGroup.POST("/export", d.planner.Export)

	admin := api.Group("/admin")
	admin.Use(internalmiddleware.JWT(d.auth), internalmiddleware.RequireRoles(models.RoleAdmin))
	admin.POST("/catalog/import", d.admin.ImportCatalog)
	admin.GET("/catalog/import/:id", d.admin.ImportStatus)
	admin.DELETE("/cache", d.admin.InvalidateCache)
	admin.GET("/metrics", d.system.Summary)

	return r
}
