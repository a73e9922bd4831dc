package app

import (
	"major_compass_backend/docs"
	"major_compass_backend/internal/config"
	"major_compass_backend/internal/middleware"
	"major_compass_backend/internal/model"
	"major_compass_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c, repos, cfg)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 目录浏览：可选认证，游客照常访问，登录用户自动记录浏览轨迹
	catalog := router.Group("/api")
	catalog.Use(middleware.TryAuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		catalog.GET("/majors", c.catalog.ListMajors)
		catalog.GET("/majors/:slug", c.catalog.GetMajor)
		catalog.GET("/roadmaps/:slug", c.catalog.GetRoadmap)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/me", c.auth.Me)
	rg.POST("/users/avatar", c.user.UploadAvatar)

	rg.GET("/dashboard", c.dashboard.GetDashboard)

	progress := rg.Group("/progress")
	{
		progress.GET("", c.progress.GetProgress)
		progress.POST("/majors/:slug/explore", c.progress.ExploreMajor)
		progress.PUT("/majors/:slug", c.progress.SetMajorProgress)
		progress.POST("/roadmaps/:slug/view", c.progress.ViewRoadmap)
		progress.GET("/completions", c.progress.ListCompletions)
		progress.GET("/roadmaps/:slug/completion", c.progress.GetCompletion)
		progress.PUT("/roadmaps/:slug/completion", c.progress.SaveCompletion)
		progress.POST("/assessments/:id/take", c.progress.TakeAssessment)
		progress.POST("/activities", c.progress.RecordActivity)
		progress.POST("/checkin", c.progress.CheckIn)
		progress.PUT("/goals", c.progress.SetGoals)
	}

	chat := rg.Group("/chat")
	{
		chat.POST("/ask", c.chat.Ask)
		chat.GET("/sessions", c.chat.GetSessions)
		chat.GET("/sessions/:id", c.chat.GetSessionDetail)
		chat.DELETE("/sessions/:id", c.chat.DeleteSession)
		chat.POST("/grade", c.chat.Grade)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/users", c.user.GetUsers)
		admin.PUT("/users/:id", c.user.UpdateUser)
		admin.DELETE("/users/:id", c.user.DeleteUser)
		admin.PUT("/users/:id/disable", c.user.DisableUser)
		admin.POST("/users/:id/reset-password", c.user.ResetPassword)
		admin.POST("/users/:id/points", c.progress.AwardPoints)

		admin.POST("/majors", c.catalog.CreateMajor)
		admin.PUT("/majors/:id", c.catalog.UpdateMajor)
		admin.DELETE("/majors/:id", c.catalog.DeleteMajor)
		admin.POST("/subspecializations", c.catalog.CreateSubspecialization)
		admin.POST("/stages", c.catalog.CreateStage)
		admin.POST("/tasks", c.catalog.CreateTask)
	}
}
