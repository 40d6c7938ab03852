package app

import (
	"questedu_backend/docs"
	"questedu_backend/internal/config"
	"questedu_backend/internal/middleware"
	"questedu_backend/internal/model"
	"questedu_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerTeacherRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)
	rg.PUT("/profile", c.auth.UpdateProfile)

	// 内容层级
	rg.GET("/chapters", c.content.ListChapters)
	rg.GET("/chapters/:id/lessons", c.content.ListLessons)
	rg.GET("/lessons/:lessonId/quests", c.quest.ListByLesson)

	// 任务挑战
	rg.POST("/quests/:id/attempts", c.quest.StartAttempt)
	rg.GET("/quests/:id/attempts", c.quest.ListMyAttempts)
	rg.PUT("/quests/:id/attempts/:attemptId", c.quest.SubmitAttempt)

	rg.GET("/leaderboard", c.leaderboard.Top)
}

func (a *App) registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	teacher := rg.Group("/")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		// 班级管理
		teacher.POST("/classes", c.class.CreateClass)
		teacher.GET("/classes", c.class.ListClasses)
		teacher.PUT("/classes/:id", c.class.UpdateClass)
		teacher.DELETE("/classes/:id", c.class.DeleteClass)
		teacher.GET("/classes/:id/members", c.class.ListMembers)
		teacher.POST("/classes/:id/members", c.class.AddStudent)
		teacher.DELETE("/classes/:id/members/:studentId", c.class.RemoveStudent)

		// 任务与题目管理
		teacher.POST("/quests", c.quest.CreateQuest)
		teacher.PUT("/quests/:id", c.quest.UpdateQuest)
		teacher.PUT("/quests/:id/publish", c.quest.PublishQuest)
		teacher.DELETE("/quests/:id", c.quest.DeleteQuest)
		teacher.GET("/quests/:id/questions", c.quest.ListQuestions)
		teacher.POST("/quests/:id/questions", c.quest.AddQuestion)
		teacher.DELETE("/quests/:id/questions/:qqId", c.quest.RemoveQuestion)

		// 成绩报表
		teacher.GET("/reports/generate", c.report.GenerateReport)
		teacher.POST("/reports", c.report.SaveReport)
		teacher.GET("/reports", c.report.ListReports)
		teacher.GET("/reports/:id", c.report.GetReport)
		teacher.GET("/reports/:id/export", c.report.ExportReportCSV)
		teacher.DELETE("/reports/:id", c.report.DeleteReport)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/users", c.adminUser.ListUsers)
		admin.POST("/users", c.adminUser.CreateUser)
		admin.PUT("/users", c.adminUser.UpdateUser)
		admin.DELETE("/users", c.adminUser.DeleteUser)

		admin.POST("/leaderboard/rebuild", c.leaderboard.Rebuild)
	}
}
