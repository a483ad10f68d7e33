package app

import (
	"course_gen_backend/docs"
	"course_gen_backend/internal/config"
	"course_gen_backend/internal/middleware"
	"course_gen_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.Check)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		courses := authGroup.Group("/courses")
		{
			courses.POST("", c.course.Create)
			courses.GET("", c.course.List)
			courses.POST("/structured", c.course.GenerateStructured)
			courses.GET("/:id", c.course.Get)
			courses.DELETE("/:id", c.course.Delete)
			courses.POST("/:id/regenerate", c.course.Regenerate)
			courses.POST("/:id/thumbnail", c.course.Thumbnail)
			courses.POST("/:id/quizzes", c.course.GenerateQuizzes)
			courses.GET("/:id/quizzes", c.course.ListQuizzes)
		}

		authGroup.POST("/quiz-progress", c.progress.Record)
		authGroup.GET("/quiz-progress", c.progress.Get)

		authGroup.GET("/video-search", c.video.Search)
		authGroup.GET("/video-validate", c.video.Validate)
	}
}
