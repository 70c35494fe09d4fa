package app

import (
	"lms_backend/docs"
	"lms_backend/internal/config"
	"lms_backend/internal/middleware"
	"lms_backend/internal/model"
	"lms_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 媒体流：<video>/<img> 只能 query 传 token，挂在 /uploads 而非 /api 下
	media := router.Group("/uploads")
	media.Use(middleware.AuthMiddleware(cfg))
	{
		media.GET("/:category/:filename", c.media.StreamMedia)
	}

	// 3. 学员接口
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerStudentRoutes(authGroup, c)
	}

	// 4. 管理员接口
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		a.registerAdminRoutes(admin, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)

		// 注册页选课用的课程目录
		public.GET("/courses", c.course.ListPublicCourses)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)
	rg.GET("/dashboard", c.dashboard.GetDashboard)
	rg.GET("/ws/progress", c.feed.ServeProgressFeed)

	rg.GET("/courses/:courseId", c.course.GetCourse)

	rg.POST("/enrollments", c.enrollment.Enroll)
	rg.DELETE("/enrollments/:courseId", c.enrollment.Unenroll)

	// 活动会话
	rg.POST("/activities/start", c.activity.StartActivity)
	rg.POST("/activities/:id/end", c.activity.EndActivity)
	rg.GET("/activities/time", c.activity.TotalTime)

	// 课时进度
	rg.GET("/progress", c.progress.GetUserProgress)
	rg.PUT("/progress/:lessonId", c.progress.UpdateCompletion)

	// 测验
	rg.GET("/quizzes/:id", c.quiz.GetQuiz)
	rg.POST("/quizzes/:id/submit", c.quiz.Submit)
	rg.POST("/courses/:courseId/quizzes/:quizId/submit", c.quiz.SubmitInCourse)
	rg.GET("/quiz-results", c.quiz.MyResults)
}

func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	// 课程与学科
	rg.GET("/courses", c.course.ListCourses)
	rg.POST("/courses", c.course.CreateCourse)
	rg.PUT("/courses/:courseId", c.course.UpdateCourse)
	rg.DELETE("/courses/:courseId", c.course.DeleteCourse)
	rg.POST("/courses/:courseId/disciplines", c.course.CreateDiscipline)
	rg.PUT("/disciplines/:disciplineId", c.course.UpdateDiscipline)
	rg.DELETE("/disciplines/:disciplineId", c.course.DeleteDiscipline)

	// 课时与内容
	rg.GET("/disciplines/:disciplineId/lessons", c.lesson.ListLessons)
	rg.POST("/disciplines/:disciplineId/lessons", c.lesson.CreateLesson)
	rg.PUT("/disciplines/:disciplineId/lessons/:lessonId", c.lesson.UpdateLesson)
	rg.DELETE("/disciplines/:disciplineId/lessons/:lessonId", c.lesson.DeleteLesson)
	rg.DELETE("/lessons/:lessonId/content", c.lesson.RemoveContent)

	// 测验管理
	rg.GET("/courses/:courseId/quizzes", c.quiz.ListByCourse)
	rg.POST("/courses/:courseId/quizzes", c.quiz.CreateQuiz)
	rg.PUT("/courses/:courseId/quizzes/:quizId", c.quiz.UpdateQuiz)
	rg.DELETE("/courses/:courseId/quizzes/:quizId", c.quiz.DeleteQuiz)
	rg.GET("/courses/:courseId/quizzes/:quizId/results", c.quiz.QuizResults)

	// 学员管理
	rg.GET("/students", c.enrollment.ListStudents)
	rg.DELETE("/students/:id", c.enrollment.DeleteStudent)
}
