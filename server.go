package main

import (
	"main/handler"
	"main/middleware"
	"main/repository"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type routerDeps struct {
	sessionRepo *repository.SessionRepo

	users   *handler.UsersHandler
	session *handler.SessionHandler
	dailies *handler.DailiesHandler
	habits  *handler.HabitsHandler
	todos   *handler.TodosHandler
	stats   *handler.StatsHandler
	health  *handler.HealthHandler
}

func setupRouter(deps routerDeps) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestTracingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestSizeLimiter(1 << 20))
	router.Use(middleware.RequireJSON())
	router.Use(middleware.SessionMiddleware(deps.sessionRepo))

	router.GET("/health", middleware.CacheControlMiddleware("5"), deps.health.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public routes (no authentication required)
	auth := router.Group("/api/auth")
	{
		auth.POST("/register", deps.users.Register)
		auth.POST("/login", deps.users.Login)
		auth.POST("/refresh", deps.users.Refresh)
	}

	// Protected routes (authentication required)
	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		user := protected.Group("/user")
		{
			user.GET("/profile", deps.users.GetProfile)
			user.POST("/change-email", deps.users.ChangeEmail)
			user.POST("/change-password", deps.users.ChangePassword)
			user.POST("/logout", deps.users.Logout)
			user.DELETE("/delete", deps.users.DeleteUser)
		}

		sessions := protected.Group("/sessions")
		{
			sessions.GET("/active", deps.session.GetActiveSessions)
			sessions.POST("/logout-all", deps.session.LogoutAllSessions)
			sessions.DELETE("/:id", deps.session.EndSession)
		}

		dailies := protected.Group("/dailies")
		{
			dailies.GET("", deps.dailies.GetUserDailies)
			dailies.POST("", deps.dailies.CreateDaily)
			dailies.GET("/availability", deps.dailies.GetAvailability)
			dailies.POST("/reactivate", deps.dailies.Reactivate)
			dailies.GET("/:id", deps.dailies.GetDaily)
			dailies.PUT("/:id", deps.dailies.UpdateDaily)
			dailies.DELETE("/:id", deps.dailies.DeleteDaily)
			dailies.POST("/:id/archive", deps.dailies.ArchiveDaily)
			dailies.POST("/:id/complete", deps.dailies.CompleteDaily)
			dailies.GET("/:id/history", deps.dailies.GetHistory)
		}

		habits := protected.Group("/habits")
		{
			habits.GET("", deps.habits.GetUserHabits)
			habits.POST("", deps.habits.CreateHabit)
			habits.GET("/availability", deps.habits.GetAvailability)
			habits.PUT("/:id", deps.habits.UpdateHabit)
			habits.DELETE("/:id", deps.habits.DeleteHabit)
			habits.POST("/:id/archive", deps.habits.ArchiveHabit)
			habits.POST("/:id/count", deps.habits.AddCount)
			habits.POST("/:id/complete", deps.habits.CompleteHabit)
			habits.GET("/:id/history", deps.habits.GetHistory)
		}

		todos := protected.Group("/todos")
		{
			todos.GET("", deps.todos.GetUserTodos)
			todos.POST("", deps.todos.CreateTodo)
			todos.GET("/search", deps.todos.SearchTodos)
			todos.GET("/overdue", deps.todos.GetOverdueTodos)
			todos.GET("/upcoming", deps.todos.GetUpcomingTodos)
			todos.GET("/tags", deps.todos.GetUserTags)
			todos.GET("/stats", deps.todos.GetTodoStats)
			todos.PUT("/:id", deps.todos.UpdateTodo)
			todos.DELETE("/:id", deps.todos.DeleteTodo)
			todos.POST("/:id/toggle", deps.todos.ToggleTodoComplete)
		}

		protected.GET("/stats", deps.stats.GetUserStats)
	}

	return router
}
