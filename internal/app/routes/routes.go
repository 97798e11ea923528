package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/placement/internal/app/controllers"
	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/middleware"
	"github.com/yigit/placement/internal/pkg/ratelimit"
	"github.com/yigit/placement/internal/pkg/websocket"
)

// Handlers bundles every controller the router mounts
type Handlers struct {
	Auth         *controllers.AuthController
	Jobs         *controllers.JobController
	Student      *controllers.StudentController
	Officer      *controllers.OfficerController
	Health       *controllers.HealthController
	Notification *websocket.Handler
}

// LoginLimit throttles the login routes per client address
type LoginLimit struct {
	Limiter  ratelimit.Limiter
	Requests int
	Window   time.Duration
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware, login *LoginLimit) {
	router.GET("/ping", h.Health.Ping)

	api := router.Group("/api")
	api.GET("/health", h.Health.Health)

	throttle := func(scope string) gin.HandlerFunc {
		if login == nil || login.Limiter == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimit(login.Limiter, scope, login.Requests, login.Window)
	}

	// --- Public registration and login ---
	api.POST("/student/register", h.Auth.RegisterStudent)
	api.POST("/student/login", throttle("login:student"), h.Auth.LoginStudent)
	api.POST("/officer/register", h.Auth.RegisterOfficer)
	api.POST("/officer/login", throttle("login:officer"), h.Auth.LoginOfficer)

	studentOnly := authMiddleware.RoleRequired(models.RoleStudent)
	officerOnly := authMiddleware.RoleRequired(models.RoleOfficer)

	// Job directory for students
	jobs := api.Group("/jobs", authMiddleware.JWTAuth(), studentOnly)
	{
		jobs.GET("", h.Jobs.ListEligibleJobs)
		jobs.POST("/:id/apply", h.Jobs.Apply)
	}

	// The websocket route also accepts the token as a query parameter
	api.GET("/student/notifications/ws", authMiddleware.JWTAuthWebSocket(), studentOnly, h.Notification.HandleConnection)

	student := api.Group("/student", authMiddleware.JWTAuth(), studentOnly)
	{
		student.GET("/profile", h.Student.GetProfile)
		student.PUT("/profile", h.Student.UpdateProfile)
		student.GET("/applications", h.Student.ListApplications)
		student.GET("/notifications", h.Student.ListNotifications)
		student.PUT("/notifications/:id/read", h.Student.MarkNotificationRead)
	}

	officer := api.Group("/officer", authMiddleware.JWTAuth(), officerOnly)
	{
		officer.GET("/postings", h.Jobs.ListPostings)
		officer.POST("/postings", h.Jobs.CreatePosting)
		officer.PUT("/postings/:id/status", h.Jobs.SetPostingStatus)

		officer.GET("/students", h.Officer.ListStudents)
		officer.GET("/student/:roll", h.Officer.FindStudentByRoll)

		officer.GET("/applications", h.Officer.ListApplications)
		officer.PUT("/applications/:id/status", h.Officer.SetApplicationStatus)

		officer.GET("/notifications", h.Officer.ListSentNotifications)
		officer.POST("/notifications", h.Officer.Broadcast)
	}
}
