package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"semillero.org/semillerodigital/internal/config"
	"semillero.org/semillerodigital/internal/middleware"
	"semillero.org/semillerodigital/pkg/googleauth"
	"semillero.org/semillerodigital/pkg/token"

	classroomHttp "semillero.org/semillerodigital/internal/modules/classroom/delivery/http"
	classroomRepo "semillero.org/semillerodigital/internal/modules/classroom/repository"
	classroomService "semillero.org/semillerodigital/internal/modules/classroom/service"

	coordinatorHttp "semillero.org/semillerodigital/internal/modules/coordinator/delivery/http"
	coordinatorService "semillero.org/semillerodigital/internal/modules/coordinator/service"

	notifHttp "semillero.org/semillerodigital/internal/modules/notification/delivery/http"
	notifRepo "semillero.org/semillerodigital/internal/modules/notification/repository"
	notifService "semillero.org/semillerodigital/internal/modules/notification/service"

	studentHttp "semillero.org/semillerodigital/internal/modules/student/delivery/http"
	studentService "semillero.org/semillerodigital/internal/modules/student/service"

	teacherHttp "semillero.org/semillerodigital/internal/modules/teacher/delivery/http"
	teacherService "semillero.org/semillerodigital/internal/modules/teacher/service"

	userHttp "semillero.org/semillerodigital/internal/modules/user/delivery/http"
	userRepo "semillero.org/semillerodigital/internal/modules/user/repository"
	userService "semillero.org/semillerodigital/internal/modules/user/service"

	"semillero.org/semillerodigital/internal/entity"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	users := userRepo.NewUserRepository(db)
	courses := classroomRepo.NewCourseRepository(db)
	notifications := notifRepo.NewNotificationRepository(db)

	tokens := token.NewService(cfg.JWTSecret, cfg.JWTExpire)
	googleClient := googleauth.NewClient(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)

	notificationSvc := notifService.NewNotificationService(notifications, redisClient)
	notificationHandler := notifHttp.NewNotificationHandler(notificationSvc, redisClient)

	authSvc := userService.NewAuthService(users, googleClient, tokens, cfg.CoordinatorDomains, cfg.TeacherDomains)
	authHandler := userHttp.NewAuthHandler(authSvc, cfg.FrontendURL)

	classroomSvc := classroomService.NewClassroomService(classroomService.NewGoogleClassroomAPI(), courses, users, notificationSvc)
	classroomHandler := classroomHttp.NewClassroomHandler(classroomSvc)

	studentSvc := studentService.NewStudentService(users)
	studentHandler := studentHttp.NewStudentHandler(studentSvc)

	teacherSvc := teacherService.NewTeacherService(users)
	teacherHandler := teacherHttp.NewTeacherHandler(teacherSvc)

	coordinatorSvc := coordinatorService.NewCoordinatorService(users, courses, notificationSvc)
	coordinatorHandler := coordinatorHttp.NewCoordinatorHandler(coordinatorSvc)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	setupCORS(router, cfg)
	router.Use(middleware.RateLimit(redisClient, cfg.RateLimitWindow, cfg.RateLimitMax))

	authMiddleware := middleware.NewAuthMiddleware(users, tokens)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "OK",
			"message":     "Semillero Digital Backend está funcionando",
			"timestamp":   time.Now(),
			"environment": cfg.AppEnv,
		})
	})

	// Browser-facing OAuth redirect. Google sends the user here; the handler
	// forwards the code to the SPA, which posts it back through the API.
	router.GET("/auth/google/callback", authHandler.GoogleCallbackRedirect)

	api := router.Group("/api")

	// Public routes (no auth required)
	auth := api.Group("/auth")
	{
		auth.GET("/google", authHandler.GoogleAuthURL)
		auth.POST("/google/callback", authHandler.GoogleCallback)
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	// Protected routes (apply auth middleware explicitly)
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.GET("/auth/me", authHandler.Me)
		protected.POST("/auth/refresh", authHandler.RefreshGoogleToken)
		protected.POST("/auth/logout", authHandler.Logout)

		// Classroom routes. ListCourses handles missing tokens itself so the
		// client gets the requiresGoogleAuth hint; the per-course routes go
		// through RequireGoogleToken.
		courseRoutes := protected.Group("/classroom/courses")
		{
			courseRoutes.GET("", classroomHandler.ListCourses)

			courseScoped := courseRoutes.Group("/:courseId")
			courseScoped.Use(authMiddleware.RequireGoogleToken())
			{
				courseScoped.GET("/students", classroomHandler.ListStudents)
				courseScoped.GET("/coursework", classroomHandler.ListCoursework)
				courseScoped.GET("/announcements", classroomHandler.ListAnnouncements)
			}
		}

		// Student routes
		students := protected.Group("/students")
		{
			students.GET("", authMiddleware.RequireRoles(entity.RoleTeacher, entity.RoleCoordinator, entity.RoleAdmin), studentHandler.ListStudents)
			students.GET("/:id", studentHandler.GetStudent)
			students.PUT("/:id", studentHandler.UpdateStudent)
		}

		// Teacher routes
		protected.GET("/teachers", teacherHandler.ListTeachers)

		// Coordinator routes
		coordinators := protected.Group("/coordinators")
		coordinators.Use(authMiddleware.RequireRoles(entity.RoleCoordinator, entity.RoleAdmin))
		{
			coordinators.GET("/dashboard", coordinatorHandler.Dashboard)
			coordinators.GET("/reports/attendance", coordinatorHandler.AttendanceReport)
			coordinators.GET("/reports/progress", coordinatorHandler.ProgressReport)
			coordinators.GET("/users", coordinatorHandler.ListUsers)
			coordinators.PUT("/users/:userId/role", coordinatorHandler.UpdateUserRole)
		}

		// Notification routes
		notificationsGroup := protected.Group("/notifications")
		{
			notificationsGroup.GET("", notificationHandler.GetNotifications)
			notificationsGroup.POST("/mark-read", notificationHandler.MarkRead)
			notificationsGroup.GET("/ws", notificationHandler.HandleWebSocket)
		}
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

// Engine exposes the router for httptest-driven tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func setupCORS(router *gin.Engine, cfg *config.Config) {
	origins := []string{"http://localhost:3000"}
	if cfg.AllowedOrigins != "" {
		origins = splitOrigins(cfg.AllowedOrigins)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}

func splitOrigins(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
