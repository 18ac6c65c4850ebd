package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/openlearn/education-platform/docs"
	"github.com/openlearn/education-platform/internal/api/handler"
	"github.com/openlearn/education-platform/internal/api/middleware"
	"github.com/openlearn/education-platform/internal/core/domain"
	"github.com/openlearn/education-platform/internal/core/ports"
	"github.com/openlearn/education-platform/pkg/logger"
)

// Deps carries the wired services the router needs.
type Deps struct {
	Auth    ports.AuthService
	Tokens  ports.TokenService
	Courses ports.CourseService
	Users   ports.UserRepository
	Mongo   *mongo.Database
	Redis   *redis.Client
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(logger.Get())

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("education"))

	authHandler := handler.NewAuthHandler(deps.Auth)
	courseHandler := handler.NewCourseHandler(deps.Courses)
	dashboardHandler := handler.NewDashboardHandler(deps.Courses, deps.Users)
	authMiddleware := middleware.Auth(deps.Tokens)

	v1 := e.Group("/api/v1")

	// --- Auth routes ---
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)
	v1.GET("/auth/me", authHandler.Me, authMiddleware)

	// --- Course routes (any authenticated role may browse) ---
	courses := v1.Group("/courses", authMiddleware)
	courses.GET("", courseHandler.List)
	courses.GET("/:id", courseHandler.Get)
	courses.POST("", courseHandler.Create, middleware.RBAC(domain.RoleTeacher, domain.RoleAdmin))
	courses.POST("/:id/enroll", courseHandler.Enroll, middleware.RBAC(domain.RoleStudent))

	// --- Role-gated dashboards ---
	dashboard := v1.Group("/dashboard", authMiddleware)
	dashboard.GET("/student", dashboardHandler.Student, middleware.RBAC(domain.RoleStudent))
	dashboard.GET("/teacher", dashboardHandler.Teacher, middleware.RBAC(domain.RoleTeacher))
	dashboard.GET("/admin", dashboardHandler.Admin, middleware.RBAC(domain.RoleAdmin))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Observability and docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
