package api

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/unispace-app/unispace-backend/internal/auth"
	"github.com/unispace-app/unispace-backend/internal/booking"
	bookingHttp "github.com/unispace-app/unispace-backend/internal/booking/http"
	"github.com/unispace-app/unispace-backend/internal/facility"
	facilityHttp "github.com/unispace-app/unispace-backend/internal/facility/http"
	"github.com/unispace-app/unispace-backend/internal/photo"
	photoHttp "github.com/unispace-app/unispace-backend/internal/photo/http"
	"github.com/unispace-app/unispace-backend/internal/pkg/metrics"
	"github.com/unispace-app/unispace-backend/internal/pkg/response"
	"github.com/unispace-app/unispace-backend/internal/user"
	userHttp "github.com/unispace-app/unispace-backend/internal/user/http"
)

// Config holds everything the router needs to assemble its routes.
type Config struct {
	IsProduction    bool
	ProdOrigins     string
	UserService     user.Service
	FacilityService facility.Service
	BookingService  booking.Service
	PhotoService    photo.Service
	JWTManager      *auth.JWTManager
	Metrics         *metrics.Metrics
}

// NewRouter initializes the HTTP router engine.
// It assembles middleware (CORS, Logger, Auth, Metrics) and registers routes for each module.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Logger logs request information; Recovery captures panics and returns 500.
	r.Use(gin.Logger(), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = splitOrigins(cfg.ProdOrigins)
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
		r.GET("/metrics", metrics.Handler())
	}

	// authMiddleware validates that the request carries a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	// adminMiddleware further checks that the authenticated user is an admin.
	adminMiddleware := auth.RequireAdmin()

	// HTTP handlers for each module (injecting Service dependencies).
	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	facilityHandler := facilityHttp.NewHandler(cfg.FacilityService, cfg.PhotoService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)
	photoHandler := photoHttp.NewHandler(cfg.PhotoService)

	// Public file downloads live outside /api so photo URLs stay short.
	photoHttp.RegisterRoutes(&r.RouterGroup, photoHandler)

	api := r.Group("/api")
	{
		api.GET("", apiInfo)
		api.GET("/health", healthCheck)

		userHttp.RegisterRoutes(api, userHandler, authMiddleware, adminMiddleware)
		facilityHttp.RegisterRoutes(api, facilityHandler, authMiddleware, adminMiddleware)
		bookingHttp.RegisterRoutes(api, bookingHandler, authMiddleware, adminMiddleware)
	}

	r.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, "Route not found")
	})

	return r
}

func apiInfo(c *gin.Context) {
	response.OK(c, gin.H{
		"name":    "UniSpace Booking API",
		"version": "1.0",
	}, "Welcome to the UniSpace Booking API")
}

func healthCheck(c *gin.Context) {
	response.OK(c, gin.H{"status": "ok"}, "Service is healthy")
}

// splitOrigins parses a comma-separated origin list from the environment.
func splitOrigins(s string) []string {
	parts := strings.Split(s, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
