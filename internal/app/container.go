package app

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/unispace-app/unispace-backend/internal/api"
	"github.com/unispace-app/unispace-backend/internal/auth"
	"github.com/unispace-app/unispace-backend/internal/booking"
	"github.com/unispace-app/unispace-backend/internal/facility"
	"github.com/unispace-app/unispace-backend/internal/photo"
	"github.com/unispace-app/unispace-backend/internal/pkg/metrics"
	"github.com/unispace-app/unispace-backend/internal/pkg/storage"
	"github.com/unispace-app/unispace-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int
	StorageDir   string
	ServiceName  string
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	// Shared components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	store, err := storage.NewLocalStorage(cfg.StorageDir)
	if err != nil {
		return nil, fmt.Errorf("init local storage: %w", err)
	}

	appMetrics := metrics.New(cfg.ServiceName)

	// User module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher)

	// Facility module
	facilityRepo := facility.NewPgxRepository(cfg.DBPool)
	facilityService := facility.NewService(facilityRepo)

	// Photo module
	photoRepo := photo.NewPgxRepository(cfg.DBPool)
	photoService := photo.NewService(photoRepo, store)

	// Booking module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(bookingRepo, facilityService)

	// Router
	router := api.NewRouter(api.Config{
		IsProduction:    cfg.IsProduction,
		ProdOrigins:     cfg.ProdOrigins,
		UserService:     userService,
		FacilityService: facilityService,
		BookingService:  bookingService,
		PhotoService:    photoService,
		JWTManager:      jwtManager,
		Metrics:         appMetrics,
	})

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
	}, nil
}
