package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/openclep/clepfinder/docs" // Import generated swagger docs
	appControllers "github.com/openclep/clepfinder/internal/app/controllers"
	appMigrations "github.com/openclep/clepfinder/internal/app/migrations"
	"github.com/openclep/clepfinder/internal/app/models"
	appRepos "github.com/openclep/clepfinder/internal/app/repositories"
	appRoutes "github.com/openclep/clepfinder/internal/app/routes"
	appServices "github.com/openclep/clepfinder/internal/app/services"
	"github.com/openclep/clepfinder/internal/config"
	"github.com/openclep/clepfinder/internal/db"
	appMiddleware "github.com/openclep/clepfinder/internal/middleware"
	"github.com/openclep/clepfinder/internal/pkg/assistant"
	pkgAuth "github.com/openclep/clepfinder/internal/pkg/auth"
	"github.com/openclep/clepfinder/internal/pkg/cache"
	"github.com/openclep/clepfinder/internal/pkg/email"
	"github.com/openclep/clepfinder/internal/pkg/geocode"
	"github.com/openclep/clepfinder/internal/pkg/helpers"
	"github.com/openclep/clepfinder/internal/pkg/logger"
	"github.com/openclep/clepfinder/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	InstitutionService    appServices.InstitutionService // Interface type
	PortalService         appServices.PortalService      // Interface type
	FeedbackService       appServices.FeedbackService    // Interface type
	ChatService           appServices.ChatService        // Interface type
	AuthService           appServices.AuthService        // Interface type
	AuthController        *appControllers.AuthController
	InstitutionController *appControllers.InstitutionController
	FeedbackController    *appControllers.FeedbackController
	ChatController        *appControllers.ChatController
	PortalController      *appControllers.PortalController
	AuthMiddleware        *appMiddleware.AuthMiddleware // Pointer to middleware struct
	Repos                 *appRepos.Repositories        // Include the main repo container
	JWTService            *pkgAuth.JWTService
	Assistant             assistant.Assistant
	Geocoder              geocode.Geocoder
	Notifier              email.EmailService
	Logger                zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err // Return zero logger and the error
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger // Get the configured global logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// ingests the raw institution records when the tables are empty.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	// Run migrations
	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	// Seed institution data (after migrations, first boot only)
	if err := seed.LoadInstitutionData(context.Background(), dbPool, cfg.Seed.DataFile, lgr); err != nil {
		// Log the error but don't necessarily fail the startup
		lgr.Error().Err(err).Msg("Failed to load institution data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	// Initialize the Gemini assistant. Without an API key the chat
	// endpoints stay registered but answer 503.
	gemini, err := assistant.NewGemini(context.Background(), cfg.Assistant.APIKey, cfg.Assistant.Model)
	if err != nil {
		lgr.Warn().Err(err).Msg("Assistant disabled, chat endpoints will report unavailable")
		deps.Assistant = assistant.Unavailable{}
	} else {
		deps.Assistant = gemini
	}

	deps.Geocoder = geocode.NewNominatim(cfg.Geocoder.BaseURL, cfg.Geocoder.UserAgent)

	deps.Notifier = email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		AdminTo:   cfg.SMTP.AdminTo,
	}, lgr)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenExp:    helpers.ParseDuration(cfg.JWT.TokenExpiration, 12*time.Hour),
		TokenIssuer: cfg.JWT.Issuer,
	})

	// Initialize services
	institutionCache := cache.NewTTL[[]*models.Institution](
		helpers.ParseDuration(cfg.Cache.InstitutionTTL, 5*time.Minute),
		cache.SystemClock{},
	)

	deps.InstitutionService = appServices.NewInstitutionService(
		deps.Repos.InstitutionRepository,
		deps.Repos.OverrideRepository,
		institutionCache,
	)
	deps.PortalService = appServices.NewPortalService(
		deps.Repos.OverrideRepository,
		deps.Repos.InstitutionRepository,
		deps.InstitutionService,
		deps.Notifier,
	)
	deps.FeedbackService = appServices.NewFeedbackService()
	deps.ChatService = appServices.NewChatService(deps.Assistant, deps.InstitutionService, deps.PortalService)
	deps.AuthService = appServices.NewAuthService(deps.JWTService, deps.Repos.InstitutionRepository, cfg.Admin.PasswordHash)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.InstitutionController = appControllers.NewInstitutionController(deps.InstitutionService, deps.Geocoder)
	deps.FeedbackController = appControllers.NewFeedbackController(deps.FeedbackService)
	deps.ChatController = appControllers.NewChatController(deps.ChatService)
	deps.PortalController = appControllers.NewPortalController(deps.PortalService, deps.InstitutionService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()

	// Setup Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json"), ginSwagger.DefaultModelsExpandDepth(1)))

	// Setup API routes using the dependencies
	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.InstitutionController,
		deps.FeedbackController,
		deps.ChatController,
		deps.PortalController,
		deps.AuthMiddleware, // Pass the middleware struct itself
	)

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
