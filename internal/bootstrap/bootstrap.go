package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/alumniconnect/internal/app/controllers"
	appMigrations "github.com/yigit/alumniconnect/internal/app/migrations"
	appRepos "github.com/yigit/alumniconnect/internal/app/repositories"
	appRoutes "github.com/yigit/alumniconnect/internal/app/routes"
	appServices "github.com/yigit/alumniconnect/internal/app/services"
	"github.com/yigit/alumniconnect/internal/config"
	"github.com/yigit/alumniconnect/internal/db"
	appMiddleware "github.com/yigit/alumniconnect/internal/middleware"
	pkgAuth "github.com/yigit/alumniconnect/internal/pkg/auth"
	"github.com/yigit/alumniconnect/internal/pkg/email"
	"github.com/yigit/alumniconnect/internal/pkg/filestorage"
	"github.com/yigit/alumniconnect/internal/pkg/logger"
	"github.com/yigit/alumniconnect/internal/pkg/realtime"
	"github.com/yigit/alumniconnect/internal/pkg/validation"
	"github.com/yigit/alumniconnect/internal/scheduler"
	"github.com/yigit/alumniconnect/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	FileStorage    *filestorage.LocalStorage
	Hub            *realtime.Hub
	Scheduler      *scheduler.Scheduler
	AuthMiddleware *appMiddleware.AuthMiddleware
	Controllers    appRoutes.Controllers
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, applies migrations and seeds default data.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator, err := appMigrations.NewMigrator(database.Pool, lgr)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}
	defer migrator.Close()

	if err := migrator.Up(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	repos := appRepos.NewRepositories(database.Pool)
	stores := seed.Stores{
		Users:    repos.Users,
		Jobs:     repos.Jobs,
		Webinars: repos.Webinars,
		Events:   repos.Events,
		Forum:    repos.Forum,
	}
	opts := seed.Options{
		AdminEmail:    cfg.Seed.AdminEmail,
		AdminPassword: cfg.Seed.AdminPassword,
		AdminName:     cfg.Seed.AdminName,
		DemoData:      cfg.Seed.DemoData,
	}
	if err := seed.CreateDefaultData(ctx, stores, opts, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	if err := validation.RegisterWithGin(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	deps := &Dependencies{Logger: lgr}
	deps.Repos = appRepos.NewRepositories(database.Pool)
	repos := deps.Repos

	// Must match the static file serving path in SetupRouter
	fileStorageBaseURL := strings.TrimRight(cfg.Server.PublicURL, "/") + "/uploads"
	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, fileStorageBaseURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  cfg.AccessTokenTTL(),
		RefreshTokenExp: cfg.RefreshTokenTTL(),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	mailer := email.NewSMTPMailer(email.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}, logger.With("mailer"))

	deps.Hub = realtime.NewHub(logger.With("realtime"))
	notifications := appServices.NewNotificationService(repos.Notifications, deps.Hub, lgr)

	authService := appServices.NewAuthService(repos.Users, repos.Tokens, repos.Profiles, deps.JWTService, mailer, cfg.Server.PublicURL, lgr)
	profileService := appServices.NewProfileService(repos.Users, repos.Profiles, deps.FileStorage, lgr)
	directoryService := appServices.NewDirectoryService(repos.Profiles)
	mentorshipService := appServices.NewMentorshipService(repos.Sessions, repos.Users, repos.Profiles, notifications, deps.Hub, mailer, lgr)
	webinarService := appServices.NewWebinarService(repos.Webinars, repos.Users, notifications, deps.Hub, lgr)
	jobService := appServices.NewJobService(repos.Jobs, repos.Users, repos.Documents, notifications, deps.Hub, lgr)
	forumService := appServices.NewForumService(repos.Forum, repos.Users, notifications, deps.Hub, lgr)
	documentService := appServices.NewDocumentService(repos.Documents, deps.FileStorage, notifications, deps.Hub, lgr)
	eventService := appServices.NewEventService(repos.Events, lgr)
	adminService := appServices.NewAdminService(repos.Users, repos.Profiles, repos.Tokens, repos.Stats, notifications, deps.Hub, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, repos.Users)

	deps.Controllers = appRoutes.Controllers{
		Auth:         appControllers.NewAuthController(authService, lgr),
		Profile:      appControllers.NewProfileController(profileService, lgr),
		Directory:    appControllers.NewDirectoryController(directoryService),
		Mentorship:   appControllers.NewMentorshipController(mentorshipService, lgr),
		Webinar:      appControllers.NewWebinarController(webinarService),
		Job:          appControllers.NewJobController(jobService, lgr),
		Forum:        appControllers.NewForumController(forumService),
		Document:     appControllers.NewDocumentController(documentService, lgr),
		Event:        appControllers.NewEventController(eventService),
		Notification: appControllers.NewNotificationController(notifications),
		Admin:        appControllers.NewAdminController(adminService, lgr),
		Realtime:     appControllers.NewRealtimeController(deps.Hub, cfg.Server.AllowedOrigins, lgr),
	}

	if cfg.Scheduler.Enabled {
		deps.Scheduler = scheduler.NewScheduler(mentorshipService, jobService, webinarService, cfg.SchedulerInterval(), logger.With("scheduler"))
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(logger.With("http")))
	router.Use(appMiddleware.CORS(cfg.Server.AllowedOrigins))

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	router.Static("/uploads", cfg.Server.StoragePath)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
