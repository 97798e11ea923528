package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/placement/internal/app/controllers"
	appMigrations "github.com/yigit/placement/internal/app/migrations"
	"github.com/yigit/placement/internal/app/models/dto"
	appRepos "github.com/yigit/placement/internal/app/repositories"
	appRoutes "github.com/yigit/placement/internal/app/routes"
	appServices "github.com/yigit/placement/internal/app/services"
	"github.com/yigit/placement/internal/config"
	"github.com/yigit/placement/internal/db"
	appMiddleware "github.com/yigit/placement/internal/middleware"
	pkgAuth "github.com/yigit/placement/internal/pkg/auth"
	"github.com/yigit/placement/internal/pkg/filestorage"
	"github.com/yigit/placement/internal/pkg/logger"
	"github.com/yigit/placement/internal/pkg/ratelimit"
	"github.com/yigit/placement/internal/pkg/websocket"
	"github.com/yigit/placement/internal/scheduler"
	"github.com/yigit/placement/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos       *appRepos.Repositories
	JWTService  *pkgAuth.JWTService
	FileStorage *filestorage.LocalStorage
	Hub         *websocket.Hub
	Limiter     ratelimit.Limiter
	Redis       *redis.Client // nil when the in-memory limiter is used
	Scheduler   *scheduler.Scheduler

	AuthService         *appServices.AuthService
	JobService          *appServices.JobService
	ApplicationService  *appServices.ApplicationService
	StudentService      *appServices.StudentService
	NotificationService *appServices.NotificationService

	AuthMiddleware *appMiddleware.AuthMiddleware
	Handlers       appRoutes.Handlers

	Logger zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(envFile string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.Config{
		Level:  cfg.Logging.Level,
		Pretty: strings.EqualFold(cfg.Logging.Format, "text"),
	})
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the skill catalog.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	dbPool, err := db.NewPostgresPool(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(dbPool, lgr).Migrate(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if cfg.Seed.Skills {
		if err := seed.Skills(ctx, appRepos.NewSkillRepository(dbPool), lgr); err != nil {
			// The catalog is reference data; the API works without it
			lgr.Error().Err(err).Msg("Failed to seed skill catalog, proceeding anyway...")
		}
	}

	return dbPool, nil
}

// newLimiter prefers Redis so limits hold across instances, falling back to
// process memory when Redis is not configured or unreachable.
func newLimiter(cfg *config.Config, lgr zerolog.Logger) (ratelimit.Limiter, *redis.Client) {
	if cfg.Redis.Addr == "" {
		lgr.Info().Msg("Using in-memory rate limiter")
		return ratelimit.NewMemoryLimiter(), nil
	}

	client, err := ratelimit.NewRedisClient(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		lgr.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unavailable, using in-memory rate limiter")
		return ratelimit.NewMemoryLimiter(), nil
	}
	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Using Redis rate limiter")
	return ratelimit.NewRedisLimiter(client, "placement:ratelimit", lgr), client
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.UploadDir)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey: cfg.JWT.Secret,
		Issuer:    cfg.JWT.Issuer,
	})
	deps.Hub = websocket.NewHub(logger.WithComponent("websocket"))

	if cfg.RateLimit.Enabled {
		deps.Limiter, deps.Redis = newLimiter(cfg, lgr)
	}

	maxUpload := cfg.Server.MaxUploadBytes
	repos := deps.Repos

	deps.AuthService = appServices.NewAuthService(repos.StudentRepository, repos.OfficerRepository, deps.JWTService, lgr)
	deps.JobService = appServices.NewJobService(repos.JobRepository, repos.StudentRepository, time.Now, lgr)
	deps.ApplicationService = appServices.NewApplicationService(
		repos.StudentRepository,
		repos.JobRepository,
		repos.ApplicationRepository,
		deps.FileStorage,
		maxUpload,
		time.Now,
		lgr,
	)
	deps.StudentService = appServices.NewStudentService(repos.StudentRepository, deps.FileStorage, maxUpload, lgr)
	deps.NotificationService = appServices.NewNotificationService(repos.NotificationRepository, deps.Hub, time.Now, lgr)

	deps.Scheduler, err = scheduler.New(deps.JobService, cfg.Scheduler.PostingCloseSchedule, logger.WithComponent("scheduler"))
	if err != nil {
		return nil, err
	}

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.Handlers = appRoutes.Handlers{
		Auth:         appControllers.NewAuthController(deps.AuthService, lgr),
		Jobs:         appControllers.NewJobController(deps.JobService, deps.ApplicationService, maxUpload, lgr),
		Student:      appControllers.NewStudentController(deps.StudentService, deps.ApplicationService, deps.NotificationService, maxUpload, lgr),
		Officer:      appControllers.NewOfficerController(deps.StudentService, deps.ApplicationService, deps.NotificationService, lgr),
		Health:       appControllers.NewHealthController(dbPool, lgr),
		Notification: websocket.NewHandler(deps.Hub, logger.WithComponent("websocket")),
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

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		dto.RegisterTagNames(v)
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(lgr))
	router.MaxMultipartMemory = cfg.Server.MaxUploadBytes

	var login *appRoutes.LoginLimit
	if deps.Limiter != nil {
		login = &appRoutes.LoginLimit{
			Limiter:  deps.Limiter,
			Requests: cfg.RateLimit.Requests,
			Window:   cfg.RateLimit.Window,
		}
	}

	appRoutes.SetupRouter(router, deps.Handlers, deps.AuthMiddleware, login)
	return router
}
