// Package bootstrap assembles the application dependency graph
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/crestview/chronicle/internal/app/controllers"
	appMigrations "github.com/crestview/chronicle/internal/app/migrations"
	appRepos "github.com/crestview/chronicle/internal/app/repositories"
	appRoutes "github.com/crestview/chronicle/internal/app/routes"
	appServices "github.com/crestview/chronicle/internal/app/services"
	"github.com/crestview/chronicle/internal/config"
	"github.com/crestview/chronicle/internal/db"
	appMiddleware "github.com/crestview/chronicle/internal/middleware"
	pkgAuth "github.com/crestview/chronicle/internal/pkg/auth"
	"github.com/crestview/chronicle/internal/pkg/email"
	"github.com/crestview/chronicle/internal/pkg/filestorage"
	"github.com/crestview/chronicle/internal/pkg/helpers"
	"github.com/crestview/chronicle/internal/pkg/logger"
	"github.com/crestview/chronicle/internal/pkg/realtime"
	"github.com/crestview/chronicle/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos                 *appRepos.Repositories
	JWTService            *pkgAuth.JWTService
	EmailService          *email.EmailService
	FileStorage           *filestorage.LocalStorage
	Hub                   *realtime.Hub
	RedisBridge           *realtime.RedisBridge
	AuthService           *appServices.AuthService
	ChatService           *appServices.ChatService
	AuthController        *appControllers.AuthController
	CatalogController     *appControllers.CatalogController
	NoticeController      *appControllers.NoticeController
	MaterialController    *appControllers.MaterialController
	QuizController        *appControllers.QuizController
	DiscussionController  *appControllers.DiscussionController
	ChatController        *appControllers.ChatController
	TimelineController    *appControllers.TimelineController
	CertificateController *appControllers.CertificateController
	AdminController       *appControllers.AdminController
	Logger                zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the connection pool, runs migrations and seeds
// default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	pool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.RunMigrations(ctx, pool, "migrations"); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		pool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations applied")

	if err := seed.CreateDefaultData(ctx, pool, lgr); err != nil {
		// Seeding failures are logged but do not block startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return pool, nil
}

// BuildDependencies initializes repositories, services and controllers
func BuildDependencies(cfg *config.Config, pool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(pool)

	baseURL := cfg.Server.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:" + cfg.Server.Port
	}

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, baseURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.EmailService = email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
	})

	// Realtime hub; an optional redis bridge fans events out across instances
	deps.Hub = realtime.NewHub()
	if cfg.Redis.Addr != "" {
		bridge, err := realtime.NewRedisBridge(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, deps.Hub)
		if err != nil {
			lgr.Error().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to connect to redis, running without bridge")
		} else {
			deps.Hub.SetBridge(bridge)
			deps.RedisBridge = bridge
			lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Redis realtime bridge connected")
		}
	}

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.StudentRepository,
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		deps.Repos.PasswordResetTokenRepository,
		deps.Repos.CourseRepository,
		deps.JWTService,
		deps.EmailService,
		deps.FileStorage,
		baseURL,
	)

	courseService := appServices.NewCourseService(deps.Repos.CourseRepository)
	subjectService := appServices.NewSubjectService(deps.Repos.SubjectRepository, deps.Repos.CourseRepository)
	noticeService := appServices.NewNoticeService(deps.Repos.NoticeRepository, deps.FileStorage)
	materialService := appServices.NewMaterialService(
		deps.Repos.MaterialRepository,
		deps.Repos.CourseRepository,
		deps.Repos.SubjectRepository,
		deps.FileStorage,
	)
	quizService := appServices.NewQuizService(deps.Repos.QuizRepository)
	discussionService := appServices.NewDiscussionService(deps.Repos.DiscussionRepository, deps.FileStorage)
	deps.ChatService = appServices.NewChatService(
		deps.Repos.ChatRepository,
		deps.Repos.StudentRepository,
		deps.Repos.UserRepository,
		deps.FileStorage,
		deps.Hub,
	)
	timelineService := appServices.NewTimelineService(deps.Repos.TimelineRepository, deps.FileStorage)
	certificateService := appServices.NewCertificateService(
		deps.Repos.CertificateRepository,
		deps.Repos.StudentRepository,
		deps.EmailService,
	)
	analyticsService := appServices.NewAnalyticsService(deps.Repos.AnalyticsRepository)
	userService := appServices.NewUserService(
		deps.Repos.UserRepository,
		deps.Repos.StudentRepository,
		deps.Repos.TokenRepository,
	)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.CatalogController = appControllers.NewCatalogController(courseService, subjectService, lgr)
	deps.NoticeController = appControllers.NewNoticeController(noticeService, lgr)
	deps.MaterialController = appControllers.NewMaterialController(materialService, lgr)
	deps.QuizController = appControllers.NewQuizController(quizService, lgr)
	deps.DiscussionController = appControllers.NewDiscussionController(discussionService, deps.AuthService, lgr)
	deps.ChatController = appControllers.NewChatController(deps.ChatService, deps.AuthService, deps.Hub, lgr)
	deps.TimelineController = appControllers.NewTimelineController(timelineService, deps.AuthService, lgr)
	deps.CertificateController = appControllers.NewCertificateController(certificateService, lgr)
	deps.AdminController = appControllers.NewAdminController(userService, analyticsService, lgr)

	return deps, nil
}

// SetupRouter configures the gin engine with middleware and routes
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger())
	router.Use(appMiddleware.CORS(cfg.CORSOrigins()))

	appRoutes.SetupRouter(router,
		deps.JWTService,
		deps.AuthController,
		deps.CatalogController,
		deps.NoticeController,
		deps.MaterialController,
		deps.QuizController,
		deps.DiscussionController,
		deps.ChatController,
		deps.TimelineController,
		deps.CertificateController,
		deps.AdminController,
		cfg.Server.StoragePath,
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}
