package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"pitchside/marketplace-backend/internal/analysis"
	"pitchside/marketplace-backend/internal/auth"
	"pitchside/marketplace-backend/internal/config"
	"pitchside/marketplace-backend/internal/documents"
	"pitchside/marketplace-backend/internal/geocode"
	"pitchside/marketplace-backend/internal/guard"
	"pitchside/marketplace-backend/internal/notifications"
	ws "pitchside/marketplace-backend/internal/notifications/websocket"
	"pitchside/marketplace-backend/internal/offers"
	"pitchside/marketplace-backend/internal/onboarding"
	"pitchside/marketplace-backend/internal/profiles"
	"pitchside/marketplace-backend/internal/settings"
	"pitchside/marketplace-backend/pkg/pdf"
	"pitchside/marketplace-backend/pkg/storage"
)

// emailDirectory resolves notification recipients through the user
// store.
type emailDirectory struct {
	repo auth.Repository
}

func (d *emailDirectory) EmailFor(ctx context.Context, userID uuid.UUID) (string, error) {
	user, err := d.repo.GetUserByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", fmt.Errorf("user %s not found", userID)
	}
	return user.Email, nil
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(configPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := buildLogger(cfg.Logging.Level)
	defer logger.Sync()

	ctx := context.Background()

	// Database connections. sqlx for the repositories, gorm for the
	// notifications store.
	dbURL := cfg.Database.GetDatabaseURL()
	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxConnections)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	gormDB, err := gorm.Open(gormpostgres.Open(dbURL), &gorm.Config{})
	if err != nil {
		logger.Fatal("failed to open gorm connection", zap.Error(err))
	}

	// Notifications: persisted toasts, websocket push, optional email.
	wsManager := ws.NewManager(logger)
	defer wsManager.Close()

	authRepo := auth.NewRepository(db)

	var emailer notifications.Emailer
	if cfg.Notifications.EmailEnabled {
		sesEmailer, err := notifications.NewSESEmailer(ctx, cfg.Storage.Region, cfg.Notifications.EmailFrom)
		if err != nil {
			logger.Fatal("failed to initialize ses emailer", zap.Error(err))
		}
		emailer = sesEmailer
	}

	settingsService := settings.NewService(settings.NewRepository(db), logger)
	settingsHandler := settings.NewHandler(settingsService, logger)

	notifService, err := notifications.NewService(gormDB, wsManager, emailer, &emailDirectory{repo: authRepo}, settingsService, &cfg.Notifications, logger)
	if err != nil {
		logger.Fatal("failed to initialize notifications", zap.Error(err))
	}
	notifHandler := notifications.NewHandler(notifService, wsManager, logger)

	// Onboarding, profiles, geocoding.
	resolver := onboarding.NewResolver(logger)
	geocoder := geocode.NewClient(cfg.Geocode.APIKey, cfg.Geocode.BaseURL, logger)
	geocodeFn := geocode.NewFunction(geocoder, logger)

	profileRepo := profiles.NewRepository(db)
	profileService := profiles.NewService(profileRepo, resolver, geocoder, notifService, logger)
	profileHandler := profiles.NewHandler(profileService, resolver, logger)

	// Offers: autosave, lifecycle, marketplace, one-pager export.
	offerRepo := offers.NewRepository(db)
	autosave := offers.NewAutosaveController(offerRepo, notifService, 2*time.Second, logger)
	offerService := offers.NewService(offerRepo, autosave, pdf.NewGenerator(), notifService, logger)
	offerHandler := offers.NewHandler(offerService, profileService, logger)

	cleaner := offers.NewCleaner(offerRepo, cfg.Cleanup.StaleAfter, logger)

	// One sweep at boot clears drafts abandoned while the server was
	// down; later sweeps run per login and on the cron worker.
	go func() {
		sweepCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
		defer cancel()
		if deleted := cleaner.SweepAll(sweepCtx); deleted > 0 {
			logger.Info("startup draft sweep finished", zap.Int("deleted", deleted))
		}
	}()

	// Auth wires the cleaner so each login sweeps that user's
	// abandoned drafts.
	authService := auth.NewService(authRepo, &cfg.Auth, cleaner, logger)
	authHandler := auth.NewHandler(authService, logger)

	// Website analysis seeding draft offers.
	analysisService := analysis.NewService(offerService, logger)
	analysisHandler := analysis.NewHandler(analysisService, logger)

	// Pitch deck uploads.
	store, err := storage.NewS3Store(ctx, cfg.Storage.Region)
	if err != nil {
		logger.Fatal("failed to initialize object storage", zap.Error(err))
	}
	docRepo := documents.NewRepository(db)
	docService := documents.NewService(docRepo, store, &cfg.Storage, logger)
	docHandler := documents.NewHandler(docService, logger)

	routeGuard := guard.New(resolver)
	guardHandler := guard.NewHandler(routeGuard, profileService, logger)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
		})
	})

	api := router.Group("/api/v1")
	{
		authHandler.RegisterRoutes(api)

		// Same handler as the standalone function, so clients can hit
		// either deployment.
		api.POST("/geocode", gin.WrapF(geocodeFn.Handle))

		authenticated := api.Group("")
		authenticated.Use(auth.Middleware(&cfg.Auth))
		authenticated.Use(guard.Middleware(routeGuard, profileService, logger))
		{
			profileHandler.RegisterRoutes(authenticated)
			offerHandler.RegisterRoutes(authenticated)
			analysisHandler.RegisterRoutes(authenticated)
			docHandler.RegisterRoutes(authenticated)
			notifHandler.RegisterRoutes(authenticated)
			settingsHandler.RegisterRoutes(authenticated)
			guardHandler.RegisterRoutes(authenticated)
		}
	}

	srv := &http.Server{
		Addr:         cfg.Server.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	logger.Info("server started", zap.String("addr", srv.Addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exiting")
}

func configPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "config.json"
}

func buildLogger(level string) *zap.Logger {
	var logger *zap.Logger
	var err error
	if level == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
