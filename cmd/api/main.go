package main

//go:generate swag init -g main.go -d ./,../../internal -o ../../docs

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"omekan/config"
	_ "omekan/docs"
	"omekan/internal/adapters/auth"
	"omekan/internal/adapters/cache"
	"omekan/internal/adapters/email"
	"omekan/internal/adapters/storage"
	httpdelivery "omekan/internal/delivery/http"
	"omekan/internal/delivery/http/controllers"
	"omekan/internal/domain"
	"omekan/internal/repository/postgres"
	"omekan/internal/services"
)

const tokenIssuer = "omekan-api"

// @title Omekan API
// @version 1.0
// @description Multilingual event directory for diaspora communities.
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Example: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := config.NewLogger(cfg)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	startCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	db, err := postgres.Open(startCtx, cfg.DBUrl, postgres.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := postgres.Migrate(startCtx, db); err != nil {
			return err
		}
		logger.Info("database migrated")
	}
	dbx := postgres.NewSQLX(db)

	lookupCache, closeCache := newCache(startCtx, cfg, logger)
	defer closeCache()

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES:         sesConfig(cfg),
	}, logger)
	if err != nil {
		return err
	}
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		return err
	}
	emailService := services.NewEmailService(mailer, renderer, logger)

	objectStorage, uploads := newStorage(cfg, logger)

	jwt := auth.NewJWT(cfg.JWTSecret, tokenIssuer)
	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)

	eventRepo := postgres.NewEventRepository(db)
	relationRepo := postgres.NewRelationRepository(db)
	userRepo := postgres.NewUserRepository(db)
	organizerRepo := postgres.NewOrganizerRepository(dbx)
	communityRepo := postgres.NewCommunityRepository(dbx)
	categoryRepo := postgres.NewCategoryRepository(dbx)
	artistRepo := postgres.NewArtistRepository(dbx)

	eventService := services.NewEventService(eventRepo, relationRepo, organizerRepo, cfg.DefaultLanguage, cfg.DefaultOrganizerID, cfg.ContextTimeout)
	lookupService := services.NewLookupService(communityRepo, categoryRepo, artistRepo, lookupCache, cfg.CacheTTL, logger, cfg.ContextTimeout)
	authService := services.NewAuthService(userRepo, hasher, jwt, cfg.JWTExpiry, emailService, logger, cfg.ContextTimeout)
	adminService := services.NewAdminService(userRepo, organizerRepo, cfg.ContextTimeout)
	uploadService := services.NewUploadService(objectStorage, cfg.UploadMaxBytes, cfg.ContextTimeout)

	router := httpdelivery.NewRouter(httpdelivery.Controllers{
		Event:   controllers.NewEventController(logger, eventService),
		Lookup:  controllers.NewLookupController(logger, lookupService),
		Auth:    controllers.NewAuthController(logger, authService),
		Admin:   controllers.NewAdminController(logger, adminService),
		Upload:  controllers.NewUploadController(logger, uploadService, cfg.UploadMaxBytes),
		Health:  controllers.NewHealthController(logger, db),
		Uploads: uploads,
	}, jwt, cfg.CORSAllowedOrigins, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down server", "signal", sig.String())
	}

	ctx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	logger.Info("server exited")
	return nil
}

// newCache connects to Redis when REDIS_ADDR is set. Without it, or when
// Redis is unreachable, lookups go straight to the database.
func newCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (domain.Cache, func()) {
	if cfg.RedisAddr == "" {
		return cache.NewNoop(), func() {}
	}
	client, err := cache.NewRedisClient(ctx, cache.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		logger.Warn("redis unavailable, caching disabled", "error", err)
		return cache.NewNoop(), func() {}
	}
	return cache.NewRedisCache(client, "omekan:"), func() { _ = client.Close() }
}

// newStorage picks S3 when a bucket is configured and the local disk otherwise.
// The returned handler is non-nil only for local storage.
func newStorage(cfg *config.Config, logger *slog.Logger) (domain.ObjectStorage, http.Handler) {
	if cfg.UploadBucket != "" {
		logger.Info("storing uploads in s3", "bucket", cfg.UploadBucket)
		return storage.NewS3Storage(email.NewAWSConfig(sesConfig(cfg)), storage.S3Config{
			Bucket:        cfg.UploadBucket,
			PublicBaseURL: cfg.UploadPublicBaseURL,
			Region:        cfg.AWSRegion,
		}), nil
	}
	baseURL := cfg.UploadPublicBaseURL
	if baseURL == "" {
		baseURL = "/uploads"
	}
	logger.Info("storing uploads on disk", "dir", cfg.UploadDir)
	return storage.NewLocalStorage(cfg.UploadDir, baseURL), http.FileServer(http.Dir(cfg.UploadDir))
}

func sesConfig(cfg *config.Config) email.SESConfig {
	return email.SESConfig{
		Region:             cfg.AWSRegion,
		AccessKeyID:        cfg.AWSAccessKeyID,
		SecretAccessKey:    cfg.AWSSecretAccessKey,
		InsecureSkipVerify: cfg.SESInsecureSkipVerify,
	}
}
