package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fathima-sithara/video-service/internal/auth"
	"github.com/fathima-sithara/video-service/internal/config"
	"github.com/fathima-sithara/video-service/internal/db"
	"github.com/fathima-sithara/video-service/internal/events"
	"github.com/fathima-sithara/video-service/internal/handlers"
	"github.com/fathima-sithara/video-service/internal/metrics"
	"github.com/fathima-sithara/video-service/internal/middleware"
	"github.com/fathima-sithara/video-service/internal/repository"
	"github.com/fathima-sithara/video-service/internal/routes"
	service "github.com/fathima-sithara/video-service/internal/services"
	"github.com/fathima-sithara/video-service/internal/storage"
	utils "github.com/fathima-sithara/video-service/internal/utils"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config/config.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		panic(err)
	}

	logger, err := utils.NewLogger(cfg.IsDevelopment(), cfg.Log.Level)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	// repository
	var repo service.VideoRepository
	var mc *mongo.Client
	switch cfg.Database.Driver {
	case "memory":
		logger.Warn("using in-memory video repository, data is not persisted")
		repo = repository.NewInMemoryVideoRepo()
	default:
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		mc, err = db.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.ConnectRetries, logger)
		cancel()
		if err != nil {
			logger.Fatalf("mongo: %v", err)
		}
		col := mc.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)
		vr := repository.NewVideoRepo(col, cfg.Mongo.UsersCollection)
		ictx, icancel := context.WithTimeout(context.Background(), cfg.CallTimeout)
		if err := vr.EnsureIndexes(ictx); err != nil {
			logger.Warnw("index setup failed", "err", err)
		}
		icancel()
		repo = vr
	}

	// media store
	store, mediaDir, err := newStore(cfg, logger)
	if err != nil {
		logger.Fatalf("media store: %v", err)
	}

	// events
	var pub service.EventPublisher
	var kafkaPub *events.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPub = events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		pub = kafkaPub
	}

	svc := service.NewVideoService(repo, store, pub, logger, service.Options{
		CallTimeout:   cfg.CallTimeout,
		UploadTimeout: cfg.UploadTimeout,
		PlaybackTTL:   cfg.PresignTTL,
		MaxLimit:      cfg.Pagination.MaxLimit,
	})

	verifier, err := auth.NewJWTVerifier(cfg.JWT.PublicKeyPath, cfg.JWT.Secret)
	if err != nil {
		logger.Fatalf("jwt init: %v", err)
	}

	// rate limiting
	var rdb *redis.Client
	var limiter fiber.Handler
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		limiter = middleware.NewRateLimiter(rdb, "video-service:rl", cfg.Redis.RateLimit, cfg.RateWindow, logger).
			MiddlewareByKey(middleware.CallerKey)
	} else {
		rps := float64(cfg.Redis.RateLimit) / cfg.RateWindow.Seconds()
		limiter = middleware.NewLocalRateLimiter(rps, cfg.Redis.RateLimit).MiddlewareByKey(middleware.CallerKey)
	}

	m := metrics.New()
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.UploadTimeout,
		WriteTimeout: cfg.UploadTimeout,
		BodyLimit:    cfg.App.MaxBodyMB << 20,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return utils.RenderError(c, err)
		},
	})
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(middleware.Metrics(m))

	h := handlers.NewHandler(svc, handlers.UploadLimits{
		TempDir:       cfg.Upload.TempDir,
		MaxVideoBytes: cfg.Upload.MaxVideoBytes,
		MaxImageBytes: cfg.Upload.MaxImageBytes,
	}, logger)
	routes.Register(app, h, routes.Options{
		Auth:     middleware.JWTAuth(verifier),
		Limiter:  limiter,
		Metrics:  m,
		MediaDir: mediaDir,
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.App.Port)
		logger.Infof("starting video service on %s", addr)
		if err := app.Listen(addr); err != nil {
			logger.Fatalf("listen failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown requested")
	timeoutCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(timeoutCtx); err != nil {
		logger.Warnw("http shutdown", "err", err)
	}
	if kafkaPub != nil {
		_ = kafkaPub.Close()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if mc != nil {
		_ = mc.Disconnect(timeoutCtx)
	}
	logger.Info("shutdown completed")
}

// newStore builds the configured media store behind a circuit breaker. The
// returned directory is non-empty when media must be served by this process.
func newStore(cfg *config.Config, logger *zap.SugaredLogger) (storage.Store, string, error) {
	prober := storage.NewFFProbe(cfg.Storage.FFProbeBin)
	var (
		inner    storage.Store
		mediaDir string
		err      error
	)
	switch cfg.Storage.Driver {
	case "local":
		if cfg.Storage.LocalPath == "" {
			return nil, "", errors.New("storage.local_path is required for the local driver")
		}
		inner, err = storage.NewLocalStore(cfg.Storage.LocalPath, cfg.Storage.LocalBaseURL, prober, logger)
		mediaDir = cfg.Storage.LocalPath
	case "s3":
		inner, err = storage.NewS3Store(context.Background(), storage.S3Options{
			Region:        cfg.AWS.Region,
			Bucket:        cfg.AWS.Bucket,
			Endpoint:      cfg.AWS.Endpoint,
			PublicBaseURL: cfg.S3.PublicBaseURL,
			PublicRead:    cfg.S3.PublicRead,
		}, prober, logger)
	default:
		return nil, "", fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	if err != nil {
		return nil, "", err
	}
	return storage.NewBreakerStore(inner, storage.BreakerOptions{
		Name:             "media-store-" + cfg.Storage.Driver,
		FailureThreshold: cfg.Storage.BreakerFails,
		OpenTimeout:      cfg.BreakerTimeout,
	}, logger), mediaDir, nil
}
