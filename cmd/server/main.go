package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"coursefeedback/internal/analytics"
	"coursefeedback/internal/cache"
	"coursefeedback/internal/config"
	"coursefeedback/internal/events"
	"coursefeedback/internal/logging"
	"coursefeedback/internal/metrics"
	"coursefeedback/internal/repository"
	"coursefeedback/internal/service"
	"coursefeedback/internal/transport/rest"
	"coursefeedback/internal/transport/ws"
)

// @title Course Feedback Analytics API
// @version 1.0
// @description Course feedback collection with sentiment, keyword and performance analytics
// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}

	logger, err := logging.New("course-feedback", cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, "init logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
	logger.Info("server exited")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	defer mongoClient.Disconnect(context.Background())

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		return fmt.Errorf("ping mongo: %w", err)
	}
	db := mongoClient.Database(cfg.MongoDatabase)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	logger.Info("connected to mongo", zap.String("database", cfg.MongoDatabase))

	// Redis connection
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr()})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr()))

	m := metrics.New("course_feedback")

	// Events are optional; submissions still work without NATS
	var publisher events.Publisher = events.Noop{}
	var bus *events.Bus
	if cfg.NATSURL != "" {
		bus, err = events.Connect(cfg.NATSURL, cfg.NATSSubject, logger, events.Options{})
		if err != nil {
			logger.Warn("nats unavailable, events disabled", zap.Error(err))
		} else {
			defer bus.Close()
			publisher = bus
		}
	}
	publisher = events.Instrument(publisher, m)

	// Repositories
	users := repository.NewUserRepo(db)
	courses := repository.NewCourseRepo(db)
	enrollments := repository.NewEnrollmentRepo(db)
	materials := repository.NewMaterialRepo(db)
	forms := repository.NewFormRepo(db)
	responses := repository.NewResponseRepo(db)
	snapshots := repository.NewSnapshotRepo(db)

	// Caches
	analyticsCache := cache.NewAnalyticsCache(rdb, cfg.AnalyticsCacheTTL)
	ranking := cache.NewRankingCache(rdb)

	engine := analytics.NewEngine(analytics.WithTopN(cfg.KeywordTopN))

	// Services
	authSvc := service.NewAuthService(users, cfg.JWTSecret, cfg.TokenTTL)
	userSvc := service.NewUserService(users)
	courseSvc := service.NewCourseService(courses, enrollments, materials, forms, users)
	formSvc := service.NewFormService(forms, courses, responses, analyticsCache, publisher, logger)
	analyticsSvc := service.NewAnalyticsService(engine, courses, enrollments, responses, users, snapshots, analyticsCache, ranking, logger)
	exportSvc := service.NewExportService(analyticsSvc)

	wsHub := ws.NewHub(m, logger)
	defer wsHub.Stop()

	analyticsSvc.SetBroadcaster(wsHub)
	analyticsSvc.SetRecorder(m)

	subDone := make(chan struct{})
	if bus != nil {
		go func() {
			defer close(subDone)
			handler := events.InstrumentHandler(analyticsSvc.HandleFeedbackEvent, m)
			if err := bus.Subscribe(ctx, handler); err != nil {
				logger.Error("feedback subscriber stopped", zap.Error(err))
			}
		}()
	} else {
		close(subDone)
	}

	container := &rest.Container{
		AuthService:        authSvc,
		UserService:        userSvc,
		CourseService:      courseSvc,
		FormService:        formSvc,
		AnalyticsService:   analyticsSvc,
		ExportService:      exportSvc,
		WSHub:              wsHub,
		Metrics:            m,
		Logger:             logger,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		LoginRatePerMinute: cfg.LoginRatePerMinute,
		LoginBurst:         cfg.LoginBurst,
		TrustProxyHeaders:  cfg.TrustProxyHeaders,
		Ready: func(r *http.Request) error {
			if err := mongoClient.Ping(r.Context(), nil); err != nil {
				return fmt.Errorf("mongo: %w", err)
			}
			if err := rdb.Ping(r.Context()).Err(); err != nil {
				return fmt.Errorf("redis: %w", err)
			}
			return nil
		},
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           rest.NewRouter(container),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}
	logger.Info("shutting down server")
	stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	select {
	case <-subDone:
	case <-shutdownCtx.Done():
		logger.Warn("feedback subscriber did not drain in time")
	}
	return nil
}
