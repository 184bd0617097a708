package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.mongodb.org/mongo-driver/mongo"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	natsadapter "github.com/ilanmarket/listing-service/internal/adapter/messaging/nats"
	"github.com/ilanmarket/listing-service/internal/adapter/repository/cache"
	"github.com/ilanmarket/listing-service/internal/adapter/repository/mongodb"
	"github.com/ilanmarket/listing-service/internal/adapter/sanitizer"
	"github.com/ilanmarket/listing-service/internal/adapter/storage/s3"
	"github.com/ilanmarket/listing-service/internal/adapter/translator"
	"github.com/ilanmarket/listing-service/internal/config"
	"github.com/ilanmarket/listing-service/internal/listing/usecase"
	"github.com/ilanmarket/listing-service/internal/platform/logger"
	"github.com/ilanmarket/listing-service/internal/platform/metrics"
	"github.com/ilanmarket/listing-service/internal/platform/tracer"
	httpport "github.com/ilanmarket/listing-service/internal/port/http"
)

// App owns every long-lived component and their shutdown order.
type App struct {
	cfg            *config.Config
	log            *zap.Logger
	httpServer     *http.Server
	metricsManager *metrics.MetricsManager
	tracerProvider *sdktrace.TracerProvider
	mongoClient    *mongo.Client
	listingCache   *cache.ListingCache
	publisher      *natsadapter.Publisher
}

func New(cfg *config.Config) (*App, error) {
	log, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}
	log.Info("logger initialized", zap.String("service", cfg.ServiceName))

	tracerProvider := tracer.InitTracer(cfg.ServiceName, cfg.Tracing.OTLPEndpoint, log)
	metricsManager := metrics.NewMetricsManager(cfg.ServiceName)

	mongoClient, err := mongodb.NewMongoDBConnection(&cfg.Mongo)
	if err != nil {
		return nil, fmt.Errorf("initialize mongo client: %w", err)
	}
	log.Info("mongo client initialized", zap.String("database", cfg.Mongo.Database))

	db := mongoClient.Database(cfg.Mongo.Database)

	listingRepo, err := mongodb.NewListingRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("initialize listing repository: %w", err)
	}
	translationRepo, err := mongodb.NewTranslationRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("initialize translation repository: %w", err)
	}
	mediaRepo, err := mongodb.NewMediaRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("initialize media repository: %w", err)
	}
	transactor := mongodb.NewTransactor(mongoClient)

	listingCache, err := cache.NewListingCache(&cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("initialize redis cache: %w", err)
	}
	log.Info("redis cache initialized", zap.String("addr", cfg.Redis.Addr))

	publisher, err := natsadapter.NewPublisher(cfg.NATS.URL, log, cfg.ServiceName)
	if err != nil {
		return nil, fmt.Errorf("initialize nats publisher: %w", err)
	}

	assetStore, err := s3.NewS3Storage(&cfg.Minio, log)
	if err != nil {
		return nil, fmt.Errorf("initialize asset store: %w", err)
	}
	log.Info("asset store initialized", zap.String("bucket", cfg.Minio.Bucket))

	htmlSanitizer := sanitizer.NewHTMLSanitizer()
	httpTranslator := translator.NewHTTPTranslator(&cfg.Translator, log)

	writeUC := usecase.NewWriteUsecase(
		listingRepo, translationRepo, mediaRepo, transactor,
		httpTranslator, htmlSanitizer, listingCache, publisher, log,
	)
	readUC := usecase.NewReadUsecase(listingRepo, translationRepo, mediaRepo, listingCache, log)

	handler := httpport.NewHandler(writeUC, readUC, assetStore, metricsManager, log)
	router := httpport.NewRouter(handler, cfg.JWT.Secret, metricsManager, log)

	httpServer := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	return &App{
		cfg:            cfg,
		log:            log,
		httpServer:     httpServer,
		metricsManager: metricsManager,
		tracerProvider: tracerProvider,
		mongoClient:    mongoClient,
		listingCache:   listingCache,
		publisher:      publisher,
	}, nil
}

// Run starts the HTTP and metrics servers and blocks until a shutdown signal
// arrives, then stops everything in reverse dependency order.
func (a *App) Run() {
	go func() {
		a.log.Info("http server starting", zap.String("port", a.cfg.HTTP.Port))
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Fatal("http server failed", zap.Error(err))
		}
	}()

	go func() {
		if err := metrics.StartMetricsServer(a.cfg.Metrics.Port, a.log, a.metricsManager.Registry); err != nil && err != http.ErrServerClosed {
			a.log.Error("metrics server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	a.log.Info("shutdown signal received", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.log.Error("http server shutdown failed", zap.Error(err))
	}

	a.publisher.Close()

	if err := a.listingCache.Close(); err != nil {
		a.log.Error("failed to close redis client", zap.Error(err))
	}

	if err := a.mongoClient.Disconnect(shutdownCtx); err != nil {
		a.log.Error("failed to disconnect from mongo", zap.Error(err))
	}

	if err := a.tracerProvider.Shutdown(shutdownCtx); err != nil {
		a.log.Error("failed to shut down tracer provider", zap.Error(err))
	}

	a.log.Info("application stopped")
}
