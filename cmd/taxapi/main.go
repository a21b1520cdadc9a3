package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tax-engine/internal/config"
	"tax-engine/internal/gateway"
	"tax-engine/internal/httpapi"
	"tax-engine/internal/logger"
	"tax-engine/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{Level: cfg.Log.Level, Stage: cfg.Log.Stage})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	if cfg.Log.Stage == logger.ProdStage {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- Dependency Injection (Wiring the application) ---
	var (
		docs    usecase.DocumentRepository
		returns usecase.TaxReturnRepository
		health  httpapi.HealthFunc
	)
	if cfg.Database.DSN != "" {
		pool, err := gateway.OpenPostgres(context.Background(), gateway.PostgresConfig{
			DSN:             cfg.Database.DSN,
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
			MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
			DialTimeout:     cfg.Database.DialTimeout,
		}, zapLogger.Named("postgres"))
		if err != nil {
			zapLogger.Fatal("failed to open database", zap.Error(err))
		}
		defer pool.Close()

		pg := gateway.NewPostgresDocumentRepository(pool, zapLogger.Named("postgres"))
		if err := pg.Migrate(context.Background()); err != nil {
			zapLogger.Fatal("failed to migrate database", zap.Error(err))
		}
		docs, returns, health = pg, pg, pg.Ping
	} else {
		zapLogger.Info("no DATABASE_URL set, reading documents from files", zap.String("dir", cfg.Documents.Dir))
		docs = gateway.NewJSONDocumentRepository(cfg.Documents.Dir, zapLogger.Named("gateway"))
	}

	taxUseCase := usecase.NewTaxCalculationUseCase(docs, returns, zapLogger.Named("usecase"))
	handler := httpapi.NewHandler(taxUseCase, health, cfg.TaxYear, zapLogger.Named("http"))
	router := httpapi.NewRouter(handler, cfg.Server.CORSAllowedOrigins, zapLogger.Named("http"))

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second,
	}
	go func() {
		zapLogger.Info("server starting", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		zapLogger.Error("server forced to shutdown", zap.Error(err))
	}
	zapLogger.Info("server exiting")
}
