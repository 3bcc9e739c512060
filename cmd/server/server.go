package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/reviewpulse/trackserver/cmd"
	"github.com/reviewpulse/trackserver/internal/api"
	"github.com/reviewpulse/trackserver/internal/config"
	"github.com/reviewpulse/trackserver/internal/logger"
	"github.com/reviewpulse/trackserver/internal/metrics"
	"github.com/reviewpulse/trackserver/internal/models"
	"github.com/reviewpulse/trackserver/internal/monitor"
	"github.com/reviewpulse/trackserver/internal/repository"
	"github.com/reviewpulse/trackserver/internal/services"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RunServerCmd represents the 'run-server' command, the entry point for the
// tracking HTTP server.
var RunServerCmd = &cobra.Command{
	Use:   "run-server",
	Short: "Starts the review tracking HTTP server.",
	Long: `This command connects to the database, runs migrations, wires the
tracking handler and starts the HTTP server together with the background
redirect target monitor.`,
	Run: func(cobraCmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		zlog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
		defer zlog.Sync()

		// The store is constructed once at startup; if it cannot be opened
		// the process fails loudly instead of serving with a broken stub.
		db, err := gorm.Open(sqlite.Open(cfg.Database.Name), &gorm.Config{})
		if err != nil {
			zlog.Fatal("failed to connect to database", zap.Error(err))
		}

		if err := db.AutoMigrate(
			&models.Customer{},
			&models.Business{},
			&models.ReviewRequest{},
			&models.Event{},
		); err != nil {
			zlog.Fatal("failed to migrate database", zap.Error(err))
		}

		requestRepo := repository.NewReviewRequestRepository(db)
		eventRepo := repository.NewEventRepository(db)

		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector())
		m := metrics.New(registry)

		trackingService := services.NewTrackingService(requestRepo, eventRepo, m, zlog)
		zlog.Info("repositories and services initialized")

		// Background monitor probing the redirect destinations
		monitorCtx, stopMonitor := context.WithCancel(context.Background())
		defer stopMonitor()
		monitorInterval := time.Duration(cfg.Monitor.IntervalMinutes) * time.Minute
		redirectMonitor := monitor.NewRedirectMonitor(requestRepo, monitorInterval, zlog)
		go redirectMonitor.Start(monitorCtx)

		gin.SetMode(gin.ReleaseMode)
		router := gin.New()
		router.Use(gin.Recovery())
		router.Use(api.RequestLoggerMiddleware(zlog))
		router.Use(api.SecurityHeadersMiddleware())
		router.Use(api.CORSMiddleware(cfg.Server.AllowedOrigins))
		api.SetupRoutes(router, trackingService, registry, zlog)
		zlog.Info("routes configured")

		serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
		srv := &http.Server{
			Addr:    serverAddr,
			Handler: router,
		}

		go func() {
			zlog.Info("starting server", zap.String("addr", serverAddr))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				zlog.Fatal("server failed", zap.Error(err))
			}
		}()

		// Block until SIGINT/SIGTERM, then drain in-flight connections.
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		zlog.Info("shutdown signal received, stopping server")

		stopMonitor()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zlog.Error("forced shutdown", zap.Error(err))
		}

		zlog.Info("server stopped cleanly")
	},
}

func init() {
	cmd.RootCmd.AddCommand(RunServerCmd)
}
