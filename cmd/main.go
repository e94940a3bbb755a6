package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kaua-Lazarim/TesteTuya/internal/config"
	apphttp "github.com/Kaua-Lazarim/TesteTuya/internal/http"
	applogger "github.com/Kaua-Lazarim/TesteTuya/internal/logger"
	"github.com/Kaua-Lazarim/TesteTuya/internal/service"
	"github.com/Kaua-Lazarim/TesteTuya/internal/tuya"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Skipping .env file: %v", err)
	}

	cfg := config.LoadConfig()

	logger, err := applogger.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			log.Printf("Error during logger sync: %v", err)
		}
	}()

	logger.Info("Starting Tuya Cloud Gateway",
		zap.String("version", "1.0.0"),
		zap.String("energy_strategy", cfg.EnergyStrategy))

	if cfg.Tuya.AccessID == "" || cfg.Tuya.AccessSecret == "" {
		logger.Error("TUYA_ACCESS_ID and TUYA_ACCESS_SECRET must be set")
		return
	}
	if cfg.Tuya.UID == "" {
		logger.Error("TUYA_UID must be set")
		return
	}

	tuyaClient := tuya.NewClient(cfg.Tuya, logger)
	deviceService := service.NewDeviceService(tuyaClient, cfg.Tuya.UID, cfg.EnergyStrategy, logger)

	httpServer := apphttp.NewHTTPServer(cfg.RESTPort, deviceService, cfg.AllowedOrigins, logger)
	go func() {
		if err := httpServer.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", zap.Error(err))
			return
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}

	logger.Info("Tuya Cloud Gateway stopped")
}
