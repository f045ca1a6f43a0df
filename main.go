package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"PrintApp/app/config"
	"PrintApp/app/database"
	"PrintApp/app/printing"
	"PrintApp/app/services"
	"PrintApp/app/websocket"

	"github.com/joho/godotenv"
)

func main() {
	logger := services.NewLoggerService()
	defer logger.Close()
	defer logger.RecoverPanic("main")

	logger.LogInfo("Starting receipt print agent")

	// .env overrides are optional in production, handy in development.
	if err := godotenv.Load(); err == nil {
		logger.LogInfo("Loaded environment overrides from .env")
	}

	cfg, err := loadOrCreateConfig(logger)
	if err != nil {
		logger.LogFatal("Configuration failed", err)
	}

	configPath, err := config.GetConfigPath()
	if err != nil {
		logger.LogFatal("Could not resolve data directory", err)
	}
	dbPath := filepath.Join(filepath.Dir(configPath), "printapp.db")
	if err := database.Initialize(dbPath); err != nil {
		logger.LogFatal("Database initialization failed", err)
	}
	defer database.Close()

	dispatcher := printing.NewDispatcher(buildEngines(cfg)...)
	directory := services.NewPrinterDirectoryService()
	printService := services.NewPrintService(dispatcher, directory, logger)

	if engine, fallback, err := dispatcher.SelectEngine(); err != nil {
		logger.LogWarning("No print engine available yet: " + err.Error())
	} else if fallback {
		logger.LogWarning("Preferred engine unavailable, falling back to " + engine.Name())
	} else {
		logger.LogInfo("Print engine ready: " + engine.Name())
	}

	addr := fmt.Sprintf(":%d", cfg.Feed.Port)
	server := websocket.NewServer(addr, printService, cfg.VerifyAccessToken)
	go func() {
		defer logger.RecoverPanic("order feed")
		if err := server.Start(); err != nil {
			logger.LogFatal("Order feed server failed", err)
		}
	}()

	logger.LogInfo("Print agent ready, waiting for orders on " + addr)
	logger.CleanOldLogs(30)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.LogInfo("Shutting down")
	server.Stop()
}

// loadOrCreateConfig loads the existing configuration or writes the
// defaults on first run.
func loadOrCreateConfig(logger *services.LoggerService) (*config.AppConfig, error) {
	exists, err := config.ConfigExists()
	if err != nil {
		return nil, err
	}
	if !exists {
		logger.LogInfo("First run, creating default configuration")
		return config.CreateDefaultConfig()
	}
	return config.LoadConfig()
}

// buildEngines assembles the render engines in the operator's preference
// order. Unknown names are skipped with a warning.
func buildEngines(cfg *config.AppConfig) []printing.Engine {
	engines := make([]printing.Engine, 0, len(cfg.Printing.EnginePreference))
	for _, name := range cfg.Printing.EnginePreference {
		switch name {
		case printing.EngineHelper:
			engines = append(engines, printing.NewHelperEngine(cfg.Printing.HelperPath, nil))
		case printing.EngineNative:
			engines = append(engines, printing.NewNativeEngine(printing.NewSystemRawPrinter()))
		case printing.EnginePage:
			// No page-composition capability is attached in the headless
			// agent; the engine still surfaces its virtual placeholder.
			engines = append(engines, printing.NewPageEngine(nil))
		default:
			log.Printf("Unknown engine %q in preference list, skipping", name)
		}
	}
	return engines
}
