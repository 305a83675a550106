package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"interruptlog/internal/app"
	"interruptlog/internal/config"
	"interruptlog/internal/ui"
)

var (
	configPath = flag.String("c", "", "Path to configuration file (e.g., config.yaml). Defaults to ./config.yaml, ~/.config/interruptlog/config.yaml, /etc/interruptlog/config.yaml")
	logPath    = flag.String("log", "", "Path to log file (default: log_file from config, else ~/.config/interruptlog/interruptlog.log)")
	dbPath     = flag.String("db", "", "Path to the database file (overrides database_path)")
)

// setupLogging sends log output to a file; the terminal belongs to the UI.
func setupLogging(logFilePath string) (*os.File, error) {
	dir := filepath.Dir(logFilePath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	file, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", logFilePath, err)
	}

	log.SetOutput(file)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	log.Printf("Logging to file: %s", logFilePath)
	return file, nil
}

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	if *dbPath != "" {
		cfg.DatabasePath = *dbPath
	}

	target := *logPath
	if target == "" {
		target = cfg.LogFile
	}
	if target == "" {
		target = config.DefaultLogPath()
	}
	logFile, logErr := setupLogging(target)
	if logErr != nil {
		fmt.Fprintf(os.Stderr, "Error setting up file logging: %v. Logging to stderr instead.\n", logErr)
		log.SetOutput(os.Stderr)
		log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	application, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to create application: %v", err)
	}

	runErr := ui.Run(application)
	if err := application.Close(); err != nil {
		log.Printf("Error closing application: %v", err)
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		log.Printf("Application exited with error: %v", runErr)
		os.Exit(1)
	}
	log.Println("interruptlog finished successfully.")
}
