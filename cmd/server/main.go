//go:build !js && !wasm

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/himanishpuri/erasviz/internal/config"
	"github.com/himanishpuri/erasviz/pkg/erasviz"
	"github.com/himanishpuri/erasviz/pkg/logger"
)

var (
	configPath  string
	port        int
	logRequests bool
)

func init() {
	flag.StringVar(&configPath, "config", getEnvOrDefault("ERASVIZ_CONFIG", config.DefaultPath), "Path to YAML configuration")
	flag.IntVar(&port, "port", 0, "HTTP server port (overrides config)")
	flag.BoolVar(&logRequests, "log-requests", false, "Log every HTTP request")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	flag.Parse()
	log := logger.GetLogger()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if port != 0 {
		cfg.Server.Port = port
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts, release, err := cfg.EngineOptions(ctx, log)
	if err != nil {
		log.Fatalf("Failed to configure engine: %v", err)
	}
	defer release()

	engine, err := erasviz.New(opts...)
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}
	defer engine.Close()

	server := NewServer(engine, &ServerConfig{
		Port:           cfg.Server.Port,
		ConfigPath:     configPath,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		LogRequests:    logRequests,
	})

	if err := server.Start(ctx); err != nil {
		log.Errorf("Server failed: %v", err)
		return
	}
	log.Infof("Shut down")
}
