package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/vrischmann/envconfig"

	"github.com/dadepo/rpki-mcp/api/httpserver"
	"github.com/dadepo/rpki-mcp/rp"
	"github.com/dadepo/rpki-mcp/tools"
)

const version = "0.1.0"

// Config is the process configuration. The endpoint may come from the
// environment or the first positional argument; the argument wins.
type Config struct {
	Endpoint string `envconfig:"RPKI_ENDPOINT,optional"`
	LogPath  string `envconfig:"RPKI_LOG_PATH,default=logs/rpki_mcp.log"`
	LogLevel string `envconfig:"RPKI_LOG_LEVEL,default=debug"`
	HTTPAddr string `envconfig:"RPKI_HTTP_ADDR,optional"`
}

func loggerLevelFromString(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "error":
		return zerolog.ErrorLevel
	case "warn":
		return zerolog.WarnLevel
	case "info":
		return zerolog.InfoLevel
	case "debug":
		return zerolog.DebugLevel
	}
	return zerolog.DebugLevel
}

func main() {
	httpAddr := flag.String("http", "", "serve the debug HTTP mirror on this address (overrides RPKI_HTTP_ADDR)")
	flag.Parse()

	cfg := Config{}
	if err := envconfig.Init(&cfg); err != nil {
		fatal(fmt.Errorf("read config: %w", err))
	}
	if endpoint := flag.Arg(0); endpoint != "" {
		cfg.Endpoint = endpoint
	}
	if *httpAddr != "" {
		cfg.HTTPAddr = *httpAddr
	}

	endpoint, err := rp.ParseEndpoint(cfg.Endpoint)
	if err != nil {
		fatal(err)
	}

	// The log file is the only sink; stdout belongs to the stdio protocol.
	logFile, err := openLogFile(cfg.LogPath)
	if err != nil {
		fatal(fmt.Errorf("open log file: %w", err))
	}
	defer logFile.Close()

	log := zerolog.New(logFile).
		Level(loggerLevelFromString(cfg.LogLevel)).
		With().Timestamp().Logger()

	client := rp.NewClient(endpoint, nil, log)
	service := tools.NewService(client, log)
	srv := tools.NewServer(service, version)

	var debugSrv *httpserver.Server
	if cfg.HTTPAddr != "" {
		debugSrv = httpserver.New(httpserver.Config{
			ListenAddr:   cfg.HTTPAddr,
			Log:          log,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
		}, httpserver.NewHandler(client, log))
		debugSrv.RunInBackground()
	}

	log.Info().
		Str("endpoint", string(endpoint)).
		Str("version", version).
		Msg("serving MCP over stdio")

	if err := server.ServeStdio(srv); err != nil {
		log.Error().Err(err).Msg("stdio server failed")
		fatal(fmt.Errorf("stdio server: %w", err))
	}

	if debugSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := debugSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("HTTP shutdown failed")
		}
	}
	log.Info().Msg("shutdown complete")
}

// openLogFile opens the persistent append-only log, creating its directory
// on first run.
func openLogFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

// fatal reports a startup error on stderr and aborts with a non-zero exit.
// Per-operation errors never come through here.
func fatal(err error) {
	fmt.Fprintf(os.Stderr, "rpki-mcp: %v\n", err)
	os.Exit(1)
}
