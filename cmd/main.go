package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"morning_heating/internal/config"
	"morning_heating/internal/handlers"
	"morning_heating/internal/logger"
	"morning_heating/internal/server"
	"morning_heating/internal/service"
)

const (
	cmdRun   = "run"
	cmdServe = "serve"

	httpClientTimeout = 30 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// @title        Morning heating status API
// @version      1.0
// @description  Read-only view of the morning heating helper's persisted state.
// @BasePath     /
func main() {
	configPath := flag.String("config", "", "path to config file (default configs/config.yml)")
	flag.Parse()

	cmd := cmdRun
	if flag.NArg() > 0 {
		cmd = flag.Arg(0)
	}

	switch cmd {
	case cmdRun:
		runOnce(*configPath)
	case cmdServe:
		serve(*configPath)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q (want %s or %s)\n", cmd, cmdRun, cmdServe)
		os.Exit(2)
	}
}

// runOnce is the scheduled entry point: one decision, then exit.
func runOnce(configPath string) {
	if err := run(context.Background(), configPath, defaultRunDeps()); err != nil {
		logger.Get(logger.ErrorLevel).Fatalw("run failed", "err", err)
	}
}

// serve exposes the read-only status API until SIGINT/SIGTERM.
func serve(configPath string) {
	log := logger.Get(logger.InfoLevel)

	prefs, err := config.Load(configPath)
	if err != nil {
		log.Fatalw("error reading config", "err", err)
	}

	repos, closeRepos, err := openRepository(prefs)
	if err != nil {
		log.Fatalw("failed to open state store", "err", err, "backend", prefs.State.Backend)
	}
	defer closeRepos()

	services := service.NewService(repos, service.Collaborators{}, log)
	apiHandler := handlers.NewHandler(services, log)

	srv := &server.Server{}
	runHTTPServer(srv, prefs.HTTP.Port, apiHandler, log)
	waitForShutdown(srv, log)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("status api listening", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
