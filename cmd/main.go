package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/zlog"

	"expoDesk/cmd/buildCFG"
	"expoDesk/internal/api/api"
	"expoDesk/internal/auth"
	rabbitReader "expoDesk/internal/consumerWorker"
	"expoDesk/internal/rabbit"
	"expoDesk/internal/registration"
	"expoDesk/internal/repo"
	"expoDesk/internal/service"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config")
	rollback := flag.Bool("rollback", false, "roll back all migrations and exit")
	flag.Parse()

	zlog.Init()
	log := zlog.Logger

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatal().Err(err).Msg("failed to read .env")
	}
	cfg := config.New()
	if err := cfg.Load(*configPath, "", "EXPO"); err != nil {
		log.Fatal().Msgf("failed to load configuration: %v", err)
	}
	serverCfg := buildCFG.BuildServerConfig(cfg, &log)

	masterDSN, slaveDSNs, poolOptions, err := buildCFG.BuildDBConfig(cfg, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build DB config")
	}
	db, err := dbpg.New(masterDSN, slaveDSNs, poolOptions)
	if err != nil {
		log.Fatal().Msgf("failed to connect to DB: %v", err)
	}
	log.Info().Msg("Database connected successfully")

	repository, err := repo.NewRepository(db, &log)
	if err != nil {
		log.Fatal().Msgf("failed to initialize repository: %v", err)
	}
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal().Err(err).Msg("cannot get working directory")
	}
	migrationPath := filepath.Join(cwd, "migrations/postgres")

	if *rollback {
		if err := repository.MigrateDown(migrationPath); err != nil {
			log.Fatal().Err(err).Msg("failed to rollback migrations")
		}
		log.Info().Msg("Migrations rolled back successfully")
		return
	}

	if err := repository.MigrateUp(migrationPath); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	log.Info().Msg("Migrations applied successfully")

	adminCfg, err := buildCFG.BuildAdminConfig(cfg, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load admin config")
	}
	authenticator, err := auth.NewAuthenticator(adminCfg.Username, adminCfg.PasswordHash, adminCfg.JWTSecret, adminCfg.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize admin auth")
	}

	rabbitCfg, err := buildCFG.BuildRabbitConfig(cfg, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load RabbitMQ config")
	}
	rmq, err := rabbit.NewRabbit(rabbitCfg.Url, rabbitCfg.Exchange, rabbitCfg.CheckInQueue, rabbitCfg.CheckInBinding)
	if err != nil {
		log.Fatal().Msgf("Failed to connect to RabbitMQ: %v", err)
	}
	defer rmq.Close()

	catalogue := registration.DefaultCatalogue()
	log.Info().Strs("event_types", catalogue.Keys()).Msg("registration profiles loaded")

	submitter := registration.NewSubmitter(repository, rmq, catalogue, &log)
	lifecycle := registration.NewLifecycle(repository, rmq, &log)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	checkInReader := rabbitReader.NewReader(rmq, lifecycle, &log)
	checkInReader.Start(workerCtx)

	serviceInstance := service.NewService(submitter, lifecycle, repository, authenticator, &log)
	app := api.NewRouters(&api.Routers{Service: serviceInstance, Tokens: authenticator})

	srv := &http.Server{
		Addr:    ":" + serverCfg.Port,
		Handler: app,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		log.Info().Msgf("Starting server on %s", serverCfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-signalChan:
		log.Info().Msgf("Received signal %s. Initiating shutdown...", sig)
	case err := <-serverErrChan:
		log.Error().Msgf("Server error: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), serverCfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Msgf("Error shutting down server: %v", err)
	}

	cancelWorkers()
	checkInReader.Stop()

	log.Info().Msg("Shutdown complete")
}
