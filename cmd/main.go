package main

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "heating_profiles/docs"
	"heating_profiles/internal/handlers"
	"heating_profiles/internal/logger"
	"heating_profiles/internal/repository"
	"heating_profiles/internal/repository/db"
	"heating_profiles/internal/server"
	"heating_profiles/internal/service"

	"github.com/spf13/viper"
)

// @title                       Heating Profiles API
// @version                     1.0
// @description                 Zones, temperature controllers and piecewise heating curves.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	v, err := loadConfig()

	// init logger
	log := logger.Get(v.GetString("log.level"))
	if err != nil {
		log.Fatalw("error reading config", "err", err)
	}
	defer func() { _ = log.Sync() }()

	if v.GetString("auth.signing_key") == "" {
		log.Fatalw("auth.signing_key is not set (HEATING_AUTH_SIGNING_KEY)")
	}

	sqlDB, err := openDB(v, log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(sqlDB)
	services := service.NewService(repos, serviceConfig(v), log)
	apiHandler := handlers.NewHandler(services, log.Component("http"))

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tick := v.GetDuration("sim.tick")
	go services.Simulator.Run(ctx, tick)
	log.Infow("simulator_started", "tick", tick, "workers", v.GetInt("sim.workers"))

	srv := server.New(server.Config{
		Port:              v.GetString("port"),
		ReadHeaderTimeout: v.GetDuration("http.read_header_timeout"),
		WriteTimeout:      v.GetDuration("http.write_timeout"),
		IdleTimeout:       v.GetDuration("http.idle_timeout"),
	}, apiHandler.InitRoutes())
	runHTTPServer(srv, log)
	log.Infow("http_server_started", "port", v.GetString("port"))

	waitForShutdown(cancel, srv, v.GetDuration("http.shutdown_timeout"), log)
}

// loadConfig reads configs/config.yml on top of built-in defaults. Every key
// can be overridden from the environment, e.g. HEATING_SIM_TICK=500ms. A
// missing config file is not an error.
func loadConfig() (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("heating")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.AddConfigPath("configs") // configs/config.yml
	v.SetConfigName("config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return v, err
		}
	}
	return v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("db.path", "app.db")
	v.SetDefault("log.level", logger.InfoLevel)

	v.SetDefault("http.read_header_timeout", 10*time.Second)
	v.SetDefault("http.write_timeout", 10*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)
	v.SetDefault("http.shutdown_timeout", 10*time.Second)

	v.SetDefault("sim.tick", time.Second)
	v.SetDefault("sim.noise_c", 0.5)
	v.SetDefault("sim.ambient_c", 25.0)
	v.SetDefault("sim.workers", 4)
	v.SetDefault("sim.telemetry_every", 10*time.Second)

	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", time.Hour)
}

func serviceConfig(v *viper.Viper) service.Config {
	return service.Config{
		SigningKey:     v.GetString("auth.signing_key"),
		TokenTTL:       v.GetDuration("auth.token_ttl"),
		AmbientC:       v.GetFloat64("sim.ambient_c"),
		NoiseC:         v.GetFloat64("sim.noise_c"),
		Workers:        v.GetInt("sim.workers"),
		TelemetryEvery: v.GetDuration("sim.telemetry_every"),
	}
}

// openDB initializes the SQLite database using configuration.
func openDB(v *viper.Viper, log *logger.Logger) (*sql.DB, error) {
	path := v.GetString("db.path")
	log.Infow("opening sqlite", "path", path)
	return db.InitDB(path)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, log *logger.Logger) {
	go func() {
		if err := srv.Run(); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, timeout time.Duration, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop the simulator
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
