package buildCFG

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"
)

// Getter is the subset of *config.Config the builders read from.
type Getter interface {
	GetString(key string) string
	GetInt(key string) int
	GetDuration(key string) time.Duration
	GetStringSlice(key string) []string
}

var ErrMissingValue = errors.New("required configuration value is missing")

type ServerConfig struct {
	Port            string
	ShutdownTimeout time.Duration
}

type RabbitConfig struct {
	Url            string
	Exchange       string
	CheckInQueue   string
	CheckInBinding string
}

type AdminConfig struct {
	Username     string
	PasswordHash string
	JWTSecret    string
	TokenTTL     time.Duration
}

func BuildServerConfig(cfg Getter, log *zerolog.Logger) ServerConfig {
	port := cfg.GetString("server.port")
	if port == "" {
		port = "8080"
		log.Warn().Msg("server.port not set, using 8080")
	}

	timeout := cfg.GetDuration("server.shutdown_timeout")
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return ServerConfig{Port: port, ShutdownTimeout: timeout}
}

func BuildDBConfig(cfg Getter, log *zerolog.Logger) (string, []string, *dbpg.Options, error) {
	masterDSN := cfg.GetString("database.master_dsn")
	if masterDSN == "" {
		return "", nil, nil, fmt.Errorf("%w: database.master_dsn", ErrMissingValue)
	}
	slaveDSNs := cfg.GetStringSlice("database.slave_dsns")

	opts := &dbpg.Options{
		MaxOpenConns:    cfg.GetInt("database.max_open_conns"),
		MaxIdleConns:    cfg.GetInt("database.max_idle_conns"),
		ConnMaxLifetime: cfg.GetDuration("database.conn_max_lifetime"),
	}
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = 10
	}
	if opts.MaxIdleConns <= 0 {
		opts.MaxIdleConns = 5
	}
	if opts.ConnMaxLifetime <= 0 {
		opts.ConnMaxLifetime = 30 * time.Minute
	}

	log.Debug().
		Int("slaves", len(slaveDSNs)).
		Int("max_open_conns", opts.MaxOpenConns).
		Msg("database config built")

	return masterDSN, slaveDSNs, opts, nil
}

func BuildRabbitConfig(cfg Getter, log *zerolog.Logger) (RabbitConfig, error) {
	rc := RabbitConfig{
		Url:            cfg.GetString("rabbitmq.url"),
		Exchange:       cfg.GetString("rabbitmq.exchange"),
		CheckInQueue:   cfg.GetString("rabbitmq.checkin_queue"),
		CheckInBinding: cfg.GetString("rabbitmq.checkin_binding"),
	}
	if rc.Url == "" {
		return RabbitConfig{}, fmt.Errorf("%w: rabbitmq.url", ErrMissingValue)
	}
	if rc.Exchange == "" {
		rc.Exchange = "registrations"
	}
	if rc.CheckInQueue == "" {
		rc.CheckInQueue = "registration.checkin"
	}
	if rc.CheckInBinding == "" {
		rc.CheckInBinding = "checkin.scan"
	}

	log.Debug().
		Str("exchange", rc.Exchange).
		Str("queue", rc.CheckInQueue).
		Msg("rabbitmq config built")

	return rc, nil
}

// BuildAdminConfig fails on any missing credential; there are no built-in
// fallback accounts.
func BuildAdminConfig(cfg Getter, log *zerolog.Logger) (AdminConfig, error) {
	ac := AdminConfig{
		Username:     cfg.GetString("admin.username"),
		PasswordHash: cfg.GetString("admin.password_hash"),
		JWTSecret:    cfg.GetString("admin.jwt_secret"),
		TokenTTL:     cfg.GetDuration("admin.token_ttl"),
	}

	for key, v := range map[string]string{
		"admin.username":      ac.Username,
		"admin.password_hash": ac.PasswordHash,
		"admin.jwt_secret":    ac.JWTSecret,
	} {
		if v == "" {
			return AdminConfig{}, fmt.Errorf("%w: %s", ErrMissingValue, key)
		}
	}

	if ac.TokenTTL <= 0 {
		ac.TokenTTL = 12 * time.Hour
		log.Debug().Msg("admin.token_ttl not set, using 12h")
	}
	return ac, nil
}
