package buildCFG

import (
	"errors"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"

	"eventdesk/internal/consumerWorker"
	"eventdesk/internal/mailer"
)

// Getter is the part of the wbf config used here.
type Getter interface {
	GetString(key string) string
	GetInt(key string) int
}

type ServerConfig struct {
	Port              string
	ShutdownTimeout   time.Duration
	MigrationsDir     string
	MigrateDownOnExit bool
}

type RabbitConfig struct {
	Url      string
	Exchange string
	Queue    string
}

type AuthConfig struct {
	Secret            string
	Issuer            string
	RequestsPerMinute int
	Burst             int
}

type WorkspaceConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

// stringOr prefers the environment variable, then the config key, then def.
func stringOr(cfg Getter, env, key, def string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	if v := cfg.GetString(key); v != "" {
		return v
	}
	return def
}

func intOr(cfg Getter, key string, def int) int {
	if v := cfg.GetInt(key); v > 0 {
		return v
	}
	return def
}

func BuildServerConfig(cfg Getter, log *zerolog.Logger) ServerConfig {
	sc := ServerConfig{
		Port:              stringOr(cfg, "SERVER_PORT", "server.port", "8080"),
		ShutdownTimeout:   time.Duration(intOr(cfg, "server.shutdown_timeout_seconds", 10)) * time.Second,
		MigrationsDir:     stringOr(cfg, "MIGRATIONS_DIR", "server.migrations_dir", "migrations/postgres"),
		MigrateDownOnExit: cfg.GetString("server.migrate_down_on_exit") == "true",
	}
	log.Info().
		Str("port", sc.Port).
		Str("migrations", sc.MigrationsDir).
		Msg("server config loaded")
	return sc
}

func BuildDBConfig(cfg Getter, log *zerolog.Logger) (string, []string, *dbpg.Options, error) {
	host := stringOr(cfg, "DB_HOST", "db.host", "localhost")
	port := stringOr(cfg, "DB_PORT", "db.port", "5432")
	user := stringOr(cfg, "DB_USER", "db.user", "")
	password := stringOr(cfg, "DB_PASSWORD", "db.password", "")
	name := stringOr(cfg, "DB_NAME", "db.name", "")
	sslmode := stringOr(cfg, "DB_SSLMODE", "db.sslmode", "disable")
	if user == "" || name == "" {
		return "", nil, nil, errors.New("db.user and db.name are required")
	}

	master := (&url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, password),
		Host:     host + ":" + port,
		Path:     name,
		RawQuery: "sslmode=" + sslmode,
	}).String()

	var slaves []string
	if raw := stringOr(cfg, "DB_SLAVES", "db.slaves", ""); raw != "" {
		for _, dsn := range strings.Split(raw, ",") {
			if dsn = strings.TrimSpace(dsn); dsn != "" {
				slaves = append(slaves, dsn)
			}
		}
	}

	opts := &dbpg.Options{
		MaxOpenConns:    intOr(cfg, "db.max_open_conns", 10),
		MaxIdleConns:    intOr(cfg, "db.max_idle_conns", 5),
		ConnMaxLifetime: time.Duration(intOr(cfg, "db.conn_max_lifetime_minutes", 30)) * time.Minute,
	}
	log.Info().
		Str("host", host).
		Str("database", name).
		Int("slaves", len(slaves)).
		Msg("db config loaded")
	return master, slaves, opts, nil
}

func BuildRabbitConfig(cfg Getter, log *zerolog.Logger) (RabbitConfig, error) {
	rc := RabbitConfig{
		Url:      stringOr(cfg, "RABBIT_URL", "rabbit.url", ""),
		Exchange: stringOr(cfg, "RABBIT_EXCHANGE", "rabbit.exchange", "eventdesk.delayed"),
		Queue:    stringOr(cfg, "RABBIT_QUEUE", "rabbit.queue", "eventdesk.registrations"),
	}
	if rc.Url == "" {
		return RabbitConfig{}, errors.New("rabbit.url is required")
	}
	log.Info().Str("exchange", rc.Exchange).Str("queue", rc.Queue).Msg("rabbit config loaded")
	return rc, nil
}

func BuildMailConfig(cfg Getter, log *zerolog.Logger) (mailer.Config, error) {
	mc := mailer.Config{
		Host:      stringOr(cfg, "SMTP_HOST", "mail.host", ""),
		Port:      intOr(cfg, "mail.port", 587),
		Username:  stringOr(cfg, "SMTP_USERNAME", "mail.username", ""),
		Password:  os.Getenv("SMTP_PASSWORD"),
		FromName:  stringOr(cfg, "SMTP_FROM_NAME", "mail.from_name", "EventDesk"),
		FromEmail: stringOr(cfg, "SMTP_FROM_EMAIL", "mail.from_email", ""),
	}
	if mc.Host == "" || mc.FromEmail == "" {
		return mailer.Config{}, errors.New("mail.host and mail.from_email are required")
	}
	log.Info().Str("host", mc.Host).Int("port", mc.Port).Msg("mail config loaded")
	return mc, nil
}

// BuildAuthConfig reads the token secret from JWT_SECRET only.
func BuildAuthConfig(cfg Getter, log *zerolog.Logger) (AuthConfig, error) {
	ac := AuthConfig{
		Secret:            os.Getenv("JWT_SECRET"),
		Issuer:            stringOr(cfg, "JWT_ISSUER", "auth.issuer", ""),
		RequestsPerMinute: intOr(cfg, "auth.requests_per_minute", 30),
		Burst:             intOr(cfg, "auth.burst", 10),
	}
	if ac.Secret == "" {
		return AuthConfig{}, errors.New("JWT_SECRET is not set")
	}
	log.Info().Str("issuer", ac.Issuer).Int("rpm", ac.RequestsPerMinute).Msg("auth config loaded")
	return ac, nil
}

func BuildWorkspaceConfig(cfg Getter, log *zerolog.Logger) WorkspaceConfig {
	wc := WorkspaceConfig{
		TTL:           time.Duration(intOr(cfg, "workspace.ttl_minutes", 120)) * time.Minute,
		SweepInterval: time.Duration(intOr(cfg, "workspace.sweep_interval_seconds", 60)) * time.Second,
	}
	log.Info().Dur("ttl", wc.TTL).Dur("interval", wc.SweepInterval).Msg("workspace config loaded")
	return wc
}

func BuildWorkerConfig(cfg Getter, log *zerolog.Logger) consumerWorker.Options {
	opts := consumerWorker.Options{
		MaxAttempts:       intOr(cfg, "worker.max_attempts", 5),
		RetryDelaySeconds: intOr(cfg, "worker.retry_delay_seconds", 30),
	}
	log.Info().
		Int("max_attempts", opts.MaxAttempts).
		Int("retry_delay_seconds", opts.RetryDelaySeconds).
		Msg("worker config loaded")
	return opts
}
