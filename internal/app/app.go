package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cinegrupo/cinema-ticketing-system/internal/domain"
	"github.com/cinegrupo/cinema-ticketing-system/internal/payment"
	"github.com/cinegrupo/cinema-ticketing-system/internal/repository"
	"github.com/cinegrupo/cinema-ticketing-system/internal/ticket"
	appvalidator "github.com/cinegrupo/cinema-ticketing-system/internal/validator"
	"github.com/cinegrupo/cinema-ticketing-system/internal/vcs"
	"github.com/exaring/otelpgx"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

var (
	version = vcs.Version()
)

type Application struct {
	config    Config
	logger    *slog.Logger
	db        *pgxpool.Pool
	redis     redis.UniversalClient
	validator *validator.Validate

	movieRepo       domain.MovieRepository
	showtimeRepo    domain.ShowtimeRepository
	reservationRepo domain.ReservationRepository
	userRepo        domain.UserRepository
	reportRepo      domain.ReportRepository

	paymentProvider domain.PaymentProvider
	ticketRenderer  domain.TicketRenderer
}

type Config struct {
	Port             int
	Env              string
	DB               DBConfig
	Redis            RedisConfig
	MercadoPago      MercadoPagoConfig
	Placid           PlacidConfig
	OtelCollectorUrl string
	ArchiveSchedule  string
}

type DBConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleTime  time.Duration
}

type RedisConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  time.Duration
}

type MercadoPagoConfig struct {
	BaseURL     string
	AccessToken string
	ReturnURL   string
}

type PlacidConfig struct {
	BaseURL    string
	APIKey     string
	TemplateID string
}

func Run() error {
	var cfg Config

	flag.IntVar(&cfg.Port, "port", 3000, "server port")
	flag.StringVar(&cfg.Env, "env", "dev", "Environment (dev|staging|prod)")

	flag.StringVar(&cfg.DB.DSN, "db-dsn", os.Getenv("DB_DSN"), "PostgreSQL DSN")
	flag.IntVar(&cfg.DB.MaxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.DurationVar(&cfg.DB.MaxIdleTime, "db-max-idle-time", 15*time.Minute, "PostgreSQL max idle time for connections")

	flag.StringVar(&cfg.Redis.URL, "redis-url", os.Getenv("REDIS_URL"), "Redis URL")
	flag.IntVar(&cfg.Redis.MaxOpenConns, "redis-max-open-conns", 25, "Redis max open connections")
	flag.IntVar(&cfg.Redis.MaxIdleConns, "redis-max-idle-conns", 10, "Redis max idle connections")
	flag.DurationVar(&cfg.Redis.MaxIdleTime, "redis-max-idle-time", 2*time.Minute, "Redis max idle time for connections")

	flag.StringVar(&cfg.MercadoPago.BaseURL, "mp-base-url", "", "Mercado Pago API base URL (default production)")
	flag.StringVar(&cfg.MercadoPago.AccessToken, "mp-access-token", os.Getenv("MP_ACCESS_TOKEN"), "Mercado Pago access token")
	flag.StringVar(&cfg.MercadoPago.ReturnURL, "mp-return-url", os.Getenv("FRONTEND_URL"), "Base URL for payment return redirects")

	flag.StringVar(&cfg.Placid.BaseURL, "placid-base-url", "", "Placid API base URL (default production)")
	flag.StringVar(&cfg.Placid.APIKey, "placid-api-key", os.Getenv("PLACID_API_KEY"), "Placid API key")
	flag.StringVar(&cfg.Placid.TemplateID, "placid-template-id", os.Getenv("PLACID_TEMPLATE_ID"), "Placid ticket template UUID")

	flag.StringVar(&cfg.OtelCollectorUrl, "otel-collector-url", os.Getenv("OTEL_COLLECTOR_URL"), "OpenTelemetry collector URL")

	flag.StringVar(&cfg.ArchiveSchedule, "archive-schedule", "0 0 * * *", "Cron schedule for the showtime archival sweep")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	app, cleanup, err := NewApplication(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	shutdownTelemetry, err := app.initTelemetry()
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	stopArchiver, err := app.startArchiver()
	if err != nil {
		return err
	}
	defer stopArchiver()

	return app.serve()
}

// NewApplication wires the pools, repositories and providers. The returned
// cleanup closes the connection pools and is safe to call once.
func NewApplication(cfg Config) (*Application, func(), error) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	db, err := newDatabasePool(cfg)
	if err != nil {
		return nil, nil, err
	}

	redisClient, err := newRedisClient(cfg)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	app := &Application{
		config:          cfg,
		logger:          logger,
		db:              db,
		redis:           redisClient,
		validator:       appvalidator.NewValidator(),
		movieRepo:       repository.NewPostgresMovieRepository(db),
		showtimeRepo:    repository.NewPostgresShowtimeRepository(db),
		reservationRepo: repository.NewPostgresReservationRepository(db),
		userRepo:        repository.NewPostgresUserRepository(db),
		reportRepo:      repository.NewPostgresReportRepository(db),
		paymentProvider: payment.NewMercadoPagoProvider(cfg.MercadoPago.BaseURL, cfg.MercadoPago.AccessToken, cfg.MercadoPago.ReturnURL),
		ticketRenderer:  ticket.NewPlacidRenderer(cfg.Placid.BaseURL, cfg.Placid.APIKey, cfg.Placid.TemplateID),
	}

	cleanup := func() {
		redisClient.Close()
		db.Close()
	}

	return app, cleanup, nil
}

func newRedisClient(cfg Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, err
	}

	opts.MaxIdleConns = cfg.Redis.MaxIdleConns
	opts.MaxActiveConns = cfg.Redis.MaxOpenConns
	opts.ConnMaxIdleTime = cfg.Redis.MaxIdleTime

	rdb := redis.NewClient(opts)

	if err := redisotel.InstrumentTracing(rdb); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = rdb.Ping(ctx).Err()
	if err != nil {
		return nil, err
	}

	return rdb, nil
}

func newDatabasePool(cfg Config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.DB.MaxIdleTime
	config.MaxConns = int32(cfg.DB.MaxOpenConns)
	config.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// startArchiver schedules the daily sweep that transitions past showtimes to
// completed. The sweep itself is idempotent, so an overlapping or repeated
// run is harmless.
func (app *Application) startArchiver() (func(), error) {
	c := cron.New()

	_, err := c.AddFunc(app.config.ArchiveSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		app.ArchivePastShowtimes(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid archive schedule %q: %w", app.config.ArchiveSchedule, err)
	}

	c.Start()

	return func() { c.Stop() }, nil
}

func (app *Application) serve() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := srv.Shutdown(ctx)
		if err != nil {
			shutdownError <- err
		}

		shutdownError <- nil
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}
