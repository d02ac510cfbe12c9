package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/saudapakka/saudapakka-mandate/internal/infra/database"
	"github.com/saudapakka/saudapakka-mandate/internal/infra/gateway"
	"github.com/saudapakka/saudapakka-mandate/internal/infra/metrics"
	"github.com/saudapakka/saudapakka-mandate/internal/infra/repository"
	"github.com/saudapakka/saudapakka-mandate/internal/infra/storage"
	"github.com/saudapakka/saudapakka-mandate/internal/infra/tracing"
	"github.com/saudapakka/saudapakka-mandate/internal/present/rest"
	authmw "github.com/saudapakka/saudapakka-mandate/internal/present/rest/middleware"
	"github.com/saudapakka/saudapakka-mandate/internal/scheduler"
	"github.com/saudapakka/saudapakka-mandate/internal/service"
	"github.com/saudapakka/saudapakka-mandate/internal/usecase"
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the expiry scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveRun(cmd.Context())
		},
	}
}

type application struct {
	mandate      *usecase.MandateUsecase
	notification *usecase.NotificationUsecase
	auth         *service.AuthService
	signal       *service.SignalService
	store        *storage.FileStore
}

// build wires repositories, caches and usecases. signal is nil when redis is not configured.
func build(reg prometheus.Registerer) (*application, error) {
	db, err := openDatabase()
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}

	store, err := storage.NewFileStore(conf.Storage.SignatureDir)
	if err != nil {
		return nil, err
	}

	app := &application{store: store}

	var publisher usecase.Publisher
	if conf.Server.RedisAddr != "" {
		app.signal = service.NewSignalService(database.NewRedis(conf.Server.RedisAddr, conf.Server.RedisPassword, conf.Server.RedisDB))
		publisher = app.signal
	}

	properties := gateway.NewPropertyGateway(repository.NewPropertyRepository(db), nil)
	if conf.Server.MemcachedAddr != "" {
		properties = gateway.NewPropertyGateway(repository.NewPropertyRepository(db), database.NewMemcached(conf.Server.MemcachedAddr))
	}

	var recorder usecase.Metrics
	if reg != nil {
		recorder = metrics.NewPrometheus(reg)
	}

	users := repository.NewUserRepository(db)
	app.notification = usecase.NewNotificationUsecase(repository.NewNotificationRepository(db), publisher)
	app.mandate = usecase.NewMandateUsecase(
		conf.Domain(),
		repository.NewMandateRepository(db),
		properties,
		users,
		gateway.NewBrokerGateway(repository.NewBrokerRepository(db)),
		store,
		app.notification,
		recorder,
	)
	app.auth = service.NewAuthService(conf.AuthConfig(), users)
	return app, nil
}

func serveRun(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if conf.Server.EnableTrace {
		shutdown, err := tracing.Setup(ctx, conf.Server.TraceEndpoint, programName, version)
		if err != nil {
			return err
		}
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(flushCtx); err != nil {
				slog.Error("failed to flush traces", slog.String("error", err.Error()))
			}
		}()
	}

	app, err := build(prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}

	var realtime rest.Realtime
	if app.signal != nil {
		realtime = app.signal
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(otelecho.Middleware(programName, otelecho.WithSkipper(func(c echo.Context) bool {
		return c.Path() == "/metrics" || c.Path() == "/healthz"
	})))
	e.Use(authmw.NewAuthMiddleware(app.auth).IdentifyIdentity)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.Static(strings.TrimSuffix(conf.Storage.SignatureBaseURL, "/"), app.store.Dir())

	handler := rest.NewHandler(conf.Domain(), app.mandate, app.notification, app.auth, realtime)
	handler.RegisterRoutes(e)

	sched := scheduler.NewScheduler(app.mandate, conf.Server.SweepSchedule)
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	go func() {
		if err := e.Start(conf.Server.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
