package app

import (
	"context"
	"errors"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/you-humble/asset-tracker/internal/config"
	"github.com/you-humble/asset-tracker/internal/transport/http/health"
	httpmw "github.com/you-humble/asset-tracker/internal/transport/http/middleware"
	"github.com/you-humble/asset-tracker/pkg/closer"
	"github.com/you-humble/asset-tracker/pkg/logger"
)

type app struct {
	di     *di
	server *http.Server
}

func New(ctx context.Context) (*app, error) {
	a := &app{}

	if err := a.init(ctx); err != nil {
		return nil, err
	}

	return a, nil
}

func (a *app) Run(ctx context.Context) error { return a.run(ctx) }

func (a *app) init(ctx context.Context) error {
	inits := []func(context.Context) error{
		a.initConfig,
		a.initLogger,
		a.initCloser,
		a.initDI,
		a.initIndexes,
		a.initServer,
	}

	for _, initFn := range inits {
		if err := initFn(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) initConfig(_ context.Context) error {
	return config.Load()
}

func (a *app) initLogger(_ context.Context) error {
	return logger.Init(
		config.C().Logger.Level(),
		config.C().Logger.AsJSON(),
	)
}

func (a *app) initCloser(_ context.Context) error {
	closer.SetLogger(logger.L())
	return nil
}

func (a *app) initDI(_ context.Context) error {
	a.di = NewDI()
	return nil
}

func (a *app) initIndexes(ctx context.Context) error {
	if err := a.di.EnsureIndexes(ctx); err != nil {
		logger.Error(ctx, "failed to create indexes", logger.ErrorF(err))
		return err
	}
	return nil
}

func (a *app) initServer(ctx context.Context) error {
	cfg := config.C()

	r := a.di.Router(ctx)
	r.Use(
		chimw.RequestID,
		httpmw.RequestContext,
		chimw.Recoverer,
		chimw.Logger,
		httpmw.Metrics(a.di.Metrics(ctx)),
	)

	a.di.AssetHandler(ctx).Routes(r)
	a.di.EmployeeHandler(ctx).Routes(r)
	a.di.ReconcileHandler(ctx).Routes(r)

	r.HandleFunc("/health", health.HealthCheck)
	r.Handle("/metrics", a.di.Metrics(ctx).Handler())

	a.server = &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           r,
		ReadHeaderTimeout: cfg.Server.ReadTimeout(),
	}

	closer.AddNamed("HTTP Server", func(ctx context.Context) error {
		return a.server.Shutdown(ctx)
	})

	return nil
}

func (a *app) run(ctx context.Context) error {
	cfg := config.C()
	eg, egCtx := errgroup.WithContext(ctx)

	if cfg.Kafka.Enabled() {
		eg.Go(func() error {
			logger.Info(egCtx,
				"🚀 assignment verifier running",
				logger.Strings("kafka_brokers", cfg.Kafka.Brokers()),
			)
			return a.di.AssignmentVerifier(egCtx).RunAssignmentVerifier(egCtx)
		})
	}

	if interval := cfg.Reconcile.Interval(); interval > 0 {
		eg.Go(func() error {
			logger.Info(egCtx,
				"🚀 reconcile sweeper running",
				logger.Duration("interval", interval),
			)
			return a.di.ReconcileService(egCtx).Run(egCtx, interval)
		})
	}

	eg.Go(func() error {
		logger.Info(egCtx,
			"🚀 asset tracker listening",
			logger.String("address", cfg.Server.Address()),
		)
		err := a.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	eg.Go(func() error {
		<-egCtx.Done()
		logger.Info(context.Background(), "🛑 Server shutdown...")
		gracefulShutdown()
		return nil
	})

	if err := eg.Wait(); err != nil {
		return err
	}
	return nil
}

//nolint:contextcheck
func gracefulShutdown() {
	ctx, cancel := context.WithTimeout(
		context.Background(), // do not inherit cancellation from ctx
		config.C().Server.ShutdownTimeout(),
	)
	defer cancel()

	err := closer.CloseAll(ctx)
	if err != nil {
		logger.Error(ctx, "❌ Error during server shutdown", logger.ErrorF(err))
		logger.Error(ctx, "❌😵‍💫 Server stopped")
		return
	}
	logger.Info(ctx, "✅ Server stopped")
}
