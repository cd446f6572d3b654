package main

import (
	"context"
	"errors"
	"io"
	"mixpanel-tracker/internal/config"
	"mixpanel-tracker/internal/deadletter"
	"mixpanel-tracker/internal/tracker"
	"mixpanel-tracker/internal/tracker_metrics"
	"mixpanel-tracker/internal/transport"
	"net/http"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const metricsShutdownTimeout = 5 * time.Second

// app держит то, что нужно командам: конфигурацию, трекер и сервер метрик.
type app struct {
	v       *viper.Viper
	cfgFile string

	// transport подменяется в тестах; при nil берется HTTP транспорт из конфигурации
	transport transport.Transport

	cfg        *config.Config
	tracker    *tracker.Tracker
	stats      *stats
	metricsSrv *http.Server
}

func newApp() *app {
	return &app{
		v: config.New(),
	}
}

// setup читает конфигурацию и собирает трекер со всеми зависимостями.
func (a *app) setup() error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if cfg.Verbose {
		zap.ReplaceGlobals(zap.Must(zap.NewDevelopment()))
	}

	sink, err := cfg.OpenDeadLetter()
	if err != nil {
		return err
	}

	return a.build(cfg, sink)
}

// build собирает трекер поверх открытого хранилища.
// При ошибке хранилище закрывается.
func (a *app) build(cfg *config.Config, sink deadletter.Sink) error {
	tr := a.transport
	if tr == nil {
		tr = transport.NewHTTPTransport(cfg.HTTPTimeout)
	}

	t, err := tracker.NewTracker(cfg.Token, tr, cfg.TrackerOptions(sink))
	if err != nil {
		return errors.Join(err, closeSink(sink))
	}
	a.tracker = t

	a.stats = &stats{}
	a.tracker.AddListener(a.stats.observe)

	if cfg.MetricsAddr != "" {
		if err := a.serveMetrics(cfg.MetricsAddr); err != nil {
			// трекер пуст, Close только закрывает хранилище
			err = errors.Join(err, a.tracker.Close(context.Background()))
			a.tracker = nil
			return err
		}
	}

	zap.L().Debug("tracker ready",
		zap.String("endpoint", a.tracker.Endpoint()),
		zap.String("policy", cfg.FailurePolicy),
		zap.Int("max_batch_size", cfg.MaxBatchSize),
	)

	return nil
}

func closeSink(sink deadletter.Sink) error {
	closer, ok := sink.(io.Closer)
	if !ok {
		return nil
	}

	if err := closer.Close(); err != nil {
		zap.L().Error(err.Error())
		return err
	}
	return nil
}

func (a *app) serveMetrics(addr string) error {
	metrics := tracker_metrics.NewMetrics()
	if err := metrics.CollectTracker(a.tracker); err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	a.metricsSrv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := a.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Error(err.Error())
		}
	}()

	return nil
}

// teardown отправляет остаток батча, закрывает хранилище и сервер метрик.
func (a *app) teardown(ctx context.Context) error {
	var errs []error

	if a.tracker != nil {
		if err := a.tracker.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	if a.metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), metricsShutdownTimeout)
		defer cancel()

		if err := a.metricsSrv.Shutdown(shutdownCtx); err != nil {
			zap.L().Error(err.Error())
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
