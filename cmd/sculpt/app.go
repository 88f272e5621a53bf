package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/randalmurphal/sculpt/internal/logging"
	"github.com/randalmurphal/sculpt/metrics"
	"github.com/randalmurphal/sculpt/provider"
	_ "github.com/randalmurphal/sculpt/providers"
	"github.com/randalmurphal/sculpt/settings"
)

// Flag and config keys. Each is also read from SCULPT_<KEY> with dashes
// replaced by underscores.
const (
	keySettings    = "settings"
	keyProvider    = "provider"
	keyModel       = "model"
	keyAPIKey      = "api-key"
	keyBaseURL     = "base-url"
	keyLogLevel    = "log-level"
	keyLogFile     = "log-file"
	keyTimeout     = "timeout"
	keyMetricsAddr = "metrics-addr"
)

// app carries what every command needs.
type app struct {
	v *viper.Viper

	store    *settings.FileStore
	logger   *slog.Logger
	closeLog func() error
	metrics  *metrics.Metrics
	server   *http.Server
}

func newApp() *app {
	v := viper.New()
	v.SetEnvPrefix("SCULPT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return &app{v: v}
}

func (a *app) bindFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.String(keySettings, "", "settings file (default: user config dir)")
	f.String(keyProvider, "", "provider override for this session")
	f.String(keyModel, "", "model override for this session")
	f.String(keyAPIKey, "", "API key override for this session")
	f.String(keyBaseURL, "", "endpoint override for OpenAI-compatible providers")
	f.String(keyLogLevel, "info", "log level: debug, info, warn, error")
	f.String(keyLogFile, logging.DefaultFile(), "log file")
	f.Duration(keyTimeout, 0, "abort a sculpt after this long (0 = never)")
	f.String(keyMetricsAddr, "", "serve Prometheus metrics on this address")

	if err := a.v.BindPFlags(f); err != nil {
		panic(err)
	}
}

// setup opens the settings store and builds the logger. console receives
// log records in addition to the log file; pass nil to keep the terminal
// clean.
func (a *app) setup(console io.Writer) error {
	logger, closeLog, err := logging.New(logging.Options{
		Level:   a.v.GetString(keyLogLevel),
		File:    a.v.GetString(keyLogFile),
		Console: console,
	})
	if err != nil {
		return err
	}
	a.logger, a.closeLog = logger, closeLog
	slog.SetDefault(logger)

	path := a.v.GetString(keySettings)
	if path == "" {
		if path, err = settings.DefaultPath(); err != nil {
			return err
		}
	}
	store, err := settings.OpenFileStore(path)
	if err != nil {
		return fmt.Errorf("open settings: %w", err)
	}
	a.store = store
	return nil
}

// startMetrics serves /metrics when an address is configured.
func (a *app) startMetrics() error {
	addr := a.v.GetString(keyMetricsAddr)
	if addr == "" {
		return nil
	}

	reg := prometheus.NewRegistry()
	a.metrics = metrics.MustNew(reg)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	a.server = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Warn("metrics server stopped", slog.Any("error", err))
		}
	}()
	a.logger.Info("serving metrics", slog.String("addr", ln.Addr().String()))
	return nil
}

func (a *app) shutdown() {
	if a.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = a.server.Shutdown(ctx)
	}
	if a.closeLog != nil {
		_ = a.closeLog()
	}
}

// overrides applies environment and flag overrides to a saved config.
// Flags win over SCULPT_* variables, which win over the saved values.
func (a *app) overrides(cfg provider.Config) provider.Config {
	cfg.LoadFromEnv()
	if v := a.v.GetString(keyProvider); v != "" {
		cfg.Provider = v
	}
	if v := a.v.GetString(keyModel); v != "" {
		cfg.Model = v
	}
	if v := a.v.GetString(keyAPIKey); v != "" {
		cfg.APIKey = v
	}
	if v := a.v.GetString(keyBaseURL); v != "" {
		cfg.BaseURL = v
	}
	return cfg
}
