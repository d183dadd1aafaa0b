// Package web boots the pet catalog page server.
package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	catalogserver "github.com/Apurer/go-gin-pet-catalog/go"

	catalogmemory "github.com/Apurer/go-gin-pet-catalog/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/Apurer/go-gin-pet-catalog/internal/domains/catalog/adapters/observability"
	"github.com/Apurer/go-gin-pet-catalog/internal/domains/catalog/adapters/peddy"
	catalogports "github.com/Apurer/go-gin-pet-catalog/internal/domains/catalog/ports"
	gallerymemory "github.com/Apurer/go-gin-pet-catalog/internal/domains/gallery/adapters/memory"
	galleryapp "github.com/Apurer/go-gin-pet-catalog/internal/domains/gallery/application"
	"github.com/Apurer/go-gin-pet-catalog/internal/platform/httpclient"
	platformobservability "github.com/Apurer/go-gin-pet-catalog/internal/platform/observability"
)

// ServiceName identifies the process in traces and logs.
const ServiceName = "pet-catalog-web"

const shutdownTimeout = 5 * time.Second

type runOptions struct {
	listener  net.Listener
	onReady   func(baseURL string)
	logOutput io.Writer
}

// RunOption customizes Run.
type RunOption func(*runOptions)

// WithListener serves on an existing listener instead of binding cfg.Addr().
func WithListener(l net.Listener) RunOption {
	return func(o *runOptions) {
		o.listener = l
	}
}

// WithReady is called with the page URL once the server accepts connections.
func WithReady(fn func(baseURL string)) RunOption {
	return func(o *runOptions) {
		o.onReady = fn
	}
}

// WithLogOutput redirects process logs.
func WithLogOutput(w io.Writer) RunOption {
	return func(o *runOptions) {
		o.logOutput = w
	}
}

// Run boots the catalog page server and blocks until ctx is cancelled or the
// server fails. Cancellation drains in-flight requests before returning nil.
func Run(ctx context.Context, cfg Config, opts ...RunOption) error {
	var o runOptions
	for _, opt := range opts {
		opt(&o)
	}

	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.Settings{
		ServiceName:    ServiceName,
		Environment:    cfg.Environment,
		LogLevel:       cfg.LogLevel,
		LogFormat:      cfg.LogFormat,
		TracesExporter: cfg.TracesExporter,
		LogOutput:      o.logOutput,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	handler, err := NewHandler(cfg, instruments)
	if err != nil {
		return err
	}

	listener := o.listener
	if listener == nil {
		listener, err = net.Listen("tcp", cfg.Addr())
		if err != nil {
			return fmt.Errorf("listen on %s: %w", cfg.Addr(), err)
		}
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(listener)
	}()
	baseURL := pageURL(listener.Addr())
	logger.Info("pet catalog listening", slog.String("addr", listener.Addr().String()), slog.String("url", baseURL))
	if o.onReady != nil {
		o.onReady(baseURL)
	}

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("pet catalog server exited", slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down pet catalog")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// NewHandler wires the catalog, the page service and the session store into
// the traced gin router.
func NewHandler(cfg Config, instruments *platformobservability.Instruments) (http.Handler, error) {
	logger := instruments.Logger
	if logger == nil {
		logger = slog.Default()
	}

	inner, err := buildCatalog(cfg, logger)
	if err != nil {
		return nil, err
	}
	catalog := catalogobs.New(
		inner,
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog")),
	)

	timing := galleryapp.DefaultTiming()
	timing.MinRenderDelay = cfg.RenderDelay
	timing.AdoptTick = cfg.AdoptTick
	service := galleryapp.NewService(
		catalog,
		galleryapp.WithTiming(timing),
		galleryapp.WithLogger(logger),
		galleryapp.WithMeter(instruments.Meter("internal.gallery.application")),
	)

	api := catalogserver.NewPageAPI(
		service,
		gallerymemory.NewStore(cfg.SessionCapacity, cfg.SessionTTL),
		catalogserver.WithLogger(logger),
		catalogserver.WithSessionTTL(cfg.SessionTTL),
		catalogserver.WithRefreshInterval(cfg.RefreshInterval),
	)
	return catalogserver.NewRouter(api,
		otelgin.Middleware(ServiceName, otelgin.WithTracerProvider(instruments.TracerProvider)),
	), nil
}

// buildCatalog prefers the YAML fixture when one is configured and otherwise
// talks to the remote catalog API.
func buildCatalog(cfg Config, logger *slog.Logger) (catalogports.Catalog, error) {
	if cfg.CatalogFixture != "" {
		fixture, err := catalogmemory.LoadFixture(cfg.CatalogFixture)
		if err != nil {
			return nil, fmt.Errorf("load catalog fixture: %w", err)
		}
		logger.Info("catalog served from fixture", slog.String("path", cfg.CatalogFixture))
		return fixture, nil
	}
	httpClient, err := httpclient.New(cfg.CatalogBaseURL, cfg.CatalogTimeout)
	if err != nil {
		return nil, fmt.Errorf("catalog client: %w", err)
	}
	httpClient.MaxRetries = uint64(cfg.CatalogMaxRetries)
	client, err := peddy.NewClient(httpClient)
	if err != nil {
		return nil, fmt.Errorf("catalog client: %w", err)
	}
	logger.Info("catalog served by remote API", slog.String("base_url", cfg.CatalogBaseURL))
	return client, nil
}

func pageURL(addr net.Addr) string {
	host, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return "http://" + addr.String() + "/"
	}
	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port) + "/"
}
