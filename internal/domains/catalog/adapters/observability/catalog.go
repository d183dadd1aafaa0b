package observability

import (
	"context"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/go-gin-pet-catalog/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-pet-catalog/internal/domains/catalog/ports"
)

const tracerName = "github.com/Apurer/go-gin-pet-catalog/internal/domains/catalog/adapters/observability/catalog"

// Catalog decorates a catalog port with tracing, logging, and metrics.
type Catalog struct {
	inner   ports.Catalog
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics catalogMetrics
	now     func() time.Time
}

type Option func(*Catalog)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) {
		c.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(c *Catalog) {
		c.tracer = tr
	}
}

// WithMeter injects the meter used to create catalog metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(c *Catalog) {
		c.metrics = newCatalogMetrics(m)
	}
}

// New wires a decorator around a catalog adapter.
func New(inner ports.Catalog, opts ...Option) ports.Catalog {
	c := &Catalog{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newCatalogMetrics(nil),
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.tracer == nil {
		c.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if c.logger == nil {
		c.logger = defaultLogger()
	}
	return c
}

// ListCategories fetches the category set with instrumentation.
func (c *Catalog) ListCategories(ctx context.Context) ([]domain.Category, error) {
	ctx, span := c.startSpan(ctx, "Catalog.ListCategories")
	defer span.End()
	start := c.now()

	result, err := c.inner.ListCategories(ctx)
	c.metrics.record(ctx, "list_categories", err, c.now().Sub(start))
	if err != nil {
		return nil, c.handleError(ctx, span, err, "failed to list categories")
	}
	span.SetAttributes(attribute.Int("catalog.result.count", len(result)))
	c.logDebug(ctx, "listed categories", slog.Int("count", len(result)))
	return result, nil
}

// ListPets fetches the full catalog.
func (c *Catalog) ListPets(ctx context.Context) ([]domain.PetRecord, error) {
	ctx, span := c.startSpan(ctx, "Catalog.ListPets")
	defer span.End()
	start := c.now()

	result, err := c.inner.ListPets(ctx)
	c.metrics.record(ctx, "list_pets", err, c.now().Sub(start))
	if err != nil {
		return nil, c.handleError(ctx, span, err, "failed to list pets")
	}
	span.SetAttributes(attribute.Int("catalog.result.count", len(result)))
	c.logDebug(ctx, "listed pets", slog.Int("count", len(result)))
	return result, nil
}

// ListPetsByCategory fetches one category's pets.
func (c *Catalog) ListPetsByCategory(ctx context.Context, category string) ([]domain.PetRecord, error) {
	ctx, span := c.startSpan(ctx, "Catalog.ListPetsByCategory", attribute.String("catalog.category", category))
	defer span.End()
	start := c.now()

	result, err := c.inner.ListPetsByCategory(ctx, category)
	c.metrics.record(ctx, "list_pets_by_category", err, c.now().Sub(start))
	if err != nil {
		return nil, c.handleError(ctx, span, err, "failed to list pets by category", slog.String("category", category))
	}
	span.SetAttributes(attribute.Int("catalog.result.count", len(result)))
	c.logDebug(ctx, "listed pets by category", slog.String("category", category), slog.Int("count", len(result)))
	return result, nil
}

// GetPet fetches a single pet.
func (c *Catalog) GetPet(ctx context.Context, id string) (*domain.PetRecord, error) {
	ctx, span := c.startSpan(ctx, "Catalog.GetPet", attribute.String("pet.id", id))
	defer span.End()
	start := c.now()

	result, err := c.inner.GetPet(ctx, id)
	c.metrics.record(ctx, "get_pet", err, c.now().Sub(start))
	if err != nil {
		return nil, c.handleError(ctx, span, err, "failed to load pet", slog.String("pet.id", id))
	}
	c.logDebug(ctx, "pet loaded", slog.String("pet.id", id))
	return result, nil
}

func (c *Catalog) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return c.tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindClient), trace.WithAttributes(attrs...))
}

func (c *Catalog) logDebug(ctx context.Context, msg string, attrs ...slog.Attr) {
	c.logger.LogAttrs(ctx, slog.LevelDebug, msg, attrs...)
}

func (c *Catalog) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	attrs = append(attrs, slog.String("error", err.Error()))
	c.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type catalogMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

func newCatalogMetrics(m metric.Meter) catalogMetrics {
	if m == nil {
		return catalogMetrics{}
	}
	requests, _ := m.Int64Counter("catalog.client.requests", metric.WithDescription("Catalog service calls by operation and outcome"))
	duration, _ := m.Float64Histogram("catalog.client.duration", metric.WithDescription("Catalog service call latency"), metric.WithUnit("ms"))
	return catalogMetrics{requests: requests, duration: duration}
}

func (m catalogMetrics) record(ctx context.Context, op string, err error, elapsed time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	attrs := metric.WithAttributes(attribute.String("catalog.operation", op), attribute.String("outcome", outcome))
	if m.requests != nil {
		m.requests.Add(ctx, 1, attrs)
	}
	if m.duration != nil {
		m.duration.Record(ctx, float64(elapsed)/float64(time.Millisecond), attrs)
	}
}

var _ ports.Catalog = (*Catalog)(nil)
