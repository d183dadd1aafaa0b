package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/facebookgo/clock"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	catalog "github.com/Apurer/go-gin-pet-catalog/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/go-gin-pet-catalog/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-pet-catalog/internal/domains/gallery/domain"
)

// Timing holds the simulated delays of the page.
type Timing struct {
	// MinRenderDelay is the shortest time a card shows its loading indicator,
	// counted from the moment the card was created.
	MinRenderDelay time.Duration
	// AdoptTick is the interval between countdown steps.
	AdoptTick time.Duration
	// AdoptFrom is the first number of the countdown.
	AdoptFrom int
}

// DefaultTiming returns the delays the page ships with.
func DefaultTiming() Timing {
	return Timing{
		MinRenderDelay: 2 * time.Second,
		AdoptTick:      700 * time.Millisecond,
		AdoptFrom:      3,
	}
}

// Service orchestrates the catalog page use cases. Failures are logged and
// leave the page as it was.
type Service struct {
	catalog catalogports.Catalog
	clock   clock.Clock
	timing  Timing
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithClock injects the clock driving render delays and countdowns.
func WithClock(c clock.Clock) Option {
	return func(s *Service) {
		s.clock = c
	}
}

// WithTiming overrides the default delays.
func WithTiming(t Timing) Option {
	return func(s *Service) {
		s.timing = t
	}
}

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMeter injects the meter used to create page metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// NewService wires the page service with its dependencies.
func NewService(c catalogports.Catalog, opts ...Option) *Service {
	s := &Service{
		catalog: c,
		clock:   clock.New(),
		timing:  DefaultTiming(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.clock == nil {
		s.clock = clock.New()
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

// Start runs the category load and the full catalog load side by side.
// Neither waits for the other to succeed; the first failure is returned
// once both have finished.
func (s *Service) Start(ctx context.Context, page *domain.Page) error {
	var g errgroup.Group
	g.Go(func() error { return s.LoadCategories(ctx, page) })
	g.Go(func() error { return s.LoadAllPets(ctx, page) })
	return g.Wait()
}

// LoadCategories fetches the categories and builds one filter control per category.
func (s *Service) LoadCategories(ctx context.Context, page *domain.Page) error {
	categories, err := s.catalog.ListCategories(ctx)
	if err != nil {
		s.metrics.recordLoad(ctx, "categories", err)
		return s.fail(ctx, "load categories failed", err, slog.String("session", page.ID()))
	}
	categories, dropped := catalog.DedupeCategories(categories)
	if len(dropped) > 0 {
		s.logger.WarnContext(ctx, "dropped duplicate or unnamed categories", slog.Any("names", dropped))
	}
	page.SetFilters(categories)
	s.metrics.recordLoad(ctx, "categories", nil)
	return nil
}

// LoadAllPets replaces the list with the full catalog.
func (s *Service) LoadAllPets(ctx context.Context, page *domain.Page) error {
	return s.load(ctx, page, "", s.catalog.ListPets)
}

// LoadPetsByCategory replaces the list with one category's pets and marks its filter active.
func (s *Service) LoadPetsByCategory(ctx context.Context, page *domain.Page, category string) error {
	if !page.HasFilter(category) {
		return s.fail(ctx, "select category failed", domain.ErrUnknownCategory, slog.String("category", category))
	}
	return s.load(ctx, page, category, func(ctx context.Context) ([]catalog.PetRecord, error) {
		return s.catalog.ListPetsByCategory(ctx, category)
	})
}

func (s *Service) load(ctx context.Context, page *domain.Page, category string, fetch func(context.Context) ([]catalog.PetRecord, error)) error {
	scope := "all"
	if category != "" {
		scope = "category"
	}
	pets, err := fetch(ctx)
	if err != nil {
		s.metrics.recordLoad(ctx, scope, err)
		return s.fail(ctx, "load pets failed", err, slog.String("category", category))
	}
	createdAt := s.clock.Now()
	keys, err := page.ApplyLoad(category, pets, createdAt)
	if err != nil {
		s.metrics.recordLoad(ctx, scope, err)
		return s.fail(ctx, "load pets failed", err, slog.String("category", category))
	}
	for _, key := range keys {
		s.renderCard(page, key, createdAt)
	}
	s.metrics.recordLoad(ctx, scope, nil)
	s.logger.DebugContext(ctx, "pets loaded",
		slog.String("session", page.ID()), slog.String("category", category), slog.Int("count", len(pets)))
	return nil
}

// renderCard schedules the switch from loading indicator to content no
// earlier than MinRenderDelay after createdAt, with exactly one timer.
func (s *Service) renderCard(page *domain.Page, key string, createdAt time.Time) {
	delay := s.timing.MinRenderDelay - s.clock.Now().Sub(createdAt)
	if delay <= 0 {
		s.finishRender(page, key)
		return
	}
	s.clock.AfterFunc(delay, func() { s.finishRender(page, key) })
}

func (s *Service) finishRender(page *domain.Page, key string) {
	if err := page.RenderCard(key, s.clock.Now()); err != nil {
		// The list was replaced while the card was loading.
		s.logger.Debug("card discarded before render", slog.String("card", key), slog.String("error", err.Error()))
	}
}

// Like marks the card's like control and appends the pet's thumbnail to the
// liked collection. The control stays liked even when the fetch fails.
func (s *Service) Like(ctx context.Context, page *domain.Page, cardKey string) error {
	pet, err := page.MarkLiked(cardKey)
	if err != nil {
		return s.fail(ctx, "like failed", err, slog.String("card", cardKey))
	}
	record, err := s.catalog.GetPet(ctx, pet.ID)
	if err != nil {
		return s.fail(ctx, "like lookup failed", err, slog.String("pet.id", pet.ID))
	}
	page.AppendLiked(domain.LikedPet{
		PetID:    record.ID,
		Name:     record.Name,
		ImageURL: record.ImageURL,
		LikedAt:  s.clock.Now(),
	})
	s.metrics.recordLike(ctx)
	return nil
}

// Adopt disables the card's adopt control and runs its countdown. Activating
// a disabled control does nothing.
func (s *Service) Adopt(ctx context.Context, page *domain.Page, cardKey string) error {
	started, err := page.BeginAdopt(cardKey, s.timing.AdoptFrom)
	if err != nil {
		return s.fail(ctx, "adopt failed", err, slog.String("card", cardKey))
	}
	if !started {
		return nil
	}
	s.metrics.recordAdoption(ctx)
	s.scheduleAdoptTick(page, cardKey)
	return nil
}

func (s *Service) scheduleAdoptTick(page *domain.Page, cardKey string) {
	s.clock.AfterFunc(s.timing.AdoptTick, func() {
		done, err := page.AdoptTick(cardKey)
		if err != nil {
			s.logger.Debug("countdown stopped", slog.String("card", cardKey), slog.String("error", err.Error()))
			return
		}
		if !done {
			s.scheduleAdoptTick(page, cardKey)
		}
	})
}

// ShowDetailsForCard opens the modal for the pet behind a rendered card.
func (s *Service) ShowDetailsForCard(ctx context.Context, page *domain.Page, cardKey string) error {
	pet, err := page.PetForCard(cardKey)
	if err != nil {
		return s.fail(ctx, "show details failed", err, slog.String("card", cardKey))
	}
	return s.showDetails(ctx, page, pet.ID)
}

// ShowDetails opens the modal for any rendered card carrying petID.
func (s *Service) ShowDetails(ctx context.Context, page *domain.Page, petID string) error {
	if !page.HasRenderedPet(petID) {
		return s.fail(ctx, "show details failed", domain.ErrMissingElement, slog.String("pet.id", petID))
	}
	return s.showDetails(ctx, page, petID)
}

func (s *Service) showDetails(ctx context.Context, page *domain.Page, petID string) error {
	seq := page.BeginDetails()
	record, err := s.catalog.GetPet(ctx, petID)
	if err != nil {
		s.metrics.recordDetails(ctx, "error")
		return s.fail(ctx, "details lookup failed", err, slog.String("pet.id", petID))
	}
	if !page.ApplyDetails(seq, *record) {
		s.metrics.recordDetails(ctx, "stale")
		s.logger.InfoContext(ctx, "dropped stale details response",
			slog.String("pet.id", petID), slog.Uint64("request", seq))
		return nil
	}
	s.metrics.recordDetails(ctx, "applied")
	return nil
}

// CloseDetails hides the modal.
func (s *Service) CloseDetails(_ context.Context, page *domain.Page) {
	page.CloseDetails()
}

// Sort orders the current cards by price, highest first.
func (s *Service) Sort(_ context.Context, page *domain.Page) {
	page.SortByPrice()
}

func (s *Service) fail(ctx context.Context, msg string, err error, attrs ...slog.Attr) error {
	level := slog.LevelWarn
	if errors.Is(err, catalogports.ErrNetwork) || errors.Is(err, catalogports.ErrDecode) {
		level = slog.LevelError
	}
	attrs = append(attrs, slog.String("error", err.Error()))
	s.logger.LogAttrs(ctx, level, msg, attrs...)
	return mapError(err)
}

type serviceMetrics struct {
	loads     metric.Int64Counter
	likes     metric.Int64Counter
	adoptions metric.Int64Counter
	details   metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	loads, _ := m.Int64Counter("gallery.loads", metric.WithDescription("Catalog loads by scope and outcome"))
	likes, _ := m.Int64Counter("gallery.likes", metric.WithDescription("Thumbnails appended to the liked collection"))
	adoptions, _ := m.Int64Counter("gallery.adoptions", metric.WithDescription("Adopt countdowns started"))
	details, _ := m.Int64Counter("gallery.details", metric.WithDescription("Details requests by outcome"))
	return serviceMetrics{loads: loads, likes: likes, adoptions: adoptions, details: details}
}

func (m serviceMetrics) recordLoad(ctx context.Context, scope string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	addCounter(ctx, m.loads, attribute.String("scope", scope), attribute.String("outcome", outcome))
}

func (m serviceMetrics) recordLike(ctx context.Context) {
	addCounter(ctx, m.likes)
}

func (m serviceMetrics) recordAdoption(ctx context.Context) {
	addCounter(ctx, m.adoptions)
}

func (m serviceMetrics) recordDetails(ctx context.Context, outcome string) {
	addCounter(ctx, m.details, attribute.String("outcome", outcome))
}

func addCounter(ctx context.Context, counter metric.Int64Counter, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, 1, metric.WithAttributes(attrs...))
}
