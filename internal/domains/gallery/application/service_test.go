package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/facebookgo/clock"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-pet-catalog/internal/domains/catalog/adapters/memory"
	catalog "github.com/Apurer/go-gin-pet-catalog/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/go-gin-pet-catalog/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-pet-catalog/internal/domains/gallery/domain"
)

// countingClock counts scheduled callbacks on top of a mock clock.
type countingClock struct {
	*clock.Mock
	scheduled atomic.Int32
}

func (c *countingClock) AfterFunc(d time.Duration, f func()) *clock.Timer {
	c.scheduled.Add(1)
	return c.Mock.AfterFunc(d, f)
}

// fakeCatalog lets tests fail or slow down individual calls of an in-memory catalog.
type fakeCatalog struct {
	*memory.Catalog
	listErr   error
	catErr    error
	getErr    error
	fetchTime time.Duration
	clock     *clock.Mock
}

func (f *fakeCatalog) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	if f.catErr != nil {
		return nil, f.catErr
	}
	return f.Catalog.ListCategories(ctx)
}

func (f *fakeCatalog) ListPets(ctx context.Context) ([]catalog.PetRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.elapse()
	return f.Catalog.ListPets(ctx)
}

func (f *fakeCatalog) ListPetsByCategory(ctx context.Context, category string) ([]catalog.PetRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.elapse()
	return f.Catalog.ListPetsByCategory(ctx, category)
}

func (f *fakeCatalog) GetPet(ctx context.Context, id string) (*catalog.PetRecord, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.Catalog.GetPet(ctx, id)
}

func (f *fakeCatalog) elapse() {
	if f.fetchTime > 0 {
		f.clock.Add(f.fetchTime)
	}
}

func priced(id, name, category, price string) catalog.PetRecord {
	p := catalog.PetRecord{ID: id, Name: name, Category: category, ImageURL: "https://img.example/" + id + ".png"}
	if price != "" {
		pr := catalog.NewPrice(price)
		p.Price = &pr
	}
	return p
}

type fixture struct {
	svc     *Service
	clock   *countingClock
	catalog *fakeCatalog
	page    *domain.Page
}

func newFixture(t *testing.T, pets ...catalog.PetRecord) *fixture {
	t.Helper()
	mock := clock.NewMock()
	clk := &countingClock{Mock: mock}
	fake := &fakeCatalog{
		Catalog: memory.NewCatalog([]catalog.Category{
			{Name: "Dog", IconURL: "icon1"},
			{Name: "Cat", IconURL: "icon2"},
		}, pets),
		clock: mock,
	}
	return &fixture{
		svc:     NewService(fake, WithClock(clk)),
		clock:   clk,
		catalog: fake,
		page:    domain.NewPage("session"),
	}
}

func (f *fixture) loadRendered(t *testing.T) []domain.CardView {
	t.Helper()
	require.NoError(t, f.svc.Start(context.Background(), f.page))
	f.clock.Add(2 * time.Second)
	v := f.page.Snapshot()
	require.False(t, v.Pending)
	return v.Cards
}

func TestLoadAllPets_CardsRenderAfterMinimumDelay(t *testing.T) {
	f := newFixture(t, priced("1", "Sunny", "Dog", "10"), priced("2", "Mittens", "Cat", "5"))

	require.NoError(t, f.svc.LoadAllPets(context.Background(), f.page))
	require.Equal(t, int32(2), f.clock.scheduled.Load())

	f.clock.Add(1999 * time.Millisecond)
	v := f.page.Snapshot()
	require.Len(t, v.Cards, 2)
	for _, c := range v.Cards {
		require.True(t, c.Loading)
		require.Empty(t, c.Name)
	}
	require.True(t, v.Pending)

	f.clock.Add(time.Millisecond)
	v = f.page.Snapshot()
	for _, c := range v.Cards {
		require.False(t, c.Loading)
	}
	require.Equal(t, "Sunny", v.Cards[0].Name)
	require.Equal(t, int32(2), f.clock.scheduled.Load())
}

func TestLoadAllPets_SlowFetchStillWaitsFullDelay(t *testing.T) {
	f := newFixture(t, priced("1", "Sunny", "Dog", "10"))
	f.catalog.fetchTime = 3 * time.Second

	require.NoError(t, f.svc.LoadAllPets(context.Background(), f.page))
	require.Equal(t, int32(1), f.clock.scheduled.Load())
	require.True(t, f.page.Snapshot().Cards[0].Loading)

	f.clock.Add(1999 * time.Millisecond)
	require.True(t, f.page.Snapshot().Cards[0].Loading)
	f.clock.Add(time.Millisecond)
	require.False(t, f.page.Snapshot().Cards[0].Loading)
}

func TestLoadAllPets_DelayCountsFromCardCreation(t *testing.T) {
	f := newFixture(t, priced("1", "Sunny", "Dog", "10"))
	f.catalog.fetchTime = 1500 * time.Millisecond

	require.NoError(t, f.svc.LoadAllPets(context.Background(), f.page))
	require.Equal(t, int32(1), f.clock.scheduled.Load())

	f.clock.Add(600 * time.Millisecond)
	require.True(t, f.page.Snapshot().Cards[0].Loading, "card rendered before the minimum delay")
	f.clock.Add(1399 * time.Millisecond)
	require.True(t, f.page.Snapshot().Cards[0].Loading)
	f.clock.Add(time.Millisecond)
	require.False(t, f.page.Snapshot().Cards[0].Loading)
	require.Equal(t, int32(1), f.clock.scheduled.Load())
}

func TestLoadPetsByCategory_EmptyResultShowsNoticeAndActiveFilter(t *testing.T) {
	f := newFixture(t, priced("1", "Sunny", "Dog", "10"))
	f.loadRendered(t)

	require.NoError(t, f.svc.LoadPetsByCategory(context.Background(), f.page, "Cat"))

	v := f.page.Snapshot()
	require.Empty(t, v.Cards)
	require.Equal(t, domain.NoticeEmptyCategory, v.Notice)
	require.Equal(t, []domain.FilterView{
		{Name: "Dog", IconURL: "icon1", Active: false},
		{Name: "Cat", IconURL: "icon2", Active: true},
	}, v.Filters)
}

func TestLoadPetsByCategory_ShowsOnlyThatCategory(t *testing.T) {
	f := newFixture(t,
		priced("1", "Sunny", "Dog", "10"),
		priced("2", "Mittens", "Cat", "5"),
		priced("3", "Rex", "Dog", "7"),
	)
	f.loadRendered(t)

	require.NoError(t, f.svc.LoadPetsByCategory(context.Background(), f.page, "Dog"))
	f.clock.Add(2 * time.Second)

	v := f.page.Snapshot()
	require.Len(t, v.Cards, 2)
	require.Equal(t, "Sunny", v.Cards[0].Name)
	require.Equal(t, "Rex", v.Cards[1].Name)
	require.Empty(t, v.Notice)
	require.True(t, v.Filters[0].Active)
	require.False(t, v.Filters[1].Active)
}

func TestLoadPetsByCategory_UnknownCategory(t *testing.T) {
	f := newFixture(t, priced("1", "Sunny", "Dog", "10"))
	before := f.loadRendered(t)

	err := f.svc.LoadPetsByCategory(context.Background(), f.page, "Bird")
	require.ErrorIs(t, err, domain.ErrUnknownCategory)
	require.Equal(t, before, f.page.Snapshot().Cards)
}

func TestLoadFailureKeepsPriorState(t *testing.T) {
	f := newFixture(t, priced("1", "Sunny", "Dog", "10"))
	before := f.loadRendered(t)

	f.catalog.listErr = fmt.Errorf("%w: connection refused", catalogports.ErrNetwork)
	err := f.svc.LoadPetsByCategory(context.Background(), f.page, "Cat")
	require.ErrorIs(t, err, ErrUpstream)

	v := f.page.Snapshot()
	require.Equal(t, before, v.Cards)
	require.False(t, v.Filters[1].Active)
}

func TestStart_LoadsAreIndependent(t *testing.T) {
	f := newFixture(t, priced("1", "Sunny", "Dog", "10"))
	f.catalog.catErr = fmt.Errorf("%w: bad json", catalogports.ErrDecode)

	err := f.svc.Start(context.Background(), f.page)
	require.ErrorIs(t, err, ErrUpstream)

	v := f.page.Snapshot()
	require.Empty(t, v.Filters)
	require.Len(t, v.Cards, 1)
}

func TestReloadDiscardsLoadingCards(t *testing.T) {
	f := newFixture(t, priced("1", "Sunny", "Dog", "10"))
	require.NoError(t, f.svc.Start(context.Background(), f.page))
	first := f.page.Snapshot().Cards[0].Key

	f.clock.Add(time.Second)
	require.NoError(t, f.svc.LoadAllPets(context.Background(), f.page))
	f.clock.Add(time.Second)

	v := f.page.Snapshot()
	require.Len(t, v.Cards, 1)
	require.NotEqual(t, first, v.Cards[0].Key)
	require.True(t, v.Cards[0].Loading)

	f.clock.Add(time.Second)
	require.False(t, f.page.Snapshot().Cards[0].Loading)
}

func TestLike_TwiceAppendsTwoThumbnails(t *testing.T) {
	f := newFixture(t, priced("1", "Sunny", "Dog", "10"))
	cards := f.loadRendered(t)

	require.NoError(t, f.svc.Like(context.Background(), f.page, cards[0].Key))
	require.NoError(t, f.svc.Like(context.Background(), f.page, cards[0].Key))

	v := f.page.Snapshot()
	require.True(t, v.Cards[0].Liked)
	require.Equal(t, []domain.LikedView{
		{PetID: "1", Name: "Sunny", ImageURL: "https://img.example/1.png"},
		{PetID: "1", Name: "Sunny", ImageURL: "https://img.example/1.png"},
	}, v.Liked)
}

func TestLike_FetchFailureKeepsLikedStyleWithoutThumbnail(t *testing.T) {
	f := newFixture(t, priced("1", "Sunny", "Dog", "10"))
	cards := f.loadRendered(t)
	f.catalog.getErr = fmt.Errorf("%w: timeout", catalogports.ErrNetwork)

	err := f.svc.Like(context.Background(), f.page, cards[0].Key)
	require.ErrorIs(t, err, ErrUpstream)

	v := f.page.Snapshot()
	require.True(t, v.Cards[0].Liked)
	require.Empty(t, v.Liked)
}

func TestLike_LoadingCardIsNotReady(t *testing.T) {
	f := newFixture(t, priced("1", "Sunny", "Dog", "10"))
	require.NoError(t, f.svc.LoadAllPets(context.Background(), f.page))

	err := f.svc.Like(context.Background(), f.page, f.page.Snapshot().Cards[0].Key)
	require.ErrorIs(t, err, domain.ErrCardNotReady)
}

func TestAdopt_CountdownTicks(t *testing.T) {
	f := newFixture(t, priced("1", "Sunny", "Dog", "10"))
	cards := f.loadRendered(t)
	key := cards[0].Key
	scheduledBefore := f.clock.scheduled.Load()

	require.NoError(t, f.svc.Adopt(context.Background(), f.page, key))
	card := func() domain.CardView { return f.page.Snapshot().Cards[0] }
	require.True(t, card().AdoptDisabled)
	require.Equal(t, "Adopt", card().AdoptLabel)

	// A second activation while counting must not start another countdown.
	require.NoError(t, f.svc.Adopt(context.Background(), f.page, key))

	f.clock.Add(699 * time.Millisecond)
	require.Equal(t, "Adopt", card().AdoptLabel)
	f.clock.Add(time.Millisecond)
	require.Equal(t, "Adopting in 3...", card().AdoptLabel)
	f.clock.Add(700 * time.Millisecond)
	require.Equal(t, "Adopting in 2...", card().AdoptLabel)
	f.clock.Add(700 * time.Millisecond)
	require.Equal(t, "Adopting in 1...", card().AdoptLabel)
	require.True(t, f.page.Snapshot().Pending)
	f.clock.Add(700 * time.Millisecond)
	require.Equal(t, "Adopted", card().AdoptLabel)
	require.True(t, card().Adopted)
	require.False(t, f.page.Snapshot().Pending)

	require.NoError(t, f.svc.Adopt(context.Background(), f.page, key))
	f.clock.Add(5 * time.Second)
	require.Equal(t, "Adopted", card().AdoptLabel)
	require.Equal(t, scheduledBefore+4, f.clock.scheduled.Load())
}

func TestDetails_BothPathsShareOneModal(t *testing.T) {
	f := newFixture(t, priced("1", "Sunny", "Dog", "10"), priced("2", "Mittens", "Cat", ""))
	cards := f.loadRendered(t)
	require.Nil(t, f.page.Snapshot().Modal)

	require.NoError(t, f.svc.ShowDetailsForCard(context.Background(), f.page, cards[0].Key))
	v := f.page.Snapshot()
	require.True(t, v.Modal.Visible)
	require.Equal(t, "Sunny", v.Modal.Pet.Name)

	require.NoError(t, f.svc.ShowDetails(context.Background(), f.page, "2"))
	v = f.page.Snapshot()
	require.Equal(t, "Mittens", v.Modal.Pet.Name)
	require.Equal(t, catalog.Placeholder, v.Modal.Pet.Price)

	f.svc.CloseDetails(context.Background(), f.page)
	require.False(t, f.page.Snapshot().Modal.Visible)

	require.NoError(t, f.svc.ShowDetails(context.Background(), f.page, "1"))
	require.True(t, f.page.Snapshot().Modal.Visible)
}

func TestDetails_UnknownTargets(t *testing.T) {
	f := newFixture(t, priced("1", "Sunny", "Dog", "10"))
	f.loadRendered(t)

	require.ErrorIs(t, f.svc.ShowDetails(context.Background(), f.page, "99"), domain.ErrMissingElement)
	require.ErrorIs(t, f.svc.ShowDetailsForCard(context.Background(), f.page, "nope"), domain.ErrMissingElement)
	require.Nil(t, f.page.Snapshot().Modal)
}

func TestDetails_FetchFailureLeavesModalUnchanged(t *testing.T) {
	f := newFixture(t, priced("1", "Sunny", "Dog", "10"), priced("2", "Mittens", "Cat", ""))
	f.loadRendered(t)
	require.NoError(t, f.svc.ShowDetails(context.Background(), f.page, "1"))

	f.catalog.getErr = errors.New("boom")
	require.Error(t, f.svc.ShowDetails(context.Background(), f.page, "2"))

	v := f.page.Snapshot()
	require.True(t, v.Modal.Visible)
	require.Equal(t, "Sunny", v.Modal.Pet.Name)
}

// blockingCatalog holds GetPet for one pet until released.
type blockingCatalog struct {
	*fakeCatalog
	blockID string
	entered chan struct{}
	release chan struct{}
}

func (b *blockingCatalog) GetPet(ctx context.Context, id string) (*catalog.PetRecord, error) {
	if id == b.blockID {
		close(b.entered)
		<-b.release
	}
	return b.fakeCatalog.GetPet(ctx, id)
}

func TestDetails_StaleResponseIsDropped(t *testing.T) {
	f := newFixture(t, priced("1", "Sunny", "Dog", "10"), priced("2", "Mittens", "Cat", ""))
	f.loadRendered(t)

	blocking := &blockingCatalog{
		fakeCatalog: f.catalog,
		blockID:     "1",
		entered:     make(chan struct{}),
		release:     make(chan struct{}),
	}
	svc := NewService(blocking, WithClock(f.clock))

	var wg sync.WaitGroup
	wg.Add(1)
	var slowErr error
	go func() {
		defer wg.Done()
		slowErr = svc.ShowDetails(context.Background(), f.page, "1")
	}()
	<-blocking.entered

	require.NoError(t, svc.ShowDetails(context.Background(), f.page, "2"))
	require.Equal(t, "Mittens", f.page.Snapshot().Modal.Pet.Name)

	close(blocking.release)
	wg.Wait()
	require.NoError(t, slowErr)
	require.Equal(t, "Mittens", f.page.Snapshot().Modal.Pet.Name)
}

func TestSort_DescendingByPrice(t *testing.T) {
	f := newFixture(t,
		priced("1", "Ten", "Dog", "10"),
		priced("2", "Five", "Dog", "5"),
		priced("3", "Unknown", "Dog", "call us"),
		priced("4", "Twenty", "Dog", "20"),
	)
	f.loadRendered(t)

	f.svc.Sort(context.Background(), f.page)

	var names []string
	for _, c := range f.page.Snapshot().Cards {
		names = append(names, c.Name)
	}
	require.Equal(t, []string{"Twenty", "Ten", "Five", "Unknown"}, names)
}
