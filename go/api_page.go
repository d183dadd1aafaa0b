package catalogserver

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	galleryapp "github.com/Apurer/go-gin-pet-catalog/internal/domains/gallery/application"
	"github.com/Apurer/go-gin-pet-catalog/internal/domains/gallery/domain"
	galleryports "github.com/Apurer/go-gin-pet-catalog/internal/domains/gallery/ports"
	apierrors "github.com/Apurer/go-gin-pet-catalog/internal/shared/errors"
)

// PageAPI wires HTTP transport with the catalog page service and the session store.
type PageAPI struct {
	service   galleryapp.Port
	store     galleryports.PageStore
	responder *apierrors.Responder
	logger    *slog.Logger
	// cookieMaxAge is the session cookie lifetime in seconds.
	cookieMaxAge int
	refresh      time.Duration
}

type PageOption func(*PageAPI)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) PageOption {
	return func(api *PageAPI) {
		api.logger = logger
	}
}

// WithSessionTTL aligns the session cookie lifetime with the store TTL.
func WithSessionTTL(ttl time.Duration) PageOption {
	return func(api *PageAPI) {
		api.cookieMaxAge = int(ttl / time.Second)
	}
}

// WithRefreshInterval sets how often a page with pending work reloads itself.
func WithRefreshInterval(d time.Duration) PageOption {
	return func(api *PageAPI) {
		api.refresh = d
	}
}

// NewPageAPI creates a PageAPI backed by the provided service and store.
func NewPageAPI(service galleryapp.Port, store galleryports.PageStore, opts ...PageOption) *PageAPI {
	api := &PageAPI{
		service:   service,
		store:     store,
		responder: newResponder(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		refresh:   time.Second,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	if api.logger == nil {
		api.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return api
}

// Get /
// Render the catalog page
func (api *PageAPI) ShowPage(c *gin.Context) {
	page := currentPage(c)
	view := page.Snapshot()
	refresh := 0
	if view.Pending {
		refresh = int((api.refresh + time.Second - 1) / time.Second)
	}
	c.HTML(http.StatusOK, "page.html", pageTemplateData{View: view, RefreshSeconds: refresh})
}

// Get /api/view
// Snapshot of the page as JSON
func (api *PageAPI) GetView(c *gin.Context) {
	c.JSON(http.StatusOK, currentPage(c).Snapshot())
}

// Post /categories/:name/select
// Show only the pets of one category
func (api *PageAPI) SelectCategory(c *gin.Context) {
	page := currentPage(c)
	err := api.service.LoadPetsByCategory(c.Request.Context(), page, c.Param("name"))
	api.finish(c, page, err)
}

// Post /pets/reload
// Show the full catalog again
func (api *PageAPI) ReloadPets(c *gin.Context) {
	page := currentPage(c)
	err := api.service.LoadAllPets(c.Request.Context(), page)
	api.finish(c, page, err)
}

// Post /cards/:key/like
// Like the pet of a card
func (api *PageAPI) LikeCard(c *gin.Context) {
	page := currentPage(c)
	err := api.service.Like(c.Request.Context(), page, c.Param("key"))
	api.finish(c, page, err)
}

// Post /cards/:key/adopt
// Start the adopt countdown of a card
func (api *PageAPI) AdoptCard(c *gin.Context) {
	page := currentPage(c)
	err := api.service.Adopt(c.Request.Context(), page, c.Param("key"))
	api.finish(c, page, err)
}

// Post /cards/:key/details
// Open the details modal for a card
func (api *PageAPI) ShowCardDetails(c *gin.Context) {
	page := currentPage(c)
	err := api.service.ShowDetailsForCard(c.Request.Context(), page, c.Param("key"))
	api.finish(c, page, err)
}

// Post /details
// Open the details modal for any rendered pet id
func (api *PageAPI) ShowDetails(c *gin.Context) {
	page := currentPage(c)
	petID := strings.TrimSpace(c.PostForm("pet_id"))
	if petID == "" {
		petID = strings.TrimSpace(c.Query("pet_id"))
	}
	if petID == "" {
		api.finishProblem(c, apierrors.ErrBadRequest.WithDetail("pet_id is required"))
		return
	}
	err := api.service.ShowDetails(c.Request.Context(), page, petID)
	api.finish(c, page, err)
}

// Post /details/close
// Hide the details modal
func (api *PageAPI) CloseDetails(c *gin.Context) {
	page := currentPage(c)
	api.service.CloseDetails(c.Request.Context(), page)
	api.finish(c, page, nil)
}

// Post /sort
// Order the cards by price, highest first
func (api *PageAPI) SortByPrice(c *gin.Context) {
	page := currentPage(c)
	api.service.Sort(c.Request.Context(), page)
	api.finish(c, page, nil)
}

// Get /healthz
func (api *PageAPI) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": api.store.Len()})
}

// finish answers an action: JSON clients get the view or a problem, browsers
// are sent back to the page whatever the outcome. Failures were already
// logged by the service.
func (api *PageAPI) finish(c *gin.Context, page *domain.Page, err error) {
	if !wantsJSON(c) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page.Snapshot())
}

func (api *PageAPI) finishProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	api.logger.WarnContext(c.Request.Context(), "rejected request",
		slog.String("path", c.Request.URL.Path), slog.String("detail", problem.Detail))
	if !wantsJSON(c) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	api.responder.Respond(c, problem)
}

func wantsJSON(c *gin.Context) bool {
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, gin.MIMEJSON) && !strings.Contains(accept, gin.MIMEHTML)
}

type pageTemplateData struct {
	View           domain.View
	RefreshSeconds int
}
