package catalogserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/go-gin-pet-catalog/internal/domains/gallery/domain"
)

// SessionCookie names the cookie carrying the page session id.
const SessionCookie = "catalog_session"

const pageContextKey = "catalog.page"

// Session resolves the caller's page from the session cookie, creating a page
// and running its startup loads on first contact. The loads outlive a dropped
// client connection.
func (api *PageAPI) Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		id, _ := c.Cookie(SessionCookie)
		page, ok := api.store.Get(ctx, id)
		if !ok {
			created, err := api.store.Create(ctx)
			if err != nil {
				api.logger.ErrorContext(ctx, "failed to create session", slog.String("error", err.Error()))
				api.responder.RespondError(c, err)
				c.Abort()
				return
			}
			page = created
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, page.ID(), api.cookieMaxAge, "/", "", false, true)
			api.logger.InfoContext(ctx, "session started", slog.String("session", page.ID()))
		}
		// Loading the page retries a failed startup, actions and the JSON view never do.
		retry := c.Request.Method == http.MethodGet && c.FullPath() == "/"
		if page.MarkStarted(retry) {
			// Failures are logged by the service; the page keeps whatever loaded.
			page.FinishStartup(api.service.Start(context.WithoutCancel(ctx), page))
		}
		c.Set(pageContextKey, page)
		c.Next()
	}
}

func currentPage(c *gin.Context) *domain.Page {
	value, _ := c.Get(pageContextKey)
	page, _ := value.(*domain.Page)
	return page
}
