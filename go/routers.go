// Package catalogserver is the HTTP surface of the pet catalog page.
package catalogserver

import (
	"embed"
	"html/template"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// NewRouter returns a new router serving the page API. Extra middleware runs
// before the session middleware.
func NewRouter(api *PageAPI, middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	// Category names may hold "/" which only survives routing escaped.
	router.UseRawPath = true
	router.UnescapePathValues = true
	router.Use(gin.Recovery())
	router.Use(middleware...)
	router.SetHTMLTemplate(template.Must(template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")))

	router.GET("/healthz", api.Health)

	pages := router.Group("/", api.Session())
	for _, route := range getRoutes(api) {
		switch route.Method {
		case http.MethodGet:
			pages.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			pages.POST(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

var templateFuncs = template.FuncMap{
	// pathSegment escapes a value for use as one URL path segment.
	"pathSegment": url.PathEscape,
}

func getRoutes(api *PageAPI) []Route {
	return []Route{
		{"ShowPage", http.MethodGet, "/", api.ShowPage},
		{"GetView", http.MethodGet, "/api/view", api.GetView},
		{"SelectCategory", http.MethodPost, "/categories/:name/select", api.SelectCategory},
		{"ReloadPets", http.MethodPost, "/pets/reload", api.ReloadPets},
		{"LikeCard", http.MethodPost, "/cards/:key/like", api.LikeCard},
		{"AdoptCard", http.MethodPost, "/cards/:key/adopt", api.AdoptCard},
		{"ShowCardDetails", http.MethodPost, "/cards/:key/details", api.ShowCardDetails},
		{"ShowDetails", http.MethodPost, "/details", api.ShowDetails},
		{"CloseDetails", http.MethodPost, "/details/close", api.CloseDetails},
		{"SortByPrice", http.MethodPost, "/sort", api.SortByPrice},
	}
}
