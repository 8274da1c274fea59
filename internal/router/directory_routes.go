package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-directory/internal/handler"    // directory handlers
	"github.com/iliyamo/venue-directory/internal/middleware" // JWT + role middlewares
	"github.com/iliyamo/venue-directory/internal/utils"      // editor role name
)

// Directory bundles the handlers of the venue/artist/show routes.
type Directory struct {
	Venues  *handler.VenueHandler
	Artists *handler.ArtistHandler
	Shows   *handler.ShowHandler
}

// Guards are the middlewares of the directory routes.  Cache wraps public
// reads that only change on a mutation and LiveCache those holding upcoming
// show counts; Limiter wraps the mutations.  JWTSecret, when set, puts the
// mutations behind an EDITOR token.  Nil middlewares are skipped.
type Guards struct {
	Cache     echo.MiddlewareFunc
	LiveCache echo.MiddlewareFunc
	Limiter   echo.MiddlewareFunc
	JWTSecret string
}

// chain drops nil entries.
func chain(ms ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	out := make([]echo.MiddlewareFunc, 0, len(ms))
	for _, m := range ms {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}

// RegisterDirectory registers the public read routes and the editing
// routes under /v1.  Middlewares are attached per route rather than
// through groups, so an unknown /v1 path is a plain 404 and never goes
// through auth or the limiter.
func RegisterDirectory(e *echo.Echo, d Directory, g Guards) {
	// ---- Public reads ----
	cached := chain(g.Cache)
	live := chain(g.LiveCache)

	e.GET("/v1/meta/states", handler.States, cached...)
	e.GET("/v1/meta/genres", handler.Genres, cached...)

	e.GET("/v1/venues", d.Venues.ListAreas, live...)
	e.GET("/v1/venues/search", d.Venues.Search, live...)
	e.GET("/v1/venues/:id", d.Venues.Get, live...)

	e.GET("/v1/artists", d.Artists.List, cached...)
	e.GET("/v1/artists/search", d.Artists.Search, live...)
	e.GET("/v1/artists/:id", d.Artists.Get, live...)

	e.GET("/v1/shows", d.Shows.List, cached...)

	// search also accepts the term as a form/JSON body; POST is never cached
	e.POST("/v1/venues/search", d.Venues.Search)
	e.POST("/v1/artists/search", d.Artists.Search)

	// ---- Editing ----
	var auth []echo.MiddlewareFunc
	if g.JWTSecret != "" {
		auth = []echo.MiddlewareFunc{middleware.JWTAuth(g.JWTSecret), middleware.RequireRole(utils.RoleEditor)}
	}
	// the limiter runs after auth so its key can include the editor
	edit := chain(append(auth, g.Limiter)...)

	e.GET("/v1/venues/:id/edit", d.Venues.EditForm, edit...)
	e.POST("/v1/venues", d.Venues.Create, edit...)
	e.PUT("/v1/venues/:id", d.Venues.Update, edit...)
	e.DELETE("/v1/venues/:id", d.Venues.Delete, edit...)

	e.GET("/v1/artists/:id/edit", d.Artists.EditForm, edit...)
	e.POST("/v1/artists", d.Artists.Create, edit...)
	e.PUT("/v1/artists/:id", d.Artists.Update, edit...)

	e.POST("/v1/shows", d.Shows.Create, edit...)
}
