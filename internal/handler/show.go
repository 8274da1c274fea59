package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/venue-directory/internal/form"
    "github.com/iliyamo/venue-directory/internal/metrics"
    "github.com/iliyamo/venue-directory/internal/model"
    "github.com/iliyamo/venue-directory/internal/queue"
    "github.com/iliyamo/venue-directory/internal/repository"
)

// ShowHandler serves the /v1/shows routes.
type ShowHandler struct {
    Shows *repository.ShowRepo
    Deps
}

func NewShowHandler(shows *repository.ShowRepo, deps Deps) *ShowHandler {
    if shows == nil {
        panic("nil repository passed to NewShowHandler")
    }
    return &ShowHandler{Shows: shows, Deps: deps}
}

// List returns every show with its venue and artist; 404 when none exist.
func (h *ShowHandler) List(c echo.Context) error {
    shows, err := h.Shows.List(c.Request().Context())
    if err != nil {
        h.logger(c).WithError(err).Error("list shows failed")
        return c.JSON(http.StatusNotFound, echo.Map{"error": "no shows found"})
    }
    if len(shows) == 0 {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "no shows found"})
    }
    return c.JSON(http.StatusOK, echo.Map{"shows": shows})
}

// Create books an artist at a venue.  Unknown ids and a second show of the
// same artist at the same instant are rejected by the store.
func (h *ShowHandler) Create(c echo.Context) error {
    const (
        listed   = "Show was successfully listed!"
        unlisted = "An error occurred. Show could not be listed."
    )
    var f form.ShowForm
    if err := c.Bind(&f); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    f.Normalize()
    if err := f.Validate(); err != nil {
        return h.invalid(c, "show", "create", unlisted, err)
    }

    s := f.ToModel()
    if err := h.Shows.Create(c.Request().Context(), s); err != nil {
        return h.mutationFailed(c, "show", "create", unlisted, err)
    }
    metrics.RecordMutation("show", "create", metrics.OutcomeOK)

    start := model.FormatStartTime(s.Date)
    ev := queue.NewEvent(queue.ShowCreated, s.ID, "", actor(c))
    ev.ArtistID, ev.VenueID, ev.StartTime = s.ArtistID, s.VenueID, start
    h.committed(c, ev)
    return c.JSON(http.StatusCreated, echo.Map{
        "message": listed,
        "show": echo.Map{
            "id":         s.ID,
            "artist_id":  s.ArtistID,
            "venue_id":   s.VenueID,
            "start_time": start,
        },
    })
}
