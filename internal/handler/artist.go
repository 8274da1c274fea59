package handler

import (
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/venue-directory/internal/form"
    "github.com/iliyamo/venue-directory/internal/metrics"
    "github.com/iliyamo/venue-directory/internal/queue"
    "github.com/iliyamo/venue-directory/internal/repository"
)

// ArtistHandler serves the /v1/artists routes.
type ArtistHandler struct {
    Artists *repository.ArtistRepo
    Deps
}

// NewArtistHandler panics on a nil repository.
func NewArtistHandler(artists *repository.ArtistRepo, deps Deps) *ArtistHandler {
    if artists == nil {
        panic("nil repository passed to NewArtistHandler")
    }
    return &ArtistHandler{Artists: artists, Deps: deps}
}

func artistPath(id uint64) string { return "/v1/artists/" + strconv.FormatUint(id, 10) }

// List returns every artist as id/name pairs ordered by id.  An empty
// directory is answered with 404.
func (h *ArtistHandler) List(c echo.Context) error {
    artists, err := h.Artists.List(c.Request().Context())
    if err != nil {
        h.logger(c).WithError(err).Error("list artists failed")
        return c.JSON(http.StatusNotFound, echo.Map{"error": "no artists found"})
    }
    if len(artists) == 0 {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "no artists found"})
    }
    return c.JSON(http.StatusOK, echo.Map{"artists": artists})
}

// Search matches artist names case-insensitively.
func (h *ArtistHandler) Search(c echo.Context) error {
    var req searchReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    res, err := h.Artists.Search(c.Request().Context(), req.SearchTerm)
    if err != nil {
        h.logger(c).WithError(err).Error("artist search failed")
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"search_term": req.SearchTerm, "count": res.Count, "data": res.Data})
}

// Get returns the artist page record with its past and upcoming shows.
func (h *ArtistHandler) Get(c echo.Context) error {
    id, err := parseID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    d, err := h.Artists.GetDetail(c.Request().Context(), id)
    if err != nil {
        if !errors.Is(err, repository.ErrArtistNotFound) {
            h.logger(c).WithError(err).WithField("artist_id", id).Error("artist detail failed")
        }
        return c.JSON(http.StatusNotFound, echo.Map{"error": "artist not found"})
    }
    return c.JSON(http.StatusOK, d)
}

// EditForm returns the stored artist shaped as the edit payload.
func (h *ArtistHandler) EditForm(c echo.Context) error {
    id, err := parseID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    a, err := h.Artists.GetByID(c.Request().Context(), id)
    if err != nil {
        if !errors.Is(err, repository.ErrArtistNotFound) {
            h.logger(c).WithError(err).WithField("artist_id", id).Error("artist lookup failed")
        }
        return c.JSON(http.StatusNotFound, echo.Map{"error": "artist not found"})
    }
    return c.JSON(http.StatusOK, echo.Map{"id": id, "form": form.ArtistFormFrom(a)})
}

// Create lists a new artist with its genres.
func (h *ArtistHandler) Create(c echo.Context) error {
    var f form.ArtistForm
    if err := c.Bind(&f); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    f.Normalize()
    if err := f.Validate(); err != nil {
        return h.invalid(c, "artist", "create", notListedNotice("Artist", f.Name), err)
    }

    a := f.ToModel(0)
    if err := h.Artists.Create(c.Request().Context(), a); err != nil {
        return h.mutationFailed(c, "artist", "create", notListedNotice("Artist", f.Name), err)
    }
    metrics.RecordMutation("artist", "create", metrics.OutcomeOK)
    h.committed(c, queue.NewEvent(queue.ArtistCreated, a.ID, a.Name, actor(c)))
    return c.JSON(http.StatusCreated, echo.Map{
        "message":  listedNotice("Artist", a.Name),
        "artist":   a,
        "redirect": artistPath(a.ID),
    })
}

// Update overwrites the artist and its genre set.
func (h *ArtistHandler) Update(c echo.Context) error {
    id, err := parseID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var f form.ArtistForm
    if err := c.Bind(&f); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    f.Normalize()
    if err := f.Validate(); err != nil {
        return h.invalid(c, "artist", "update", notUpdatedNotice("Artist", f.Name), err)
    }

    a := f.ToModel(id)
    if err := h.Artists.Update(c.Request().Context(), a); err != nil {
        return h.mutationFailed(c, "artist", "update", notUpdatedNotice("Artist", f.Name), err)
    }
    metrics.RecordMutation("artist", "update", metrics.OutcomeOK)
    h.committed(c, queue.NewEvent(queue.ArtistUpdated, id, a.Name, actor(c)))
    return c.JSON(http.StatusOK, echo.Map{
        "message":  updatedNotice("Artist", a.Name),
        "redirect": artistPath(id),
    })
}
