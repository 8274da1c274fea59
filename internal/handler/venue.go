// Package handler exposes the HTTP handlers of the directory.  This file
// covers venues: the area listing, search, the detail page, the edit
// prefill and the create/edit/delete mutations.
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

// VenueHandler serves the /v1/venues routes.
type VenueHandler struct {
    Venues *repository.VenueRepo
    Deps
}

func NewVenueHandler(venues *repository.VenueRepo, deps Deps) *VenueHandler {
    if venues == nil {
        panic("nil repository passed to NewVenueHandler")
    }
    return &VenueHandler{Venues: venues, Deps: deps}
}

func venuePath(id uint64) string { return "/v1/venues/" + strconv.FormatUint(id, 10) }

// ListAreas returns every venue grouped by city and state.  An empty
// directory, like a failed query, is answered with 404.
func (h *VenueHandler) ListAreas(c echo.Context) error {
    areas, err := h.Venues.ListAreas(c.Request().Context())
    if err != nil {
        h.logger(c).WithError(err).Error("list areas failed")
        return c.JSON(http.StatusNotFound, echo.Map{"error": "no venues found"})
    }
    if len(areas) == 0 {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "no venues found"})
    }
    return c.JSON(http.StatusOK, echo.Map{"areas": areas})
}

// Search matches venue names case-insensitively.
func (h *VenueHandler) Search(c echo.Context) error {
    var req searchReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    res, err := h.Venues.Search(c.Request().Context(), req.SearchTerm)
    if err != nil {
        h.logger(c).WithError(err).Error("venue search failed")
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"search_term": req.SearchTerm, "count": res.Count, "data": res.Data})
}

// Get returns the venue page record with its past and upcoming shows.
func (h *VenueHandler) Get(c echo.Context) error {
    id, err := parseID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    d, err := h.Venues.GetDetail(c.Request().Context(), id)
    if err != nil {
        if !errors.Is(err, repository.ErrVenueNotFound) {
            h.logger(c).WithError(err).WithField("venue_id", id).Error("venue detail failed")
        }
        return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
    }
    return c.JSON(http.StatusOK, d)
}

// EditForm returns the stored venue shaped as the edit payload.
func (h *VenueHandler) EditForm(c echo.Context) error {
    id, err := parseID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    v, err := h.Venues.GetByID(c.Request().Context(), id)
    if err != nil {
        if !errors.Is(err, repository.ErrVenueNotFound) {
            h.logger(c).WithError(err).WithField("venue_id", id).Error("venue lookup failed")
        }
        return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
    }
    return c.JSON(http.StatusOK, echo.Map{"id": id, "form": form.VenueFormFrom(v)})
}

// Create lists a new venue with its genres.
func (h *VenueHandler) Create(c echo.Context) error {
    var f form.VenueForm
    if err := c.Bind(&f); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    f.Normalize()
    if err := f.Validate(); err != nil {
        return h.invalid(c, "venue", "create", notListedNotice("Venue", f.Name), err)
    }

    v := f.ToModel(0)
    if err := h.Venues.Create(c.Request().Context(), v); err != nil {
        return h.mutationFailed(c, "venue", "create", notListedNotice("Venue", f.Name), err)
    }
    metrics.RecordMutation("venue", "create", metrics.OutcomeOK)
    h.committed(c, queue.NewEvent(queue.VenueCreated, v.ID, v.Name, actor(c)))
    return c.JSON(http.StatusCreated, echo.Map{
        "message":  listedNotice("Venue", v.Name),
        "venue":    v,
        "redirect": venuePath(v.ID),
    })
}

// Update overwrites the venue and its genre set.
func (h *VenueHandler) Update(c echo.Context) error {
    id, err := parseID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var f form.VenueForm
    if err := c.Bind(&f); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    f.Normalize()
    if err := f.Validate(); err != nil {
        return h.invalid(c, "venue", "update", notUpdatedNotice("Venue", f.Name), err)
    }

    v := f.ToModel(id)
    if err := h.Venues.Update(c.Request().Context(), v); err != nil {
        return h.mutationFailed(c, "venue", "update", notUpdatedNotice("Venue", f.Name), err)
    }
    metrics.RecordMutation("venue", "update", metrics.OutcomeOK)
    h.committed(c, queue.NewEvent(queue.VenueUpdated, id, v.Name, actor(c)))
    return c.JSON(http.StatusOK, echo.Map{
        "message":  updatedNotice("Venue", v.Name),
        "redirect": venuePath(id),
    })
}

// Delete removes the venue, its genres and every show it hosts.
func (h *VenueHandler) Delete(c echo.Context) error {
    const failed = "An error occurred. Venue could not be deleted."
    id, err := parseID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if err := h.Venues.Delete(c.Request().Context(), id); err != nil {
        return h.mutationFailed(c, "venue", "delete", failed, err)
    }
    metrics.RecordMutation("venue", "delete", metrics.OutcomeOK)
    h.committed(c, queue.NewEvent(queue.VenueDeleted, id, "", actor(c)))
    return c.JSON(http.StatusOK, echo.Map{"message": "Venue deleted!", "redirect": "/v1/venues"})
}
