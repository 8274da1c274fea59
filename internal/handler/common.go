package handler // handler defines http handlers

import (
    "context"
    "errors"
    "fmt"
    "net/http"
    "strconv"
    "sync"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/sirupsen/logrus"

    "github.com/iliyamo/venue-directory/internal/metrics"
    "github.com/iliyamo/venue-directory/internal/middleware"
    "github.com/iliyamo/venue-directory/internal/queue"
    "github.com/iliyamo/venue-directory/internal/repository"
)

// EventPublisher delivers directory events once a mutation is committed.
type EventPublisher interface {
    Publish(ctx context.Context, event queue.DirectoryEvent) error
}

// CachePurger drops every cached read response.
type CachePurger interface {
    Purge(ctx context.Context) error
}

// Deps bundles the collaborators shared by the directory handlers.
// Pending, when set, tracks background publishes so shutdown can wait for
// them.
type Deps struct {
    Log     logrus.FieldLogger
    Events  EventPublisher
    Cache   CachePurger
    Pending *sync.WaitGroup
}

// publishTimeout bounds a background publish when the broker hangs.
const publishTimeout = 5 * time.Second

func (d Deps) logger(c echo.Context) logrus.FieldLogger {
    return middleware.Logger(c, d.Log)
}

// committed runs the side effects of a successful mutation: the read cache
// is purged before the response goes out, the event is published in the
// background.  Neither failure affects the response.
func (d Deps) committed(c echo.Context, ev queue.DirectoryEvent) {
    log := d.logger(c).WithField("kind", ev.Kind)
    ctx := context.WithoutCancel(c.Request().Context())
    if d.Cache != nil {
        if err := d.Cache.Purge(ctx); err != nil {
            log.WithError(err).Warn("cache purge failed")
        }
    }
    if d.Events == nil {
        return
    }
    if d.Pending != nil {
        d.Pending.Add(1)
    }
    go func() {
        if d.Pending != nil {
            defer d.Pending.Done()
        }
        ctx, cancel := context.WithTimeout(ctx, publishTimeout)
        defer cancel()
        if err := d.Events.Publish(ctx, ev); err != nil {
            log.WithError(err).Warn("event publish failed")
        }
    }()
}

// actor names the editor behind a mutation for the activity log.
func actor(c echo.Context) string {
    if s, ok := c.Get(middleware.CtxUserID).(string); ok && s != "" {
        return s
    }
    return "anon"
}

// parseID reads the :id path parameter.
func parseID(c echo.Context) (uint64, error) {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return 0, errors.New("invalid id")
    }
    return id, nil
}

// mutationStatus maps a store error to the HTTP status and metric outcome
// of a failed mutation.
func mutationStatus(err error) (int, string) {
    switch {
    case errors.Is(err, repository.ErrVenueNotFound), errors.Is(err, repository.ErrArtistNotFound):
        return http.StatusNotFound, metrics.OutcomeNotFound
    case errors.Is(err, repository.ErrConstraint):
        return http.StatusConflict, metrics.OutcomeConflict
    default:
        return http.StatusInternalServerError, metrics.OutcomeStoreFail
    }
}

// mutationFailed logs the store error and answers with the failure notice.
func (d Deps) mutationFailed(c echo.Context, entity, op, notice string, err error) error {
    status, outcome := mutationStatus(err)
    metrics.RecordMutation(entity, op, outcome)
    log := d.logger(c).WithError(err).WithFields(logrus.Fields{"entity": entity, "op": op})
    if status == http.StatusInternalServerError {
        log.Error("store failure")
    } else {
        log.Debug("mutation rejected")
    }
    return c.JSON(status, echo.Map{"message": notice})
}

// invalid answers a validation failure before anything reaches the store.
func (d Deps) invalid(c echo.Context, entity, op, notice string, err error) error {
    metrics.RecordMutation(entity, op, metrics.OutcomeInvalid)
    d.logger(c).WithError(err).WithFields(logrus.Fields{"entity": entity, "op": op}).Debug("validation failed")
    return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": notice, "errors": err})
}

// Notices shown to the editor after a mutation.
func listedNotice(entity, name string) string {
    return fmt.Sprintf("%s %s was successfully listed!", entity, name)
}

func notListedNotice(entity, name string) string {
    return fmt.Sprintf("An error occurred. %s %s could not be listed.", entity, name)
}

func updatedNotice(entity, name string) string {
    return fmt.Sprintf("%s %s was successfully updated!", entity, name)
}

func notUpdatedNotice(entity, name string) string {
    return fmt.Sprintf("An error occurred. %s %s could not be updated.", entity, name)
}

// searchReq carries the search term from the query string (GET) or the
// form/JSON body (POST).
type searchReq struct {
    SearchTerm string `json:"search_term" form:"search_term" query:"search_term"`
}
