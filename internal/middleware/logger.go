package middleware

import (
    "time"

    "github.com/gofrs/uuid"
    "github.com/labstack/echo/v4"
    "github.com/sirupsen/logrus"
)

const ctxLogger = "logger"

// RequestLogger tags every request with an id (reusing an incoming
// X-Request-ID), stores a request-scoped logger in the context and logs
// one line per completed request.
func RequestLogger(base logrus.FieldLogger) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            req := c.Request()
            reqID := req.Header.Get(echo.HeaderXRequestID)
            if reqID == "" {
                id, err := uuid.NewV4()
                if err != nil {
                    base.WithError(err).Error("can't generate a request UUID")
                } else {
                    reqID = id.String()
                }
            }
            c.Response().Header().Set(echo.HeaderXRequestID, reqID)

            entry := base.WithFields(logrus.Fields{
                "reqid":     reqID,
                "remote-ip": c.RealIP(),
            })
            c.Set(ctxLogger, entry)

            start := time.Now()
            err := next(c)
            if err != nil {
                // let echo write the error response so the status is final
                c.Error(err)
            }

            fields := logrus.Fields{
                "method":  req.Method,
                "path":    req.URL.Path,
                "status":  c.Response().Status,
                "latency": time.Since(start).String(),
            }
            if err != nil {
                entry.WithFields(fields).WithError(err).Warn("request failed")
            } else {
                entry.WithFields(fields).Info("request served")
            }
            return nil
        }
    }
}

// Logger returns the request-scoped logger stored by RequestLogger, or
// fallback when the middleware did not run.
func Logger(c echo.Context, fallback logrus.FieldLogger) logrus.FieldLogger {
    if l, ok := c.Get(ctxLogger).(logrus.FieldLogger); ok {
        return l
    }
    return fallback
}
