package middleware

import (
    "net/http"

    "github.com/gorilla/handlers"
    "github.com/labstack/echo/v4"
)

// CORS applies the cross-origin policy used by browser front-ends of the
// directory.
func CORS() echo.MiddlewareFunc {
    return echo.WrapMiddleware(handlers.CORS(
        handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
        handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
        handlers.AllowedOrigins([]string{"*"}),
    ))
}
