package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/venue-directory/internal/model"
)

// States lists the state codes accepted by the venue and artist forms.
func States(c echo.Context) error {
    return c.JSON(http.StatusOK, echo.Map{"states": model.States})
}

// Genres lists the genre names accepted by the venue and artist forms.
func Genres(c echo.Context) error {
    return c.JSON(http.StatusOK, echo.Map{"genres": model.Genres})
}
