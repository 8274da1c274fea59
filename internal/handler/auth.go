package handler

import (
    "net/http" // HTTP status codes and primitives
    "strings"  // string manipulation utilities
    "time"

    "github.com/labstack/echo/v4" // Echo framework for HTTP routing

    "github.com/iliyamo/venue-directory/internal/config" // app configuration
    "github.com/iliyamo/venue-directory/internal/utils"  // helper functions (hashing, token issuing)
)

// AuthHandler issues editor access tokens.  The single editor account is
// configured through EDITOR_USER and EDITOR_PASSWORD_HASH.
type AuthHandler struct {
    Cfg config.Config
}

func NewAuthHandler(cfg config.Config) *AuthHandler {
    return &AuthHandler{Cfg: cfg}
}

// ----- DTOs -----

type loginReq struct {
    Username string `json:"username" form:"username"`
    Password string `json:"password" form:"password"`
}

type tokenPart struct {
    Token   string    `json:"token"`
    Expires time.Time `json:"expires"`
}

type authResp struct {
    User   string    `json:"user"`
    Role   string    `json:"role"`
    Access tokenPart `json:"access"`
}

// Login verifies the editor credentials and returns an access token.
func (h *AuthHandler) Login(c echo.Context) error {
    if !h.Cfg.EditorAuthEnabled() || h.Cfg.EditorUser == "" || h.Cfg.EditorPasswordHash == "" {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "editor login is not configured"})
    }

    var req loginReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Username = strings.TrimSpace(req.Username)
    if req.Username == "" || req.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
    }
    // the hash is always compared so a wrong user costs as much as a wrong password
    passOK := utils.VerifyPassword(h.Cfg.EditorPasswordHash, req.Password)
    if req.Username != h.Cfg.EditorUser || !passOK {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
    }

    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, req.Username, utils.RoleEditor, h.Cfg.AccessTTLMin)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
    }
    return c.JSON(http.StatusOK, authResp{
        User:   req.Username,
        Role:   utils.RoleEditor,
        Access: tokenPart{Token: access.Token, Expires: access.Exp},
    })
}
