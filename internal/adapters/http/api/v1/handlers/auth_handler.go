package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ABDUL-REHMAN392/moviebackend/config"
	"github.com/ABDUL-REHMAN392/moviebackend/internal/adapters/oauth"
	"github.com/ABDUL-REHMAN392/moviebackend/internal/domain"
	"github.com/ABDUL-REHMAN392/moviebackend/internal/usecase"
	res "github.com/ABDUL-REHMAN392/moviebackend/pkg/http"
)

const (
	accessCookieName  = "accessToken"
	refreshCookieName = "refreshToken"
)

type AuthHandler struct {
	cfg     *config.Config
	service usecase.Service
	google  oauth.Exchanger
}

func NewAuthHandler(cfg *config.Config, s usecase.Service, google oauth.Exchanger) *AuthHandler {
	return &AuthHandler{cfg: cfg, service: s, google: google}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type updateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type sessionResponse struct {
	User   domain.PublicAccount `json:"user"`
	Tokens usecase.Tokens       `json:"tokens"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	req := new(registerRequest)
	if err := c.Bind(req); err != nil {
		return res.ErrorJSON(c, http.StatusBadRequest, "bad_request", "invalid payload", requestIDFromCtx(c), nil)
	}
	account, tokens, err := h.service.Register(c.Request().Context(), requestIDFromCtx(c), req.Name, req.Email, req.Password)
	if err != nil {
		return h.writeError(c, err)
	}
	h.setAuthCookies(c, tokens)
	return res.JSON(c, http.StatusCreated, sessionResponse{User: account.Public(), Tokens: *tokens})
}

func (h *AuthHandler) Login(c echo.Context) error {
	req := new(loginRequest)
	if err := c.Bind(req); err != nil {
		return res.ErrorJSON(c, http.StatusBadRequest, "bad_request", "invalid payload", requestIDFromCtx(c), nil)
	}
	if req.Email == "" || req.Password == "" {
		return res.ErrorJSON(c, http.StatusBadRequest, "validation_failed", "email and password are required", requestIDFromCtx(c), nil)
	}
	account, tokens, err := h.service.Login(c.Request().Context(), requestIDFromCtx(c), req.Email, req.Password)
	if err != nil {
		return h.writeError(c, err)
	}
	h.setAuthCookies(c, tokens)
	return res.JSON(c, http.StatusOK, sessionResponse{User: account.Public(), Tokens: *tokens})
}

// GoogleStart redirects the browser to the provider consent page.
func (h *AuthHandler) GoogleStart(c echo.Context) error {
	return c.Redirect(http.StatusFound, h.google.AuthCodeURL(requestIDFromCtx(c)))
}

// GoogleCallback finishes the OAuth2 dance: code to profile, profile to
// session, then a redirect back to the client app.
func (h *AuthHandler) GoogleCallback(c echo.Context) error {
	code := c.QueryParam("code")
	if code == "" {
		return c.Redirect(http.StatusFound, h.clientRedirect("/auth/failure", ""))
	}
	profile, err := h.google.Exchange(c.Request().Context(), code)
	if err != nil {
		return c.Redirect(http.StatusFound, h.clientRedirect("/auth/failure", ""))
	}
	_, tokens, _, err := h.service.FederatedLogin(c.Request().Context(), requestIDFromCtx(c), profile)
	if err != nil {
		return c.Redirect(http.StatusFound, h.clientRedirect("/auth/failure", ""))
	}
	h.setAuthCookies(c, tokens)
	return c.Redirect(http.StatusFound, h.clientRedirect("/auth/success", tokens.AccessToken))
}

// RefreshToken accepts the refresh token from the cookie or the body and
// returns a new access token only.
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	token := ""
	if cookie, err := c.Cookie(refreshCookieName); err == nil {
		token = cookie.Value
	}
	if token == "" {
		req := new(refreshRequest)
		if err := c.Bind(req); err == nil {
			token = req.RefreshToken
		}
	}
	if token == "" {
		return res.ErrorJSON(c, http.StatusUnauthorized, "refresh_token_missing", "refresh token was not received", requestIDFromCtx(c), nil)
	}
	access, err := h.service.Refresh(c.Request().Context(), requestIDFromCtx(c), token)
	if err != nil {
		return h.writeError(c, err)
	}
	h.setCookie(c, accessCookieName, access, h.cfg.AccessTTL)
	return res.JSON(c, http.StatusOK, map[string]string{"access_token": access})
}

func (h *AuthHandler) GetProfile(c echo.Context) error {
	account, err := h.service.GetProfile(c.Request().Context(), requestIDFromCtx(c), userIDFromCtx(c))
	if err != nil {
		return h.writeError(c, err)
	}
	return res.JSON(c, http.StatusOK, account.Public())
}

func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	req := new(updateProfileRequest)
	if err := c.Bind(req); err != nil {
		return res.ErrorJSON(c, http.StatusBadRequest, "bad_request", "invalid payload", requestIDFromCtx(c), nil)
	}
	account, err := h.service.UpdateProfile(c.Request().Context(), requestIDFromCtx(c), userIDFromCtx(c), req.Name, req.Email)
	if err != nil {
		return h.writeError(c, err)
	}
	return res.JSON(c, http.StatusOK, account.Public())
}

func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.service.Logout(c.Request().Context(), requestIDFromCtx(c), userIDFromCtx(c)); err != nil {
		return h.writeError(c, err)
	}
	h.clearAuthCookies(c)
	return res.JSON(c, http.StatusOK, map[string]string{"status": "logged out"})
}

func (h *AuthHandler) RemoveAvatar(c echo.Context) error {
	if err := h.service.RemoveAvatar(c.Request().Context(), requestIDFromCtx(c), userIDFromCtx(c)); err != nil {
		return h.writeError(c, err)
	}
	return res.JSON(c, http.StatusOK, map[string]string{"status": "avatar removed"})
}

func (h *AuthHandler) DeleteAccount(c echo.Context) error {
	if err := h.service.DeleteAccount(c.Request().Context(), requestIDFromCtx(c), userIDFromCtx(c)); err != nil {
		return h.writeError(c, err)
	}
	h.clearAuthCookies(c)
	return res.JSON(c, http.StatusOK, map[string]string{"status": "account deleted"})
}

// writeError maps domain error kinds to status codes. Email conflicts come
// back 400 rather than 409 to match the client contract.
func (h *AuthHandler) writeError(c echo.Context, err error) error {
	traceID := requestIDFromCtx(c)
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return res.ErrorJSON(c, http.StatusBadRequest, "validation_failed", verr.Reason, traceID, map[string]string{"field": verr.Field})
	case errors.Is(err, domain.ErrValidation):
		return res.ErrorJSON(c, http.StatusBadRequest, "validation_failed", err.Error(), traceID, nil)
	case errors.Is(err, domain.ErrNoChanges):
		return res.ErrorJSON(c, http.StatusBadRequest, "no_changes", "no changes detected", traceID, nil)
	case errors.Is(err, domain.ErrEmailTaken):
		return res.ErrorJSON(c, http.StatusBadRequest, "email_taken", "this email is already associated with another account", traceID, nil)
	case errors.Is(err, domain.ErrInvalidCredentials):
		return res.ErrorJSON(c, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", traceID, nil)
	case errors.Is(err, domain.ErrTokenExpired), errors.Is(err, domain.ErrTokenInvalid), errors.Is(err, domain.ErrTokenRevoked):
		return res.ErrorJSON(c, http.StatusForbidden, "refresh_rejected", "invalid or expired refresh token", traceID, nil)
	case errors.Is(err, domain.ErrUnauthenticated):
		return res.ErrorJSON(c, http.StatusUnauthorized, "unauthenticated", "authentication required", traceID, nil)
	case errors.Is(err, domain.ErrEmailChangeNotAllowed):
		return res.ErrorJSON(c, http.StatusForbidden, "email_change_not_allowed", "cannot change email for federated accounts", traceID, nil)
	case errors.Is(err, domain.ErrAccountNotFound):
		return res.ErrorJSON(c, http.StatusNotFound, "account_not_found", "account not found", traceID, nil)
	default:
		return res.ErrorJSON(c, http.StatusInternalServerError, "internal_error", "unexpected failure", traceID, nil)
	}
}

func (h *AuthHandler) setAuthCookies(c echo.Context, tokens *usecase.Tokens) {
	h.setCookie(c, accessCookieName, tokens.AccessToken, h.cfg.AccessTTL)
	h.setCookie(c, refreshCookieName, tokens.RefreshToken, h.cfg.RefreshTTL)
}

func (h *AuthHandler) clearAuthCookies(c echo.Context) {
	h.setCookie(c, accessCookieName, "", -time.Second)
	h.setCookie(c, refreshCookieName, "", -time.Second)
}

func (h *AuthHandler) setCookie(c echo.Context, name, value string, ttl time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.AppEnv == "production",
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clientRedirect(path, token string) string {
	base := strings.TrimRight(h.cfg.ClientURL, "/") + path
	if token == "" {
		return base
	}
	return base + "?token=" + url.QueryEscape(token)
}

func userIDFromCtx(c echo.Context) string {
	id, _ := c.Get("user_id").(string)
	return id
}

func requestIDFromCtx(c echo.Context) string {
	if reqID := c.Response().Header().Get(echo.HeaderXRequestID); reqID != "" {
		return reqID
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}
