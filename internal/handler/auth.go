package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/user-directory-api/internal/config"
	"github.com/iliyamo/user-directory-api/internal/middleware"
	"github.com/iliyamo/user-directory-api/internal/model"
	"github.com/iliyamo/user-directory-api/internal/queue"
	"github.com/iliyamo/user-directory-api/internal/repository"
	"github.com/iliyamo/user-directory-api/internal/utils"
)

// EventPublisher sends audit events to the message broker.  It is an
// interface so the handler does not care whether a broker is configured;
// a nil publisher disables events entirely (tests, minimal deployments).
type EventPublisher interface {
	Publish(ctx context.Context, event queue.AuthEvent) error
}

// AuthHandler bundles dependencies for the credential endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Events   EventPublisher
	validate *validator.Validate
}

func NewAuthHandler(cfg config.Config, users *repository.UserRepo, events EventPublisher) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Events: events, validate: validator.New()}
}

// ----- DTOs -----

type loginReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerReq struct {
	Username  string   `json:"user_name" validate:"required,min=3,max=50"`
	Email     string   `json:"email_address" validate:"required,email"`
	FirstName string   `json:"first_name" validate:"required,max=50"`
	LastName  string   `json:"last_name" validate:"required,max=50"`
	Password  string   `json:"password" validate:"required,min=8"`
	Roles     []string `json:"roles"`
}

// tokenResp is the issued-token shape shared by login and register.
type tokenResp struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Login verifies a username/password pair and exchanges it for a signed
// access token.  Unknown user and wrong password produce the identical
// 401 body so a caller cannot probe which usernames exist.  Internal
// faults are logged with detail and surfaced as a generic 500.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	u, ok := h.Users.Authenticate(c.Request().Context(), req.Username, req.Password)
	if !ok {
		c.Logger().Warnf("failed login attempt for user: %s", req.Username)
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid credentials"})
	}

	token, err := utils.IssueToken(h.Cfg.JWTSecret, u, h.Cfg.AccessTTL)
	if err != nil {
		c.Logger().Errorf("issue token for %s: %v", u.Username, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Authentication failed"})
	}

	h.publishEvent(queue.EventUserLogin, u, c.RealIP())
	return c.JSON(http.StatusOK, tokenResp{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(h.Cfg.AccessTTL.Seconds()),
	})
}

// Register creates a user and logs it in immediately, responding with an
// issued token.  The password is hashed before it is stored; the
// plaintext lives only for the duration of this call.  Callers that give
// no roles get the default USER role.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, validationBody(err))
	}

	ctx := c.Request().Context()
	id, err := h.Users.Create(ctx, model.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Roles:     req.Roles,
	}, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Username already exists"})
		}
		c.Logger().Errorf("create user %s: %v", req.Username, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Registration failed"})
	}

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		c.Logger().Errorf("load created user %d: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Registration failed"})
	}
	token, err := utils.IssueToken(h.Cfg.JWTSecret, u, h.Cfg.AccessTTL)
	if err != nil {
		c.Logger().Errorf("issue token for %s: %v", u.Username, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Registration failed"})
	}

	h.publishEvent(queue.EventUserRegistered, u, c.RealIP())
	return c.JSON(http.StatusCreated, tokenResp{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(h.Cfg.AccessTTL.Seconds()),
	})
}

// Health is the auth-scoped liveness probe; always 200 and exempt from
// the gates.
func (h *AuthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "healthy"})
}

// Me returns the installed principal; a handy protected endpoint for
// verifying a token end to end.
func (h *AuthHandler) Me(c echo.Context) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		// Unreachable behind RequireRole; kept so the handler is safe
		// to register on any route.
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user_id":   p.UserID,
		"user_name": p.Username,
		"roles":     p.Roles,
	})
}

// publishEvent fires an audit event without blocking the response; the
// broker being down must not slow logins.
func (h *AuthHandler) publishEvent(eventType string, u model.User, ip string) {
	if h.Events == nil {
		return
	}
	ev := queue.AuthEvent{
		Type:       eventType,
		UserID:     u.ID,
		Username:   u.Username,
		Roles:      u.Roles,
		RemoteIP:   ip,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = h.Events.Publish(ctx, ev)
	}()
}
