package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/user-directory-api/internal/config"
	"github.com/iliyamo/user-directory-api/internal/model"
	"github.com/iliyamo/user-directory-api/internal/repository"
)

// UserHandler exposes the v1 user CRUD resource.  Role enforcement lives
// in the router's route table, not here: by the time a handler runs, the
// authorization gate has already admitted the request.
type UserHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	validate *validator.Validate
}

func NewUserHandler(cfg config.Config, users *repository.UserRepo) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: users, validate: validator.New()}
}

type createUserReq struct {
	Username  string   `json:"user_name" validate:"required,min=3,max=50"`
	Email     string   `json:"email_address" validate:"required,email"`
	FirstName string   `json:"first_name" validate:"required,max=50"`
	LastName  string   `json:"last_name" validate:"required,max=50"`
	Password  string   `json:"password" validate:"required,min=8"`
	Roles     []string `json:"roles"`
}

type updateUserReq struct {
	Email     string   `json:"email_address" validate:"required,email"`
	FirstName string   `json:"first_name" validate:"required,max=50"`
	LastName  string   `json:"last_name" validate:"required,max=50"`
	Roles     []string `json:"roles"`
	Status    string   `json:"account_status"`
}

// List returns all users.  The v1 resource is superseded by /v2/users, so
// the response advertises the successor version the same way the previous
// API generation did.
func (h *UserHandler) List(c echo.Context) error {
	c.Response().Header().Set("Sunset", "31 Dec 2026")
	c.Response().Header().Set("Deprecation", "true")
	c.Response().Header().Set("Link", `</v2/users>; rel="successor-version"`)
	return c.JSON(http.StatusOK, h.Users.List(c.Request().Context()))
}

// Get returns a single user or 404.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	u, err := h.Users.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
	}
	return c.JSON(http.StatusOK, u)
}

// Create stores a new user and answers 201 with a Location header.  The
// admin-created user follows the same defaulting rules as registration.
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserReq
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
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error":  "validation failed",
				"fields": map[string]string{"user_name": "Username already exists"},
			})
		}
		c.Logger().Errorf("create user %s: %v", req.Username, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/v1/users/%d", id))
	return c.JSON(http.StatusCreated, u)
}

// Update replaces the mutable fields of an existing user.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, validationBody(err))
	}

	u, err := h.Users.Update(c.Request().Context(), id, model.User{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Roles:     req.Roles,
		Status:    model.AccountStatus(req.Status),
	})
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
	}
	return c.JSON(http.StatusOK, u)
}

// Delete removes a user; 204 on success, 404 when absent.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Users.Delete(c.Request().Context(), id); err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
	}
	return c.NoContent(http.StatusNoContent)
}

func parseID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}
