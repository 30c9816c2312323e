package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/user-directory-api/internal/model"
)

// userPage is the v2 list envelope.
type userPage struct {
	Items []model.User `json:"items"`
	Page  int          `json:"page"`
	Size  int          `json:"size"`
	Total int          `json:"total"`
}

// ListV2 is the successor listing endpoint: zero-based pagination via
// ?page and ?size plus optional ?role and ?active filters.  active=true
// matches ACTIVE accounts, active=false everything else.  The pre-filter
// total goes out in X-Total-Count as well as the body.
func (h *UserHandler) ListV2(c echo.Context) error {
	page := queryInt(c, "page", 0)
	size := queryInt(c, "size", 10)
	if page < 0 {
		page = 0
	}
	if size < 1 {
		size = 10
	}
	roleFilter := strings.ToUpper(strings.TrimSpace(c.QueryParam("role")))
	activeParam := c.QueryParam("active")

	filtered := make([]model.User, 0)
	for _, u := range h.Users.List(c.Request().Context()) {
		if roleFilter != "" && !u.HasRole(roleFilter) {
			continue
		}
		if activeParam != "" {
			active, err := strconv.ParseBool(activeParam)
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid active filter"})
			}
			if active != (u.Status == model.StatusActive) {
				continue
			}
		}
		filtered = append(filtered, u)
	}

	total := len(filtered)
	start := page * size
	end := start + size
	if start > total {
		start, end = total, total
	} else if end > total {
		end = total
	}

	c.Response().Header().Set("X-Total-Count", strconv.Itoa(total))
	return c.JSON(http.StatusOK, userPage{
		Items: filtered[start:end],
		Page:  page,
		Size:  size,
		Total: total,
	})
}

func queryInt(c echo.Context, name string, def int) int {
	v := c.QueryParam(name)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return def
}
