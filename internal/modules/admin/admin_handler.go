package admin

import (
	"net/http"

	"growshare/pkg/utils"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	service ServiceInterface
}

// NewHandler creates a new admin handler.
func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

// GetPlatformStats handles GET /admin/stats.
func (h *Handler) GetPlatformStats(c echo.Context) error {
	stats, err := h.service.GetPlatformStats(c.Request().Context())
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, stats)
}

// ListUsers handles GET /admin/users.
func (h *Handler) ListUsers(c echo.Context) error {
	page, limit := utils.GetPageLimit(c)

	users, total, err := h.service.ListUsers(c.Request().Context(), page, limit)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, map[string]any{
		"users": users,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}
