package advisor

import (
	"net/http"

	"growshare/internal/models"
	"growshare/pkg/utils"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	service  ServiceInterface
	validate *utils.CustomValidator
}

// NewHandler creates a new advisor handler.
func NewHandler(service ServiceInterface) *Handler {
	return &Handler{
		service:  service,
		validate: utils.GetValidator(),
	}
}

// Chat handles POST /advisor/chat.
func (h *Handler) Chat(c echo.Context) error {
	_, role, err := utils.ExtractUserInfo(c)
	if err != nil {
		return utils.RespondWithError(c, http.StatusUnauthorized, err.Error())
	}

	var req models.AdvisorRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Validation failed: "+err.Error())
	}

	resp, err := h.service.Chat(c.Request().Context(), role, req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, resp)
}
