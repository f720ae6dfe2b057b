package payments

import (
	"net/http"

	"growshare/pkg/utils"

	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for payments.
type Handler struct {
	svc ServiceInterface
}

// NewHandler creates a new payment handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) ListOrderPayments(c echo.Context) error {
	userID, role, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	payments, err := h.svc.ListOrderPayments(c.Request().Context(), c.Param("orderId"), userID, role)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, payments)
}

func (h *Handler) ListMyPayments(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	page, limit := utils.GetPageLimit(c)
	payments, total, err := h.svc.ListMyPayments(c.Request().Context(), userID, page, limit)
	if err != nil {
		return utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve payments")
	}
	return utils.RespondWithJSON(c, http.StatusOK, map[string]interface{}{"payments": payments, "total": total})
}
