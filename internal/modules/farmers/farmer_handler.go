package farmers

import (
	"net/http"

	"growshare/internal/models"
	"growshare/pkg/utils"

	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for farmer profiles.
type Handler struct {
	svc ServiceInterface
}

// NewHandler creates a new farmer profile handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) GetMyProfile(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	profile, err := h.svc.GetMyProfile(c.Request().Context(), userID)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, profile)
}

func (h *Handler) UpdateMyProfile(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	var req models.UpdateFarmerProfileRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	profile, err := h.svc.UpdateMyProfile(c.Request().Context(), userID, req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, profile)
}

func (h *Handler) GetFarmer(c echo.Context) error {
	profile, err := h.svc.GetFarmer(c.Request().Context(), c.Param("farmerId"))
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, profile)
}

func (h *Handler) ListVisibleFarmers(c echo.Context) error {
	page, limit := utils.GetPageLimit(c)
	profiles, total, err := h.svc.ListVisibleFarmers(c.Request().Context(), page, limit)
	if err != nil {
		return utils.RespondWithError(c, http.StatusInternalServerError, "Failed to list farmers")
	}
	return utils.RespondWithJSON(c, http.StatusOK, map[string]interface{}{"farmers": profiles, "total": total})
}

func (h *Handler) ListPendingFarmers(c echo.Context) error {
	profiles, err := h.svc.ListPendingFarmers(c.Request().Context())
	if err != nil {
		return utils.RespondWithError(c, http.StatusInternalServerError, "Failed to list pending farmers")
	}
	return utils.RespondWithJSON(c, http.StatusOK, profiles)
}

func (h *Handler) ReviewFarmer(c echo.Context) error {
	adminID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	var req models.ReviewFarmerRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	profile, err := h.svc.ReviewFarmer(c.Request().Context(), adminID, c.Param("farmerId"), req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, profile)
}
