package listings

import (
	"net/http"

	"growshare/internal/models"
	"growshare/pkg/utils"

	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for land listings.
type Handler struct {
	svc ServiceInterface
}

// NewHandler creates a new land listing handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) CreateListing(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	var req models.CreateListingRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	listing, err := h.svc.CreateListing(c.Request().Context(), userID, req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusCreated, listing)
}

func (h *Handler) GetListing(c echo.Context) error {
	listing, err := h.svc.GetListing(c.Request().Context(), c.Param("listingId"))
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, listing)
}

func (h *Handler) ListMyListings(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	listings, err := h.svc.ListMyListings(c.Request().Context(), userID)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, listings)
}

func (h *Handler) BrowseListings(c echo.Context) error {
	page, limit := utils.GetPageLimit(c)
	listings, total, err := h.svc.BrowseListings(c.Request().Context(), page, limit)
	if err != nil {
		return utils.RespondWithError(c, http.StatusInternalServerError, "Failed to browse listings")
	}
	return utils.RespondWithJSON(c, http.StatusOK, map[string]interface{}{"listings": listings, "total": total})
}

func (h *Handler) UpdateListing(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	var req models.UpdateListingRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	listing, err := h.svc.UpdateListing(c.Request().Context(), userID, c.Param("listingId"), req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, listing)
}

func (h *Handler) DeleteListing(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	if err := h.svc.DeleteListing(c.Request().Context(), userID, c.Param("listingId")); err != nil {
		return utils.HandleServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
