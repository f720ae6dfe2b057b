package growth

import (
	"net/http"

	"growshare/internal/models"
	"growshare/pkg/utils"

	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for growth updates.
type Handler struct {
	svc ServiceInterface
}

// NewHandler creates a new growth update handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{svc: svc}
}

// AppendUpdate handles POST /orders/:orderId/growth as multipart form data
// with optional photo attachments under the "images" field.
func (h *Handler) AppendUpdate(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	var req models.AppendGrowthUpdateRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	var images []ImageFile
	if form, err := c.MultipartForm(); err == nil && form != nil {
		for _, fh := range form.File["images"] {
			f, err := fh.Open()
			if err != nil {
				return utils.RespondWithError(c, http.StatusBadRequest, "Unreadable image attachment")
			}
			defer f.Close()
			images = append(images, ImageFile{
				Filename:    fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Content:     f,
			})
		}
	}

	update, err := h.svc.AppendUpdate(c.Request().Context(), userID, c.Param("orderId"), req, images)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusCreated, update)
}

func (h *Handler) ListUpdates(c echo.Context) error {
	userID, role, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	updates, err := h.svc.ListUpdates(c.Request().Context(), c.Param("orderId"), userID, role)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, updates)
}
