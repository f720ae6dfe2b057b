package chat

import (
	"net/http"

	"growshare/internal/models"
	"growshare/pkg/utils"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// upgrader is used to upgrade HTTP connections to WebSocket connections.
var upgrader = websocket.Upgrader{}

type Handler struct {
	service  ServiceInterface
	hub      *Hub
	validate *utils.CustomValidator
}

// NewHandler creates a new chat handler.
func NewHandler(service ServiceInterface, hub *Hub) *Handler {
	return &Handler{
		service:  service,
		hub:      hub,
		validate: utils.GetValidator(),
	}
}

// SendMessage handles POST /chat/:farmerId/messages (admin) and
// POST /chat/messages (farmer, no path param).
func (h *Handler) SendMessage(c echo.Context) error {
	userID, role, err := utils.ExtractUserInfo(c)
	if err != nil {
		return utils.RespondWithError(c, http.StatusUnauthorized, err.Error())
	}

	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Validation failed: "+err.Error())
	}

	msg, err := h.service.SendMessage(c.Request().Context(), userID, role, c.Param("farmerId"), req.Body)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusCreated, msg)
}

// ListThread handles GET /chat/:farmerId/messages (admin) and
// GET /chat/messages (farmer).
func (h *Handler) ListThread(c echo.Context) error {
	userID, role, err := utils.ExtractUserInfo(c)
	if err != nil {
		return utils.RespondWithError(c, http.StatusUnauthorized, err.Error())
	}
	page, limit := utils.GetPageLimit(c)

	messages, err := h.service.ListThread(c.Request().Context(), userID, role, c.Param("farmerId"), page, limit)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, messages)
}

// ListConversations handles GET /admin/chat/conversations.
func (h *Handler) ListConversations(c echo.Context) error {
	conversations, err := h.service.ListConversations(c.Request().Context())
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, conversations)
}

// Stream upgrades the connection to a WebSocket and pushes new messages in
// the requester's thread as they arrive. The socket is read-only for the
// client; messages are posted over the REST endpoint.
func (h *Handler) Stream(c echo.Context) error {
	userID, role, err := utils.ExtractUserInfo(c)
	if err != nil {
		return utils.RespondWithError(c, http.StatusUnauthorized, err.Error())
	}

	threadID, err := h.service.ResolveThread(c.Request().Context(), userID, role, c.QueryParam("farmer_id"))
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	h.hub.Subscribe(threadID, conn)
	defer h.hub.Unsubscribe(threadID, conn)

	// Block until the client goes away. Client frames are discarded.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return nil
		}
	}
}
