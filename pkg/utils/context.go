package utils

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// ExtractUserInfo reads the user ID and role the auth middleware stored in
// the echo context. It returns an already-written 401 response as the error
// when the values are missing, so handlers can just `return err`.
func ExtractUserInfo(c echo.Context) (userID string, role string, err error) {
	userID, ok := c.Get("userID").(string)
	if !ok || userID == "" {
		return "", "", RespondWithError(c, http.StatusUnauthorized, "Missing authentication context")
	}
	role, _ = c.Get("userRole").(string)
	return userID, role, nil
}

// GetPageLimit parses pagination query parameters with sane defaults.
func GetPageLimit(c echo.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
