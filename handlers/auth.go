package handlers

import (
	"net/http"

	"licencias_flow_go/db"
	"licencias_flow_go/services"

	"github.com/labstack/echo/v4"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginHandler verifies credentials and returns the user profile.
func LoginHandler(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	user, err := services.Authenticate(db.DB, req.Username, req.Password)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Credenciales inválidas."})
	}
	return c.JSON(http.StatusOK, user)
}
