package handler

import (
	"github.com/labstack/echo/v4"

	"edulearn/internal/domain/repository"
	"edulearn/internal/infrastructure/firebase"
	"edulearn/pkg/response"
)

// DevTokenHandler mints custom sign-in tokens for local testing. Only
// routed in development.
type DevTokenHandler struct {
	authClient *firebase.AuthClient
	userRepo   repository.UserRepository
}

func NewDevTokenHandler(authClient *firebase.AuthClient, userRepo repository.UserRepository) *DevTokenHandler {
	return &DevTokenHandler{
		authClient: authClient,
		userRepo:   userRepo,
	}
}

type devTokenRequest struct {
	UserID string `json:"userId" validate:"required"`
}

func (h *DevTokenHandler) GenerateToken(c echo.Context) error {
	var req devTokenRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.userRepo.GetByID(c.Request().Context(), req.UserID)
	if err != nil {
		return response.Error(c, err)
	}

	token, err := h.authClient.GenerateToken(c.Request().Context(), user.ID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, echo.Map{
		"token": token,
		"user":  user,
	})
}
