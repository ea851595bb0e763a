package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinebook/internal/middleware"
	"github.com/iliyamo/cinebook/internal/model"
	"github.com/iliyamo/cinebook/internal/service"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,looseemail"`
	Password string `json:"password" validate:"required,min=6"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResp struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
type authResp struct {
	userResp
	Token string `json:"token"`
}

func toUserResp(u model.User) userResp {
	return userResp{ID: u.ID, Name: u.Name, Email: u.Email}
}

// Register: create user and return a token immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return errInvalidBody
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.Auth.Register(c.Request().Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, authResp{userResp: toUserResp(res.User), Token: res.Token})
}

// Login: check credentials and return a fresh token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return errInvalidBody
	}
	res, err := h.Auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResp{userResp: toUserResp(res.User), Token: res.Token})
}

// Me returns the caller resolved by the auth gate.
func (h *AuthHandler) Me(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return service.Unauthorized(service.MsgNoToken)
	}
	return c.JSON(http.StatusOK, toUserResp(u))
}
