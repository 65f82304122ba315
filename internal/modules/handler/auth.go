package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskdeck-io/taskdeck/internal/modules/model"
	"github.com/taskdeck-io/taskdeck/internal/modules/serializer"
	"github.com/taskdeck-io/taskdeck/internal/modules/service"
)

type AuthHandler struct {
	svc service.AuthService
}

func NewAuthHandler(s service.AuthService) *AuthHandler {
	return &AuthHandler{svc: s}
}

type RegisterProfileReq struct {
	Role          string `json:"role" binding:"required"`
	ContactNumber string `json:"contact_number" binding:"required"`
	PictureKey    string `json:"picture_key"`
}

type RegisterReq struct {
	Username        string             `json:"username" binding:"required"`
	Password        string             `json:"password" binding:"required"`
	ConfirmPassword string             `json:"confirm_password" binding:"required"`
	Profile         RegisterProfileReq `json:"profile" binding:"required"`
}

// Register godoc
//
//	@Summary		Register account
//	@Description	Create an account with its profile
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	handler.RegisterReq	true	"Register payload"
//	@Success		201	{object}	serializer.Response{data=model.Account}
//	@Router			/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	req := RegisterReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	account, err := h.svc.Register(c.Request.Context(), service.RegisterInput{
		Username:        req.Username,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Role:            model.Role(req.Profile.Role),
		ContactNumber:   req.Profile.ContactNumber,
		PictureKey:      req.Profile.PictureKey,
	})
	if err != nil {
		serializer.JSONError(c, err)
		return
	}

	c.JSON(http.StatusCreated, serializer.Response{Data: account})
}

type LoginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
//
//	@Summary		Login
//	@Description	Exchange credentials for an access+refresh token pair
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	handler.LoginReq	true	"Login payload"
//	@Success		200	{object}	serializer.Response{data=service.LoginOutput}
//	@Router			/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	req := LoginReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	out, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		serializer.JSONError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

type RefreshTokenReq struct {
	Refresh string `json:"refresh" binding:"required"`
}

// Logout godoc
//
//	@Summary		Logout
//	@Description	Revoke a refresh token and the access tokens issued with it
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	handler.RefreshTokenReq	true	"Logout payload"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response
//	@Router			/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	req := RefreshTokenReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	if err := h.svc.Logout(c.Request.Context(), req.Refresh); err != nil {
		serializer.JSONError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Msg: "logout successful"})
}

// Refresh godoc
//
//	@Summary		Refresh tokens
//	@Description	Rotate a refresh token into a new token pair
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	handler.RefreshTokenReq	true	"Refresh payload"
//	@Success		200	{object}	serializer.Response{data=auth.TokenPair}
//	@Router			/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	req := RefreshTokenReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	pair, err := h.svc.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		serializer.JSONError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: pair})
}
