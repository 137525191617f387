// Package handler exposes signup, login and logout.
package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/ncobase/socialhub/core/auth/service"
	"github.com/ncobase/socialhub/core/user/structs"
	"github.com/ncobase/socialhub/net/resp"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{service: svc}
}

func (h *Handler) HandleSignup(c *gin.Context) {
	var req structs.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
		return
	}

	token, err := h.service.Signup(c.Request.Context(), &req)
	if err != nil {
		resp.Fail(c.Writer, resp.FromError(err))
		return
	}
	resp.WithStatusCode(c.Writer, http.StatusCreated, gin.H{"token": token})
}

func (h *Handler) HandleLogin(c *gin.Context) {
	var req structs.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
		return
	}

	result, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		resp.Fail(c.Writer, resp.FromError(err))
		return
	}
	resp.Success(c.Writer, result)
}

// HandleLogout only acknowledges; tokens are stateless and expire on their own.
func (h *Handler) HandleLogout(c *gin.Context) {
	resp.Success(c.Writer, "User logged out successfully")
}
