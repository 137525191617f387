// Package handler exposes the comment endpoints.
package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/ncobase/socialhub/biz/comment/service"
	"github.com/ncobase/socialhub/biz/comment/structs"
	"github.com/ncobase/socialhub/ctxutil"
	"github.com/ncobase/socialhub/net/resp"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{service: svc}
}

func (h *Handler) HandleCreate(c *gin.Context) {
	req, ok := bindContent(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	comment, err := h.service.Create(ctx, ctxutil.GetUserID(ctx), c.Param("postId"), req.Content)
	if err != nil {
		resp.Fail(c.Writer, resp.FromError(err))
		return
	}
	resp.WithStatusCode(c.Writer, http.StatusCreated, gin.H{"message": "Comment created successfully", "comment": comment})
}

func (h *Handler) HandleList(c *gin.Context) {
	comments, err := h.service.ListByPost(c.Request.Context(), c.Param("postId"))
	if err != nil {
		resp.Fail(c.Writer, resp.FromError(err))
		return
	}
	resp.Success(c.Writer, gin.H{"comments": comments})
}

func (h *Handler) HandleUpdate(c *gin.Context) {
	req, ok := bindContent(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.service.Update(ctx, ctxutil.GetUserID(ctx), c.Param("commentId"), req.Content); err != nil {
		resp.Fail(c.Writer, resp.FromError(err))
		return
	}
	resp.Success(c.Writer, "Comment updated successfully")
}

func (h *Handler) HandleDelete(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.service.Delete(ctx, ctxutil.GetUserID(ctx), c.Param("commentId")); err != nil {
		resp.Fail(c.Writer, resp.FromError(err))
		return
	}
	resp.Success(c.Writer, "Comment deleted successfully")
}

func (h *Handler) HandleLike(c *gin.Context) {
	ctx := c.Request.Context()
	result, err := h.service.Like(ctx, ctxutil.GetUserID(ctx), c.Param("commentId"))
	if err != nil {
		resp.Fail(c.Writer, resp.FromError(err))
		return
	}
	resp.WithStatusCode(c.Writer, http.StatusCreated, result)
}

func bindContent(c *gin.Context) (*structs.ContentRequest, bool) {
	var req structs.ContentRequest
	if err := c.ShouldBind(&req); err != nil && !errors.Is(err, io.EOF) {
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
		return nil, false
	}
	return &req, true
}
