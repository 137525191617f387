// Package handler exposes the story endpoints.
package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/ncobase/socialhub/biz/story/service"
	"github.com/ncobase/socialhub/biz/story/structs"
	"github.com/ncobase/socialhub/ctxutil"
	"github.com/ncobase/socialhub/internal/media"
	"github.com/ncobase/socialhub/net/resp"

	"github.com/gin-gonic/gin"
)

var ownerFailure = resp.ForbiddenAs(http.StatusUnauthorized)

type Handler struct {
	service *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{service: svc}
}

// HandleCreate takes a multipart form with an image file and a caption.
func (h *Handler) HandleCreate(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		resp.Fail(c.Writer, resp.BadRequest("Story should have an image or video"))
		return
	}

	ctx := c.Request.Context()
	story, err := h.service.Create(ctx, ctxutil.GetUserID(ctx), c.PostForm("caption"), media.FromHeader(fh))
	if err != nil {
		resp.Fail(c.Writer, resp.FromError(err))
		return
	}
	resp.WithStatusCode(c.Writer, http.StatusCreated, gin.H{"message": "Story created successfully", "story": story})
}

// HandleListByUser lists the stories of the user in :id.
func (h *Handler) HandleListByUser(c *gin.Context) {
	ctx := c.Request.Context()
	stories, err := h.service.ListByUser(ctx, ctxutil.GetUserID(ctx), c.Param("id"))
	if err != nil {
		resp.Fail(c.Writer, resp.FromError(err, ownerFailure))
		return
	}
	resp.Success(c.Writer, gin.H{"stories": stories})
}

func (h *Handler) HandleView(c *gin.Context) {
	ctx := c.Request.Context()
	story, err := h.service.View(ctx, ctxutil.GetUserID(ctx), c.Param("storyId"))
	if err != nil {
		resp.Fail(c.Writer, resp.FromError(err))
		return
	}
	resp.Success(c.Writer, gin.H{"story": story})
}

func (h *Handler) HandleUpdate(c *gin.Context) {
	var req structs.UpdateRequest
	if err := c.ShouldBind(&req); err != nil && !errors.Is(err, io.EOF) {
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
		return
	}

	ctx := c.Request.Context()
	if err := h.service.Update(ctx, ctxutil.GetUserID(ctx), c.Param("storyId"), &req); err != nil {
		resp.Fail(c.Writer, resp.FromError(err, ownerFailure))
		return
	}
	resp.Success(c.Writer, "story updated successfully")
}

func (h *Handler) HandleDelete(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.service.Delete(ctx, ctxutil.GetUserID(ctx), c.Param("storyId")); err != nil {
		resp.Fail(c.Writer, resp.FromError(err, ownerFailure))
		return
	}
	resp.Success(c.Writer, "story deleted successfully")
}

func (h *Handler) HandleLike(c *gin.Context) {
	ctx := c.Request.Context()
	result, err := h.service.Like(ctx, ctxutil.GetUserID(ctx), c.Param("storyId"))
	if err != nil {
		resp.Fail(c.Writer, resp.FromError(err))
		return
	}
	resp.WithStatusCode(c.Writer, http.StatusCreated, result)
}

func (h *Handler) HandleInfo(c *gin.Context) {
	ctx := c.Request.Context()
	info, err := h.service.Info(ctx, ctxutil.GetUserID(ctx), c.Param("storyId"))
	if err != nil {
		resp.Fail(c.Writer, resp.FromError(err, ownerFailure))
		return
	}
	resp.Success(c.Writer, gin.H{"story": info})
}
