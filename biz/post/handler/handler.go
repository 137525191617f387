// Package handler exposes the post endpoints.
package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/ncobase/socialhub/biz/post/service"
	"github.com/ncobase/socialhub/biz/post/structs"
	"github.com/ncobase/socialhub/ctxutil"
	"github.com/ncobase/socialhub/internal/media"
	"github.com/ncobase/socialhub/net/resp"
	"github.com/ncobase/socialhub/paging"

	"github.com/gin-gonic/gin"
)

// Post ownership failures answer 401, which existing clients expect.
var ownerFailure = resp.ForbiddenAs(http.StatusUnauthorized)

type Handler struct {
	service *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{service: svc}
}

// HandleCreate takes a multipart form with an image file and a description.
func (h *Handler) HandleCreate(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		resp.Fail(c.Writer, resp.BadRequest("Post should have an image"))
		return
	}

	ctx := c.Request.Context()
	post, err := h.service.Create(ctx, ctxutil.GetUserID(ctx), c.PostForm("description"), media.FromHeader(fh))
	if err != nil {
		resp.Fail(c.Writer, resp.FromError(err))
		return
	}
	resp.WithStatusCode(c.Writer, http.StatusCreated, gin.H{"message": "Post created successfully", "post": post})
}

func (h *Handler) HandleList(c *gin.Context) {
	var params paging.Params
	if err := c.ShouldBindQuery(&params); err != nil {
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
		return
	}

	result, err := h.service.List(c.Request.Context(), params)
	if err != nil {
		resp.Fail(c.Writer, resp.FromError(err))
		return
	}
	resp.Success(c.Writer, gin.H{
		"page":     result.Page,
		"pageSize": result.PageSize,
		"q":        result.Q,
		"total":    result.Total,
		"posts":    result.Items,
	})
}

// HandleListByUser lists the posts of the user in :id.
func (h *Handler) HandleListByUser(c *gin.Context) {
	posts, err := h.service.ListByUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		resp.Fail(c.Writer, resp.FromError(err))
		return
	}
	resp.Success(c.Writer, gin.H{"posts": posts})
}

func (h *Handler) HandleGet(c *gin.Context) {
	post, err := h.service.Get(c.Request.Context(), c.Param("postId"))
	if err != nil {
		resp.Fail(c.Writer, resp.FromError(err))
		return
	}
	resp.Success(c.Writer, gin.H{"post": post})
}

func (h *Handler) HandleLikes(c *gin.Context) {
	likes, err := h.service.Likes(c.Request.Context(), c.Param("postId"))
	if err != nil {
		resp.Fail(c.Writer, resp.FromError(err))
		return
	}
	resp.Success(c.Writer, gin.H{"likes": likes})
}

func (h *Handler) HandleUpdate(c *gin.Context) {
	var req structs.UpdateRequest
	if err := c.ShouldBind(&req); err != nil && !errors.Is(err, io.EOF) {
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
		return
	}

	ctx := c.Request.Context()
	if err := h.service.Update(ctx, ctxutil.GetUserID(ctx), c.Param("postId"), &req); err != nil {
		resp.Fail(c.Writer, resp.FromError(err, ownerFailure))
		return
	}
	resp.Success(c.Writer, "Post updated successfully")
}

func (h *Handler) HandleDelete(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.service.Delete(ctx, ctxutil.GetUserID(ctx), c.Param("postId")); err != nil {
		resp.Fail(c.Writer, resp.FromError(err, ownerFailure))
		return
	}
	resp.Success(c.Writer, "Post deleted successfully")
}

func (h *Handler) HandleLike(c *gin.Context) {
	ctx := c.Request.Context()
	result, err := h.service.Like(ctx, ctxutil.GetUserID(ctx), c.Param("postId"))
	if err != nil {
		resp.Fail(c.Writer, resp.FromError(err))
		return
	}
	resp.WithStatusCode(c.Writer, http.StatusCreated, result)
}

func (h *Handler) HandleBookmark(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.service.Bookmark(ctx, ctxutil.GetUserID(ctx), c.Param("postId")); err != nil {
		resp.Fail(c.Writer, resp.FromError(err))
		return
	}
	resp.WithStatusCode(c.Writer, http.StatusCreated, "process done successfully")
}
