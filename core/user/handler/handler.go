// Package handler exposes the user endpoints.
package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/ncobase/socialhub/core/user/service"
	"github.com/ncobase/socialhub/core/user/structs"
	"github.com/ncobase/socialhub/ctxutil"
	"github.com/ncobase/socialhub/internal/media"
	"github.com/ncobase/socialhub/net/resp"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{service: svc}
}

// HandleList lists every user as a limited profile.
func (h *Handler) HandleList(c *gin.Context) {
	users, count, err := h.service.List(c.Request.Context())
	if err != nil {
		resp.Fail(c.Writer, resp.FromError(err))
		return
	}
	resp.Success(c.Writer, gin.H{"users": users, "count": count})
}

// HandlePrivateProfile applies the visibility policy for the caller.
func (h *Handler) HandlePrivateProfile(c *gin.Context) {
	ctx := c.Request.Context()
	user, err := h.service.PrivateProfile(ctx, ctxutil.GetUserID(ctx), c.Param("id"))
	if err != nil {
		resp.Fail(c.Writer, resp.FromError(err))
		return
	}
	resp.Success(c.Writer, gin.H{"user": user})
}

// HandlePublicProfile returns the full profile whatever its status.
func (h *Handler) HandlePublicProfile(c *gin.Context) {
	user, err := h.service.PublicProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		resp.Fail(c.Writer, resp.FromError(err))
		return
	}
	resp.Success(c.Writer, gin.H{"user": user})
}

// HandleUpdate accepts JSON, or multipart with an optional avatar file.
func (h *Handler) HandleUpdate(c *gin.Context) {
	var req structs.UpdateRequest
	var avatar *media.File

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBind(&req); err != nil {
			resp.Fail(c.Writer, resp.BadRequest(err.Error()))
			return
		}
		fh, err := c.FormFile("avatar")
		if err != nil && !errors.Is(err, http.ErrMissingFile) {
			resp.Fail(c.Writer, resp.BadRequest("Invalid avatar upload"))
			return
		}
		avatar = media.FromHeader(fh)
	} else if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
		return
	}

	ctx := c.Request.Context()
	if err := h.service.Update(ctx, ctxutil.GetUserID(ctx), &req, avatar); err != nil {
		resp.Fail(c.Writer, resp.FromError(err))
		return
	}
	resp.Success(c.Writer, "User updated successfully")
}

func (h *Handler) HandleDelete(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.service.Delete(ctx, ctxutil.GetUserID(ctx)); err != nil {
		resp.Fail(c.Writer, resp.FromError(err))
		return
	}
	resp.Success(c.Writer, "User deleted successfully")
}

func (h *Handler) HandleFollow(c *gin.Context) {
	targetID := c.Param("id")
	if targetID == "" {
		resp.Fail(c.Writer, resp.BadRequest("Cannot find user to follow"))
		return
	}

	ctx := c.Request.Context()
	if _, err := h.service.Follow(ctx, ctxutil.GetUserID(ctx), targetID); err != nil {
		resp.Fail(c.Writer, resp.FromError(err))
		return
	}
	resp.Success(c.Writer, "Process done successfully")
}

// HandleBookmarks lists the posts the caller bookmarked.
func (h *Handler) HandleBookmarks(c *gin.Context) {
	ctx := c.Request.Context()
	posts, err := h.service.Bookmarks(ctx, ctxutil.GetUserID(ctx))
	if err != nil {
		resp.Fail(c.Writer, resp.FromError(err))
		return
	}
	resp.Success(c.Writer, gin.H{"posts": posts, "count": len(posts)})
}
