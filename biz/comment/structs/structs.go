// Package structs defines comments.
package structs

import (
	"time"

	userstructs "github.com/ncobase/socialhub/core/user/structs"
)

// MaxContentLength is the longest accepted comment, in characters.
const MaxContentLength = 700

type Comment struct {
	ID        string             `json:"id" db:"id"`
	PostID    string             `json:"postId" db:"post_id"`
	UserID    string             `json:"-" db:"user_id"`
	Content   string             `json:"content" db:"content"`
	User      *userstructs.Basic `json:"user,omitempty" db:"-"`
	Likes     []string           `json:"likes" db:"-"`
	CreatedAt time.Time          `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time          `json:"updatedAt" db:"updated_at"`
}

// NewComment builds a comment by userID on postID with no likes.
func NewComment(id, postID, userID, content string) *Comment {
	now := time.Now().UTC()
	return &Comment{
		ID:        id,
		PostID:    postID,
		UserID:    userID,
		Content:   content,
		Likes:     []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ContentRequest is the body of comment create and update.
type ContentRequest struct {
	Content string `json:"content" form:"content"`
}

// LikeResult reports the like state after a toggle.
type LikeResult struct {
	Liked bool `json:"liked"`
	Count int  `json:"count"`
}
