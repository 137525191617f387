// Package structs defines posts and the comments rendered with them.
package structs

import (
	"time"

	userstructs "github.com/ncobase/socialhub/core/user/structs"
)

// Post is an image or video with a description.
type Post struct {
	ID          string             `json:"id" db:"id"`
	UserID      string             `json:"-" db:"user_id"`
	Image       string             `json:"image" db:"image"`
	MediaType   string             `json:"mediaType" db:"media_type"`
	Description string             `json:"description" db:"description"`
	User        *userstructs.Basic `json:"user,omitempty" db:"-"`
	Likes       []string           `json:"likes" db:"-"`
	Shares      []string           `json:"shares" db:"-"`
	Comments    []*Comment         `json:"comments" db:"-"`
	CreatedAt   time.Time          `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time          `json:"updatedAt" db:"updated_at"`
}

// NewPost builds a post owned by userID with empty sets.
func NewPost(id, userID, image, mediaType, description string) *Post {
	now := time.Now().UTC()
	return &Post{
		ID:          id,
		UserID:      userID,
		Image:       image,
		MediaType:   mediaType,
		Description: description,
		Likes:       []string{},
		Shares:      []string{},
		Comments:    []*Comment{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// EnsureSets replaces nil sets with empty ones.
func (p *Post) EnsureSets() {
	if p.Likes == nil {
		p.Likes = []string{}
	}
	if p.Shares == nil {
		p.Shares = []string{}
	}
	if p.Comments == nil {
		p.Comments = []*Comment{}
	}
}

// Comment is a comment as rendered inside a post.
type Comment struct {
	ID        string             `json:"id" db:"id"`
	PostID    string             `json:"postId" db:"post_id"`
	UserID    string             `json:"-" db:"user_id"`
	Content   string             `json:"content" db:"content"`
	User      *userstructs.Basic `json:"user,omitempty" db:"-"`
	Likes     []string           `json:"likes" db:"-"`
	CreatedAt time.Time          `json:"createdAt" db:"created_at"`
}

// Likes lists the users who liked a post.
type Likes struct {
	Users []*userstructs.Basic `json:"users"`
	Count int                  `json:"count"`
}

// UpdateRequest is the body of PUT /posts/:postId.
type UpdateRequest struct {
	Description string `json:"description" form:"description"`
}

// LikeResult reports the like state after a toggle.
type LikeResult struct {
	Liked bool `json:"liked"`
	Count int  `json:"count"`
}
