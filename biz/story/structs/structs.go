// Package structs defines stories.
package structs

import (
	"time"

	userstructs "github.com/ncobase/socialhub/core/user/structs"
)

// Lifetime is how long a story stays current after creation.
const Lifetime = 24 * time.Hour

// Story is an image or video shown for a limited time.
type Story struct {
	ID         string             `json:"id" db:"id"`
	UserID     string             `json:"-" db:"user_id"`
	Image      string             `json:"image" db:"image"`
	MediaType  string             `json:"mediaType" db:"media_type"`
	Caption    string             `json:"caption" db:"caption"`
	User       *userstructs.Basic `json:"user,omitempty" db:"-"`
	Likes      []string           `json:"likes" db:"-"`
	Views      []string           `json:"views" db:"-"`
	ExpiryDate time.Time          `json:"expiryDate" db:"expiry_date"`
	CreatedAt  time.Time          `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time          `json:"updatedAt" db:"updated_at"`
}

// NewStory builds a story that expires Lifetime after now.
func NewStory(id, userID, image, mediaType, caption string) *Story {
	now := time.Now().UTC()
	return &Story{
		ID:         id,
		UserID:     userID,
		Image:      image,
		MediaType:  mediaType,
		Caption:    caption,
		Likes:      []string{},
		Views:      []string{},
		ExpiryDate: now.Add(Lifetime),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Expired reports whether the story is past its expiry at t.
func (s *Story) Expired(t time.Time) bool {
	return !t.Before(s.ExpiryDate)
}

// Basic is what a viewer receives when opening a story.
type Basic struct {
	ID         string    `json:"id"`
	Image      string    `json:"image"`
	Caption    string    `json:"caption"`
	CreatedAt  time.Time `json:"createdAt"`
	ExpiryDate time.Time `json:"expiryDate"`
}

// Basic projects s for viewers.
func (s *Story) Basic() *Basic {
	return &Basic{
		ID:         s.ID,
		Image:      s.Image,
		Caption:    s.Caption,
		CreatedAt:  s.CreatedAt,
		ExpiryDate: s.ExpiryDate,
	}
}

// Info lists who liked and who viewed a story.
type Info struct {
	UsersLikedStory  []*userstructs.Basic `json:"usersLikedStory"`
	UsersViewedStory []*userstructs.Basic `json:"usersViewedStory"`
}

// UpdateRequest is the body of PUT /stories/:storyId.
type UpdateRequest struct {
	Caption string `json:"caption" form:"caption"`
}

// LikeResult reports the like state after a toggle.
type LikeResult struct {
	Liked bool `json:"liked"`
	Count int  `json:"count"`
}
