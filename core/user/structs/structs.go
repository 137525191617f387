// Package structs defines the user domain models and request payloads.
package structs

import "time"

// Profile status values.
const (
	StatusPublic  = "public"
	StatusPrivate = "private"
)

// DefaultAvatar is assigned when a user has not uploaded an avatar.
const DefaultAvatar = "https://e7.pngegg.com/pngimages/84/165/png-clipart-united-states-avatar-organization-information-user-avatar-service-computer-wallpaper-thumbnail.png"

// MaxBioLength is the longest accepted bio, in characters.
const MaxBioLength = 500

// User is a registered account. Password holds the bcrypt hash and is never
// serialized.
type User struct {
	ID        string    `json:"id" db:"id"`
	UserName  string    `json:"userName" db:"user_name"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"`
	Avatar    string    `json:"avatar" db:"avatar"`
	Bio       string    `json:"bio" db:"bio"`
	Status    string    `json:"status" db:"status"`
	Followers []string  `json:"followers" db:"-"`
	Following []string  `json:"following" db:"-"`
	Bookmarks []string  `json:"bookmarks" db:"-"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// NewUser builds a public user with the default avatar and empty sets.
func NewUser(id, userName, email, passwordHash, bio string) *User {
	now := time.Now().UTC()
	return &User{
		ID:        id,
		UserName:  userName,
		Email:     email,
		Password:  passwordHash,
		Avatar:    DefaultAvatar,
		Bio:       bio,
		Status:    StatusPublic,
		Followers: []string{},
		Following: []string{},
		Bookmarks: []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsPrivate reports whether only followers may see the full profile.
func (u *User) IsPrivate() bool { return u.Status == StatusPrivate }

// EnsureSets replaces nil sets with empty ones.
func (u *User) EnsureSets() {
	if u.Followers == nil {
		u.Followers = []string{}
	}
	if u.Following == nil {
		u.Following = []string{}
	}
	if u.Bookmarks == nil {
		u.Bookmarks = []string{}
	}
}

// Basic is the author summary embedded in posts, comments and like lists.
type Basic struct {
	ID       string `json:"id" db:"id"`
	UserName string `json:"userName" db:"user_name"`
	Email    string `json:"email" db:"email"`
	Avatar   string `json:"avatar" db:"avatar"`
}

// Limited is the projection shown to viewers who may not see a private
// profile, and in user listings.
type Limited struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	UserName  string   `json:"userName"`
	Avatar    string   `json:"avatar"`
	Bio       string   `json:"bio"`
	Status    string   `json:"status"`
	Followers []string `json:"followers"`
	Following []string `json:"following"`
}

// PostSummary is a post as listed on its author's profile.
type PostSummary struct {
	ID          string    `json:"id" db:"id"`
	Image       string    `json:"image" db:"image"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// CommentSummary is a comment as listed on its author's profile.
type CommentSummary struct {
	ID        string    `json:"id" db:"id"`
	PostID    string    `json:"postId" db:"post_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// StorySummary is a story as listed on its author's profile.
type StorySummary struct {
	ID         string    `json:"id" db:"id"`
	Image      string    `json:"image" db:"image"`
	Caption    string    `json:"caption" db:"caption"`
	ExpiryDate time.Time `json:"expiryDate" db:"expiry_date"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// Content is everything a user authored.
type Content struct {
	Posts    []PostSummary    `json:"posts"`
	Comments []CommentSummary `json:"comments"`
	Stories  []StorySummary   `json:"stories"`
}

// Profile is the full record of a user together with their content.
type Profile struct {
	*User
	Posts    []PostSummary    `json:"posts"`
	Comments []CommentSummary `json:"comments"`
	Stories  []StorySummary   `json:"stories"`
}

// SignupRequest is the body of POST /users/signup.
type SignupRequest struct {
	UserName string `json:"userName" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Bio      string `json:"bio" validate:"max=500"`
}

// LoginRequest is the body of POST /users/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateRequest carries the optional profile changes of PUT /users. Empty
// fields are left unchanged.
type UpdateRequest struct {
	UserName string `json:"userName" form:"userName"`
	Bio      string `json:"bio" form:"bio"`
	Status   string `json:"status" form:"status"`
	Password string `json:"password" form:"password"`
	Avatar   string `json:"avatar" form:"-"`
}

// ContentIDs lists the ids of entities removed along with a user.
// Comments includes other users' comments on the user's posts.
type ContentIDs struct {
	Posts    []string
	Comments []string
	Stories  []string
}

// ProfileView is what a viewer may see of a user: *Profile or *Limited.
type ProfileView interface {
	profileView()
}

func (*Profile) profileView() {}
func (*Limited) profileView() {}

// Limited projects u to the fields visible to anyone.
func (u *User) Limited() *Limited {
	u.EnsureSets()
	return &Limited{
		ID:        u.ID,
		Email:     u.Email,
		UserName:  u.UserName,
		Avatar:    u.Avatar,
		Bio:       u.Bio,
		Status:    u.Status,
		Followers: u.Followers,
		Following: u.Following,
	}
}

// NewProfile combines u with its content. A nil content renders empty lists.
func NewProfile(u *User, c *Content) *Profile {
	u.EnsureSets()
	p := &Profile{
		User:     u,
		Posts:    []PostSummary{},
		Comments: []CommentSummary{},
		Stories:  []StorySummary{},
	}
	if c != nil {
		if c.Posts != nil {
			p.Posts = c.Posts
		}
		if c.Comments != nil {
			p.Comments = c.Comments
		}
		if c.Stories != nil {
			p.Stories = c.Stories
		}
	}
	return p
}
