package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Like records one user's like. A user appears at most once per post.
type Like struct {
	UserID uuid.UUID `json:"user"`
}

// Comment is owned independently of the post it sits on: only the comment's
// author may remove it. Name and avatar are snapshots taken when the comment
// was written.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user"`
	Text      string    `json:"text"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar"`
	CreatedAt time.Time `json:"date"`
}

// Post is a feed entry. The author's name/avatar are captured at creation
// and never re-joined from the user record. Likes and comments are jsonb
// sub-collections mutated through version-checked updates.
type Post struct {
	ID        uuid.UUID                     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID                     `gorm:"type:uuid;index;not null" json:"user"`
	Text      string                        `gorm:"type:text;not null" json:"text"`
	Name      string                        `json:"name"`
	AvatarURL string                        `json:"avatar"`
	Likes     datatypes.JSONSlice[Like]     `gorm:"type:jsonb" json:"likes"`
	Comments  datatypes.JSONSlice[Comment]  `gorm:"type:jsonb" json:"comments"`
	Version   int64                         `gorm:"not null;default:0" json:"-"`
	CreatedAt time.Time                     `gorm:"index" json:"date"`
	UpdatedAt time.Time                     `json:"-"`
}

// LikedBy reports whether userID already appears in the likes list.
func (p *Post) LikedBy(userID uuid.UUID) bool {
	for _, l := range p.Likes {
		if l.UserID == userID {
			return true
		}
	}
	return false
}

// CommentByID returns the comment with the given id, or nil.
func (p *Post) CommentByID(id uuid.UUID) *Comment {
	for i := range p.Comments {
		if p.Comments[i].ID == id {
			return &p.Comments[i]
		}
	}
	return nil
}
