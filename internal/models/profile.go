package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Experience is a work history entry. Entries are kept most-recent-first.
// From/To pass through as the client sent them; the server does no date
// arithmetic on them.
type Experience struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location,omitempty"`
	From        string    `json:"from"`
	To          string    `json:"to,omitempty"`
	Current     bool      `json:"current"`
	Description string    `json:"description,omitempty"`
}

// Education is a study history entry, same ordering rules as Experience.
type Education struct {
	ID           uuid.UUID `json:"id"`
	School       string    `json:"school"`
	Degree       string    `json:"degree"`
	FieldOfStudy string    `json:"fieldofstudy"`
	From         string    `json:"from"`
	To           string    `json:"to,omitempty"`
	Current      bool      `json:"current"`
	Description  string    `json:"description,omitempty"`
}

// Profile holds the public details a user chooses to publish. One per user.
// The nested collections live in jsonb columns; every mutation of them goes
// through a version-checked update, never a plain save.
type Profile struct {
	ID             uuid.UUID                         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID         uuid.UUID                         `gorm:"type:uuid;uniqueIndex;not null" json:"user"`
	User           *User                             `gorm:"foreignKey:UserID" json:"user_info,omitempty"`
	Company        string                            `json:"company,omitempty"`
	Website        string                            `json:"website,omitempty"`
	Location       string                            `json:"location,omitempty"`
	Bio            string                            `json:"bio,omitempty"`
	Status         string                            `gorm:"not null" json:"status"`
	GithubUsername string                            `json:"githubusername,omitempty"`
	Skills         datatypes.JSONSlice[string]       `gorm:"type:jsonb" json:"skills"`
	Social         datatypes.JSONMap                 `gorm:"type:jsonb" json:"social,omitempty"`
	Experience     datatypes.JSONSlice[Experience]   `gorm:"type:jsonb" json:"experience"`
	Education      datatypes.JSONSlice[Education]    `gorm:"type:jsonb" json:"education"`
	Version        int64                             `gorm:"not null;default:0" json:"-"`
	CreatedAt      time.Time                         `json:"created_at"`
	UpdatedAt      time.Time                         `json:"-"`
}
