package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Creation types persisted in the type column.
const (
	CreationTypeArticle      = "article"
	CreationTypeBlogTitle    = "blog-title"
	CreationTypeImage        = "image"
	CreationTypeResumeReview = "resume-review"
)

// Creation is one completed generation or transformation. Rows are append-only;
// only the community fields (publish, likes) are ever updated.
type Creation struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    string         `gorm:"size:64;not null;index" json:"user_id"`
	Prompt    string         `gorm:"type:text;not null" json:"prompt"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	Type      string         `gorm:"size:20;not null;index" json:"type"`
	Publish   bool           `gorm:"default:false;index" json:"publish"`
	Likes     datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"likes"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
