package document

import (
	"time"
)

// Document is a single node of a user's document tree. ParentDocument
// points at another document's id; nil means root level. A parent is
// only ever assigned at creation time and never re-pointed, which keeps
// the forest acyclic without runtime guards. A dangling parent (the
// parent row was hard-deleted) is tolerated and the child behaves as a
// root.
type Document struct {
	ID             string    `gorm:"type:uuid;primaryKey" json:"id"`
	Title          string    `gorm:"not null" json:"title"`
	Content        *string   `json:"content"`
	CoverImage     *string   `json:"cover_image"`
	Icon           *string   `json:"icon"`
	ParentDocument *string   `gorm:"type:uuid;index:idx_user_parent,priority:2" json:"parent_document"`
	UserID         string    `gorm:"type:uuid;not null;index:idx_user_parent,priority:1;index" json:"user_id"`
	IsArchived     bool      `gorm:"not null;default:false" json:"is_archived"`
	IsPublished    bool      `gorm:"not null;default:false" json:"is_published"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
