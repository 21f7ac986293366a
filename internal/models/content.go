package models

import "github.com/google/uuid"

// ContentType is a closed set; every consumer switches on it explicitly.
type ContentType string

const (
	ContentTypeDirectory ContentType = "directory"
	ContentTypeNote      ContentType = "note"
)

// Valid reports whether t is one of the known content types.
func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeDirectory, ContentTypeNote:
		return true
	}
	return false
}

// Content is a single node in a user's hierarchy: a directory or a note.
// ParentID is nil only for a user's root directory. The composite unique
// index on (parent_id, name) enforces name-uniqueness within a parent at
// the store level; rows with a NULL parent_id are distinct under it, so
// every user's root can share the default name. Root-per-owner uniqueness
// is a partial index added in database.Migrate.
type Content struct {
	BaseModel
	Name       string      `json:"name" gorm:"type:varchar(255);not null;uniqueIndex:idx_contents_parent_name"`
	Type       ContentType `json:"type" gorm:"type:varchar(20);not null;index"`
	ParentID   *uuid.UUID  `json:"parentId" gorm:"type:uuid;index;uniqueIndex:idx_contents_parent_name"`
	OwnerID    uuid.UUID   `json:"ownerId" gorm:"type:uuid;not null;index"`
	ContentURL *string     `json:"contentUrl" gorm:"type:text"`
	Size       *int64      `json:"size"`
}

func (Content) TableName() string {
	return "contents"
}

// IsDirectory reports whether the node can hold children.
func (c *Content) IsDirectory() bool {
	return c.Type == ContentTypeDirectory
}
