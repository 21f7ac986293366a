package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joaopmafra/sapie/internal/models"
	"github.com/joaopmafra/sapie/pkg/logger"
	"gorm.io/gorm"
)

// RootDirectoryName is the display name every auto-created root gets.
const RootDirectoryName = "My Contents"

var (
	ErrNotFound      = errors.New("content not found")
	ErrForbidden     = errors.New("content owned by another user")
	ErrDuplicateName = errors.New("name already exists in parent")
	ErrNotNote       = errors.New("content is not a note")
)

// ContentService mediates all reads and writes of Content records and
// enforces the hierarchy invariants: at most one root per owner, unique
// names within a parent, writes only under parents the caller owns.
type ContentService struct {
	db *gorm.DB
}

func NewContentService(db *gorm.DB) *ContentService {
	return &ContentService{db: db}
}

// EnsureRootDirectory returns the owner's root directory, creating it on
// first access. Safe to call repeatedly and concurrently: the partial
// unique index on (owner_id) WHERE parent_id IS NULL turns a lost
// create race into a duplicate-key error, which we resolve by re-fetching
// the row the winner inserted.
func (s *ContentService) EnsureRootDirectory(ctx context.Context, ownerID uuid.UUID) (*models.Content, error) {
	root, err := s.findRoot(ctx, ownerID)
	if err == nil {
		return root, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	content := &models.Content{
		Name:    RootDirectoryName,
		Type:    models.ContentTypeDirectory,
		OwnerID: ownerID,
	}
	if err := s.db.WithContext(ctx).Create(content).Error; err != nil {
		if isDuplicateKey(err) {
			return s.findRoot(ctx, ownerID)
		}
		return nil, err
	}

	logger.InfoWithUser(ownerID.String(), "root_directory_created", map[string]interface{}{
		"content_id": content.ID.String(),
	})
	return content, nil
}

// GetRootDirectory returns the owner's root without creating it.
func (s *ContentService) GetRootDirectory(ctx context.Context, ownerID uuid.UUID) (*models.Content, error) {
	return s.findRoot(ctx, ownerID)
}

func (s *ContentService) findRoot(ctx context.Context, ownerID uuid.UUID) (*models.Content, error) {
	var root models.Content
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND parent_id IS NULL AND type = ?", ownerID, models.ContentTypeDirectory).
		Limit(1).
		First(&root).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &root, nil
}

// FindByParentID lists the immediate children of a directory. The owner
// filter is part of the query itself, so a guessed parent id never leaks
// another tenant's records. A childless or unknown parent yields an empty
// slice, not an error.
func (s *ContentService) FindByParentID(ctx context.Context, ownerID, parentID uuid.UUID) ([]models.Content, error) {
	children := make([]models.Content, 0)
	err := s.db.WithContext(ctx).
		Where("parent_id = ? AND owner_id = ?", parentID, ownerID).
		Find(&children).Error
	if err != nil {
		return nil, err
	}
	return children, nil
}

// Get fetches a single node the caller owns.
func (s *ContentService) Get(ctx context.Context, ownerID, id uuid.UUID) (*models.Content, error) {
	var content models.Content
	if err := s.db.WithContext(ctx).First(&content, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if content.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return &content, nil
}

// Create inserts a note under an existing directory the caller owns.
// Ownership is validated one level up; the unique index on
// (parent_id, name) backs the pre-insert duplicate check so concurrent
// creates of the same name cannot both land.
func (s *ContentService) Create(ctx context.Context, name string, parentID, ownerID uuid.UUID) (*models.Content, error) {
	var parent models.Content
	if err := s.db.WithContext(ctx).First(&parent, "id = ?", parentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if parent.OwnerID != ownerID {
		return nil, ErrForbidden
	}

	var count int64
	err := s.db.WithContext(ctx).Model(&models.Content{}).
		Where("parent_id = ? AND name = ?", parentID, name).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateName
	}

	content := &models.Content{
		Name:     name,
		Type:     models.ContentTypeNote,
		ParentID: &parentID,
		OwnerID:  ownerID,
	}
	if err := s.db.WithContext(ctx).Create(content).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}

	logger.InfoWithUser(ownerID.String(), "content_created", map[string]interface{}{
		"content_id": content.ID.String(),
		"parent_id":  parentID.String(),
		"name":       name,
	})
	return content, nil
}

// AttachPayload records where a note's body lives after an upload and
// stamps updatedAt. Directories carry no payload.
func (s *ContentService) AttachPayload(ctx context.Context, ownerID, id uuid.UUID, contentURL string, size int64) (*models.Content, error) {
	content, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if content.Type != models.ContentTypeNote {
		return nil, ErrNotNote
	}

	content.ContentURL = &contentURL
	content.Size = &size
	content.UpdatedAt = time.Now().UTC()
	if err := s.db.WithContext(ctx).Model(content).
		Updates(map[string]interface{}{
			"content_url": content.ContentURL,
			"size":        content.Size,
			"updated_at":  content.UpdatedAt,
		}).Error; err != nil {
		return nil, err
	}
	return content, nil
}

// isDuplicateKey covers the translated gorm error plus the raw sqlite
// message, which the glebarez driver does not translate.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "constraint failed")
}
