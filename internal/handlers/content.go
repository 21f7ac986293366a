package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/joaopmafra/sapie/internal/middleware"
	"github.com/joaopmafra/sapie/internal/models"
	"github.com/joaopmafra/sapie/internal/services"
	"github.com/joaopmafra/sapie/pkg/logger"
	"github.com/joaopmafra/sapie/pkg/utils"
)

// ObjectStore is the slice of the payload store the content handler needs.
type ObjectStore interface {
	Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
	Download(ctx context.Context, objectName string) (io.ReadCloser, string, int64, error)
}

type ContentHandler struct {
	Service *services.ContentService
	Storage ObjectStore
}

func NewContentHandler(service *services.ContentService, storage ObjectStore) *ContentHandler {
	return &ContentHandler{Service: service, Storage: storage}
}

// GetRoot ensures and returns the caller's root directory. First access
// creates it; every later call returns the same record.
func (h *ContentHandler) GetRoot(c *fiber.Ctx) error {
	claims := middleware.CurrentClaims(c)
	if claims == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "Authorization token is required")
	}

	root, err := h.Service.EnsureRootDirectory(c.Context(), claims.UserID)
	if err != nil {
		logger.ErrorWithUser(claims.UserID.String(), "ensure_root_failed", err, nil)
		return utils.Error(c, fiber.StatusInternalServerError, "Failed to ensure root directory")
	}

	return utils.JSON(c, fiber.StatusOK, root)
}

// List returns the immediate children of ?parentId=.
func (h *ContentHandler) List(c *fiber.Ctx) error {
	claims := middleware.CurrentClaims(c)
	if claims == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "Authorization token is required")
	}

	parentIDRaw := strings.TrimSpace(c.Query("parentId"))
	if parentIDRaw == "" {
		return utils.Error(c, fiber.StatusBadRequest, "parentId query parameter is required")
	}
	parentID, err := uuid.Parse(parentIDRaw)
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid parentId")
	}

	children, err := h.Service.FindByParentID(c.Context(), claims.UserID, parentID)
	if err != nil {
		logger.ErrorWithUser(claims.UserID.String(), "list_children_failed", err, map[string]interface{}{
			"parent_id": parentID.String(),
		})
		return utils.Error(c, fiber.StatusInternalServerError, "Failed to list content")
	}

	return utils.JSON(c, fiber.StatusOK, children)
}

type createContentRequest struct {
	Name     string `json:"name"`
	ParentID string `json:"parentId"`
}

// Create inserts a note under an owned directory.
func (h *ContentHandler) Create(c *fiber.Ctx) error {
	claims := middleware.CurrentClaims(c)
	if claims == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "Authorization token is required")
	}

	var req createContentRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return utils.Error(c, fiber.StatusBadRequest, "name is required")
	}
	parentID, err := uuid.Parse(strings.TrimSpace(req.ParentID))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid parentId")
	}

	content, err := h.Service.Create(c.Context(), req.Name, parentID, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return utils.Error(c, fiber.StatusNotFound, "Parent directory not found")
		case errors.Is(err, services.ErrForbidden):
			return utils.Error(c, fiber.StatusForbidden, "You do not own the parent directory")
		case errors.Is(err, services.ErrDuplicateName):
			return utils.Error(c, fiber.StatusConflict, fmt.Sprintf("Content named %q already exists in this directory", req.Name))
		}
		logger.ErrorWithUser(claims.UserID.String(), "create_content_failed", err, map[string]interface{}{
			"parent_id": parentID.String(),
		})
		return utils.Error(c, fiber.StatusInternalServerError, "Failed to create content")
	}

	return utils.JSON(c, fiber.StatusCreated, content)
}

// Get returns a single owned node by id.
func (h *ContentHandler) Get(c *fiber.Ctx) error {
	claims := middleware.CurrentClaims(c)
	if claims == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "Authorization token is required")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid content id")
	}

	content, err := h.Service.Get(c.Context(), claims.UserID, id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return utils.Error(c, fiber.StatusNotFound, "Content not found")
		case errors.Is(err, services.ErrForbidden):
			return utils.Error(c, fiber.StatusForbidden, "You do not own this content")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "Failed to get content")
	}

	return utils.JSON(c, fiber.StatusOK, content)
}

// UploadPayload stores a note's body in the object store and records its
// location and size on the record.
func (h *ContentHandler) UploadPayload(c *fiber.Ctx) error {
	claims := middleware.CurrentClaims(c)
	if claims == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "Authorization token is required")
	}
	if h.Storage == nil {
		return utils.Error(c, fiber.StatusInternalServerError, "Payload storage is not configured")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid content id")
	}

	body := c.Body()
	if len(body) == 0 {
		return utils.Error(c, fiber.StatusBadRequest, "payload body is required")
	}
	contentType := c.Get("Content-Type")
	if contentType == "" {
		contentType = "text/markdown"
	}

	// Ownership and kind are validated before the upload so a rejected
	// request never writes an orphaned object.
	existing, err := h.Service.Get(c.Context(), claims.UserID, id)
	if err != nil {
		return h.payloadError(c, err)
	}
	if existing.Type != models.ContentTypeNote {
		return utils.Error(c, fiber.StatusBadRequest, "Only notes carry a payload")
	}

	objectName := payloadObjectName(claims.UserID, id)
	if err := h.Storage.Upload(c.Context(), objectName, bytes.NewReader(body), int64(len(body)), contentType); err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "Failed to store payload")
	}

	contentURL := fmt.Sprintf("/api/content/%s/payload", id)
	content, err := h.Service.AttachPayload(c.Context(), claims.UserID, id, contentURL, int64(len(body)))
	if err != nil {
		return h.payloadError(c, err)
	}

	return utils.JSON(c, fiber.StatusOK, content)
}

// DownloadPayload streams a note's body back from the object store.
func (h *ContentHandler) DownloadPayload(c *fiber.Ctx) error {
	claims := middleware.CurrentClaims(c)
	if claims == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "Authorization token is required")
	}
	if h.Storage == nil {
		return utils.Error(c, fiber.StatusInternalServerError, "Payload storage is not configured")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid content id")
	}

	content, err := h.Service.Get(c.Context(), claims.UserID, id)
	if err != nil {
		return h.payloadError(c, err)
	}
	if content.ContentURL == nil {
		return utils.Error(c, fiber.StatusNotFound, "Content has no payload")
	}

	reader, contentType, size, err := h.Storage.Download(c.Context(), payloadObjectName(claims.UserID, id))
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "Failed to read payload")
	}

	c.Set(fiber.HeaderContentType, contentType)
	return c.SendStream(reader, int(size))
}

func (h *ContentHandler) payloadError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return utils.Error(c, fiber.StatusNotFound, "Content not found")
	case errors.Is(err, services.ErrForbidden):
		return utils.Error(c, fiber.StatusForbidden, "You do not own this content")
	case errors.Is(err, services.ErrNotNote):
		return utils.Error(c, fiber.StatusBadRequest, "Only notes carry a payload")
	}
	return utils.Error(c, fiber.StatusInternalServerError, "Failed to process payload")
}

func payloadObjectName(ownerID, contentID uuid.UUID) string {
	return fmt.Sprintf("%s/%s", ownerID, contentID)
}
