package client

import "time"

// Content mirrors the API's content node representation.
type Content struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	ParentID   *string   `json:"parentId"`
	OwnerID    string    `json:"ownerId"`
	ContentURL *string   `json:"contentUrl,omitempty"`
	Size       *int64    `json:"size,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// IsDirectory reports whether the node can be expanded.
func (c Content) IsDirectory() bool {
	return c.Type == "directory"
}

// UserProfile mirrors the GET /api/auth response.
type UserProfile struct {
	UID           string                 `json:"uid"`
	Email         string                 `json:"email,omitempty"`
	DisplayName   string                 `json:"displayName,omitempty"`
	PhotoURL      string                 `json:"photoURL,omitempty"`
	EmailVerified bool                   `json:"emailVerified"`
	ProviderData  []ProviderEntry        `json:"providerData"`
	CustomClaims  map[string]interface{} `json:"customClaims,omitempty"`
}

type ProviderEntry struct {
	ProviderID string `json:"providerId"`
}

// Health mirrors the GET /api/health response.
type Health struct {
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	Environment string `json:"environment"`
}
