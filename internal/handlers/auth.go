package handlers

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/joaopmafra/sapie/internal/identity"
	"github.com/joaopmafra/sapie/internal/middleware"
	"github.com/joaopmafra/sapie/internal/models"
	"github.com/joaopmafra/sapie/pkg/logger"
	"github.com/joaopmafra/sapie/pkg/utils"
)

type AuthHandler struct {
	Verifier *identity.Verifier
}

func NewAuthHandler(verifier *identity.Verifier) *AuthHandler {
	return &AuthHandler{Verifier: verifier}
}

type ProviderEntry struct {
	ProviderID string `json:"providerId"`
}

// CurrentUserResponse is the decoded profile returned by GET /api/auth.
type CurrentUserResponse struct {
	UID           string                 `json:"uid"`
	Email         string                 `json:"email,omitempty"`
	DisplayName   string                 `json:"displayName,omitempty"`
	PhotoURL      string                 `json:"photoURL,omitempty"`
	EmailVerified bool                   `json:"emailVerified"`
	ProviderData  []ProviderEntry        `json:"providerData"`
	CustomClaims  map[string]interface{} `json:"customClaims,omitempty"`
}

// Me returns the authenticated user's full profile record. The token only
// proves the subject id; the profile itself comes from the identity store
// and may be gone even for a valid token.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims := middleware.CurrentClaims(c)
	if claims == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "Authorization token is required")
	}

	user, err := h.Verifier.GetUser(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			return utils.Error(c, fiber.StatusNotFound, fmt.Sprintf("User with UID %s not found", claims.UserID))
		}
		logger.ErrorWithUser(claims.UserID.String(), "auth_profile_lookup_failed", err, nil)
		return utils.Error(c, fiber.StatusInternalServerError, "Failed to get user information")
	}

	return utils.JSON(c, fiber.StatusOK, buildCurrentUser(user))
}

func buildCurrentUser(user *models.User) CurrentUserResponse {
	resp := CurrentUserResponse{
		UID:           user.ID.String(),
		Email:         user.Email,
		DisplayName:   user.DisplayName,
		EmailVerified: user.EmailVerified,
		ProviderData:  []ProviderEntry{{ProviderID: user.ProviderID}},
	}
	if user.PhotoURL != nil {
		resp.PhotoURL = *user.PhotoURL
	}
	if user.CustomClaims != nil && *user.CustomClaims != "" {
		var claims map[string]interface{}
		if err := json.Unmarshal([]byte(*user.CustomClaims), &claims); err == nil {
			resp.CustomClaims = claims
		}
	}
	return resp
}
