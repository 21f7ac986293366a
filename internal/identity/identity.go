// Package identity is the token-verification collaborator: it turns a
// bearer token into decoded claims and looks up user profiles by subject
// id. The rest of the system only consumes this surface; how tokens are
// minted is the provider's business.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/joaopmafra/sapie/internal/config"
	"github.com/joaopmafra/sapie/internal/models"
	"gorm.io/gorm"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrUserNotFound = errors.New("user not found")
)

// Claims is the decoded ID token payload.
type Claims struct {
	UserID        uuid.UUID `json:"userID"`
	Email         string    `json:"email,omitempty"`
	Name          string    `json:"name,omitempty"`
	Picture       string    `json:"picture,omitempty"`
	EmailVerified bool      `json:"email_verified,omitempty"`
	jwt.RegisteredClaims
}

// Verifier validates ID tokens and resolves user profiles. It is built
// once at startup and injected into whatever needs it; there is no
// process-wide handle.
type Verifier struct {
	db              *gorm.DB
	secret          []byte
	expirationHours int
}

func NewVerifier(db *gorm.DB, cfg config.AuthConfig) *Verifier {
	secret := cfg.Secret
	if secret == "" {
		secret = "change-me-in-production"
	}
	expiration := cfg.ExpirationHours
	if expiration <= 0 {
		expiration = 24
	}
	return &Verifier{db: db, secret: []byte(secret), expirationHours: expiration}
}

// VerifyToken checks the token's signature and expiry and returns the
// decoded claims. Any failure collapses into ErrInvalidToken; callers only
// need the unauthenticated/authenticated distinction.
func (v *Verifier) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return claims, nil
}

// GetUser resolves the full profile record for a subject id.
func (v *Verifier) GetUser(ctx context.Context, uid uuid.UUID) (*models.User, error) {
	var user models.User
	if err := v.db.WithContext(ctx).First(&user, "id = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// MintToken issues a signed ID token for a user. Used by the dev token
// utility and by tests; production deployments take tokens from the real
// identity provider.
func (v *Verifier) MintToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:        user.ID,
		Email:         user.Email,
		Name:          user.DisplayName,
		EmailVerified: user.EmailVerified,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(v.expirationHours) * time.Hour)),
		},
	}
	if user.PhotoURL != nil {
		claims.Picture = *user.PhotoURL
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}
