package models

// User is the identity profile record backing the verify-token collaborator.
// The subject id (BaseModel.ID) is the ownerId referenced by Content rows.
type User struct {
	BaseModel
	Email         string  `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	DisplayName   string  `json:"displayName" gorm:"type:varchar(255)"`
	PhotoURL      *string `json:"photoURL,omitempty" gorm:"type:text"`
	EmailVerified bool    `json:"emailVerified" gorm:"not null;default:false"`
	ProviderID    string  `json:"-" gorm:"type:varchar(50);not null;default:'password'"`
	CustomClaims  *string `json:"-" gorm:"type:text"`
}
