package database

import (
	"fmt"

	"github.com/joaopmafra/sapie/internal/config"
	"github.com/joaopmafra/sapie/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(cfg config.DBConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates the schema plus the constraints AutoMigrate cannot
// express. The partial unique index makes concurrent first-time root
// bootstraps collide at the store instead of racing past a lookup.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Content{},
	); err != nil {
		return err
	}

	rootIndex := `
CREATE UNIQUE INDEX IF NOT EXISTS idx_contents_root_owner
ON contents (owner_id)
WHERE parent_id IS NULL`

	return db.Exec(rootIndex).Error
}
