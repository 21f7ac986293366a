// mint-token creates (or finds) a user profile by email and prints a
// signed ID token for it. Development convenience standing in for the
// real identity provider's token issuance.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/joaopmafra/sapie/internal/config"
	"github.com/joaopmafra/sapie/internal/database"
	"github.com/joaopmafra/sapie/internal/identity"
	"github.com/joaopmafra/sapie/internal/models"
	"github.com/joaopmafra/sapie/pkg/logger"
	"gorm.io/gorm"
)

func main() {
	email := flag.String("email", "", "user email (required)")
	name := flag.String("name", "", "display name for a newly created user")
	flag.Parse()

	if *email == "" {
		log.Fatal("usage: mint-token -email user@example.com [-name \"Display Name\"]")
	}

	logger.Init()
	cfg := config.Load()

	db, err := database.Connect(cfg.DB)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	var user models.User
	err = db.First(&user, "email = ?", *email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			Email:         *email,
			DisplayName:   *name,
			EmailVerified: true,
			ProviderID:    "password",
		}
		if err := db.Create(&user).Error; err != nil {
			log.Fatalf("failed creating user: %v", err)
		}
		fmt.Printf("created user %s (%s)\n", user.Email, user.ID)
	} else if err != nil {
		log.Fatalf("failed looking up user: %v", err)
	}

	verifier := identity.NewVerifier(db, cfg.Auth)
	token, err := verifier.MintToken(&user)
	if err != nil {
		log.Fatalf("failed minting token: %v", err)
	}

	fmt.Println(token)
}
