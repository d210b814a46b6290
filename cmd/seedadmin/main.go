package main

import (
	"context"
	"flag"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"folio/config"
	"folio/db"
	"folio/logger"
	"folio/models"
	"folio/repositories"
)

// seedadmin creates or resets the admin account. Intended for first-run
// provisioning and password recovery:
//
//	go run ./cmd/seedadmin -email admin@example.com -password secret
func main() {
	email := flag.String("email", os.Getenv("ADMIN_EMAIL"), "admin email")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password")
	name := flag.String("name", os.Getenv("ADMIN_NAME"), "display name")
	flag.Parse()

	config.InitApp()
	cfg := config.GetConfig()
	logger.Init(cfg.Logging.Level)

	if *email == "" || *password == "" {
		logger.Log.Error("both -email and -password are required")
		os.Exit(1)
	}

	ctx := context.Background()
	if err := db.Init(ctx); err != nil {
		logger.Log.Errorf("mongo connect: %v", err)
		os.Exit(1)
	}
	defer db.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx); err != nil {
		logger.Log.Errorf("ensure indexes: %v", err)
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorf("hash password: %v", err)
		os.Exit(1)
	}

	users := repositories.NewUserRepository(db.Database())
	u := &models.User{
		Email:        strings.ToLower(strings.TrimSpace(*email)),
		Name:         *name,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	res, err := users.UpsertByEmail(ctx, u)
	if err != nil {
		logger.Log.Errorf("upsert admin: %v", err)
		os.Exit(1)
	}

	if res.UpsertedCount > 0 {
		logger.Log.Infof("admin account created: %s", u.Email)
	} else {
		logger.Log.Infof("admin account updated: %s", u.Email)
	}
}
