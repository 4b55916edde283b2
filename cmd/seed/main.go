package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/greekgang/terminal/config"
	"github.com/greekgang/terminal/internal/domain/entity"
	pginfra "github.com/greekgang/terminal/internal/infrastructure/postgres"
)

// Seeds the canonical roles and, when APP_ADMIN_EMAIL and
// SEED_ADMIN_PASSWORD are set, an already-confirmed administrator account.
// Safe to run repeatedly.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	roles := pginfra.NewRoleRepository(pool)
	if err := roles.InsertRoles(ctx); err != nil {
		log.Fatalf("failed to seed roles: %v", err)
	}
	log.Println("roles seeded")

	if cfg.AdminEmail == "" {
		return
	}
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		log.Println("SEED_ADMIN_PASSWORD not set, skipping admin account")
		return
	}
	username := os.Getenv("SEED_ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}

	users := pginfra.NewUserRepository(pool)
	if _, err := users.GetByEmail(ctx, cfg.AdminEmail); err == nil {
		log.Printf("admin account %s already exists", cfg.AdminEmail)
		return
	}

	adminRole, err := roles.GetByName(ctx, entity.AdminRoleName)
	if err != nil {
		log.Fatalf("failed to load admin role: %v", err)
	}
	u := &entity.User{
		Username:  username,
		Email:     cfg.AdminEmail,
		RoleID:    adminRole.ID,
		Role:      adminRole,
		Confirmed: true,
	}
	if err := u.SetPassword(password); err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	u.AvatarHash = u.GravatarHash()
	if err := users.Create(ctx, u); err != nil {
		log.Fatalf("failed to seed admin account: %v", err)
	}
	log.Printf("seeded admin account: username=%s email=%s", username, cfg.AdminEmail)
}
