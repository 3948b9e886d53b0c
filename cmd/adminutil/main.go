package main

import (
	"context"
	"flag"
	"log"

	"github.com/omtii/marketplace/internal/config"
	"github.com/omtii/marketplace/internal/db"
	"github.com/omtii/marketplace/internal/observability"
	"github.com/omtii/marketplace/internal/roles"
)

// adminutil grants admin or super_admin to an existing account directly over
// the database. Intended for bootstrapping the first moderator on a fresh
// deployment; after that, grants go through the admin API.
func main() {
	email := flag.String("email", "", "email of the account to promote")
	role := flag.String("role", string(roles.SuperAdmin), "role to grant (admin or super_admin)")
	flag.Parse()

	if *email == "" {
		log.Fatal("usage: adminutil -email user@example.com [-role admin|super_admin]")
	}
	target, ok := roles.Parse(*role)
	if !ok || (target != roles.Admin && target != roles.SuperAdmin) {
		log.Fatalf("role must be admin or super_admin, got %q", *role)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer logger.Sync()

	db.Init(cfg.Postgres, logger)

	tag, err := db.Conn.Exec(context.Background(), `
		INSERT INTO user_roles (user_id, role)
		SELECT id, $1 FROM users WHERE email = $2
		ON CONFLICT (user_id, role) DO NOTHING
	`, string(target), *email)
	if err != nil {
		log.Fatalf("failed to grant role: %v", err)
	}
	if tag.RowsAffected() == 0 {
		log.Fatalf("no user with email %s, or role already assigned", *email)
	}

	log.Printf("granted %s to %s", target, *email)
}
