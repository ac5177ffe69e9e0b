// seed prepares a local dev environment: it writes the default avatar into
// the store root and inserts a verified demo user.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/birozsombor4/rest-api-template/internal/infrastructure/postgres"
	"golang.org/x/crypto/bcrypt"
)

const (
	seedUsername = "demo"
	seedPassword = "demo-password"
	seedEmail    = "demo@test.local"
)

// A 1x1 transparent PNG, enough for the default avatar placeholder.
var defaultPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x62, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}
	avatarsRoot := os.Getenv("AVATARS_ROOT_LOCATION")
	if avatarsRoot == "" {
		avatarsRoot = "avatars"
	}

	if err := os.MkdirAll(avatarsRoot, 0o755); err != nil {
		log.Fatalf("create avatars root: %v", err)
	}
	defaultPath := filepath.Join(avatarsRoot, "default.png")
	if err := os.WriteFile(defaultPath, defaultPNG, 0o644); err != nil {
		log.Fatalf("write default avatar: %v", err)
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash seed password: %v", err)
	}

	var userID int
	err = pool.QueryRow(ctx, `
		INSERT INTO users (username, password, email, verified, avatar)
		VALUES ($1, $2, $3, true, 'default.png')
		ON CONFLICT (username) DO UPDATE SET email = EXCLUDED.email
		RETURNING id`,
		seedUsername, string(hash), seedEmail,
	).Scan(&userID)
	if err != nil {
		log.Fatalf("upsert demo user: %v", err)
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  Default avatar: %s\n", defaultPath)
	fmt.Printf("  Demo user:      %s / %s (id %d, verified)\n", seedUsername, seedPassword, userID)
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  Step 1 — log in:")
	fmt.Println()
	fmt.Printf("    curl -s -X POST http://localhost:8080/login \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"username\":\"%s\",\"password\":\"%s\"}'\n", seedUsername, seedPassword)
	fmt.Println("    # → {\"token\":\"eyJ...\"}")
	fmt.Println()
	fmt.Println("  Step 2 — upload an avatar:")
	fmt.Println()
	fmt.Println("    export JWT=eyJ...")
	fmt.Printf("    curl -s -X POST http://localhost:8080/avatar/%d \\\n", userID)
	fmt.Println("      -H \"Authorization: Bearer $JWT\" -F image=@me.png")
	fmt.Println()
	fmt.Println("  Step 3 — fetch it back:")
	fmt.Println()
	fmt.Printf("    curl -s http://localhost:8080/avatar/%d -H \"Authorization: Bearer $JWT\" -o out.png\n", userID)
}
