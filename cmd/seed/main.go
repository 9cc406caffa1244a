package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"go-auth-service/config"
	"go-auth-service/pkg/hashing"
)

type seedUser struct {
	email    string
	username string
	password string
}

var seedUsers = []seedUser{
	{"alice@example.com", "alice", "password-alice-123"},
	{"bob@example.com", "bob", "password-bob-123"},
	{"admin@example.com", "admin", "password-admin-123"},
}

func main() {
	clearFirst := flag.Bool("clear", false, "delete all existing users before seeding")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	if *clearFirst {
		if _, err := db.Exec(`DELETE FROM users`); err != nil {
			log.Fatalf("failed to clear users: %v", err)
		}
		fmt.Println("cleared users table")
	}

	hasher := hashing.New()
	for _, u := range seedUsers {
		hash, err := hasher.Hash(u.password)
		if err != nil {
			log.Fatalf("failed to hash password for %s: %v", u.email, err)
		}

		var id string
		err = db.QueryRow(`
			INSERT INTO users (email, username, password_hash)
			VALUES ($1, $2, $3)
			ON CONFLICT (email) DO UPDATE SET username = EXCLUDED.username, password_hash = EXCLUDED.password_hash
			RETURNING id
		`, u.email, u.username, hash).Scan(&id)
		if err != nil {
			log.Fatalf("failed to seed user %s: %v", u.email, err)
		}
		fmt.Printf("seeded user: id=%s email=%s username=%s password=%s\n", id, u.email, u.username, u.password)
	}
}
