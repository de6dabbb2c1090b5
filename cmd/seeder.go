package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/cirruslabs-it/asset-inventory/internal/user"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with the bootstrap admin account",
	Long:  `Seed the database with the bootstrap admin account so the first login is possible on a fresh install.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		if clearData {
			if _, err := db.Exec("DELETE FROM users"); err != nil {
				log.Fatalf("failed to clear users: %v", err)
			}
			fmt.Println("Cleared existing users")
		}

		adminEmail := "admin@example.com"
		adminName := "Admin"

		var exists int
		err = db.QueryRow("SELECT 1 FROM users WHERE email = $1", adminEmail).Scan(&exists)
		if err == nil {
			fmt.Println("admin user already exists:", adminEmail)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte("password123"), cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}

		_, err = db.Exec(
			"INSERT INTO users (name, email, password_hash, role, created_at, updated_at) VALUES ($1, $2, $3, $4, now(), now())",
			adminName, adminEmail, string(hash), user.RoleAdmin,
		)
		if err != nil {
			log.Fatalf("failed to insert admin user: %v", err)
		}
		fmt.Println("Seeded admin user:", adminEmail)
	},
}
