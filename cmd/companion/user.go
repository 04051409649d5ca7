package main

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/brightpixel/companion/internal/auth"
	"github.com/brightpixel/companion/internal/config"
	"github.com/brightpixel/companion/internal/store"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage staff accounts",
}

var userCreateCmd = &cobra.Command{
	Use:   "create <email> <name>",
	Short: "Create a staff account, prompting for a password",
	Args:  cobra.ExactArgs(2),
	RunE:  runUserCreate,
}

func init() {
	userCmd.AddCommand(userCreateCmd)
}

func runUserCreate(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	// Server secrets are not needed to bootstrap a user.
	os.Setenv("COMPANION_DEV_MODE", "true")
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	email, name := args[0], args[1]

	fmt.Fprint(os.Stderr, "Password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	hash, err := auth.HashPassword(string(password))
	if err != nil {
		return err
	}

	db, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	user, err := db.CreateUser(context.Background(), email, name, hash)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	fmt.Printf("created user %d (%s)\n", user.ID, user.Email)
	return nil
}
