package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/database"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/models"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/repository"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type seedAdminOptions struct {
	email    string
	password string
	name     string
}

func seedAdminCmd() *cobra.Command {
	opts := &seedAdminOptions{}
	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create an administrator account, or promote an existing user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeedAdmin(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.email, "email", "", "administrator email (required)")
	cmd.Flags().StringVar(&opts.password, "password", "", "password for a new account")
	cmd.Flags().StringVar(&opts.name, "name", "Administrator", "display name for a new account")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func runSeedAdmin(ctx context.Context, opts *seedAdminOptions) error {
	a, err := bootstrap(ctx, "marketplace-seed")
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.connectMongo(); err != nil {
		return err
	}
	users := repository.NewMongoUserRepository(database.DB)
	return seedAdmin(ctx, users, opts, a.logger)
}

// seedAdmin promotes the account when it exists and creates it otherwise.
func seedAdmin(ctx context.Context, users repository.UserRepository, opts *seedAdminOptions, log *zap.Logger) error {
	email := strings.TrimSpace(opts.email)

	existing, err := users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if err := users.SetLevel(ctx, existing.Email, models.LevelAdmin); err != nil {
			return fmt.Errorf("failed to promote %s: %w", email, err)
		}
		log.Info("Existing user promoted to admin", zap.String("email", email))
		return nil
	case !errors.Is(err, repository.ErrNotFound):
		return err
	}

	if len(opts.password) < 6 {
		return fmt.Errorf("--password of at least 6 characters is required to create %s", email)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(opts.password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &models.User{
		Name:      opts.name,
		Email:     email,
		Password:  string(hashed),
		UserLevel: models.LevelAdmin,
	}
	if err := users.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	log.Info("Admin account created", zap.String("email", email))
	return nil
}
