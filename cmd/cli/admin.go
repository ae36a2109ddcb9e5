package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fleveque/logolist/internal/auth"
	"github.com/fleveque/logolist/internal/model"
	"github.com/fleveque/logolist/internal/storage"
)

func adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin users",
	}
	cmd.AddCommand(createUserCmd())
	return cmd
}

func createUserCmd() *cobra.Command {
	var username, password, role string

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create an admin user, or reset its password and role",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			if err := createUser(cmd.Context(), storage.NewAdminUserRepository(e.db), username, password, role); err != nil {
				return err
			}
			e.logger.Info("admin user saved", zap.String("username", username), zap.String("role", role))
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Admin username")
	cmd.Flags().StringVar(&password, "password", "", "Admin password")
	cmd.Flags().StringVar(&role, "role", "admin", "Role stored in the session token")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func createUser(ctx context.Context, admins storage.AdminUserRepository, username, password, role string) error {
	if username == "" || len(password) < 8 {
		return errors.New("username is required and password must be at least 8 characters")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if err := admins.Upsert(ctx, &model.AdminUser{Username: username, PasswordHash: hash, Role: role}); err != nil {
		return fmt.Errorf("saving admin user: %w", err)
	}
	return nil
}
