// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"hostelhub/internal/database"
	"hostelhub/internal/models"
	"hostelhub/internal/store"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			slog.Info("migrations up to date")
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the development data set",
		Long: `Seed applies migrations and inserts sample users, categories, options
and hostels. It does nothing when categories already exist.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			return database.Seed(cmd.Context(), db)
		},
	}
}

// grantRoleOptions are the flags of the grant-role command.
type grantRoleOptions struct {
	firebaseUID string
	role        string
}

// validate checks the flags and returns the canonical role to store.
func (o grantRoleOptions) validate() (models.Role, error) {
	if o.firebaseUID == "" {
		return "", errors.New("--firebase-uid is required")
	}
	in := strings.TrimSpace(o.role)
	role := models.ParseRole(in)
	if role == models.RoleUser && strings.ToLower(in) != string(models.RoleUser) {
		return "", fmt.Errorf("unknown role %q (want user, admin or superadmin)", o.role)
	}
	return role, nil
}

func newGrantRoleCmd() *cobra.Command {
	var opts grantRoleOptions

	cmd := &cobra.Command{
		Use:   "grant-role",
		Short: "Change the role of a provisioned user",
		Long: `Grant-role sets the stored role of the user mapped to an identity
provider UID. The user is provisioned first if it has never signed in.

Examples:
  hostelhub grant-role --firebase-uid abc123 --role admin
  hostelhub grant-role --firebase-uid abc123 --role user`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := opts.validate()
			if err != nil {
				return err
			}

			cfg, err := setup()
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			users := store.NewUserStore(db)
			u, err := users.FindOrCreate(cmd.Context(), opts.firebaseUID, nil)
			if err != nil {
				return fmt.Errorf("resolve user: %w", err)
			}
			if err := users.SetRole(cmd.Context(), u.UID, string(role)); err != nil {
				return fmt.Errorf("set role: %w", err)
			}

			// Report what the auth gate will see from now on.
			u, err = users.FindByID(cmd.Context(), u.UID)
			if err != nil {
				return fmt.Errorf("reload user: %w", err)
			}
			if u == nil {
				return fmt.Errorf("reload user: %w", store.ErrNotFound)
			}

			slog.Info("role granted", "user_id", u.UID, "firebase_uid", opts.firebaseUID, "role", string(u.Role()))
			fmt.Fprintf(cmd.OutOrStdout(), "user %d (%s) is now %s (admin: %t)\n",
				u.UID, opts.firebaseUID, u.Role(), u.Role().IsPrivileged())
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.firebaseUID, "firebase-uid", "", "identity provider UID of the user")
	cmd.Flags().StringVar(&opts.role, "role", string(models.RoleAdmin), "role to grant: user, admin or superadmin")
	return cmd
}
