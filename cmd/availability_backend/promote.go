package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/SscSPs/unit_availability_app/internal/core/domain"
	"github.com/SscSPs/unit_availability_app/internal/core/services"
	"github.com/SscSPs/unit_availability_app/internal/dto"
	"github.com/SscSPs/unit_availability_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/unit_availability_app/pkg/config"
	"github.com/SscSPs/unit_availability_app/pkg/database"
	"github.com/spf13/cobra"
)

func newPromoteCmd(logger *slog.Logger) *cobra.Command {
	var (
		email string
		role  string
		staff bool
	)
	cmd := &cobra.Command{
		Use:   "promote",
		Short: "Grant a role (and optionally staff) to a user, approving the account",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := domain.Role(role)
			if !r.IsValid() {
				return fmt.Errorf("invalid --role %q", role)
			}
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cfg.StorageDriver != config.StoragePostgres {
				return fmt.Errorf("promote needs STORAGE_DRIVER=%s", config.StoragePostgres)
			}

			pool, err := database.NewPgxPool(cmd.Context(), cfg.DatabaseURL, true)
			if err != nil {
				return err
			}
			defer database.ClosePgxPool(pool)

			container := services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(pool), services.Dependencies{})
			user, err := container.User.Promote(cmd.Context(), email, r, staff)
			if err != nil {
				return err
			}
			logger.Info("User promoted", slog.String("user_id", user.UserID), slog.String("role", role), slog.Bool("staff", staff))

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(dto.ToUserResponse(*user))
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "E-mail of the user (required)")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleAdmin), "Role to grant")
	cmd.Flags().BoolVar(&staff, "staff", false, "Also grant the staff flag")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
