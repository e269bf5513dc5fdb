package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// @title Unit Availability API
// @version 1.0
// @description Access requests, availability reports and alerts for an organizational unit tree.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := newRootCmd(logger).Execute(); err != nil {
		logger.Error("Command failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "availability_backend",
		Short:         "Unit availability and access management backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newServeCmd(logger))
	cmd.AddCommand(newMigrateCmd(logger))
	cmd.AddCommand(newPromoteCmd(logger))
	return cmd
}
