// Copyright (c) 2026 Danmu. All rights reserved.

// Command seedtoken mints the first admin API token so an operator has a
// credential to call the admin API with before any token exists to
// create one through it, mirroring original_source/src/database.py's
// create_initial_admin_user bootstrap step.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sorahq/danmu/internal/core/apitoken"
	"github.com/sorahq/danmu/internal/platform/config"
	"github.com/sorahq/danmu/internal/platform/postgres"
)

var expiresInDays int

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seedtoken [name]",
		Short: "mint an admin API token",
		Long:  "Issues a new bearer secret against platform.api_tokens and prints it once; it is never recoverable afterward.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSeedToken,
	}
	cmd.Flags().IntVar(&expiresInDays, "expires-in-days", 0, "expire the token after N days (0 = never)")
	return cmd
}

func runSeedToken(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	name := cfg.AdminTokenName
	if len(args) == 1 {
		name = args[0]
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	svc := apitoken.NewService(apitoken.NewRepository(pool), logger)

	var expiresAt *time.Time
	if expiresInDays > 0 {
		t := time.Now().AddDate(0, 0, expiresInDays)
		expiresAt = &t
	}

	token, secret, err := svc.Issue(ctx, name, expiresAt)
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "token id: %d\nname:     %s\nsecret:   %s\n", token.ID, token.Name, secret)
	fmt.Fprintln(cmd.OutOrStdout(), "\nStore this secret now — it cannot be retrieved again.")
	return nil
}
