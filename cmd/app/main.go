package main

import (
	"fmt"
	"os"
	"time"

	"gig-marketplace-api/app"
	"gig-marketplace-api/internal/config"
	"gig-marketplace-api/internal/identity"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gig-marketplace-api",
	Short: "Gig marketplace API server",
	Long:  `Serves the gig marketplace HTTP API: gigs, bids and the hire transition.`,
	RunE:  serve,

	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server (default)",
	RunE:  serve,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		return app.Migrate(cfg)
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for a user id",
	Long: `Issue a bearer token signed with JWT_SECRET, for local use.

Examples:
  gig-marketplace-api token --user 7f7a6f2e-2c1b-4f51-9d43-0b1b4c2f4e11
  gig-marketplace-api token --user 7f7a6f2e-2c1b-4f51-9d43-0b1b4c2f4e11 --ttl 1h`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rawUser, _ := cmd.Flags().GetString("user")
		ttl, _ := cmd.Flags().GetDuration("ttl")

		userId, err := uuid.Parse(rawUser)
		if err != nil {
			return fmt.Errorf("invalid --user: %w", err)
		}
		if ttl <= 0 {
			return fmt.Errorf("invalid --ttl %s: should be positive", ttl)
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		token, err := identity.NewProvider(cfg.JWTSecret).IssueToken(userId, ttl)
		if err != nil {
			return err
		}
		fmt.Println(token)

		return nil
	},
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	return app.Run(cfg)
}

func init() {
	tokenCmd.Flags().String("user", "", "User id (uuid) the token is issued for")
	tokenCmd.Flags().Duration("ttl", 24*time.Hour, "Token lifetime")
	_ = tokenCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
