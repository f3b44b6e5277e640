package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"chatprofile/internal/database/relational"
	"chatprofile/internal/logger"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the DuckDB file with the demo user, group and channel",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Close()

	ctx := cmd.Context()
	st, err := openStack(ctx, cfg)
	if err != nil {
		return fmt.Errorf("error opening store: %w", err)
	}
	defer st.Close()

	if err := relational.Seed(ctx, st.repo); err != nil {
		return fmt.Errorf("error seeding: %w", err)
	}
	logger.Component("cmd").Info("seeded demo data", "db", cfg.Database.DuckDBPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %s (user %d, group %d, channel %d)\n",
		cfg.Database.DuckDBPath, relational.DemoUserID, relational.DemoGroupID, relational.DemoChannelID)
	return nil
}
