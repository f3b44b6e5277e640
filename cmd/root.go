package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"chatprofile/internal/config"
	"chatprofile/internal/database/relational"
	"chatprofile/internal/logger"
)

var (
	configPath string
	dbPath     string
	peerID     int64
	debugMode  bool
	debugAddr  string
)

var rootCmd = &cobra.Command{
	Use:   "chatprofile",
	Short: "Terminal profile screen for chats, groups and channels",
	Long: `chatprofile shows the profile of a user, group or channel from a DuckDB
store: an info list that hands its scroll over to a strip of paged
content (members, photos, files, links and more), with an edit mode for
groups and channels and an MCP debug surface.`,
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "DuckDB file (overrides database.duckdb_path)")
	rootCmd.PersistentFlags().Int64Var(&peerID, "peer", relational.DemoGroupID, "Peer id to open")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&debugAddr, "debug-addr", "", "Serve the MCP debug tools over HTTP on this address")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the config file and applies the flags the user set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, fmt.Errorf("error loading config: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg = cfg.WithDatabase(dbPath)
	}
	if flags.Changed("debug") {
		cfg = cfg.WithDebug(debugMode)
	}
	if flags.Changed("debug-addr") {
		cfg = cfg.WithDebugAddr(debugAddr)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// setup loads the config and opens the log file. Callers defer logger.Close.
func setup(cmd *cobra.Command) (config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return cfg, err
	}
	if err := logger.Init(cfg.Log.Path); err != nil {
		return cfg, err
	}
	logger.SetDebug(cfg.Log.Debug)
	return cfg, nil
}
