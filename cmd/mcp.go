package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"chatprofile/internal/logger"
	"chatprofile/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the debug tools over stdio for a headless screen of --peer",
	RunE:  runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
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

	h, err := openHeadless(ctx, st, cfg, peerID)
	if err != nil {
		return err
	}
	defer h.Close()

	srv, err := mcpserver.NewServer(mcpserver.DefaultConfig(), h, st.repo, st.graph, logger.Component("mcp"))
	if err != nil {
		return err
	}
	return srv.Start(ctx)
}
