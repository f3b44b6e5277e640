package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"chatprofile/internal/logger"
	"chatprofile/internal/output"
	"chatprofile/internal/peer"
	"chatprofile/ui/console"
)

var (
	dumpJSON bool
	dumpEdit bool
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the profile screen of --peer without opening the TUI",
	RunE:  runDump,
}

func init() {
	dumpCmd.Flags().BoolVar(&dumpJSON, "json", false, "Print the view model as JSON")
	dumpCmd.Flags().BoolVar(&dumpEdit, "edit", false, "Show the edit mode layout")
	rootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, args []string) error {
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
	if dumpEdit {
		h.scr.SetMode(peer.ModeEdit)
		if err := h.refresh(ctx); err != nil {
			return err
		}
	}

	view := output.BuildProfileView(h.Snapshot())
	if dumpJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}
	console.Print(cmd.OutOrStdout(), view)
	return nil
}
