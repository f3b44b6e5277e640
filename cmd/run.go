package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"chatprofile/internal/database"
	"chatprofile/internal/logger"
	"chatprofile/internal/mcpserver"
	"chatprofile/ui/tui"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the profile screen (the default command)",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Close()
	log := logger.Component("cmd")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
	defer stop()

	st, err := openStack(ctx, cfg)
	if err != nil {
		return fmt.Errorf("error opening store: %w", err)
	}
	defer st.Close()

	host := tui.NewHost()
	worker, err := database.NewDataWorker(st.collector, peerID, host.Deliver,
		database.WithInterval(cfg.Collector.RefreshInterval),
		database.WithGraph(st.handOverGraph()),
		database.WithLogger(logger.Component("worker")),
	)
	if err != nil {
		return err
	}

	if cfg.Debug.Addr != "" {
		srv, err := mcpserver.NewServer(mcpserver.DefaultConfig(), host, st.repo, st.graph, logger.Component("mcp"))
		if err != nil {
			return err
		}
		debugCtx, cancelDebug := context.WithCancel(ctx)
		defer cancelDebug()
		go func() {
			if err := srv.ListenAndServe(debugCtx, cfg.Debug.Addr); err != nil {
				log.Error("debug server stopped", "error", err)
			}
		}()
	}

	log.Info("opening profile", "peer", peerID, "db", cfg.Database.DuckDBPath)
	err = tui.Start(ctx, tui.Deps{
		Store:  st.repo,
		Source: st.collector,
		Config: cfg,
		PeerID: peerID,
		Worker: worker,
		Host:   host,
		Logger: logger.Component("tui"),
	})
	if err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
