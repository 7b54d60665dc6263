package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"stockgate/internal/config"
	"stockgate/internal/db"
	"stockgate/internal/device"
	"stockgate/internal/gate/service"
	sqlitestore "stockgate/internal/gate/store/sqlite"
	"stockgate/internal/ui"
)

var rootCmd = &cobra.Command{
	Use:   "stockgate",
	Short: "RFID access control and stock management",
	Long: `stockgate authenticates RFID card scans arriving over a serial line,
keeps an append-only access audit log, and manages a user roster and a
stock-quantity ledger from a terminal UI.

Without a device attached it runs in manual-only mode: the scan pipeline is
disabled and UIDs can be entered by hand on the login screen.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func run() error {
	cfg := config.FromEnv()

	logger, err := openLogger(cfg.LogPath)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	conn, err := db.Open(ctx, db.Config{Path: cfg.DBPath})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer conn.Close()

	created, err := db.Seed(ctx, conn, db.SeedOptions{AdminUID: cfg.DefaultAdminUID})
	if err != nil {
		return fmt.Errorf("seed database: %w", err)
	}
	if created {
		logger.Info("default admin seeded", zap.String("uid", cfg.DefaultAdminUID))
	}

	writer := db.NewWorker(conn)
	defer writer.Close()

	// Stores
	userStore := sqlitestore.NewUserStore(conn, writer)
	accessLogStore := sqlitestore.NewAccessLogStore(conn, writer)
	stockStore := sqlitestore.NewStockStore(conn, writer)

	// Device channel; degrades to a no-op when the port cannot be opened.
	channel := device.Open(cfg.SerialPort, cfg.BaudRate, cfg.ReadTimeout, logger)
	defer channel.Close()

	// Services
	accessSvc := service.NewAccessService(userStore, accessLogStore, channel, logger)
	rosterSvc := service.NewRosterService(userStore)
	stockSvc := service.NewStockService(stockStore)

	program := tea.NewProgram(
		ui.New(accessSvc, rosterSvc, stockSvc, logger),
		tea.WithAltScreen(),
	)

	// Background scan pipeline: device -> framer -> parser -> Program.Send.
	reader := device.NewReader(channel, cfg.PollInterval, func(uid string) {
		program.Send(ui.ScanMsg{UID: uid})
	}, logger)

	readerCtx, stopReader := context.WithCancel(ctx)
	defer stopReader()

	reader.Start(readerCtx)
	defer reader.Stop()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

// openLogger builds a file-backed zap logger.  Diagnostics cannot go to the
// terminal because the TUI owns it.
func openLogger(path string) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir log dir: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
