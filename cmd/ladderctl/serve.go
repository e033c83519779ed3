package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tturner/ladderctl/internal/admin"
	"github.com/tturner/ladderctl/internal/config"
	"github.com/tturner/ladderctl/internal/ladder"
	"github.com/tturner/ladderctl/internal/logging"
	"github.com/tturner/ladderctl/internal/persist"
	"github.com/tturner/ladderctl/internal/plc"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the scan engine and admin listener until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "/etc/ladderctl/config.yaml", "path to the YAML configuration file")
	return cmd
}

func runServe(configPath string) error {
	cfg, err := config.Load(configPath, true)
	if err != nil {
		return err
	}

	level := parseLogLevel(cfg.Log.Level)
	logger, err := logging.NewLogger(level, cfg.Log.File)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Close()

	store := persist.New(cfg.Persist.Path)
	controller := plc.New(cfg.Limits, store, time.Duration(cfg.Snapshot.MinIntervalMs)*time.Millisecond)
	controller.SetWarner(logger.LogScanWarning)

	if err := controller.Boot(); err != nil {
		return fmt.Errorf("boot: %w", err)
	}

	if data, err := os.ReadFile(cfg.Program.Path); err == nil {
		var doc ladder.ProgramDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			logger.Error("program load: %v", err)
		} else if err := controller.Load(doc); err != nil {
			logger.Error("program load: %v", err)
		} else {
			logger.Info("loaded program from %s", cfg.Program.Path)
		}
	}

	adminServer := admin.New(logger, 16)
	if err := adminServer.Listen(cfg.Admin.Listen); err != nil {
		return fmt.Errorf("admin listen: %w", err)
	}
	defer adminServer.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	scanInterval := time.Duration(cfg.Scan.IntervalMs) * time.Millisecond
	ticker := time.NewTicker(scanInterval)
	defer ticker.Stop()

	logger.LogStartup(cfg.Admin.Listen, cfg.Program.Path, cfg.Persist.Path)

	for {
		select {
		case <-sigCh:
			logger.Info("shutdown signal received")
			return nil

		case cmd := <-adminServer.Commands():
			applyAdminCommand(controller, cmd, logger)

		case now := <-ticker.C:
			controller.Tick(now)
			if snap, published := controller.Snapshot(now, false); published {
				logger.Verbose("snapshot status=%s", snap.Status)
			}
		}
	}
}

func applyAdminCommand(controller *plc.Controller, cmd admin.Command, logger *logging.Logger) {
	switch cmd.Kind {
	case admin.KindRun:
		if err := controller.Run(); err != nil {
			logger.Error("run: %v", err)
		}
	case admin.KindStop:
		if err := controller.Stop(); err != nil {
			logger.Error("stop: %v", err)
		}
	case admin.KindReset:
		controller.Reset()
	case admin.KindSet:
		if err := controller.Write(cmd.Addr, cmd.Value); err != nil {
			logger.Error("set %s: %v", cmd.Addr, err)
		}
	case admin.KindLoadRequest:
		doc, ok := controller.Document()
		if !ok {
			cmd.Reply <- `{"error":"no program loaded"}`
			return
		}
		data, err := json.Marshal(doc)
		if err != nil {
			cmd.Reply <- `{"error":"` + err.Error() + `"}`
			return
		}
		cmd.Reply <- string(data)
	case admin.KindProgram:
		if err := controller.Load(cmd.Doc); err != nil {
			cmd.Reply <- `{"error":"` + err.Error() + `"}`
			return
		}
		cmd.Reply <- `{"status":"ok"}`
	}
}

func parseLogLevel(level string) logging.LogLevel {
	switch level {
	case "silent":
		return logging.LogLevelSilent
	case "error":
		return logging.LogLevelError
	case "verbose":
		return logging.LogLevelVerbose
	case "debug":
		return logging.LogLevelDebug
	default:
		return logging.LogLevelInfo
	}
}
