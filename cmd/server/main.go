package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/spf13/cobra"

	"haircast-core/internal/app/server"
	corelog "haircast-core/internal/core/log"
	"haircast-core/internal/version"
)

var (
	configPath string
	noBanner   bool
)

var rootCmd = &cobra.Command{
	Use:   "haircast",
	Short: "Haircast - real-time hair try-on streaming gateway",
	Long: `Haircast bridges mobile-client WebSocket connections carrying video
frames onto a gRPC stream to the inference backend and returns the
processed frames in real time.

Quick Start:
  haircast                          Run with ./config.yaml
  haircast --config /etc/haircast/config.yaml
  haircast version                  Show version information`,
	Version: version.GetVersion(),
	RunE:    runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Haircast Gateway %s\n", version.GetVersion())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to configuration file")
	rootCmd.Flags().BoolVar(&noBanner, "no-banner", false, "suppress the startup banner")
	rootCmd.AddCommand(versionCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	absConfigPath, err := filepath.Abs(configPath)
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}

	config, err := server.LoadConfig(absConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	srv := server.New(config, context.Background())
	if !noBanner {
		srv.DisplayStartupBanner(absConfigPath)
	}

	if err := srv.Run(); err != nil {
		return fmt.Errorf("run gateway: %w", err)
	}
	corelog.Info("Haircast gateway exited gracefully")
	return nil
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			corelog.Errorf("FATAL: main goroutine panic recovered: %v", r)
			fmt.Fprintf(os.Stderr, "\nPANIC: %v\n%s\n", r, debug.Stack())
			os.Exit(2)
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
