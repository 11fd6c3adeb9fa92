package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Commencement-Technology/mobile-ios-wireguard/util"
)

const (
	outputFlag = "output"
	outputJSON = "json"
	outputYAML = "yaml"
)

var (
	configPath        string
	defaultConfigPath string
	logLevel          string
	logFile           string
	rootCmd           = &cobra.Command{
		Use:          "piawg",
		Short:        "PIA WireGuard client tooling",
		Long:         "Registers WireGuard keys with PIA servers and renders the resulting tunnel configuration.",
		SilenceUsage: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		util.SetFlagsFromEnvVars(rootCmd)
		util.SetFlagsFromEnvVars(cmd)
		return util.InitLog(logLevel, logFile)
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = "."
	}
	defaultConfigPath = filepath.Join(configDir, "pia", "wireguard.json")

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "PIA WireGuard config file location")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "sets log level")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", util.ConsoleLog, "sets log path. If console is specified the log will be output to stdout")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(addKeyCmd)
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configInitCmd, configShowCmd, configRmCmd)
}

// SetupCloseHandler cancels the context on SIGTERM or interrupt
func SetupCloseHandler(ctx context.Context, cancel context.CancelFunc) {
	termCh := make(chan os.Signal, 1)
	signal.Notify(termCh, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		defer signal.Stop(termCh)
		select {
		case <-ctx.Done():
		case <-termCh:
			log.Info("shutdown signal received")
			cancel()
		}
	}()
}
