package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vitalvas/apishape/internal/config"
	"github.com/vitalvas/apishape/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:           "apishape",
		Short:         "Build OpenAPI documents from shared field definitions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath, "config file path")

	root.AddCommand(newInitCmd())
	root.AddCommand(newBundleCmd(&cfgPath))
	root.AddCommand(newPreviewCmd(&cfgPath))
	root.AddCommand(newServeCmd(&cfgPath))

	return root
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a default config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}

			cfgFile := filepath.Join(dir, config.DefaultPath)
			if _, err := os.Stat(cfgFile); errors.Is(err, os.ErrNotExist) {
				if err := os.WriteFile(cfgFile, []byte(config.DefaultContent), 0o644); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "created", cfgFile)
			} else if err == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "exists", cfgFile)
			} else {
				return err
			}

			return nil
		},
	}
}

// loadConfig loads and validates the config, and returns a logger writing
// to the command's error stream.
func loadConfig(cmd *cobra.Command, path string) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	return cfg, logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format), nil
}

// findService returns the named service, or the first one when name is
// empty.
func findService(cfg *config.Config, name string) (config.ServiceConfig, error) {
	if len(cfg.Services) == 0 {
		return config.ServiceConfig{}, errors.New("no services configured")
	}
	if name == "" {
		return cfg.Services[0], nil
	}
	for _, svc := range cfg.Services {
		if svc.Name == name {
			return svc, nil
		}
	}
	return config.ServiceConfig{}, fmt.Errorf("service %q not configured", name)
}
