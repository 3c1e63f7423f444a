package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vitalvas/apishape/fields"
	"github.com/vitalvas/apishape/internal/server"
)

func newServeCmd(cfgPath *string) *cobra.Command {
	var addr, name string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the docs UI of a configured service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(cmd, *cfgPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			svc, err := findService(cfg, name)
			if err != nil {
				return err
			}

			src := serviceFields(cfg, svc)
			names, err := fields.Names(cmd.Context(), src)
			if err != nil {
				return err
			}
			logger.Debug("fields loaded", "service", svc.Name, "fields", names)

			spec, err := serviceSpec(cmd.Context(), cfg, svc)
			if err != nil {
				return err
			}
			if _, err := spec.Build(); err != nil {
				return err
			}

			opts := server.Options{Addr: cfg.Server.Addr, Logger: logger}
			if info, err := os.Stat(cfg.Output.Dir); err == nil && info.IsDir() {
				opts.Bundles = os.DirFS(cfg.Output.Dir)
			}

			logger.Info("serving docs", "service", svc.Name, "addr", cfg.Server.Addr, "docs", "/docs/")
			return server.Run(cmd.Context(), server.New(spec, opts))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr from config)")
	cmd.Flags().StringVar(&name, "service", "", "service to serve (default: first)")

	return cmd
}
