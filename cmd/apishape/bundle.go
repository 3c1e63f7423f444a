package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vitalvas/apishape/fields"
	"github.com/vitalvas/apishape/internal/config"
	"github.com/vitalvas/apishape/internal/service"
	"github.com/vitalvas/apishape/openapi"
	"github.com/vitalvas/apishape/render"
)

func newBundleCmd(cfgPath *string) *cobra.Command {
	var only string

	cmd := &cobra.Command{
		Use:   "bundle",
		Short: "Write the OpenAPI bundles of every configured service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(cmd, *cfgPath)
			if err != nil {
				return err
			}
			if err := cfg.ValidateBundle(); err != nil {
				return err
			}

			for _, svc := range cfg.Services {
				if only != "" && svc.Name != only {
					continue
				}

				logger.Info("compiling", "service", svc.Name)

				spec, err := serviceSpec(cmd.Context(), cfg, svc)
				if err != nil {
					return fmt.Errorf("service %s: %w", svc.Name, err)
				}

				doc, err := spec.Build()
				if err != nil {
					return fmt.Errorf("service %s: %w", svc.Name, err)
				}

				files, err := render.Bundle(doc, cfg.Output.Dir, svc.Name, cfg.Output.Formats)
				if err != nil {
					return fmt.Errorf("service %s: %w", svc.Name, err)
				}

				for _, f := range files {
					logger.Info("bundle written", "service", svc.Name, "file", f)
					fmt.Fprintln(cmd.OutOrStdout(), f)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&only, "service", "", "bundle only the named service")
	return cmd
}

// serviceFields returns the field source of svc. A service without a
// field directory only has its inline schema properties.
func serviceFields(cfg *config.Config, svc config.ServiceConfig) fields.Source {
	dir := cfg.FieldsDir(svc)
	if dir == "" {
		return fields.Map(nil)
	}
	return fields.Dir(os.DirFS(dir), ".")
}

func serviceSpec(ctx context.Context, cfg *config.Config, svc config.ServiceConfig) (*openapi.Spec, error) {
	return service.Spec(ctx, svc, serviceFields(cfg, svc))
}
