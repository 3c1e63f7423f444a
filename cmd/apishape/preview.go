package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vitalvas/apishape/fields"
	"github.com/vitalvas/apishape/internal/service"
	"github.com/vitalvas/apishape/openapi"
	"github.com/vitalvas/apishape/render"
)

type previewOptions struct {
	fieldsDir string
	service   string
	name      string
	preset    string
	pick      []string
	required  []string
	omit      []string
	format    string
	legacy    bool
}

type previewResult struct {
	Schema  *openapi.ObjectProperty `json:"schema" yaml:"schema"`
	Example any                     `json:"example" yaml:"example"`
}

func newPreviewCmd(cfgPath *string) *cobra.Command {
	opts := &previewOptions{}

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Print a schema view and its synthesized example",
		Long: `Print a schema view and its synthesized example.

With --fields the schema holds every field of the directory. Otherwise the
schema is looked up by --name in the configured service.

Selection steps run in order: --preset (or all fields), --pick, --required,
then --omit.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			schema, err := previewSchema(cmd, *cfgPath, opts)
			if err != nil {
				return err
			}

			result, err := previewView(schema, opts)
			if err != nil {
				return err
			}

			var data []byte
			switch opts.format {
			case render.FormatJSON:
				data, err = json.MarshalIndent(result, "", "  ")
				data = append(data, '\n')
			case render.FormatYAML:
				data, err = yaml.Marshal(result)
			default:
				return fmt.Errorf("%w: %q", render.ErrUnknownFormat, opts.format)
			}
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.fieldsDir, "fields", "", "field directory; the schema holds all of its fields")
	f.StringVar(&opts.service, "service", "", "configured service (default: first)")
	f.StringVar(&opts.name, "name", "", "schema name")
	f.StringVar(&opts.preset, "preset", "", "start from a preset instead of all fields")
	f.StringSliceVar(&opts.pick, "pick", nil, "fields to keep")
	f.StringSliceVar(&opts.required, "required", nil, "fields to mark required")
	f.StringSliceVar(&opts.omit, "omit", nil, "fields to drop")
	f.StringVar(&opts.format, "format", render.FormatJSON, "output format: json or yaml")
	f.BoolVar(&opts.legacy, "legacy-example", false, "leave out fields whose example is empty")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func previewSchema(cmd *cobra.Command, cfgPath string, opts *previewOptions) (*openapi.Schema, error) {
	ctx := cmd.Context()

	if opts.fieldsDir != "" {
		props, err := fields.Dir(os.DirFS(opts.fieldsDir), ".").Fields(ctx)
		if err != nil {
			return nil, err
		}
		return openapi.NewSchema(opts.name, props), nil
	}

	cfg, logger, err := loadConfig(cmd, cfgPath)
	if err != nil {
		return nil, err
	}
	svc, err := findService(cfg, opts.service)
	if err != nil {
		return nil, err
	}

	schemas, err := service.Schemas(ctx, svc, serviceFields(cfg, svc))
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(schemas))
	for _, s := range schemas {
		if s.Name() == opts.name {
			logger.Debug("preview", "service", svc.Name, "schema", s.Name(), "presets", s.Presets())
			return s, nil
		}
		names = append(names, s.Name())
	}

	return nil, fmt.Errorf("schema %q not found in service %s (available: %v)", opts.name, svc.Name, names)
}

func previewView(schema *openapi.Schema, opts *previewOptions) (*previewResult, error) {
	view := schema.All()
	if opts.preset != "" {
		view = schema.Preset(opts.preset)
	}
	if len(opts.pick) > 0 {
		view = view.Pick(openapi.Fields(opts.pick...)...)
	}
	if len(opts.required) > 0 {
		view = view.Require(opts.required...)
	}
	if len(opts.omit) > 0 {
		view = view.Omit(openapi.Fields(opts.omit...)...)
	}

	spec, err := view.ToSpec()
	if err != nil {
		return nil, err
	}

	example := openapi.SynthesizeExample(spec)
	if opts.legacy {
		example = openapi.SynthesizeLegacyExample(spec)
	}

	return &previewResult{Schema: spec, Example: example}, nil
}
