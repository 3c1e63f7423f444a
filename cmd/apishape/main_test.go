package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/vitalvas/apishape/internal/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

// setupProject writes the default config and the Person field files into
// a temporary directory and returns the config path.
func setupProject(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	_, err := execute(t, "init", dir)
	require.NoError(t, err)

	fieldsDir := filepath.Join(dir, "openapi", "services", "myservice", "fields")
	require.NoError(t, os.MkdirAll(fieldsDir, 0o755))

	files := map[string]string{
		"first_name.yaml": "type: string\nexample: Jane\n",
		"last_name.yml":   "type: string\nexample: Doe\n",
		"ssn.json":        `{"type": "string", "pattern": "^[0-9]{3}-[0-9]{2}-[0-9]{4}$", "example": "123-45-6789"}`,
		"index.yaml":      "ignored: true\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(fieldsDir, name), []byte(content), 0o644))
	}

	return filepath.Join(dir, config.DefaultPath)
}

func TestInit(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "init", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "created")

	data, err := os.ReadFile(filepath.Join(dir, config.DefaultPath))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultContent, string(data))

	out, err = execute(t, "init", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "exists")
}

func TestBundle(t *testing.T) {
	cfgPath := setupProject(t)
	outDir := filepath.Join(filepath.Dir(cfgPath), "build")
	t.Setenv("APISHAPE_OUTPUT_DIR", outDir)

	out, err := execute(t, "--config", cfgPath, "bundle")
	require.NoError(t, err)

	jsonFile := filepath.Join(outDir, "myserviceOpenapi.json")
	htmlFile := filepath.Join(outDir, "myserviceOpenapi.html")
	assert.Equal(t, []string{jsonFile, htmlFile}, strings.Fields(out))

	data, err := os.ReadFile(jsonFile)
	require.NoError(t, err)

	var doc struct {
		OpenAPI    string `json:"openapi"`
		Info       struct{ Title, Version string }
		Components struct {
			Schemas map[string]struct {
				Title      string         `json:"title"`
				Properties map[string]any `json:"properties"`
			} `json:"schemas"`
		} `json:"components"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "3.1.0", doc.OpenAPI)
	assert.Equal(t, "API", doc.Info.Title)
	assert.Equal(t, "2.0.0", doc.Info.Version)
	require.Contains(t, doc.Components.Schemas, "Person")
	require.Contains(t, doc.Components.Schemas, "PersonNames")
	assert.Len(t, doc.Components.Schemas["Person"].Properties, 4)
	assert.Len(t, doc.Components.Schemas["PersonNames"].Properties, 3)
	assert.NotContains(t, doc.Components.Schemas["PersonNames"].Properties, "ssn")

	t.Run("key order is kept", func(t *testing.T) {
		text := string(data)
		assert.Less(t, strings.Index(text, `"first_name"`), strings.Index(text, `"middle_name"`))
		assert.Less(t, strings.Index(text, `"middle_name"`), strings.Index(text, `"last_name"`))
	})

	t.Run("unknown service filter writes nothing", func(t *testing.T) {
		out, err := execute(t, "--config", cfgPath, "bundle", "--service", "other")
		require.NoError(t, err)
		assert.Empty(t, out)
	})
}

func TestBundleMissingField(t *testing.T) {
	cfgPath := setupProject(t)
	t.Setenv("APISHAPE_OUTPUT_DIR", filepath.Join(t.TempDir(), "build"))

	require.NoError(t, os.Remove(filepath.Join(filepath.Dir(cfgPath), "openapi", "services", "myservice", "fields", "ssn.json")))

	_, err := execute(t, "--config", cfgPath, "bundle")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"ssn"`)
}

func TestPreview(t *testing.T) {
	cfgPath := setupProject(t)
	fieldsDir := filepath.Join(filepath.Dir(cfgPath), "openapi", "services", "myservice", "fields")

	t.Run("fields dir with pick and required", func(t *testing.T) {
		out, err := execute(t, "preview", "--fields", fieldsDir, "--name", "Person",
			"--pick", "first_name,last_name", "--required", "last_name")
		require.NoError(t, err)

		var result struct {
			Schema struct {
				Title      string         `json:"title"`
				Properties map[string]any `json:"properties"`
				Required   []string       `json:"required"`
			} `json:"schema"`
			Example map[string]any `json:"example"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &result))

		assert.Equal(t, "Person", result.Schema.Title)
		assert.Len(t, result.Schema.Properties, 2)
		assert.Equal(t, []string{"last_name"}, result.Schema.Required)
		assert.Equal(t, map[string]any{"first_name": "Jane", "last_name": "Doe"}, result.Example)
	})

	t.Run("configured preset as yaml", func(t *testing.T) {
		out, err := execute(t, "--config", cfgPath, "preview", "--name", "Person",
			"--preset", "names", "--omit", "middle_name", "--format", "yaml")
		require.NoError(t, err)

		var result map[string]any
		require.NoError(t, yaml.Unmarshal([]byte(out), &result))
		assert.Equal(t, map[string]any{"first_name": "Jane", "last_name": "Doe"}, result["example"])
	})

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			name string
			args []string
			want string
		}{
			{"unknown field", []string{"preview", "--fields", fieldsDir, "--name", "P", "--pick", "age"}, `"age"`},
			{"unknown schema", []string{"--config", cfgPath, "preview", "--name", "Pet"}, `schema "Pet" not found`},
			{"unknown preset", []string{"--config", cfgPath, "preview", "--name", "Person", "--preset", "x"}, "preset not found"},
			{"unknown service", []string{"--config", cfgPath, "preview", "--name", "Person", "--service", "x"}, `service "x" not configured`},
			{"empty selection", []string{"preview", "--fields", fieldsDir, "--name", "P", "--pick", "ssn", "--omit", "ssn"}, "empty selection"},
			{"bad format", []string{"preview", "--fields", fieldsDir, "--name", "P", "--format", "xml"}, "unknown format"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := execute(t, tt.args...)
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.want)
			})
		}
	})
}
