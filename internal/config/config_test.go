package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/eykd/notecheck-go/internal/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func env(values map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), FileName))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), FileName, "language: fr\nannotation_type: tq\nworkers: 2\nta_root: ../fr_ta\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	want.Language = "fr"
	want.AnnotationType = "TQ"
	want.Workers = 2
	want.TARoot = "../fr_ta"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), FileName, "workers: [1, 2\n")
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "parsing config") {
		t.Errorf("err = %v, want parse error", err)
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(env(map[string]string{
		"NOTECHECK_LANGUAGE":              "es-419",
		"NOTECHECK_ANNOTATION_TYPE":       "sn",
		"NOTECHECK_EXTRACT_LENGTH":        "20",
		"NOTECHECK_DISABLE_LINK_FETCHING": "true",
		"NOTECHECK_SOURCE_ROOT":           "/src",
	}))
	if err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Language != "es-419" || cfg.AnnotationType != "SN" || cfg.ExtractLength != 20 || !cfg.DisableLinkFetching || cfg.SourceRoot != "/src" {
		t.Errorf("config = %+v", cfg)
	}
}

func TestApplyEnv_BadValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"NOTECHECK_WORKERS", "many"},
		{"NOTECHECK_DISABLE_LINK_FETCHING", "perhaps"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			cfg := Default()
			err := cfg.ApplyEnv(env(map[string]string{tt.key: tt.value}))
			if err == nil || !strings.Contains(err.Error(), tt.key) {
				t.Errorf("err = %v, want mention of %s", err, tt.key)
			}
		})
	}
}

func TestResolve_Precedence(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, "language: fr\nworkers: 2\nmin_priority: 100\n")
	writeFile(t, dir, EnvFileName, "NOTECHECK_WORKERS=3\nNOTECHECK_MIN_PRIORITY=500\n")

	cfg, err := Resolve(dir, env(map[string]string{"NOTECHECK_MIN_PRIORITY": "700"}))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.Language != "fr" {
		t.Errorf("Language = %q, want file value", cfg.Language)
	}
	if cfg.Workers != 3 {
		t.Errorf("Workers = %d, want dotenv value", cfg.Workers)
	}
	if cfg.MinPriority != 700 {
		t.Errorf("MinPriority = %d, want environment value", cfg.MinPriority)
	}
}

func TestResolve_NoFiles(t *testing.T) {
	cfg, err := Resolve(t.TempDir(), env(nil))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr []string
	}{
		{"defaults", func(*Config) {}, nil},
		{"unknown type", func(c *Config) { c.AnnotationType = "XX" }, []string{"annotation_type"}},
		{"no workers", func(c *Config) { c.Workers = 0 }, []string{"workers", "gte=1"}},
		{"priority too high", func(c *Config) { c.MinPriority = 1000 }, []string{"min_priority"}},
		{"repo with slash", func(c *Config) { c.TARepo = "org/en_ta" }, []string{"ta_repo"}},
		{"several problems", func(c *Config) { c.Language = ""; c.Workers = 100 }, []string{"language", "workers"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate: want error")
			}
			for _, want := range tt.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("err = %q, want mention of %q", err, want)
				}
			}
		})
	}
}

func TestConfig_OptionsAndType(t *testing.T) {
	cfg := Default()
	cfg.ExtractLength = 0
	cfg.DisableLinkFetching = true
	if got := cfg.Options(); got.ExtractLength != domain.DefaultExtractLength || !got.DisableLinkFetching {
		t.Errorf("Options = %+v", got)
	}
	if typ, err := cfg.Type(); err != nil || typ != domain.TranslationNotes {
		t.Errorf("Type = %q, %v", typ, err)
	}
}

func TestMarshal_RoundTrips(t *testing.T) {
	cfg := Default()
	cfg.TWRoot = "/content/en_tw"
	data, err := Marshal(cfg)
	if err != nil {
		t.Fatal(err)
	}
	path := writeFile(t, t.TempDir(), FileName, string(data))
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}
