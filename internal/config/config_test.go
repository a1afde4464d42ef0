package config

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "finance-synth/internal/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName+".toml"), []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	g := cfg.Generator
	if g.Seed != DefaultSeed || g.WindowDays != 180 || g.OutputDir != "data" || !g.CreateOutputDir {
		t.Errorf("generator defaults = %+v", g)
	}
	if g.EndDate != "" || g.CatalogFile != "" {
		t.Errorf("generator defaults = %+v", g)
	}
	if cfg.Warehouse.Enabled {
		t.Error("warehouse enabled by default")
	}
	if cfg.Logging.Level != "info" || cfg.Logging.File {
		t.Errorf("logging defaults = %+v", cfg.Logging)
	}
}

func TestLoad_File(t *testing.T) {
	dir := writeConfig(t, `
[generator]
seed = 7
window_days = 30
end_date = "2024-06-30"
output_dir = "out"

[warehouse]
enabled = true
path = "out/wh.db"

[logging]
level = "debug"
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Dir != dir {
		t.Errorf("Dir = %s", cfg.Dir)
	}
	if cfg.Generator.Seed != 7 || cfg.Generator.WindowDays != 30 || cfg.Generator.OutputDir != "out" {
		t.Errorf("generator = %+v", cfg.Generator)
	}
	if !cfg.Warehouse.Enabled || cfg.Warehouse.Path != "out/wh.db" {
		t.Errorf("warehouse = %+v", cfg.Warehouse)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging level = %s", cfg.Logging.Level)
	}

	w, err := cfg.Window()
	if err != nil {
		t.Fatalf("Window: %v", err)
	}
	if w.Len() != 31 || w.Start.Format("2006-01-02") != "2024-05-31" {
		t.Errorf("window = %s (%d days)", w, w.Len())
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := writeConfig(t, "[generator]\nseed = 7\n")
	t.Setenv("FINDATA_SEED", "1234")
	t.Setenv("FINDATA_WINDOW_DAYS", "10")
	t.Setenv("FINDATA_END_DATE", "2023-12-31")
	t.Setenv("FINDATA_OUTPUT_DIR", "elsewhere")
	t.Setenv("FINDATA_WAREHOUSE_PATH", "elsewhere/wh.db")
	t.Setenv("FINDATA_LOG_LEVEL", "error")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	g := cfg.Generator
	if g.Seed != 1234 || g.WindowDays != 10 || g.EndDate != "2023-12-31" || g.OutputDir != "elsewhere" {
		t.Errorf("generator = %+v", g)
	}
	if !cfg.Warehouse.Enabled || cfg.Warehouse.Path != "elsewhere/wh.db" {
		t.Errorf("warehouse = %+v", cfg.Warehouse)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("logging level = %s", cfg.Logging.Level)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := writeConfig(t, "")
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("FINDATA_SEED=99\n"), 0644); err != nil {
		t.Fatal(err)
	}
	// registers cleanup so the variable godotenv sets does not leak
	t.Setenv("FINDATA_SEED", "")
	os.Unsetenv("FINDATA_SEED")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Generator.Seed != 99 {
		t.Errorf("seed = %d, want 99 from .env", cfg.Generator.Seed)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
	}{
		{"zero window", "[generator]\nwindow_days = 0\n", nil},
		{"negative window", "[generator]\nwindow_days = -3\n", nil},
		{"bad end date", "[generator]\nend_date = \"30/06/2024\"\n", nil},
		{"empty output dir", "[generator]\noutput_dir = \"\"\n", nil},
		{"warehouse without path", "[warehouse]\nenabled = true\npath = \"\"\n", nil},
		{"unknown log level", "[logging]\nlevel = \"loud\"\n", nil},
		{"non-numeric seed", "", map[string]string{"FINDATA_SEED": "abc"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tc.body))
			if err == nil {
				t.Fatal("Load succeeded")
			}
			if !apperrors.IsConfigError(err) {
				t.Errorf("error %v is not a config error", err)
			}
		})
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	if _, err := Load(writeConfig(t, "[generator\nseed = ")); err == nil {
		t.Fatal("Load of malformed TOML succeeded")
	}
}

func TestWriteTemplate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")

	path, err := WriteTemplate(dir)
	if err != nil {
		t.Fatalf("WriteTemplate: %v", err)
	}
	if path != Path(dir) {
		t.Errorf("path = %s, want %s", path, Path(dir))
	}

	// the template must load cleanly and match the defaults
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load(template): %v", err)
	}
	if cfg.Generator.Seed != DefaultSeed || cfg.Generator.WindowDays != 180 {
		t.Errorf("template generator = %+v", cfg.Generator)
	}

	if cfg.Logging.FilePath == "" {
		t.Error("template cleared the default log file path")
	}

	if _, err := WriteTemplate(dir); err == nil {
		t.Error("second WriteTemplate overwrote the file")
	}
}
