package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvSheetID, "")
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvScriptURL, "")
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Sheets.SheetID != PlaceholderSheetID {
		t.Fatalf("SheetID = %q, want %q", cfg.Sheets.SheetID, PlaceholderSheetID)
	}
	if cfg.Sheets.APIBase != defaultAPIBase {
		t.Fatalf("APIBase = %q, want %q", cfg.Sheets.APIBase, defaultAPIBase)
	}
	if cfg.PollInterval != defaultPollInterval {
		t.Fatalf("PollInterval = %v, want %v", cfg.PollInterval, defaultPollInterval)
	}
	wantLog, err := expandPath(defaultLogFile)
	if err != nil {
		t.Fatalf("expandPath(defaultLogFile) returned error: %v", err)
	}
	if cfg.LogFile != wantLog {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, wantLog)
	}
	if cfg.Sheets.IsConfigured() {
		t.Fatalf("IsConfigured() = true, want false for placeholders")
	}
	if cfg.Sheets.WritesConfigured() {
		t.Fatalf("WritesConfigured() = true, want false for placeholder")
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
sheet_id = "  1AbCdEfGhIjKlMnOp  "
api_key = "AIzaSyTestKey123"
script_url = "http://127.0.0.1:8088/exec"
api_base = "http://127.0.0.1:8088"
poll_interval = "45s"
log_file = "  ~/logs/cdex.log "
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Sheets.SheetID != "1AbCdEfGhIjKlMnOp" {
		t.Fatalf("SheetID = %q, want %q", cfg.Sheets.SheetID, "1AbCdEfGhIjKlMnOp")
	}
	if cfg.Sheets.EquipmentRange != defaultEquipmentRange {
		t.Fatalf("EquipmentRange = %q, want %q", cfg.Sheets.EquipmentRange, defaultEquipmentRange)
	}
	if cfg.PollInterval != 45*time.Second {
		t.Fatalf("PollInterval = %v, want 45s", cfg.PollInterval)
	}
	if !strings.HasPrefix(cfg.LogFile, home) {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
	if !cfg.Sheets.IsConfigured() || !cfg.Sheets.WritesConfigured() {
		t.Fatalf("configured flags = %v/%v, want true/true", cfg.Sheets.IsConfigured(), cfg.Sheets.WritesConfigured())
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvSheetID, "sheet-from-environment")
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvScriptURL, " http://localhost:9000/exec ")

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`sheet_id = "sheet-from-file-123"`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Sheets.SheetID != "sheet-from-environment" {
		t.Fatalf("SheetID = %q, want env value", cfg.Sheets.SheetID)
	}
	if cfg.Sheets.APIKey != PlaceholderAPIKey {
		t.Fatalf("APIKey = %q, want placeholder", cfg.Sheets.APIKey)
	}
	if cfg.Sheets.ScriptURL != "http://localhost:9000/exec" {
		t.Fatalf("ScriptURL = %q, want trimmed env value", cfg.Sheets.ScriptURL)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`sheet_id = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestLoad_InvalidPollIntervalFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`poll_interval = "soon"`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "poll_interval") {
		t.Fatalf("Load error = %v, want poll_interval error", err)
	}
}

func TestSheets_IsConfigured(t *testing.T) {
	tests := []struct {
		name    string
		sheetID string
		apiKey  string
		want    bool
	}{
		{"placeholders", PlaceholderSheetID, PlaceholderAPIKey, false},
		{"placeholder key", "1AbCdEfGhIjKlMnOp", PlaceholderAPIKey, false},
		{"placeholder sheet", PlaceholderSheetID, "AIzaSyTestKey123", false},
		{"short key", "1AbCdEfGhIjKlMnOp", "short", false},
		{"exactly ten", "0123456789", "AIzaSyTestKey123", false},
		{"empty", "", "", false},
		{"real values", "1AbCdEfGhIjKlMnOp", "AIzaSyTestKey123", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sheets{SheetID: tt.sheetID, APIKey: tt.apiKey}.IsConfigured()
			if got != tt.want {
				t.Fatalf("IsConfigured() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
