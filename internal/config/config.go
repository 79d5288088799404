package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Placeholder sentinels shipped in the sample config. A value equal to its
// placeholder is treated as absent.
const (
	PlaceholderSheetID   = "YOUR_GOOGLE_SHEET_ID_HERE"
	PlaceholderAPIKey    = "YOUR_GOOGLE_API_KEY_HERE"
	PlaceholderScriptURL = "YOUR_APPS_SCRIPT_URL_HERE"
)

// minCredentialLen is the length a sheet id or API key must exceed before the
// client reports itself as configured.
const minCredentialLen = 10

const (
	defaultConfigPath     = "~/.config/cdex/config.toml"
	defaultLogFile        = "~/.local/share/cdex/cdex.log"
	defaultAPIBase        = "https://sheets.googleapis.com"
	defaultEquipmentRange = "Equipment!A:E"
	defaultCheckoutsRange = "Checkouts!A:M"
	defaultProbeAddr      = "sheets.googleapis.com:443"
	defaultPollInterval   = 30 * time.Second
)

// Environment overrides for the three credentials.
const (
	EnvSheetID   = "CDEX_SHEET_ID"
	EnvAPIKey    = "CDEX_API_KEY"
	EnvScriptURL = "CDEX_SCRIPT_URL"
)

// Sheets describes how to reach the spreadsheet backend.
type Sheets struct {
	SheetID        string
	APIKey         string
	ScriptURL      string
	APIBase        string
	EquipmentRange string
	CheckoutsRange string
}

// Config is the full client configuration.
type Config struct {
	Sheets       Sheets
	PollInterval time.Duration
	LogFile      string
	ProbeAddr    string
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Sheets: Sheets{
			SheetID:        PlaceholderSheetID,
			APIKey:         PlaceholderAPIKey,
			ScriptURL:      PlaceholderScriptURL,
			APIBase:        defaultAPIBase,
			EquipmentRange: defaultEquipmentRange,
			CheckoutsRange: defaultCheckoutsRange,
		},
		PollInterval: defaultPollInterval,
		LogFile:      mustExpand(defaultLogFile),
		ProbeAddr:    defaultProbeAddr,
	}
}

// Load locates and parses the client config, falling back to defaults when
// missing. Credentials from the environment win over the file.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		SheetID        string `toml:"sheet_id"`
		APIKey         string `toml:"api_key"`
		ScriptURL      string `toml:"script_url"`
		APIBase        string `toml:"api_base"`
		EquipmentRange string `toml:"equipment_range"`
		CheckoutsRange string `toml:"checkouts_range"`
		PollInterval   string `toml:"poll_interval"`
		LogFile        string `toml:"log_file"`
		ProbeAddr      string `toml:"probe_addr"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	setString(&cfg.Sheets.SheetID, raw.SheetID)
	setString(&cfg.Sheets.APIKey, raw.APIKey)
	setString(&cfg.Sheets.ScriptURL, raw.ScriptURL)
	setString(&cfg.Sheets.APIBase, raw.APIBase)
	setString(&cfg.Sheets.EquipmentRange, raw.EquipmentRange)
	setString(&cfg.Sheets.CheckoutsRange, raw.CheckoutsRange)
	setString(&cfg.ProbeAddr, raw.ProbeAddr)

	if v := strings.TrimSpace(raw.PollInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse poll_interval %q: %w", v, err)
		}
		cfg.PollInterval = d
	}

	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}

	applyEnv(&cfg)
	return cfg, nil
}

// IsConfigured reports whether the read credentials look real. It is a status
// signal only and never gates a request.
func (s Sheets) IsConfigured() bool {
	key := strings.TrimSpace(s.APIKey)
	id := strings.TrimSpace(s.SheetID)
	return key != PlaceholderAPIKey && id != PlaceholderSheetID &&
		len(key) > minCredentialLen && len(id) > minCredentialLen
}

// WritesConfigured reports whether a write endpoint has been set.
func (s Sheets) WritesConfigured() bool {
	u := strings.TrimSpace(s.ScriptURL)
	return u != "" && u != PlaceholderScriptURL
}

func applyEnv(cfg *Config) {
	setString(&cfg.Sheets.SheetID, os.Getenv(EnvSheetID))
	setString(&cfg.Sheets.APIKey, os.Getenv(EnvAPIKey))
	setString(&cfg.Sheets.ScriptURL, os.Getenv(EnvScriptURL))
}

func setString(dst *string, value string) {
	if v := strings.TrimSpace(value); v != "" {
		*dst = v
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
