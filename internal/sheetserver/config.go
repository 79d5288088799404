package sheetserver

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the backend configuration. Every field can come from the YAML
// file or be overridden by its environment variable. The sheet id and key
// share their variables with the client so one shell session configures both.
// An empty database is seeded with the built-in catalog unless SkipSeed is set.
type Config struct {
	Env         string `yaml:"env" env:"CDEX_SHEET_ENV" env-default:"dev"`
	StoragePath string `yaml:"storage_path" env:"CDEX_SHEET_STORAGE_PATH" env-default:"cdex-sheet.db"`
	SheetID     string `yaml:"sheet_id" env:"CDEX_SHEET_ID" env-required:"true"`
	APIKey      string `yaml:"api_key" env:"CDEX_API_KEY" env-required:"true"`
	SkipSeed    bool   `yaml:"skip_seed" env:"CDEX_SHEET_SKIP_SEED"`

	HTTPServer `yaml:"http_server"`
}

// HTTPServer holds listener settings, nested under http_server: in YAML.
type HTTPServer struct {
	Addr         string        `yaml:"address" env:"CDEX_SHEET_ADDR" env-default:"localhost:8090"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"CDEX_SHEET_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"CDEX_SHEET_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"CDEX_SHEET_IDLE_TIMEOUT" env-default:"60s"`
}

// LoadConfig reads path when given, otherwise the environment alone.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	var err error
	if strings.TrimSpace(path) == "" {
		err = cleanenv.ReadEnv(&cfg)
	} else {
		err = cleanenv.ReadConfig(path, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return &cfg, nil
}
