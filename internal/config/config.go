package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	ExportDir string `yaml:"export_dir"`
	OutputDir string `yaml:"output_dir"`
	DBPath    string `yaml:"db_path"`
	Strict    bool   `yaml:"strict"`
}

// Load loads configuration from multiple sources with precedence:
// 1. Environment variables
// 2. ./.env.local (dotenv) - walks up parent directories to find it
// 3. ~/.config/ctrlmig/config.yaml (YAML)
func Load() (*Config, error) {
	cfg := &Config{
		ExportDir: "_export",
		OutputDir: "_cac",
	}

	// Load .env.local if it exists (walking up parent directories)
	if envPath := findEnvLocal(); envPath != "" {
		_ = godotenv.Load(envPath)
	}

	// Load ~/.config/ctrlmig/config.yaml if it exists
	if err := loadYAMLConfig(cfg); err != nil {
		// YAML config is optional, so we don't fail if it doesn't exist
	}

	// Override with environment variables
	if exportDir := os.Getenv("CTRLMIG_EXPORT_DIR"); exportDir != "" {
		cfg.ExportDir = exportDir
	}
	if outputDir := os.Getenv("CTRLMIG_OUTPUT_DIR"); outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if dbPath := os.Getenv("CTRLMIG_DB_PATH"); dbPath != "" {
		cfg.DBPath = dbPath
	}
	if strict := os.Getenv("CTRLMIG_STRICT"); strict == "1" || strict == "true" {
		cfg.Strict = true
	}

	if cfg.DBPath == "" {
		// Check for a project-local journal first
		if _, err := os.Stat(".ctrlmig/runs.db"); err == nil {
			cfg.DBPath = ".ctrlmig/runs.db"
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("failed to get home directory: %w", err)
			}
			cfg.DBPath = filepath.Join(homeDir, ".local", "share", "ctrlmig", "runs.db")
		}
	}

	return cfg, nil
}

// loadYAMLConfig loads configuration from ~/.config/ctrlmig/config.yaml
func loadYAMLConfig(cfg *Config) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(homeDir, ".config", "ctrlmig", "config.yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

// findEnvLocal searches for .env.local starting from cwd and walking up
// parent directories. Stops at the user's home directory.
// Returns the path to .env.local if found, empty string otherwise.
func findEnvLocal() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// If we can't get home dir, just check cwd
		if _, err := os.Stat(".env.local"); err == nil {
			return ".env.local"
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Clean paths for reliable comparison
	homeDir = filepath.Clean(homeDir)
	dir := filepath.Clean(cwd)

	for {
		envPath := filepath.Join(dir, ".env.local")
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}

		// Stop if we've reached home directory
		if dir == homeDir {
			break
		}

		parent := filepath.Dir(dir)

		// Stop if we've reached the filesystem root
		if parent == dir {
			break
		}

		dir = parent
	}

	return ""
}
