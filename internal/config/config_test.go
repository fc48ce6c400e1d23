package config

import (
	"os"
	"strings"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		wantErr     bool
		errorString string
	}{
		{
			name: "valid config",
			config: Config{
				DBPath:    "./test.db",
				LogLevel:  "info",
				LogFormat: "text",
			},
			wantErr: false,
		},
		{
			name: "empty database path",
			config: Config{
				DBPath:    "",
				LogLevel:  "info",
				LogFormat: "text",
			},
			wantErr:     true,
			errorString: "database path cannot be empty",
		},
		{
			name: "invalid log level",
			config: Config{
				DBPath:    "./test.db",
				LogLevel:  "verbose",
				LogFormat: "text",
			},
			wantErr:     true,
			errorString: "invalid log level 'verbose'",
		},
		{
			name: "invalid log format",
			config: Config{
				DBPath:    "./test.db",
				LogLevel:  "debug",
				LogFormat: "xml",
			},
			wantErr:     true,
			errorString: "invalid log format 'xml': must be 'text' or 'json'",
		},
		{
			name: "multiple errors combined",
			config: Config{
				DBPath:    "",
				LogLevel:  "loud",
				LogFormat: "yaml",
			},
			wantErr:     true,
			errorString: "invalid log level 'loud'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Config.Validate() error = nil, wantErr %v", tt.wantErr)
					return
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Config.Validate() error = %v, want error containing %v", err.Error(), tt.errorString)
				}
			} else {
				if err != nil {
					t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
				}
			}
		})
	}
}

func TestConfig_ValidateCreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := Config{
		DBPath:    tmpDir + "/nested/budget.db",
		LogLevel:  "info",
		LogFormat: "text",
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Config.Validate() error = %v, want nil", err)
	}
	if _, err := os.Stat(tmpDir + "/nested"); err != nil {
		t.Errorf("Validate() did not create database directory: %v", err)
	}
}

func TestLoad(t *testing.T) {
	originalVars := map[string]string{
		"BUDGET_DB_PATH":    os.Getenv("BUDGET_DB_PATH"),
		"BUDGET_LOG_LEVEL":  os.Getenv("BUDGET_LOG_LEVEL"),
		"BUDGET_LOG_FORMAT": os.Getenv("BUDGET_LOG_FORMAT"),
		"BUDGET_SEED":       os.Getenv("BUDGET_SEED"),
	}

	for key := range originalVars {
		os.Unsetenv(key)
	}

	defer func() {
		for key, value := range originalVars {
			if value != "" {
				os.Setenv(key, value)
			} else {
				os.Unsetenv(key)
			}
		}
	}()

	t.Run("default values", func(t *testing.T) {
		cfg := Load()

		if cfg.DBPath != "./data/budget.db" {
			t.Errorf("Load() DBPath = %v, want ./data/budget.db", cfg.DBPath)
		}
		if cfg.LogLevel != "info" {
			t.Errorf("Load() LogLevel = %v, want info", cfg.LogLevel)
		}
		if cfg.LogFormat != "text" {
			t.Errorf("Load() LogFormat = %v, want text", cfg.LogFormat)
		}
		if !cfg.Seed {
			t.Errorf("Load() Seed = false, want true")
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		os.Setenv("BUDGET_DB_PATH", "/tmp/test.db")
		os.Setenv("BUDGET_LOG_LEVEL", "debug")
		os.Setenv("BUDGET_LOG_FORMAT", "json")
		os.Setenv("BUDGET_SEED", "false")

		cfg := Load()

		if cfg.DBPath != "/tmp/test.db" {
			t.Errorf("Load() DBPath = %v, want /tmp/test.db", cfg.DBPath)
		}
		if cfg.LogLevel != "debug" {
			t.Errorf("Load() LogLevel = %v, want debug", cfg.LogLevel)
		}
		if cfg.LogFormat != "json" {
			t.Errorf("Load() LogFormat = %v, want json", cfg.LogFormat)
		}
		if cfg.Seed {
			t.Errorf("Load() Seed = true, want false")
		}
	})

	t.Run("invalid environment variables use defaults", func(t *testing.T) {
		os.Setenv("BUDGET_SEED", "maybe")

		cfg := Load()

		if !cfg.Seed {
			t.Errorf("Load() Seed = false, want true (default for invalid input)")
		}
	})
}
