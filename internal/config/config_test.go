package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/a3tai/mcp-pdf-links/internal/logger"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mode != "stdio" {
		t.Errorf("Expected default mode to be 'stdio', got '%s'", cfg.Mode)
	}
	if cfg.ServerName != "mcp-pdf-links" {
		t.Errorf("Expected default server name to be 'mcp-pdf-links', got '%s'", cfg.ServerName)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level to be 'info', got '%s'", cfg.LogLevel)
	}
	if cfg.MaxFileSize != 100*1024*1024 {
		t.Errorf("Expected default max file size to be 100MB, got %d", cfg.MaxFileSize)
	}
	if cfg.Workers != DefaultWorkers {
		t.Errorf("Expected default workers to be %d, got %d", DefaultWorkers, cfg.Workers)
	}
	if cfg.IdentifierPages != DefaultIdentifierPages {
		t.Errorf("Expected default identifier pages to be %d, got %d", DefaultIdentifierPages, cfg.IdentifierPages)
	}
	if cfg.OutputDirectory != "" {
		t.Errorf("Expected no default output directory, got '%s'", cfg.OutputDirectory)
	}

	currentDir, _ := os.Getwd()
	if cfg.PDFDirectory != currentDir {
		t.Errorf("Expected default PDF directory to be '%s', got '%s'", currentDir, cfg.PDFDirectory)
	}
}

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.PDFDirectory = t.TempDir()
	return cfg
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{name: "valid stdio", modify: func(*Config) {}},
		{name: "valid server", modify: func(c *Config) { c.Mode = ModeServer }},
		{name: "invalid mode", modify: func(c *Config) { c.Mode = "invalid" }, wantErr: "mode"},
		{name: "port too low", modify: func(c *Config) { c.Mode = ModeServer; c.Port = 0 }, wantErr: "port"},
		{name: "port too high", modify: func(c *Config) { c.Mode = ModeServer; c.Port = 70000 }, wantErr: "port"},
		{name: "port ignored in stdio", modify: func(c *Config) { c.Port = 0 }},
		{name: "empty directory", modify: func(c *Config) { c.PDFDirectory = "" }, wantErr: "directory"},
		{name: "invalid log level", modify: func(c *Config) { c.LogLevel = "loud" }, wantErr: "log level"},
		{name: "upper case log level", modify: func(c *Config) { c.LogLevel = "DEBUG" }},
		{name: "zero max size", modify: func(c *Config) { c.MaxFileSize = 0 }, wantErr: "file size"},
		{name: "zero workers", modify: func(c *Config) { c.Workers = 0 }, wantErr: "workers"},
		{name: "negative identifier pages", modify: func(c *Config) { c.IdentifierPages = -1 }, wantErr: "identifier"},
		{name: "zero identifier pages", modify: func(c *Config) { c.IdentifierPages = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfigValidateDirectoryCreation(t *testing.T) {
	base := t.TempDir()
	cfg := DefaultConfig()
	cfg.PDFDirectory = filepath.Join(base, "in", "nested")
	cfg.OutputDirectory = filepath.Join(base, "out")

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}

	for _, dir := range []string{cfg.PDFDirectory, cfg.OutputDirectory} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("directory %s was not created: %v", dir, err)
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", dir)
		}
	}
}

func TestConfigValidateDirectoryIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.PDFDirectory = filepath.Dir(file)
	cfg.OutputDirectory = filepath.Join(file, "sub")

	if err := cfg.Validate(); err == nil {
		t.Error("Validate() expected error for output directory below a file")
	}
}

func TestConfigAddress(t *testing.T) {
	cfg := &Config{Host: "localhost", Port: 9090}
	if got := cfg.Address(); got != "localhost:9090" {
		t.Errorf("Address() = %v, want localhost:9090", got)
	}
}

func TestConfigLevel(t *testing.T) {
	tests := []struct {
		level string
		want  logger.LogLevel
	}{
		{"debug", logger.DebugLevel},
		{"Warn", logger.WarnLevel},
		{"error", logger.ErrorLevel},
		{"nonsense", logger.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.level}
			if got := cfg.Level(); got != tt.want {
				t.Errorf("Level() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfigModes(t *testing.T) {
	stdio := &Config{Mode: ModeStdio, LogLevel: "debug"}
	if !stdio.IsStdioMode() || stdio.IsServerMode() {
		t.Error("stdio config reports wrong mode")
	}
	if !stdio.IsDebug() {
		t.Error("IsDebug() = false for debug level")
	}

	srv := &Config{Mode: ModeServer, LogLevel: "info"}
	if srv.IsStdioMode() || !srv.IsServerMode() {
		t.Error("server config reports wrong mode")
	}
	if srv.IsDebug() {
		t.Error("IsDebug() = true for info level")
	}
}

func TestConfigString(t *testing.T) {
	cfg := &Config{
		Mode:            "stdio",
		Host:            "127.0.0.1",
		Port:            8080,
		PDFDirectory:    "/papers",
		OutputDirectory: "/papers/out",
		LogLevel:        "info",
		MaxFileSize:     1024,
		Workers:         2,
		IdentifierPages: 3,
	}

	want := "Config{Mode: stdio, Host: 127.0.0.1, Port: 8080, PDFDirectory: /papers, OutputDirectory: /papers/out, " +
		"LogLevel: info, MaxFileSize: 1024, Workers: 2, IdentifierPages: 3}"
	if got := cfg.String(); got != want {
		t.Errorf("String() = %v, want %v", got, want)
	}
}
