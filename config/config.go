package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type ServerConfig struct {
	URL string `toml:"url"`
}

type SecurityConfig struct {
	Method     string `toml:"method"` // "plaintext" or "ssh_key"
	SSHKeyPath string `toml:"ssh_key_path,omitempty"`
}

type UserConfig struct {
	Server   ServerConfig   `toml:"server"`
	Security SecurityConfig `toml:"security"`
}

type Config struct {
	DataDirectory string
	ServerURL     string
	Security      SecurityConfig
}

var Debug = false
var DebugLog *log.Logger

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("SITECHECK_SERVER_URL"); url != "" {
		c.ServerURL = url
	}
	if dataDir := os.Getenv("SITECHECK_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
}

func CheckDebug() bool {
	debug := os.Getenv("SITECHECK_DEBUG")
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// 0600 - the log may echo request paths and account emails
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (SITECHECK_DEBUG=%s) ===", os.Getenv("SITECHECK_DEBUG"))
	DebugLog.Printf("Log path: %s", logPath)
}

func HasAllEnvVars() bool {
	return os.Getenv("SITECHECK_SERVER_URL") != "" &&
		os.Getenv("SITECHECK_DATA_DIR") != ""
}

func HasAnyEnvVar() bool {
	return os.Getenv("SITECHECK_SERVER_URL") != "" ||
		os.Getenv("SITECHECK_DATA_DIR") != ""
}

func GetMissingEnvVar() string {
	if os.Getenv("SITECHECK_SERVER_URL") == "" {
		return "SITECHECK_SERVER_URL"
	}
	if os.Getenv("SITECHECK_DATA_DIR") == "" {
		return "SITECHECK_DATA_DIR"
	}
	return ""
}

func Load() (*Config, error) {
	cfg := &Config{
		DataDirectory: "~/.local/share/sitecheck",
		ServerURL:     "http://localhost:8000/api",
		Security:      SecurityConfig{Method: "plaintext"},
	}

	if HasAllEnvVars() && !FileExists(GetSettingsFilePath()) {
		cfg.applyEnvOverrides()
	} else {
		systemCfg, err := LoadSystemConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load system config: %w", err)
		}
		cfg.DataDirectory = systemCfg.DataDirectory

		userCfg, err := LoadUserConfig(cfg.DataDir())
		if err != nil {
			return nil, fmt.Errorf("failed to load user config: %w", err)
		}
		if userCfg.Server.URL != "" {
			cfg.ServerURL = userCfg.Server.URL
		}
		if userCfg.Security.Method != "" {
			cfg.Security = userCfg.Security
		}
		cfg.applyEnvOverrides()
	}

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	return cfg, nil
}
