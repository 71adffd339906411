package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

const (
	EnvBackend  = "TODO_BACKEND"
	EnvDBPath   = "TODO_DB_PATH"
	EnvFilePath = "TODO_FILE_PATH"
)

type Config struct {
	Backend  string `json:"backend"`
	DBPath   string `json:"db_path"`
	FilePath string `json:"file_path"`
}

func Default() Config {
	return Config{Backend: BackendSQLite}
}

func DefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "todo", "config.json"), nil
}

func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

func Load(path string) (Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return Config{}, err
	}

	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return config, nil
}

func Save(path string, cfg Config) error {
	if err := EnsureDir(path); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// Prepare loads the config file at path, applies flag values, resolves
// defaults and saves the result. Environment overrides are then layered on a
// copy, so they affect only this run. Flags win over the environment.
func Prepare(path string, flags Config, envFile string) (Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return Config{}, err
	}

	cfg.override(flags)
	if err := cfg.Resolve(path); err != nil {
		return Config{}, err
	}
	if err := Save(path, cfg); err != nil {
		return Config{}, fmt.Errorf("save config: %w", err)
	}

	effective := cfg
	if err := ApplyEnv(&effective, envFile); err != nil {
		return Config{}, err
	}
	effective.override(flags)
	if err := effective.Resolve(path); err != nil {
		return Config{}, err
	}
	return effective, nil
}

func (c *Config) override(values Config) {
	if values.Backend != "" {
		c.Backend = values.Backend
	}
	if values.DBPath != "" {
		c.DBPath = values.DBPath
	}
	if values.FilePath != "" {
		c.FilePath = values.FilePath
	}
}

// ApplyEnv overrides cfg with TODO_* variables. Values in envFile are used
// only where the process environment does not set the variable. A missing
// envFile is ignored.
func ApplyEnv(cfg *Config, envFile string) error {
	values := map[string]string{}
	if envFile != "" {
		fileValues, err := godotenv.Read(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("read %s: %w", envFile, err)
		}
		for key, value := range fileValues {
			values[key] = value
		}
	}
	for _, key := range []string{EnvBackend, EnvDBPath, EnvFilePath} {
		if value, ok := os.LookupEnv(key); ok {
			values[key] = value
		}
	}

	cfg.override(Config{
		Backend:  values[EnvBackend],
		DBPath:   values[EnvDBPath],
		FilePath: values[EnvFilePath],
	})
	return nil
}

// Resolve fills empty paths with files next to the config file and checks
// the backend name.
func (c *Config) Resolve(configPath string) error {
	if c.Backend == "" {
		c.Backend = BackendSQLite
	}
	if c.Backend != BackendSQLite && c.Backend != BackendFile {
		return fmt.Errorf("unknown backend %q (want %q or %q)", c.Backend, BackendSQLite, BackendFile)
	}

	dir := filepath.Dir(configPath)
	if c.DBPath == "" {
		c.DBPath = filepath.Join(dir, "todo.db")
	}
	if c.FilePath == "" {
		c.FilePath = filepath.Join(dir, "todo.jsonl")
	}
	return nil
}

// DataPath is the store location used by the selected backend.
func (c Config) DataPath() string {
	if c.Backend == BackendFile {
		return c.FilePath
	}
	return c.DBPath
}
