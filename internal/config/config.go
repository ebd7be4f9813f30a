package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// AppConfig is the root application configuration structure.
type AppConfig struct {
	// KnowledgeRoot is the directory holding one subdirectory per process.
	KnowledgeRoot string `yaml:"knowledge_root"`
	// UsersDB is the path of the SQLite user database.
	UsersDB string `yaml:"users_db"`
	// TopK is the number of chunks retrieved per question.
	TopK int `yaml:"top_k"`
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig()
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := applyConfigDefaults(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then
// ~/.config/processgpt/config.yaml. If neither exists, it writes defaults to
// the user path and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg, err := defaultConfig()
	if err != nil {
		return nil, "", err
	}
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "processgpt", "config.yaml"), nil
}

func defaultConfig() (*AppConfig, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	base := filepath.Join(home, ".processgpt")
	return &AppConfig{
		KnowledgeRoot: filepath.Join(base, "knowledge"),
		UsersDB:       filepath.Join(base, "users", "users.db"),
		TopK:          4,
	}, nil
}

func applyConfigDefaults(cfg *AppConfig) error {
	def, err := defaultConfig()
	if err != nil {
		return err
	}
	if cfg.KnowledgeRoot == "" {
		cfg.KnowledgeRoot = def.KnowledgeRoot
	}
	if cfg.UsersDB == "" {
		cfg.UsersDB = def.UsersDB
	}
	if cfg.TopK <= 0 {
		cfg.TopK = def.TopK
	}
	return nil
}
