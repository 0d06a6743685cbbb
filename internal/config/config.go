package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

type Config struct {
	DataDir   string        `mapstructure:"data_dir"`
	OutputDir string        `mapstructure:"output_dir"`
	PublicDir string        `mapstructure:"public_dir"`
	Server    ServerConfig  `mapstructure:"server"`
	Gateway   GatewayConfig `mapstructure:"gateway"`
	Bird      BirdConfig    `mapstructure:"bird"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type GatewayConfig struct {
	Provider  string `mapstructure:"provider"`
	BaseURL   string `mapstructure:"base_url"`
	Token     string `mapstructure:"token"`
	Model     string `mapstructure:"model"`
	MaxTokens int    `mapstructure:"max_tokens"`
}

type BirdConfig struct {
	Command   string `mapstructure:"command"`
	AuthToken string `mapstructure:"auth_token"`
	CT0       string `mapstructure:"ct0"`
}

func Load() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	defaultDataDir := filepath.Join(homeDir, ".pluma")

	viper.SetDefault("data_dir", defaultDataDir)
	viper.SetDefault("output_dir", filepath.Join(defaultDataDir, "output"))
	viper.SetDefault("public_dir", "public")
	viper.SetDefault("server.host", "127.0.0.1")
	viper.SetDefault("server.port", 3847)
	viper.SetDefault("gateway.provider", "openai")
	viper.SetDefault("gateway.base_url", "http://localhost:18789/v1")
	viper.SetDefault("gateway.model", "claude-sonnet-4-20250514")
	viper.SetDefault("gateway.max_tokens", 4096)
	viper.SetDefault("bird.command", "bird")

	// Environment variable overrides
	viper.SetEnvPrefix("PLUMA")
	viper.AutomaticEnv()
	viper.BindEnv("data_dir", "PLUMA_DATA_DIR")
	viper.BindEnv("gateway.base_url", "PLUMA_GATEWAY_URL")
	viper.BindEnv("gateway.token", "PLUMA_GATEWAY_TOKEN")
	viper.BindEnv("gateway.model", "PLUMA_GATEWAY_MODEL")
	viper.BindEnv("gateway.provider", "PLUMA_GATEWAY_PROVIDER")
	viper.BindEnv("bird.auth_token", "BIRD_AUTH_TOKEN")
	viper.BindEnv("bird.ct0", "BIRD_CT0")

	// Config file
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultDataDir)

	// Read config file if exists (ignore error if not found)
	_ = viper.ReadInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Ensure data and output directories exist
	dirs := []string{
		cfg.DataDir,
		filepath.Join(cfg.OutputDir, "ready"),
		filepath.Join(cfg.OutputDir, "review"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	return &cfg, nil
}

// BirdAuthenticated reports whether both bird credentials are configured.
// Either one alone is useless: the CLI needs the pair.
func (c *Config) BirdAuthenticated() bool {
	return c.Bird.AuthToken != "" && c.Bird.CT0 != ""
}

func (c *Config) ReadyDir() string {
	return filepath.Join(c.OutputDir, "ready")
}

func (c *Config) ReviewDir() string {
	return filepath.Join(c.OutputDir, "review")
}
