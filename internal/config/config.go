package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-core-fx/config"
)

type http struct {
	Address     string   `koanf:"address"`
	ProxyHeader string   `koanf:"proxy_header"`
	Proxies     []string `koanf:"proxies"`
}

type storageConfig struct {
	DataDir string `koanf:"data_dir"`
}

type gitConfig struct {
	WorkDir     string `koanf:"work_dir"`
	RemoteURL   string `koanf:"remote_url"`
	UpstreamURL string `koanf:"upstream_url"`
	Branch      string `koanf:"branch"`

	Username    string `koanf:"username"`
	AuthorName  string `koanf:"author_name"`
	AuthorEmail string `koanf:"author_email"`

	LockTimeout     time.Duration `koanf:"lock_timeout"`
	CloneDepth      int           `koanf:"clone_depth"`
	MaxAheadWalk    int           `koanf:"max_ahead_walk"`
	OnlineCheckHost string        `koanf:"online_check_host"`
}

type recordsConfig struct {
	Dir string `koanf:"dir"`
}

type Config struct {
	HTTP http `koanf:"http"`

	Storage storageConfig `koanf:"storage"`
	Git     gitConfig     `koanf:"git"`
	Records recordsConfig `koanf:"records"`
}

func Default() Config {
	//nolint:exhaustruct,mnd //default values
	return Config{
		HTTP: http{
			Address:     "127.0.0.1:3000",
			ProxyHeader: "X-Forwarded-For",
			Proxies:     []string{},
		},

		Storage: storageConfig{
			DataDir: "./data",
		},

		Git: gitConfig{
			WorkDir:         "./workdir",
			Branch:          "master",
			LockTimeout:     30 * time.Second,
			CloneDepth:      5,
			MaxAheadWalk:    100,
			OnlineCheckHost: "github.com",
		},

		Records: recordsConfig{
			Dir: "",
		},
	}
}

func New() (Config, error) {
	cfg := Default()

	options := []config.Option{}
	if yamlPath := os.Getenv("CONFIG_PATH"); yamlPath != "" {
		options = append(options, config.WithLocalYAML(yamlPath))
	}

	if err := config.Load(&cfg, options...); err != nil {
		return Config{}, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}
