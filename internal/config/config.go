package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/timmy/memeforge/internal/storage"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Model     ModelConfig     `mapstructure:"model"`
	Templates TemplatesConfig `mapstructure:"templates"`
	Render    RenderConfig    `mapstructure:"render"`
	Output    OutputConfig    `mapstructure:"output"`
	Storage   StorageConfig   `mapstructure:"storage"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port"`
	Mode string     `mapstructure:"mode"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

type TemplatesConfig struct {
	Dir   string `mapstructure:"dir"`
	Watch bool   `mapstructure:"watch"`
}

// RenderConfig configures the caption renderer. An empty FontPath selects the
// embedded Go Regular font.
type RenderConfig struct {
	FontPath string `mapstructure:"font_path"`
}

// OutputConfig names the single object the latest meme is written to.
type OutputConfig struct {
	Key          string `mapstructure:"key"`
	DownloadName string `mapstructure:"download_name"`
}

// StorageConfig selects where the output object lives.
type StorageConfig struct {
	Type      string `mapstructure:"type"` // local, s3, r2, s3compatible, auto
	LocalDir  string `mapstructure:"local_dir"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	PublicURL string `mapstructure:"public_url"`
}

// Backend converts the section into a storage.Config.
func (s StorageConfig) Backend() *storage.Config {
	return &storage.Config{
		Type:     storage.StorageType(s.Type),
		LocalDir: s.LocalDir,
		S3: storage.S3Config{
			Endpoint:  s.Endpoint,
			AccessKey: s.AccessKey,
			SecretKey: s.SecretKey,
			UseSSL:    s.UseSSL,
			Bucket:    s.Bucket,
			Region:    s.Region,
			PublicURL: s.PublicURL,
		},
	}
}

// IsLocal reports whether output is kept on the local filesystem.
func (s StorageConfig) IsLocal() bool {
	return s.Type == "" || s.Type == "local"
}

func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("server.port", 8501)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})
	v.SetDefault("model.provider", "huggingface")
	v.SetDefault("model.model", "distilgpt2")
	v.SetDefault("model.base_url", "")
	v.SetDefault("model.timeout", 60*time.Second)
	v.SetDefault("model.startup_timeout", 120*time.Second)
	v.SetDefault("templates.dir", "templates")
	v.SetDefault("templates.watch", true)
	v.SetDefault("render.font_path", "")
	v.SetDefault("output.key", "meme_output.png")
	v.SetDefault("output.download_name", "ai_meme.png")
	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_dir", ".")
	v.SetDefault("storage.use_ssl", true)
	v.SetDefault("storage.bucket", "memeforge")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for sensitive data
	v.BindEnv("model.api_key", "HF_API_TOKEN", "OPENAI_API_KEY")
	v.BindEnv("model.base_url", "MODEL_BASE_URL")
	v.BindEnv("render.font_path", "FONT_FILE")
	v.BindEnv("templates.dir", "TEMPLATE_DIR")
	v.BindEnv("storage.endpoint", "S3_ENDPOINT")
	v.BindEnv("storage.access_key", "S3_ACCESS_KEY")
	v.BindEnv("storage.secret_key", "S3_SECRET_KEY")
	v.BindEnv("storage.bucket", "S3_BUCKET")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Model.ResolveEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that the configuration has everything needed to start.
// Returns an error describing the first validation failure, or nil if valid.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server: port must be positive")
	}
	if err := c.Model.Validate(); err != nil {
		return err
	}
	if c.Templates.Dir == "" {
		return fmt.Errorf("templates: dir is required")
	}
	if c.Output.Key == "" {
		return fmt.Errorf("output: key is required")
	}

	switch c.Storage.Type {
	case "", "local":
	case "s3", "r2", "s3compatible", "auto":
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage: bucket is required for %s storage", c.Storage.Type)
		}
		if c.Storage.Type != "s3" && c.Storage.Endpoint == "" {
			return fmt.Errorf("storage: endpoint is required for %s storage", c.Storage.Type)
		}
	default:
		return fmt.Errorf("storage: unknown type %q", c.Storage.Type)
	}

	return nil
}
