package config

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

// global configuration structure
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Database DatabaseConfig `mapstructure:"database"`
	Session  SessionConfig  `mapstructure:"session"`
	Chat     ChatConfig     `mapstructure:"chat"`
	Upload   UploadConfig   `mapstructure:"upload"`
}

// application-level settings
type AppConfig struct {
	Env         string `mapstructure:"env"`
	URL         string `mapstructure:"url"`
	FrontendURL string `mapstructure:"frontend_url"`
}

// HTTP server configuration
type ServerConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
	CertFile   string `mapstructure:"cert_file"`
	KeyFile    string `mapstructure:"key_file"`
}

// logging configuration
type LoggerConfig struct {
	Directory string            `mapstructure:"directory"`
	Rotation  LogRotationConfig `mapstructure:"rotation"`
}

// log rotation settings
type LogRotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"`
	Compress   bool `mapstructure:"compress"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Charset  string `mapstructure:"charset"`
}

// cookie session settings
type SessionConfig struct {
	CookieName string        `mapstructure:"cookie_name"`
	Lifetime   time.Duration `mapstructure:"lifetime"`
}

// chat room behavior
type ChatConfig struct {
	QueueLimit    int           `mapstructure:"queue_limit"`
	MaxTextLength int           `mapstructure:"max_text_length"`
	PollTimeout   time.Duration `mapstructure:"poll_timeout"`
	PollInterval  time.Duration `mapstructure:"poll_interval"`
}

// file upload settings
type UploadConfig struct {
	Directory string `mapstructure:"directory"`
	MaxSize   int64  `mapstructure:"max_size"`
	URLPrefix string `mapstructure:"url_prefix"`
}

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return nil, fmt.Errorf("config file path is required")
	}

	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	log.Printf("Using config file: %s", v.ConfigFileUsed())

	// Unmarshal configuration
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "production")
	v.SetDefault("app.url", "http://localhost:8080")
	v.SetDefault("app.frontend_url", "http://localhost:8080")

	v.SetDefault("server.listen_addr", ":8080")
	v.SetDefault("server.cert_file", "")
	v.SetDefault("server.key_file", "")

	v.SetDefault("logger.directory", "logs")
	v.SetDefault("logger.rotation.max_size", 10)
	v.SetDefault("logger.rotation.max_backups", 30)
	v.SetDefault("logger.rotation.max_age", 90)
	v.SetDefault("logger.rotation.compress", true)

	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "root")
	v.SetDefault("database.dbname", "chat_app")
	v.SetDefault("database.charset", "utf8mb4")

	v.SetDefault("session.cookie_name", "chat_session")
	v.SetDefault("session.lifetime", 24*time.Hour)

	v.SetDefault("chat.queue_limit", 5)
	v.SetDefault("chat.max_text_length", 5000)
	v.SetDefault("chat.poll_timeout", 30*time.Second)
	v.SetDefault("chat.poll_interval", time.Second)

	v.SetDefault("upload.directory", "uploads")
	v.SetDefault("upload.max_size", 50*1024*1024)
	v.SetDefault("upload.url_prefix", "/uploads/")
}
