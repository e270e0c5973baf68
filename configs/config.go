package configs

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Server HTTP服务配置
type Server struct {
	Port        string   `mapstructure:"port"`
	UploadDir   string   `mapstructure:"upload_dir"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// Database 数据库配置，DSN 非空时直接使用
type Database struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	DSN      string `mapstructure:"dsn"`
}

// JWT 令牌配置
type JWT struct {
	Secret    string `mapstructure:"secret"`
	ExpiresIn int    `mapstructure:"expires_in"` // 过期时间（小时）
}

// AI 生成模型配置
type AI struct {
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Log 日志配置
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RateLimit 认证接口限流配置
type RateLimit struct {
	AuthRPS   float64 `mapstructure:"auth_rps"`
	AuthBurst int     `mapstructure:"auth_burst"`
}

type Config struct {
	Server    Server    `mapstructure:"server"`
	Database  Database  `mapstructure:"database"`
	JWT       JWT       `mapstructure:"jwt"`
	AI        AI        `mapstructure:"ai"`
	Log       Log       `mapstructure:"log"`
	RateLimit RateLimit `mapstructure:"rate_limit"`
}

// EnvPrefix 环境变量前缀，如 SOULMAP_SERVER_PORT
const EnvPrefix = "SOULMAP"

// 兼容旧部署使用的环境变量
var legacyEnv = map[string]string{
	"ai.api_key":   "GEMINI_API_KEY",
	"jwt.secret":   "JWT_SECRET_KEY",
	"database.dsn": "DATABASE_URL",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.upload_dir", "uploads")
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "soulmap")
	v.SetDefault("database.dsn", "")

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expires_in", 24*7)

	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("ai.timeout", 60*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("rate_limit.auth_rps", 5.0)
	v.SetDefault("rate_limit.auth_burst", 10)
}

// Load 加载配置
//
// path 为空时依次查找 ./configs/config.yaml 和 ./config.yaml，找不到文件时只使用默认值和环境变量。
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		if err := v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, err
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate 检查必需配置
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return errors.New("jwt.secret is required (set SOULMAP_JWT_SECRET or JWT_SECRET_KEY)")
	}
	if c.JWT.ExpiresIn <= 0 {
		return errors.New("jwt.expires_in must be positive")
	}
	switch c.Database.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		return errors.New("unsupported database driver: " + c.Database.Driver)
	}
	return nil
}
