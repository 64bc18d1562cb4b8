package config

import (
	"bhinneka/utils"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// DefaultPath 默认配置文件路径
const DefaultPath = "config/config.toml"

type Server struct {
	Host      string `koanf:"host" toml:"host" yaml:"host" validate:"required" env:"BHINNEKA_HOST"`
	Port      int    `koanf:"port" toml:"port" yaml:"port" validate:"min=1,max=65535" env:"BHINNEKA_PORT"`
	Transport string `koanf:"transport" toml:"transport" yaml:"transport" validate:"oneof=stdio http" env:"BHINNEKA_TRANSPORT"`
	MCPPath   string `koanf:"mcp_path" toml:"mcp_path" yaml:"mcp_path" validate:"startswith=/"`
	Stateless bool   `koanf:"stateless" toml:"stateless" yaml:"stateless"`
	// Tools 启用的工具集，为空时启用全部
	Tools           []string `koanf:"tools" toml:"tools" yaml:"tools" validate:"dive,oneof=flights search fetch docs" env:"BHINNEKA_TOOLS"`
	ShutdownSeconds int      `koanf:"shutdown_seconds" toml:"shutdown_seconds" yaml:"shutdown_seconds" validate:"min=0"`
}

type Log struct {
	Level      string `koanf:"level" toml:"level" yaml:"level" validate:"oneof=debug info warn error" env:"BHINNEKA_LOG_LEVEL"`
	File       string `koanf:"file" toml:"file" yaml:"file" env:"BHINNEKA_LOG_FILE"`
	MaxSizeMB  int    `koanf:"max_size_mb" toml:"max_size_mb" yaml:"max_size_mb" validate:"min=0"`
	MaxBackups int    `koanf:"max_backups" toml:"max_backups" yaml:"max_backups" validate:"min=0"`
	MaxAgeDays int    `koanf:"max_age_days" toml:"max_age_days" yaml:"max_age_days" validate:"min=0"`
	Console    bool   `koanf:"console" toml:"console" yaml:"console"`
}

type Fetch struct {
	UserAgent      string  `koanf:"user_agent" toml:"user_agent" yaml:"user_agent" validate:"required"`
	TimeoutSeconds float64 `koanf:"timeout_seconds" toml:"timeout_seconds" yaml:"timeout_seconds" validate:"gt=0"`
	MaxBytes       int64   `koanf:"max_bytes" toml:"max_bytes" yaml:"max_bytes" validate:"gt=0"`
	ChromePath     string  `koanf:"chrome_path" toml:"chrome_path" yaml:"chrome_path" env:"BHINNEKA_CHROME_PATH"`
	NoSandbox      bool    `koanf:"no_sandbox" toml:"no_sandbox" yaml:"no_sandbox" env:"BHINNEKA_CHROME_NO_SANDBOX"`
	ProxyURL       string  `koanf:"proxy_url" toml:"proxy_url" yaml:"proxy_url" validate:"omitempty,url" env:"BHINNEKA_PROXY_URL"`
	// LookupTimeoutSeconds 安全检查中 DNS 解析的超时时间
	LookupTimeoutSeconds float64 `koanf:"lookup_timeout_seconds" toml:"lookup_timeout_seconds" yaml:"lookup_timeout_seconds" validate:"gt=0"`
}

type SearXNG struct {
	BaseURL        string  `koanf:"base_url" toml:"base_url" yaml:"base_url" validate:"omitempty,url" env:"SEARXNG_BASE_URL"`
	TimeoutSeconds float64 `koanf:"timeout_seconds" toml:"timeout_seconds" yaml:"timeout_seconds" validate:"gt=0" env:"SEARXNG_TIMEOUT"`
	MaxResults     int     `koanf:"max_results" toml:"max_results" yaml:"max_results" validate:"min=1" env:"SEARXNG_MAX_RESULTS"`
	Language       string  `koanf:"language" toml:"language" yaml:"language" env:"SEARXNG_LANGUAGE"`
}

type Context7 struct {
	BaseURL        string  `koanf:"base_url" toml:"base_url" yaml:"base_url" validate:"required,url" env:"CONTEXT7_BASE_URL"`
	APIKey         string  `koanf:"api_key" toml:"api_key" yaml:"api_key" env:"CONTEXT7_API_KEY"`
	TimeoutSeconds float64 `koanf:"timeout_seconds" toml:"timeout_seconds" yaml:"timeout_seconds" validate:"gt=0" env:"CONTEXT7_TIMEOUT"`
	DefaultType    string  `koanf:"default_type" toml:"default_type" yaml:"default_type" env:"CONTEXT7_DEFAULT_TYPE"`
}

type Flights struct {
	BaseURL        string  `koanf:"base_url" toml:"base_url" yaml:"base_url" validate:"omitempty,url" env:"FLIGHTS_BASE_URL"`
	APIKey         string  `koanf:"api_key" toml:"api_key" yaml:"api_key" env:"FLIGHTS_API_KEY"`
	TimeoutSeconds float64 `koanf:"timeout_seconds" toml:"timeout_seconds" yaml:"timeout_seconds" validate:"gt=0" env:"FLIGHTS_TIMEOUT"`
}

type Auth struct {
	// Required 为 true 时 /mcp 必须携带有效凭证
	Required        bool     `koanf:"required" toml:"required" yaml:"required" env:"BHINNEKA_AUTH_REQUIRED"`
	Secret          string   `koanf:"secret" toml:"secret" yaml:"secret" env:"BHINNEKA_AUTH_SECRET"`
	UserinfoURL     string   `koanf:"userinfo_url" toml:"userinfo_url" yaml:"userinfo_url" validate:"omitempty,url" env:"BHINNEKA_USERINFO_URL"`
	CacheTTLSeconds int      `koanf:"cache_ttl_seconds" toml:"cache_ttl_seconds" yaml:"cache_ttl_seconds" validate:"min=0"`
	CacheSize       int      `koanf:"cache_size" toml:"cache_size" yaml:"cache_size" validate:"min=1"`
	AllowedEmails   []string `koanf:"allowed_emails" toml:"allowed_emails" yaml:"allowed_emails" env:"BHINNEKA_ALLOWED_EMAILS"`
	AllowedDomains  []string `koanf:"allowed_domains" toml:"allowed_domains" yaml:"allowed_domains" env:"BHINNEKA_ALLOWED_DOMAINS"`
}

type Config struct {
	Server   Server   `koanf:"server" toml:"server" yaml:"server"`
	Log      Log      `koanf:"log" toml:"log" yaml:"log"`
	Fetch    Fetch    `koanf:"fetch" toml:"fetch" yaml:"fetch"`
	SearXNG  SearXNG  `koanf:"searxng" toml:"searxng" yaml:"searxng"`
	Context7 Context7 `koanf:"context7" toml:"context7" yaml:"context7"`
	Flights  Flights  `koanf:"flights" toml:"flights" yaml:"flights"`
	Auth     Auth     `koanf:"auth" toml:"auth" yaml:"auth"`
}

// Default 返回可直接使用的默认配置
func Default() *Config {
	return &Config{
		Server: Server{
			Host:            "127.0.0.1",
			Port:            8000,
			Transport:       "stdio",
			MCPPath:         "/mcp",
			ShutdownSeconds: 10,
		},
		Log: Log{
			Level:      "info",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Console:    true,
		},
		Fetch: Fetch{
			UserAgent:      "bhinneka/0.2 fetch",
			TimeoutSeconds: 120,
			MaxBytes:       2_000_000,

			LookupTimeoutSeconds: 10,
		},
		SearXNG: SearXNG{
			TimeoutSeconds: 8,
			MaxResults:     10,
			Language:       "en",
		},
		Context7: Context7{
			BaseURL:        "https://context7.com/api",
			TimeoutSeconds: 15,
			DefaultType:    "txt",
		},
		Flights: Flights{
			TimeoutSeconds: 30,
		},
		Auth: Auth{
			CacheTTLSeconds: 300,
			CacheSize:       1024,
		},
	}
}

// Unmarshal 按扩展名解析 TOML 或 YAML 配置文件
func Unmarshal(filePath string, v any) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, v)
	default:
		return toml.Unmarshal(data, v)
	}
}

// Load 依次应用默认值、配置文件和环境变量，然后校验。
// path 为空时使用存在的 DefaultPath，不存在则只使用默认值和环境变量。
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		if ok, _ := utils.PathExists(DefaultPath); ok {
			path = DefaultPath
		}
	}
	if path != "" {
		if err := Unmarshal(path, cfg); err != nil {
			return nil, fmt.Errorf("读取配置文件 %s 失败: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(os.Environ); err != nil {
		return nil, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.SearXNG.BaseURL = strings.TrimRight(c.SearXNG.BaseURL, "/")
	c.Context7.BaseURL = strings.TrimRight(c.Context7.BaseURL, "/")
	c.Flights.BaseURL = strings.TrimRight(c.Flights.BaseURL, "/")
	c.Server.Transport = strings.ToLower(c.Server.Transport)
	c.Server.Tools = lowerAll(c.Server.Tools, "")
	c.Log.Level = strings.ToLower(c.Log.Level)
	c.Auth.AllowedEmails = lowerAll(c.Auth.AllowedEmails, "")
	c.Auth.AllowedDomains = lowerAll(c.Auth.AllowedDomains, "@")
	// 配置了白名单时必须认证
	if c.Auth.Restricted() {
		c.Auth.Required = true
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate 校验配置取值范围
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("配置校验失败: %w", err)
	}
	return nil
}

// GenerateExample 生成示例配置文件
func GenerateExample(filePath string) error {
	example := Default()
	example.SearXNG.BaseURL = "http://127.0.0.1:8888"
	example.Auth.AllowedDomains = []string{"example.com"}

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(example)
	default:
		data, err = toml.Marshal(example)
	}
	if err != nil {
		return err
	}
	if err := utils.WriteFile(filePath, data); err != nil {
		return fmt.Errorf("写入配置文件 %s 失败: %w", filePath, err)
	}
	return nil
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

// Timeout 默认抓取超时时间
func (f Fetch) Timeout() time.Duration { return seconds(f.TimeoutSeconds) }

// LookupTimeout DNS 解析超时时间
func (f Fetch) LookupTimeout() time.Duration { return seconds(f.LookupTimeoutSeconds) }

// Timeout SearXNG 请求超时时间
func (s SearXNG) Timeout() time.Duration { return seconds(s.TimeoutSeconds) }

// Timeout Context7 请求超时时间
func (c Context7) Timeout() time.Duration { return seconds(c.TimeoutSeconds) }

// Timeout 航班数据服务请求超时时间
func (f Flights) Timeout() time.Duration { return seconds(f.TimeoutSeconds) }

// ShutdownTimeout HTTP 服务优雅退出的等待时间
func (s Server) ShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownSeconds) * time.Second
}

// Addr 监听地址
func (s Server) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// CacheTTL 身份信息缓存时间
func (a Auth) CacheTTL() time.Duration { return time.Duration(a.CacheTTLSeconds) * time.Second }

// Restricted 是否配置了邮箱或域名白名单
func (a Auth) Restricted() bool {
	return len(a.AllowedEmails) > 0 || len(a.AllowedDomains) > 0
}
