package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

// Config 应用全局配置结构体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
	Duty     DutyConfig     `mapstructure:"duty"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port        int        `mapstructure:"port"`
	BodyLimit   int64      `mapstructure:"body_limit"` // 请求体上限（字节）
	RateLimit   int        `mapstructure:"rate_limit"` // 每个窗口内单 IP 单路由最大请求数
	RateWindow  string     `mapstructure:"rate_window"`
	CORS        CORSConfig `mapstructure:"cors"`
	MetricsPath string     `mapstructure:"metrics_path"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig PostgreSQL 数据库配置
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // 连接最大生命周期（分钟）
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // 空闲连接最大存活时间（分钟）
}

// DSN 生成 PostgreSQL 连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis 缓存配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig JWT 认证配置
type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DutyConfig 值班业务配置
type DutyConfig struct {
	// Timezone 所有日期统一归一化到该时区
	Timezone string `mapstructure:"timezone"`
	// AvailabilityThreshold 当月完成次数低于该值视为可排班
	AvailabilityThreshold int `mapstructure:"availability_threshold"`
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > .env > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	// .env 不存在时忽略
	_ = godotenv.Load()

	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.body_limit", 1<<20)
	v.SetDefault("server.rate_limit", 120)
	v.SetDefault("server.rate_window", "1m")
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.metrics_path", "/metrics")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "duty_management")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "Asia/Kolkata")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)
	v.SetDefault("db.conn_max_idle_time", 30)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.access_token_ttl", "168h") // 7 天

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("duty.timezone", "Asia/Kolkata")
	v.SetDefault("duty.availability_threshold", 30)

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("DUTY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在时仅依赖默认值和环境变量
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	// ── 关键配置校验 ──
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// RateWindowDuration 解析限流窗口，非法值退化为 1 分钟
func (c *ServerConfig) RateWindowDuration() time.Duration {
	d, err := time.ParseDuration(c.RateWindow)
	if err != nil || d <= 0 {
		return time.Minute
	}
	return d
}

// Validate 校验关键配置项，一次性返回全部问题
func (c *Config) Validate() error {
	var err error
	if c.Auth.JWTSecret == "" {
		err = multierr.Append(err, fmt.Errorf("配置校验失败: auth.jwt_secret 不能为空"))
	} else if len(c.Auth.JWTSecret) < 16 {
		err = multierr.Append(err, fmt.Errorf("配置校验失败: auth.jwt_secret 长度不能少于 16 字符"))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		err = multierr.Append(err, fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间"))
	}
	if _, lerr := time.LoadLocation(c.Duty.Timezone); c.Duty.Timezone == "" || lerr != nil {
		err = multierr.Append(err, fmt.Errorf("配置校验失败: duty.timezone %q 无效", c.Duty.Timezone))
	}
	if c.Duty.AvailabilityThreshold <= 0 {
		err = multierr.Append(err, fmt.Errorf("配置校验失败: duty.availability_threshold 必须大于 0"))
	}
	return err
}
