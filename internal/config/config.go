package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"hostpanel/backend/internal/domain"
)

// ServerConfig 定义 HTTP 服务器的监听配置参数
type ServerConfig struct {
	Host string // 监听地址，默认 "0.0.0.0"
	Port int    // 监听端口，默认 8080
}

// RegistrarConfig 定义域名注册商网关配置
type RegistrarConfig struct {
	Mode     string // 网关模式: "fake"（内置确定性模拟）或 "live"
	Endpoint string // live 模式下的注册商 API 地址
	APIKey   string // live 模式下的注册商 API 密钥
}

// WHMConfig 定义 cPanel/WHM 主机面板网关配置
type WHMConfig struct {
	Host          string  // WHM 主机地址，留空时主机开通走模拟路径
	Username      string  // WHM 管理员用户名，默认 "root"
	Token         string  // WHM API Token
	RatePerSecond float64 // 对 WHM API 的限流速率，默认 5
}

// Enabled 判断是否配置了真实的 WHM 网关
func (c WHMConfig) Enabled() bool {
	return c.Host != "" && c.Token != ""
}

// PricingConfig 定义 TLD 价格表配置
type PricingConfig struct {
	TLDs map[string]domain.PriceInfo // 键为不带点的 TLD
}

// MonitoringConfig 定义域名到期监控与告警配置
type MonitoringConfig struct {
	ExpiryThresholdDays int    // 到期提醒阈值天数，默认 30
	AlertWebhookURL     string // 告警 Webhook 地址，留空时只投递到日志与事件流
}

// CORSConfig 定义跨域资源共享 (CORS) 配置
type CORSConfig struct {
	AllowedOrigins []string // 允许的来源列表，"*" 表示允许所有来源
}

// LogConfig 定义日志系统配置
type LogConfig struct {
	Level       string // 日志级别: debug, info, warn, error
	Development bool   // 开发模式: 启用彩色输出和详细堆栈信息
}

// DatabaseConfig 定义数据库连接配置（支持 MySQL 和 PostgreSQL）
type DatabaseConfig struct {
	Type            string        // 数据库类型: "mysql" 或 "postgres"，留空使用内存存储
	DSN             string        // 数据库连接字符串
	MaxOpenConns    int           // 最大打开连接数，默认 25
	MaxIdleConns    int           // 最大空闲连接数，默认 5
	ConnMaxLifetime time.Duration // 连接最大生命周期，默认 5 分钟
}

// RedisConfig 定义 Redis 缓存服务配置
type RedisConfig struct {
	Address  string // Redis 服务地址，格式 "host:port"，默认 "localhost:6379"
	Password string // Redis 认证密码，留空表示无密码
	DB       int    // Redis 数据库编号，默认 0
	Enabled  bool   // 是否启用 Redis 查询缓存
}

// JWTConfig 定义 JWT 认证相关配置
type JWTConfig struct {
	Secret        string        // JWT 签名密钥，必须至少 32 字符
	Issuer        string        // JWT 签发者标识，默认 "hostpanel"
	AccessExpiry  time.Duration // 访问令牌有效期，默认 15 分钟
	RefreshExpiry time.Duration // 刷新令牌有效期，默认 7 天
}

// Config 是系统核心配置的根结构体，包含所有子系统的配置
type Config struct {
	Server     ServerConfig     // HTTP 服务器配置
	Registrar  RegistrarConfig  // 注册商网关配置
	WHM        WHMConfig        // WHM 网关配置
	Pricing    PricingConfig    // TLD 价格表
	Monitoring MonitoringConfig // 到期监控配置
	CORS       CORSConfig       // 跨域配置
	Log        LogConfig        // 日志配置
	Database   DatabaseConfig   // 数据库配置
	Redis      RedisConfig      // Redis 配置
	JWT        JWTConfig        // JWT 认证配置
}

// defaultTLDPricing 内置的单年基础价格表（USD）
const defaultTLDPricing = "com:10.99:11.99:9.99,net:12.99:13.99:11.99,org:11.99:12.99:10.99,ir:5.99:6.99:5.99,io:39.99:44.99:39.99"

// Load 从环境变量和 .env 文件加载系统配置
//
// 配置加载优先级（从高到低）：
//  1. 系统环境变量（最高优先级）
//  2. .env 文件（如果存在）
//  3. 默认值
//
// 环境变量前缀: HOSTPANEL_
// 例如: HOSTPANEL_SERVER_HOST, HOSTPANEL_WHM_TOKEN
//
// 返回值:
//   - *Config: 加载成功的配置对象
//   - error: 配置验证失败时返回错误
func Load() (*Config, error) {
	// 尝试加载 .env 文件（静默失败，因为 .env 文件是可选的）
	loadEnvFile()

	viper.SetEnvPrefix("hostpanel")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("registrar.mode", "fake")
	viper.SetDefault("registrar.endpoint", "")
	viper.SetDefault("registrar.api_key", "")
	viper.SetDefault("whm.host", "")
	viper.SetDefault("whm.username", "root")
	viper.SetDefault("whm.token", "")
	viper.SetDefault("whm.rate_per_second", 5.0)
	viper.SetDefault("pricing.tlds", defaultTLDPricing)
	viper.SetDefault("monitoring.expiry_threshold_days", 30)
	viper.SetDefault("monitoring.alert_webhook_url", "")
	viper.SetDefault("cors.allowed_origins", "*")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.development", false)
	viper.SetDefault("database.type", "") // 默认为空，使用内存存储
	viper.SetDefault("database.dsn", "")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", "5m")
	viper.SetDefault("redis.address", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("jwt.secret", "change-me-in-production")
	viper.SetDefault("jwt.issuer", "hostpanel")
	viper.SetDefault("jwt.access_expiry", "15m")
	viper.SetDefault("jwt.refresh_expiry", "168h")

	registrarMode := strings.ToLower(viper.GetString("registrar.mode"))
	if registrarMode != "fake" && registrarMode != "live" {
		return nil, fmt.Errorf("invalid registrar.mode %q: must be \"fake\" or \"live\"", registrarMode)
	}
	if registrarMode == "live" && viper.GetString("registrar.api_key") == "" {
		return nil, fmt.Errorf("registrar.api_key is required when registrar.mode is \"live\"")
	}

	pricing, err := parsePricing(viper.GetString("pricing.tlds"))
	if err != nil {
		return nil, fmt.Errorf("invalid pricing.tlds: %w", err)
	}
	if len(pricing) == 0 {
		return nil, fmt.Errorf("pricing.tlds must not be empty")
	}

	expiryThreshold := viper.GetInt("monitoring.expiry_threshold_days")
	if expiryThreshold <= 0 {
		expiryThreshold = 30
	}

	corsOrigins := parseList(viper.GetString("cors.allowed_origins"))
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}

	connMaxLifetime, err := time.ParseDuration(viper.GetString("database.conn_max_lifetime"))
	if err != nil {
		connMaxLifetime = 5 * time.Minute
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("jwt.access_expiry"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(viper.GetString("jwt.refresh_expiry"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	jwtSecret := viper.GetString("jwt.secret")

	// 安全检查：禁止使用默认的 JWT secret
	if jwtSecret == "change-me-in-production" {
		return nil, fmt.Errorf("SECURITY ERROR: JWT secret cannot be the default value. Please set HOSTPANEL_JWT_SECRET environment variable")
	}

	// JWT secret 必须至少 32 字符
	if len(jwtSecret) < 32 {
		return nil, fmt.Errorf("SECURITY ERROR: JWT secret must be at least 32 characters long")
	}

	ratePerSecond := viper.GetFloat64("whm.rate_per_second")
	if ratePerSecond <= 0 {
		ratePerSecond = 5.0
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("server.host"),
			Port: viper.GetInt("server.port"),
		},
		Registrar: RegistrarConfig{
			Mode:     registrarMode,
			Endpoint: viper.GetString("registrar.endpoint"),
			APIKey:   viper.GetString("registrar.api_key"),
		},
		WHM: WHMConfig{
			Host:          viper.GetString("whm.host"),
			Username:      viper.GetString("whm.username"),
			Token:         viper.GetString("whm.token"),
			RatePerSecond: ratePerSecond,
		},
		Pricing: PricingConfig{
			TLDs: pricing,
		},
		Monitoring: MonitoringConfig{
			ExpiryThresholdDays: expiryThreshold,
			AlertWebhookURL:     viper.GetString("monitoring.alert_webhook_url"),
		},
		CORS: CORSConfig{
			AllowedOrigins: corsOrigins,
		},
		Log: LogConfig{
			Level:       viper.GetString("log.level"),
			Development: viper.GetBool("log.development"),
		},
		Database: DatabaseConfig{
			Type:            viper.GetString("database.type"),
			DSN:             viper.GetString("database.dsn"),
			MaxOpenConns:    viper.GetInt("database.max_open_conns"),
			MaxIdleConns:    viper.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: connMaxLifetime,
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
			Enabled:  viper.GetBool("redis.enabled"),
		},
		JWT: JWTConfig{
			Secret:        jwtSecret,
			Issuer:        viper.GetString("jwt.issuer"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
	}

	return cfg, nil
}

// parsePricing 解析逗号分隔的 TLD 价格表
//
// 每项格式为 "tld:注册价:续费价:转移价"，如 "com:10.99:11.99:9.99"。
// TLD 的前导点会被去除，币种固定为 USD。
func parsePricing(value string) (map[string]domain.PriceInfo, error) {
	table := make(map[string]domain.PriceInfo)
	for _, entry := range parseList(value) {
		fields := strings.Split(entry, ":")
		if len(fields) != 4 {
			return nil, fmt.Errorf("malformed entry %q: want tld:registration:renewal:transfer", entry)
		}

		tld := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(fields[0]), "."))
		if tld == "" {
			return nil, fmt.Errorf("malformed entry %q: empty tld", entry)
		}

		prices := make([]float64, 3)
		for i, field := range fields[1:] {
			price, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil || price < 0 {
				return nil, fmt.Errorf("malformed entry %q: invalid price %q", entry, field)
			}
			prices[i] = price
		}

		table[tld] = domain.PriceInfo{
			Registration: prices[0],
			Renewal:      prices[1],
			Transfer:     prices[2],
			Currency:     "USD",
		}
	}
	return table, nil
}

// parseList 将逗号分隔的字符串解析为字符串切片
func parseList(value string) []string {
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// loadEnvFile 尝试加载 .env 文件
//
// 加载顺序：
//  1. 当前目录的 .env
//  2. 父目录的 .env（用于从子目录运行的情况）
//
// 如果文件不存在，静默失败；已存在的环境变量不会被覆盖。
func loadEnvFile() {
	if err := godotenv.Load(".env"); err == nil {
		return
	}

	parentEnv := filepath.Join("..", ".env")
	if _, err := os.Stat(parentEnv); err == nil {
		_ = godotenv.Load(parentEnv)
	}
}
