package config

// Config 配置主体
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	DB        DBConfig        `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Logstash  LogstashConfig  `mapstructure:"logstash"`
	Webhook   WebhookConfig   `mapstructure:"webhook"`
	Apify     ApifyConfig     `mapstructure:"apify"`
	Identity  IdentityConfig  `mapstructure:"identity"`
	OTP       OTPConfig       `mapstructure:"otp"`
	Bio       BioConfig       `mapstructure:"bio"`
	Refresh   RefreshConfig   `mapstructure:"refresh"`
	Ingest    IngestConfig    `mapstructure:"ingest"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Cache     CacheConfig     `mapstructure:"cache"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port       int    `mapstructure:"port"`
	Mode       string `mapstructure:"mode"`
	CronSecret string `mapstructure:"cron_secret"`
}

// IsRelease 是否为生产模式
func (s ServerConfig) IsRelease() bool {
	return s.Mode == "release"
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

// WebhookConfig Meta 消息平台 webhook
type WebhookConfig struct {
	VerifyToken   string `mapstructure:"verify_token"`
	AppSecret     string `mapstructure:"app_secret"`
	AllowUnsigned bool   `mapstructure:"allow_unsigned"`
}

// ApifyConfig 抓取服务配置
type ApifyConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	Token          string `mapstructure:"token"`
	InstagramActor string `mapstructure:"instagram_actor"`
	TikTokActor    string `mapstructure:"tiktok_actor"`
	Timeout        int    `mapstructure:"timeout"`
	InstagramLimit int    `mapstructure:"instagram_limit"`
	TikTokPerPage  int    `mapstructure:"tiktok_per_page"`
}

// IdentityConfig 宿主平台身份令牌
type IdentityConfig struct {
	TokenSecret string `mapstructure:"token_secret"`
	Header      string `mapstructure:"header"`
}

type OTPConfig struct {
	TTL           int  `mapstructure:"ttl"`
	EnforceExpiry bool `mapstructure:"enforce_expiry"`
}

type BioConfig struct {
	CodePrefix string `mapstructure:"code_prefix"`
}

// RefreshConfig 批量刷新任务
type RefreshConfig struct {
	Schedule      string  `mapstructure:"schedule"`
	Concurrency   int     `mapstructure:"concurrency"`
	RatePerSecond float64 `mapstructure:"rate_per_second"`
	Burst         int     `mapstructure:"burst"`
	LockTTL       int     `mapstructure:"lock_ttl"`
}

// IngestConfig 未启用 Kafka 时的进程内队列
type IngestConfig struct {
	QueueSize int `mapstructure:"queue_size"`
	Workers   int `mapstructure:"workers"`
}

type KafkaConfig struct {
	Enable   bool           `mapstructure:"enable"`
	Brokers  []string       `mapstructure:"brokers"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
	Ingest   KafkaTopic     `mapstructure:"ingest"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

type KafkaTopic struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

type RateLimitConfig struct {
	PerMinute int `mapstructure:"per_minute"`
}

// CacheConfig 单位：秒
type CacheConfig struct {
	LeaderboardTTL int `mapstructure:"leaderboard_ttl"`
	RisingStarsTTL int `mapstructure:"rising_stars_ttl"`
}
