package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// 原部署使用的环境变量名
var legacyEnv = map[string]string{
	"webhook.verify_token": "META_VERIFY_TOKEN",
	"webhook.app_secret":   "META_APP_SECRET",
	"apify.token":          "APIFY_API_TOKEN",
	"server.cron_secret":   "CRON_SECRET",
	"database.dsn":         "DATABASE_DSN",
}

// LoadConfig 从 ./configs/config.yaml 和环境变量加载配置
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(viper.New(), "./configs")
}

// LoadConfigFrom 从指定目录加载配置，文件缺失时只使用默认值和环境变量
func LoadConfigFrom(v *viper.Viper, path string) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		if err := v.BindEnv(key, strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")

	v.SetDefault("database.max_idle", 10)
	v.SetDefault("database.max_open", 50)
	v.SetDefault("database.max_lifetime", 60)

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.pool_size", 20)

	v.SetDefault("logstash.index", "logstash-clipper")

	v.SetDefault("apify.base_url", "https://api.apify.com")
	v.SetDefault("apify.instagram_actor", "apify~instagram-scraper")
	v.SetDefault("apify.tiktok_actor", "clockworks~tiktok-scraper")
	v.SetDefault("apify.timeout", 120)
	v.SetDefault("apify.instagram_limit", 12)
	v.SetDefault("apify.tiktok_per_page", 10)

	v.SetDefault("identity.header", "x-whop-user-token")

	v.SetDefault("otp.ttl", 600)
	v.SetDefault("otp.enforce_expiry", true)

	v.SetDefault("bio.code_prefix", "WHOP")

	v.SetDefault("refresh.schedule", "0 0 */6 * * *")
	v.SetDefault("refresh.concurrency", 4)
	v.SetDefault("refresh.rate_per_second", 1.0)
	v.SetDefault("refresh.burst", 2)
	v.SetDefault("refresh.lock_ttl", 1800)

	v.SetDefault("ingest.queue_size", 256)
	v.SetDefault("ingest.workers", 2)

	v.SetDefault("kafka.ingest.topic", "clipper-ingest")
	v.SetDefault("kafka.ingest.group_id", "clipper-ingest-worker")
	v.SetDefault("kafka.consumer.session_timeout", 30)
	v.SetDefault("kafka.consumer.heartbeat_interval", 3)
	v.SetDefault("kafka.consumer.rebalance_timeout", 60)
	v.SetDefault("kafka.consumer.max_processing_time", 180)

	v.SetDefault("rate_limit.per_minute", 30)

	v.SetDefault("cache.leaderboard_ttl", 60)
	v.SetDefault("cache.rising_stars_ttl", 300)
}
