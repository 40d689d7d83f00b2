package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Bot          BotConfig          `mapstructure:"bot"`
	Subscription SubscriptionConfig `mapstructure:"subscription"`
	Report       ReportConfig       `mapstructure:"report"`
	Log          LogConfig          `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Driver       string `mapstructure:"driver" validate:"oneof=mysql sqlite"`
	Path         string `mapstructure:"path"` // sqlite file
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type RedisConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	PoolSize  int    `mapstructure:"pool_size"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type BotConfig struct {
	Token            string        `mapstructure:"token" validate:"required"`
	AuthorizedIDs    []int64       `mapstructure:"authorized_ids" validate:"required,min=1"`
	SuperAdminIDs    []int64       `mapstructure:"super_admin_ids" validate:"required,min=1"`
	EnforceAllowlist bool          `mapstructure:"enforce_allowlist"`
	ReviewChatID     int64         `mapstructure:"review_chat_id"` // receipts go here, super admins otherwise
	UpdateMode       string        `mapstructure:"update_mode" validate:"oneof=polling webhook"`
	WebhookURL       string        `mapstructure:"webhook_url" validate:"required_if=UpdateMode webhook"`
	WebhookPath      string        `mapstructure:"webhook_path"`
	WebhookSecret    string        `mapstructure:"webhook_secret"` // last path segment of the webhook url
	PollTimeout      int           `mapstructure:"poll_timeout"`
	CallbackInterval time.Duration `mapstructure:"callback_interval"`
	Debug            bool          `mapstructure:"debug"`
	Watermark        string        `mapstructure:"watermark"`
	PageSize         int           `mapstructure:"page_size" validate:"gte=1"`
	TransactionsShow int           `mapstructure:"transactions_show"`
}

type SubscriptionConfig struct {
	FlatPrice int64 `mapstructure:"flat_price"`
	MaxMonths int   `mapstructure:"max_months" validate:"gte=1"`
	MaxGB     int   `mapstructure:"max_gb" validate:"gte=1"`
}

// ReportConfig controls the daily stats report sent to super admins.
type ReportConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Hour    int  `mapstructure:"hour" validate:"gte=0,lte=23"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// legacyEnv maps config keys to the variable names older deployments put in .env.
var legacyEnv = map[string][]string{
	"bot.token":           {"BOT_TOKEN", "TELEGRAM_BOT_TOKEN", "TOKEN"},
	"bot.authorized_ids":  {"BOT_AUTHORIZED_IDS", "AUTHORIZED_USERS_ID"},
	"bot.super_admin_ids": {"BOT_SUPER_ADMIN_IDS", "SUPER_ADMINS_ID"},
	"bot.review_chat_id":  {"BOT_REVIEW_CHAT_ID", "CHANNEL_ID"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "db.sqlite3")
	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "marzban")
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 20)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.key_prefix", "hakobot:session:")

	v.SetDefault("bot.token", "")
	v.SetDefault("bot.authorized_ids", []int64{})
	v.SetDefault("bot.super_admin_ids", []int64{})
	v.SetDefault("bot.enforce_allowlist", false)
	v.SetDefault("bot.review_chat_id", 0)
	v.SetDefault("bot.update_mode", "polling")
	v.SetDefault("bot.webhook_url", "")
	v.SetDefault("bot.webhook_path", "/telegram/webhook")
	v.SetDefault("bot.webhook_secret", "")
	v.SetDefault("bot.poll_timeout", 60)
	v.SetDefault("bot.callback_interval", 300*time.Millisecond)
	v.SetDefault("bot.debug", false)
	v.SetDefault("bot.watermark", "")
	v.SetDefault("bot.page_size", 11)
	v.SetDefault("bot.transactions_show", 10)

	v.SetDefault("subscription.flat_price", 12200)
	v.SetDefault("subscription.max_months", 12)
	v.SetDefault("subscription.max_gb", 200)

	v.SetDefault("report.enabled", false)
	v.SetDefault("report.hour", 9)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

func Load(configPath string) (*Config, error) {
	// .env sits next to the binary in most deployments; absence is fine
	_ = godotenv.Load()

	// config.local.yaml holds real secrets and is never committed
	dir := filepath.Dir(configPath)
	localConfigPath := filepath.Join(dir, "config.local.yaml")
	if _, err := os.Stat(localConfigPath); err == nil {
		configPath = localConfigPath
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for key, names := range legacyEnv {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, err
		}
	}

	// env-only deployments ship no yaml at all
	if _, err := os.Stat(configPath); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate reports the first missing or malformed setting.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return fmt.Errorf("invalid config: %s failed on %q", errs[0].Namespace(), errs[0].Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// IsSuperAdminID reports whether id is listed in bot.super_admin_ids.
func (c *BotConfig) IsSuperAdminID(id int64) bool {
	for _, v := range c.SuperAdminIDs {
		if v == id {
			return true
		}
	}
	return false
}

// ReviewTargets returns the chats a payment receipt is forwarded to.
func (c *BotConfig) ReviewTargets() []int64 {
	if c.ReviewChatID != 0 {
		return []int64{c.ReviewChatID}
	}
	return c.SuperAdminIDs
}
