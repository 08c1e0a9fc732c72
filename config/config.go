package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	awspkg "github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/pkg/aws"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the marketplace service.
type Config struct {
	Port   string
	AppEnv string

	MongoURI          string
	MongoDB           string
	MongoTransactions bool

	JWTSecret string
	TokenTTL  time.Duration

	SMTP SMTPConfig

	ImageStorage    string
	UploadDir       string
	UploadURLPrefix string
	MaxImageSize    int64
	MaxImages       int
	S3Bucket        string
	S3Prefix        string
	S3PublicURL     string

	RedisURL string
	CacheTTL time.Duration

	EventsSNSTopicARN string
	KafkaBrokers      []string
	KafkaTopic        string
	SQSQueueURL       string
	IdempotencyTable  string
	AdminEmail        string

	AllowedOrigins     []string
	RateLimitPerMinute int
	OutboxPollInterval time.Duration
	RequestTimeout     time.Duration
}

// SMTPConfig holds the outbound mail settings.
type SMTPConfig struct {
	Host       string
	Port       string
	Username   string
	Password   string
	From       string
	SenderName string
}

// Enabled reports whether enough settings exist to send mail.
func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.Username != ""
}

const appSecretName = "marketplace/app"

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "5000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("MONGO_DB", "marketplace")
	v.SetDefault("MONGO_TRANSACTIONS", false)
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", "587")
	v.SetDefault("SMTP_SENDER_NAME", "Marketplace")
	v.SetDefault("IMAGE_STORAGE", "local")
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("UPLOAD_URL_PREFIX", "/uploads")
	v.SetDefault("MAX_IMAGE_SIZE", 5*1024*1024)
	v.SetDefault("MAX_IMAGES", 3)
	v.SetDefault("AWS_S3_PREFIX", "items/")
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("KAFKA_TOPIC", "marketplace-events")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 100)
	v.SetDefault("OUTBOX_POLL_INTERVAL", "5s")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
}

// LoadConfig reads .env, defaults, the environment and the optional YAML file at
// path (environment wins over the file), then applies the Secrets Manager
// override when AWS_USE_SECRETS=true.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		Port:              v.GetString("PORT"),
		AppEnv:            v.GetString("APP_ENV"),
		MongoURI:          v.GetString("MONGO_URI"),
		MongoDB:           v.GetString("MONGO_DB"),
		MongoTransactions: v.GetBool("MONGO_TRANSACTIONS"),
		JWTSecret:         strings.TrimSpace(v.GetString("JWT_SECRET")),
		TokenTTL:          v.GetDuration("TOKEN_TTL"),
		SMTP: SMTPConfig{
			Host:       v.GetString("SMTP_HOST"),
			Port:       v.GetString("SMTP_PORT"),
			Username:   v.GetString("SMTP_EMAIL"),
			Password:   v.GetString("SMTP_PASSWORD"),
			From:       v.GetString("SMTP_EMAIL"),
			SenderName: v.GetString("SMTP_SENDER_NAME"),
		},
		ImageStorage:       strings.ToLower(v.GetString("IMAGE_STORAGE")),
		UploadDir:          v.GetString("UPLOAD_DIR"),
		UploadURLPrefix:    v.GetString("UPLOAD_URL_PREFIX"),
		MaxImageSize:       v.GetInt64("MAX_IMAGE_SIZE"),
		MaxImages:          v.GetInt("MAX_IMAGES"),
		S3Bucket:           v.GetString("AWS_S3_BUCKET"),
		S3Prefix:           v.GetString("AWS_S3_PREFIX"),
		S3PublicURL:        v.GetString("AWS_S3_PUBLIC_URL"),
		RedisURL:           v.GetString("REDIS_URL"),
		CacheTTL:           v.GetDuration("CACHE_TTL"),
		EventsSNSTopicARN:  v.GetString("EVENTS_SNS_TOPIC_ARN"),
		KafkaBrokers:       splitList(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:         v.GetString("KAFKA_TOPIC"),
		SQSQueueURL:        v.GetString("SQS_QUEUE_URL"),
		IdempotencyTable:   v.GetString("IDEMPOTENCY_TABLE"),
		AdminEmail:         v.GetString("ADMIN_EMAIL"),
		AllowedOrigins:     splitList(v.GetString("ALLOWED_ORIGINS")),
		RateLimitPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
		OutboxPollInterval: v.GetDuration("OUTBOX_POLL_INTERVAL"),
		RequestTimeout:     v.GetDuration("REQUEST_TIMEOUT"),
	}

	if v.GetBool("AWS_USE_SECRETS") {
		if err := applySecrets(context.Background(), cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applySecrets overrides credentials with the values stored in Secrets Manager.
func applySecrets(ctx context.Context, cfg *Config) error {
	awsCfg, err := awspkg.LoadAWSConfig(ctx)
	if err != nil {
		return err
	}
	secrets, err := awspkg.NewSecretsClient(awsCfg).GetSecretMap(ctx, appSecretName)
	if err != nil {
		return fmt.Errorf("failed to load app secrets: %w", err)
	}
	if s := secrets["MONGO_URI"]; s != "" {
		cfg.MongoURI = s
	}
	if s := secrets["JWT_SECRET"]; s != "" {
		cfg.JWTSecret = s
	}
	if s := secrets["SMTP_PASSWORD"]; s != "" {
		cfg.SMTP.Password = s
	}
	return nil
}

// Validate checks that the settings the service cannot start without are present.
func (c *Config) Validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI not set")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET not set")
	}
	switch c.ImageStorage {
	case "local":
	case "s3":
		if c.S3Bucket == "" {
			return fmt.Errorf("AWS_S3_BUCKET is required when IMAGE_STORAGE=s3")
		}
	default:
		return fmt.Errorf("unsupported IMAGE_STORAGE %q", c.ImageStorage)
	}
	if c.MaxImages < 1 {
		return fmt.Errorf("MAX_IMAGES must be at least 1")
	}
	return nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "/")); s != "" {
			out = append(out, s)
		}
	}
	return out
}
