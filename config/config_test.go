package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "marketplace", cfg.MongoDB)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "local", cfg.ImageStorage)
	assert.Equal(t, int64(5*1024*1024), cfg.MaxImageSize)
	assert.Equal(t, 3, cfg.MaxImages)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.AllowedOrigins)
	assert.False(t, cfg.MongoTransactions)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfig_MissingSecret(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig("")
	assert.EqualError(t, err, "JWT_SECRET not set")
}

func TestLoadConfig_FileOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "marketplace.yaml")
	content := []byte("mongo_uri: mongodb://file-host:27017\njwt_secret: from-file\nport: \"8081\"\nkafka_brokers: a:9092, b:9092\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("PORT", "9090")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "mongodb://file-host:27017", cfg.MongoURI)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, "9090", cfg.Port, "environment wins over the file")
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.KafkaBrokers)
}

func TestValidate_S3RequiresBucket(t *testing.T) {
	cfg := &Config{MongoURI: "mongodb://x", JWTSecret: "s", ImageStorage: "s3", MaxImages: 3}
	assert.Error(t, cfg.Validate())

	cfg.S3Bucket = "items"
	assert.NoError(t, cfg.Validate())

	cfg.ImageStorage = "ftp"
	assert.Error(t, cfg.Validate())
}
