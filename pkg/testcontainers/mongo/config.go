package mongo

import (
	"context"
	"os"

	"github.com/docker/docker/api/types/container"
	"go.uber.org/zap"

	"github.com/you-humble/asset-tracker/pkg/logger"
	"github.com/you-humble/asset-tracker/pkg/testcontainers"
)

type Logger interface {
	Info(ctx context.Context, msg string, fields ...zap.Field)
	Error(ctx context.Context, msg string, fields ...zap.Field)
}

type Config struct {
	NetworkName   string
	ContainerName string
	ImageName     string
	Database      string
	Username      string
	Password      string
	AuthDB        string
	Logger        Logger

	Host string
	Port string
}

func buildConfig(opts ...Option) *Config {
	cfg := &Config{
		ContainerName: "asset-tracker-mongo",
		ImageName:     "mongo:8.0",
		Database:      "asset-tracker",
		Username:      "root",
		Password:      "root",
		AuthDB:        "admin",
		Logger:        logger.NoopLogger{},
	}

	if image := os.Getenv(testcontainers.MongoImageNameKey); image != "" {
		cfg.ImageName = image
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// Env returns the connection settings under the keys the tracker's config
// reads, pointing at the port mapped on the host.
func (c *Config) Env() map[string]string {
	return map[string]string{
		testcontainers.MongoHostKey:     c.Host,
		testcontainers.MongoPortKey:     c.Port,
		testcontainers.MongoDatabaseKey: c.Database,
		testcontainers.MongoUsernameKey: c.Username,
		testcontainers.MongoPasswordKey: c.Password,
		testcontainers.MongoAuthDBKey:   c.AuthDB,
	}
}

func defaultHostConfig() func(hc *container.HostConfig) {
	return func(hc *container.HostConfig) {
		hc.AutoRemove = true
	}
}
