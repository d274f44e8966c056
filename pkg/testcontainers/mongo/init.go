package mongo

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	tc "github.com/you-humble/asset-tracker/pkg/testcontainers"
)

func startMongoContainer(ctx context.Context, cfg *Config) (testcontainers.Container, error) {
	req := testcontainers.ContainerRequest{
		Name:  cfg.ContainerName,
		Image: cfg.ImageName,
		Env: map[string]string{
			tc.MongoUsernameKey:     cfg.Username,
			tc.MongoPasswordKey:     cfg.Password,
			"MONGO_INITDB_DATABASE": cfg.Database,
		},
		ExposedPorts:       []string{tc.MongoPort + "/tcp"},
		WaitingFor:         wait.ForListeningPort(tc.MongoPort + "/tcp").WithStartupTimeout(mongoStartupTimeout),
		HostConfigModifier: defaultHostConfig(),
	}
	if cfg.NetworkName != "" {
		req.Networks = []string{cfg.NetworkName}
		req.NetworkAliases = map[string][]string{
			cfg.NetworkName: {tc.MongoContainerName},
		}
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "start mongo container")
	}

	return container, nil
}

func getContainerHostPort(ctx context.Context, container testcontainers.Container) (string, string, error) {
	host, err := container.Host(ctx)
	if err != nil {
		return "", "", errors.Wrap(err, "container host")
	}

	port, err := container.MappedPort(ctx, tc.MongoPort+"/tcp")
	if err != nil {
		return "", "", errors.Wrap(err, "mapped port")
	}

	return host, port.Port(), nil
}

func buildMongoURI(cfg *Config) string {
	return fmt.Sprintf(
		"mongodb://%s:%s@%s:%s/%s?authSource=%s",
		cfg.Username,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
		cfg.AuthDB,
	)
}
