package network

import (
	"context"
	"fmt"

	"github.com/testcontainers/testcontainers-go"
	tcnetwork "github.com/testcontainers/testcontainers-go/network"
)

const projectLabel = "com.asset-tracker.project"

// Network is a bridge network shared by the containers of one test suite.
type Network struct {
	network *testcontainers.DockerNetwork
	project string
}

func NewNetwork(ctx context.Context, projectName string) (*Network, error) {
	net, err := tcnetwork.New(ctx,
		tcnetwork.WithDriver(testcontainers.Bridge),
		tcnetwork.WithAttachable(),
		tcnetwork.WithLabels(map[string]string{
			projectLabel: projectName,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("create docker network for %s: %w", projectName, err)
	}

	return &Network{network: net, project: projectName}, nil
}

func (n *Network) Name() string    { return n.network.Name }
func (n *Network) Project() string { return n.project }

// Remove is safe to call on a nil Network.
func (n *Network) Remove(ctx context.Context) error {
	if n == nil || n.network == nil {
		return nil
	}
	if err := n.network.Remove(ctx); err != nil {
		return fmt.Errorf("remove docker network %s: %w", n.network.Name, err)
	}
	return nil
}
