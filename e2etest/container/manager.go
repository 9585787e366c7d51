package container

import (
	"fmt"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"github.com/tokenfarm-io/staking-rewards-ledger/testutil"
)

const (
	mongoContainerName    = "ledger-e2e-mongo"
	rabbitmqContainerName = "ledger-e2e-rabbitmq"

	MongoUser     = "user"
	MongoPassword = "password"
	QueueUser     = "user"
	QueuePassword = "password"
)

// Manager is a wrapper around all Docker instances, and the Docker API.
// It provides utilities to run and interact with all Docker containers used within e2e testing.
type Manager struct {
	cfg       ImageConfig
	pool      *dockertest.Pool
	resources map[string]*dockertest.Resource
}

// NewManager creates a new Manager instance and initializes
// all Docker specific utilities. Returns an error if initialization fails.
func NewManager(t *testing.T) (*Manager, error) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, err
	}
	pool.MaxWait = 2 * time.Minute

	m := &Manager{
		cfg:       NewImageConfig(),
		pool:      pool,
		resources: make(map[string]*dockertest.Resource),
	}
	t.Cleanup(func() {
		if err := m.ClearResources(); err != nil {
			t.Logf("failed to clear docker resources: %v", err)
		}
	})

	return m, nil
}

// RunMongoResource starts mongodb and returns its address once it accepts connections.
func (m *Manager) RunMongoResource() (string, error) {
	resource, err := m.run(mongoContainerName, &dockertest.RunOptions{
		Repository: m.cfg.MongoRepository,
		Tag:        m.cfg.MongoVersion,
		Env: []string{
			"MONGO_INITDB_ROOT_USERNAME=" + MongoUser,
			"MONGO_INITDB_ROOT_PASSWORD=" + MongoPassword,
		},
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("mongodb://localhost:%s/", resource.GetPort("27017/tcp")), nil
}

// RunRabbitMQResource starts rabbitmq and returns the host:port of its amqp listener.
func (m *Manager) RunRabbitMQResource() (string, error) {
	resource, err := m.run(rabbitmqContainerName, &dockertest.RunOptions{
		Repository: m.cfg.RabbitMQRepository,
		Tag:        m.cfg.RabbitMQVersion,
		Env: []string{
			"RABBITMQ_DEFAULT_USER=" + QueueUser,
			"RABBITMQ_DEFAULT_PASS=" + QueuePassword,
		},
	})
	if err != nil {
		return "", err
	}

	return "localhost:" + resource.GetPort("5672/tcp"), nil
}

// Retry calls op until it succeeds or the pool's MaxWait runs out.
func (m *Manager) Retry(op func() error) error {
	return m.pool.Retry(op)
}

func (m *Manager) run(name string, opts *dockertest.RunOptions) (*dockertest.Resource, error) {
	suffix, err := testutil.RandomAlphaNum(4)
	if err != nil {
		return nil, err
	}
	// there can be only 1 container with the same name
	opts.Name = fmt.Sprintf("%s-%s", name, suffix)

	resource, err := m.pool.RunWithOptions(opts, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return nil, err
	}
	m.resources[name] = resource

	return resource, nil
}

// ClearResources removes all outstanding Docker resources created by the Manager.
func (m *Manager) ClearResources() error {
	for name, resource := range m.resources {
		if err := m.pool.Purge(resource); err != nil {
			return fmt.Errorf("failed to purge %s: %w", name, err)
		}
		delete(m.resources, name)
	}

	return nil
}
