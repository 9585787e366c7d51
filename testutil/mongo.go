package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	mongoUsername = "user"
	mongoPassword = "password"

	// this version corresponds to docker tag for mongodb
	// it should be in sync with mongo version used in production
	mongoVersion = "7.0.5"
)

// MongoContainer is a throwaway mongodb used by integration tests.
type MongoContainer struct {
	Address  string
	Username string
	Password string
	DbName   string

	pool     *dockertest.Pool
	resource *dockertest.Resource
	client   *mongo.Client
}

// StartMongoContainer runs mongodb in docker and waits until it accepts connections.
// Purge MUST be called in the end to cleanup docker resources.
func StartMongoContainer(dbName string) (*MongoContainer, error) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, err
	}

	randomString, err := RandomAlphaNum(3)
	if err != nil {
		return nil, err
	}

	// there can be only 1 container with the same name, so we add
	// random string in the end in case there is still old container running
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Name:       "mongo-integration-tests-" + randomString,
		Repository: "mongo",
		Tag:        mongoVersion,
		Env: []string{
			"MONGO_INITDB_ROOT_USERNAME=" + mongoUsername,
			"MONGO_INITDB_ROOT_PASSWORD=" + mongoPassword,
			"MONGO_INITDB_DATABASE=" + dbName,
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return nil, err
	}

	c := &MongoContainer{
		Address:  fmt.Sprintf("mongodb://localhost:%s/", resource.GetPort("27017/tcp")),
		Username: mongoUsername,
		Password: mongoPassword,
		DbName:   dbName,
		pool:     pool,
		resource: resource,
	}

	err = pool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		credential := options.Credential{Username: c.Username, Password: c.Password}
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(c.Address).SetAuth(credential))
		if err != nil {
			return err
		}
		if err := client.Ping(ctx, nil); err != nil {
			_ = client.Disconnect(ctx)
			return err
		}
		c.client = client
		return nil
	})
	if err != nil {
		_ = pool.Purge(resource)
		return nil, err
	}

	return c, nil
}

// Truncate deletes every document of the given collections.
func (c *MongoContainer) Truncate(ctx context.Context, collections ...string) error {
	database := c.client.Database(c.DbName)
	for _, collection := range collections {
		if _, err := database.Collection(collection).DeleteMany(ctx, bson.M{}); err != nil {
			return fmt.Errorf("failed to truncate %s: %w", collection, err)
		}
	}
	return nil
}

func (c *MongoContainer) Purge() error {
	if c.client != nil {
		_ = c.client.Disconnect(context.Background())
	}
	return c.pool.Purge(c.resource)
}
