package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/AlibekovAA/user-profile/internal/common/constants"
	"github.com/AlibekovAA/user-profile/internal/common/logger"
	"github.com/AlibekovAA/user-profile/internal/observability/metrics"
)

type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

func Connect(ctx context.Context, log *logger.Logger, uri, database string) (*Client, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.MongoConnectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(uri).
		SetAppName("user-profile").
		SetPoolMonitor(poolMonitor())

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Infof("connected to MongoDB: database=%s", database)

	return &Client{client: client, db: client.Database(database)}, nil
}

// poolMonitor keeps the pool gauges in step with driver connection events.
func poolMonitor() *event.PoolMonitor {
	total := metrics.StorePoolConnections.WithLabelValues(metrics.StoreMongo, "total")
	acquired := metrics.StorePoolConnections.WithLabelValues(metrics.StoreMongo, "acquired")

	return &event.PoolMonitor{
		Event: func(e *event.PoolEvent) {
			switch e.Type {
			case event.ConnectionCreated:
				total.Inc()
			case event.ConnectionClosed:
				total.Dec()
			case event.GetSucceeded:
				acquired.Inc()
			case event.ConnectionReturned:
				acquired.Dec()
			}
		},
	}
}

func (c *Client) Database() *mongo.Database {
	return c.db
}

func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}
