package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/nguyentranbao-ct/shop-assistant/internal/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

func NewConnection(ctx context.Context, conf config.DatabaseConfig) (*DB, error) {
	clientOptions := options.Client().
		SetAppName("shop-assistant").
		SetHosts(conf.Hosts).
		SetMaxPoolSize(10).
		SetMaxConnIdleTime(30 * time.Second).
		SetTimeout(10 * time.Second).
		SetDirect(conf.Direct)

	// Only set auth if password is provided
	if conf.Password != "" {
		clientOptions.SetAuth(options.Credential{
			AuthSource: conf.AuthDB,
			Username:   conf.Username,
			Password:   conf.Password,
		})
	}

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &DB{
		Client:   client,
		Database: client.Database(conf.Database),
	}, nil
}

func (db *DB) Close(ctx context.Context) error {
	return db.Client.Disconnect(ctx)
}
