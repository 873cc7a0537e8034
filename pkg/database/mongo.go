package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"

	"portfolio-contact-api/pkg/logger"
)

// ErrNotConnected is returned by Collection before Connect succeeded.
var ErrNotConnected = errors.New("database not connected")

// Mongo owns the MongoDB client for the lifetime of the process.
// The client multiplexes connections and is safe for concurrent use.
type Mongo struct {
	uri            string
	dbName         string
	connectTimeout time.Duration

	client   *mongo.Client
	database *mongo.Database
}

func NewMongo(uri, dbName string, connectTimeout time.Duration) *Mongo {
	if connectTimeout <= 0 {
		connectTimeout = 10 * time.Second
	}
	return &Mongo{
		uri:            uri,
		dbName:         dbName,
		connectTimeout: connectTimeout,
	}
}

// Connect opens the client and pings the primary. The caller must not serve
// traffic if it fails.
func (m *Mongo) Connect(ctx context.Context) error {
	opts := options.Client().
		ApplyURI(m.uri).
		SetConnectTimeout(m.connectTimeout).
		SetServerSelectionTimeout(m.connectTimeout)

	client, err := mongo.Connect(opts)
	if err != nil {
		return fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, m.connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("mongo ping: %w", err)
	}

	m.client = client
	m.database = client.Database(m.dbName)
	logger.Log.Info("Connected to MongoDB", zap.String("database", m.dbName))
	return nil
}

// Disconnect releases the client. Safe to call when never connected.
func (m *Mongo) Disconnect(ctx context.Context) error {
	if m.client == nil {
		return nil
	}
	err := m.client.Disconnect(ctx)
	m.client = nil
	m.database = nil
	if err != nil {
		return fmt.Errorf("mongo disconnect: %w", err)
	}
	logger.Log.Info("Disconnected from MongoDB")
	return nil
}

// Collection returns a handle to the named collection.
func (m *Mongo) Collection(name string) (*mongo.Collection, error) {
	if m.database == nil {
		return nil, ErrNotConnected
	}
	return m.database.Collection(name), nil
}
