// Package mongodb guarda documentos auxiliares del inventario: bandeja de alertas y bitácora de sincronización.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/jhoicas/Tienda-api/pkg/config"
)

const (
	alertsCollection   = "stock_alerts"
	syncRunsCollection = "sync_runs"
)

// Client envuelve la conexión y la base de datos.
type Client struct {
	client   *mongo.Client
	database *mongo.Database
}

// NewClient conecta y verifica con ping.
func NewClient(ctx context.Context, cfg config.MongoConfig) (*Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(10 * time.Second).
		SetMaxPoolSize(50)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("conectar MongoDB: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}
	return &Client{client: client, database: client.Database(cfg.Database)}, nil
}

// Database devuelve la base configurada.
func (c *Client) Database() *mongo.Database {
	return c.database
}

// Close cierra la conexión.
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}
