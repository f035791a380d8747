package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepository)(nil)

type alertDocument struct {
	ID          string    `bson:"_id"`
	Level       string    `bson:"level"`
	StockRowID  string    `bson:"stockRowId"`
	ProductID   string    `bson:"productId"`
	VariantID   string    `bson:"variantId,omitempty"`
	Size        string    `bson:"size,omitempty"`
	Color       string    `bson:"color,omitempty"`
	WarehouseID string    `bson:"warehouseId"`
	Quantity    int       `bson:"quantity"`
	Threshold   int       `bson:"threshold"`
	Message     string    `bson:"message"`
	Read        bool      `bson:"read"`
	CreatedAt   time.Time `bson:"createdAt"`
}

func toAlertDocument(a entity.StockAlert) alertDocument {
	return alertDocument{
		ID:          a.ID,
		Level:       a.Level,
		StockRowID:  a.StockRowID,
		ProductID:   a.ProductID,
		VariantID:   a.VariantID,
		Size:        a.Size,
		Color:       a.Color,
		WarehouseID: a.WarehouseID,
		Quantity:    a.Quantity,
		Threshold:   a.Threshold,
		Message:     a.Message,
		CreatedAt:   a.CreatedAt,
	}
}

// AlertRepository bandeja de alertas del panel administrativo (colección stock_alerts).
type AlertRepository struct {
	collection *mongo.Collection
}

// NewAlertRepository construye el repositorio sobre la base indicada.
func NewAlertRepository(db *mongo.Database) *AlertRepository {
	return &AlertRepository{collection: db.Collection(alertsCollection)}
}

// EnsureIndexes crea los índices de consulta de la bandeja.
func (r *AlertRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "read", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "productId", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("crear índices de %s: %w", alertsCollection, err)
	}
	return nil
}

// SaveAll inserta las alertas en un solo lote.
func (r *AlertRepository) SaveAll(ctx context.Context, alerts []entity.StockAlert) error {
	if len(alerts) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(alerts))
	for _, a := range alerts {
		docs = append(docs, toAlertDocument(a))
	}
	if _, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false)); err != nil {
		return fmt.Errorf("insertar alertas de stock: %w", err)
	}
	return nil
}

// Emit permite registrar la bandeja como sink del emisor de alertas.
func (r *AlertRepository) Emit(ctx context.Context, alerts []entity.StockAlert) error {
	return r.SaveAll(ctx, alerts)
}
