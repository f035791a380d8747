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

var _ repository.SyncRunRepository = (*SyncRunRepository)(nil)

// syncRunTTL tiempo que se conserva la bitácora.
const syncRunTTL = 30 * 24 * time.Hour

type syncRunDocument struct {
	ID         string    `bson:"_id"`
	Direction  string    `bson:"direction"`
	Flavor     string    `bson:"flavor"`
	Items      int       `bson:"items"`
	Applied    int       `bson:"applied"`
	Created    int       `bson:"created"`
	Skipped    int       `bson:"skipped"`
	Failed     int       `bson:"failed"`
	Error      string    `bson:"error,omitempty"`
	StartedAt  time.Time `bson:"startedAt"`
	FinishedAt time.Time `bson:"finishedAt"`
}

// SyncRunRepository bitácora de push/pull (colección sync_runs).
type SyncRunRepository struct {
	collection *mongo.Collection
}

// NewSyncRunRepository construye el repositorio sobre la base indicada.
func NewSyncRunRepository(db *mongo.Database) *SyncRunRepository {
	return &SyncRunRepository{collection: db.Collection(syncRunsCollection)}
}

// EnsureIndexes crea el índice TTL y el de consulta por dirección.
func (r *SyncRunRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "startedAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(syncRunTTL.Seconds())),
		},
		{Keys: bson.D{{Key: "direction", Value: 1}, {Key: "startedAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("crear índices de %s: %w", syncRunsCollection, err)
	}
	return nil
}

func (r *SyncRunRepository) Save(ctx context.Context, run *entity.SyncRun) error {
	doc := syncRunDocument{
		ID:         run.ID,
		Direction:  run.Direction,
		Flavor:     run.Flavor,
		Items:      run.Items,
		Applied:    run.Applied,
		Created:    run.Created,
		Skipped:    run.Skipped,
		Failed:     run.Failed,
		Error:      run.Error,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("registrar ejecución de sincronización: %w", err)
	}
	return nil
}

// Recent devuelve las últimas ejecuciones, más recientes primero.
func (r *SyncRunRepository) Recent(ctx context.Context, limit int64) ([]entity.SyncRun, error) {
	cur, err := r.collection.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "startedAt", Value: -1}}).SetLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("listar ejecuciones de sincronización: %w", err)
	}
	defer cur.Close(ctx)

	var docs []syncRunDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decodificar ejecuciones de sincronización: %w", err)
	}
	runs := make([]entity.SyncRun, 0, len(docs))
	for _, d := range docs {
		runs = append(runs, entity.SyncRun{
			ID: d.ID, Direction: d.Direction, Flavor: d.Flavor, Items: d.Items, Applied: d.Applied,
			Created: d.Created, Skipped: d.Skipped, Failed: d.Failed, Error: d.Error,
			StartedAt: d.StartedAt, FinishedAt: d.FinishedAt,
		})
	}
	return runs, nil
}
