package metrics

import (
	"context"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

var _ repository.SyncRunRepository = (*InstrumentedSyncRuns)(nil)

// InstrumentedSyncRuns contabiliza cada ejecución antes de delegar en la bitácora.
// next puede ser nil cuando no hay bitácora persistente.
type InstrumentedSyncRuns struct {
	next    repository.SyncRunRepository
	metrics *Metrics
}

func NewInstrumentedSyncRuns(next repository.SyncRunRepository, m *Metrics) *InstrumentedSyncRuns {
	return &InstrumentedSyncRuns{next: next, metrics: m}
}

func (r *InstrumentedSyncRuns) Save(ctx context.Context, run *entity.SyncRun) error {
	r.metrics.RecordSyncRun(run)
	if r.next == nil {
		return nil
	}
	return r.next.Save(ctx, run)
}
