package extsync

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

const pullLockKey = "tienda:extsync:pull"

// DefaultPullTimeout tope de una ejecución de pull cuando no se configura otro.
const DefaultPullTimeout = 25 * time.Second

// Puller ejecuta un pull completo.
type Puller interface {
	Pull(ctx context.Context) (*entity.SyncRun, error)
}

// Locker candado distribuido para que una sola instancia haga el pull de cada intervalo.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// Scheduler dispara el pull cada interval.
type Scheduler struct {
	puller   Puller
	locker   Locker
	interval time.Duration
	timeout  time.Duration
	log      zerolog.Logger
}

// NewScheduler construye el scheduler. locker puede ser nil (una sola instancia).
// timeout acota cada pull completo; <= 0 usa DefaultPullTimeout y nunca supera el intervalo.
func NewScheduler(puller Puller, locker Locker, interval, timeout time.Duration, log zerolog.Logger) *Scheduler {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	if timeout <= 0 {
		timeout = DefaultPullTimeout
	}
	if timeout > interval {
		timeout = interval
	}
	return &Scheduler{
		puller:   puller,
		locker:   locker,
		interval: interval,
		timeout:  timeout,
		log:      log.With().Str("component", "pull-scheduler").Logger(),
	}
}

// Run bloquea hasta que ctx se cancela.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	s.log.Info().Dur("interval", s.interval).Msg("scheduler de pull iniciado")
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("scheduler de pull detenido")
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick ejecuta un ciclo: toma el candado (si hay) y hace el pull con timeout.
func (s *Scheduler) Tick(ctx context.Context) {
	if s.locker != nil {
		// El TTL es algo menor al intervalo para que el siguiente ciclo encuentre el candado libre.
		ok, err := s.locker.TryLock(ctx, pullLockKey, s.interval*9/10)
		if err != nil {
			s.log.Warn().Err(err).Msg("no se pudo tomar el candado de pull")
			return
		}
		if !ok {
			s.log.Debug().Msg("otra instancia ejecuta el pull de este intervalo")
			return
		}
	}
	pullCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if _, err := s.puller.Pull(pullCtx); err != nil {
		s.log.Warn().Err(err).Msg("pull programado falló")
	}
}
