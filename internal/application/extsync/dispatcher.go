package extsync

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Tienda-api/internal/application/inventory"
)

// Pusher destino del dispatcher (el Gateway).
type Pusher interface {
	Push(ctx context.Context, changes []inventory.StockChange) error
}

// Dispatcher desacopla el push del camino crítico: Notify encola sin bloquear y un worker
// envía cada lote con su propio timeout. Si la cola está llena el lote se descarta.
type Dispatcher struct {
	pusher  Pusher
	queue   chan []inventory.StockChange
	timeout time.Duration
	log     zerolog.Logger
	dropped func()
}

// NewDispatcher construye el dispatcher. timeout acota cada llamada externa.
func NewDispatcher(pusher Pusher, queueSize int, timeout time.Duration, log zerolog.Logger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 256
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Dispatcher{
		pusher:  pusher,
		queue:   make(chan []inventory.StockChange, queueSize),
		timeout: timeout,
		log:     log.With().Str("component", "push-dispatcher").Logger(),
	}
}

// OnDrop registra un callback para lotes descartados (métricas).
func (d *Dispatcher) OnDrop(fn func()) {
	d.dropped = fn
}

// Notify implementa inventory.ChangeNotifier.
func (d *Dispatcher) Notify(changes []inventory.StockChange) {
	if len(changes) == 0 {
		return
	}
	batch := append([]inventory.StockChange(nil), changes...)
	select {
	case d.queue <- batch:
	default:
		d.log.Warn().Int("items", len(batch)).Msg("cola de push llena, lote descartado")
		if d.dropped != nil {
			d.dropped()
		}
	}
}

// Run consume la cola hasta que ctx se cancela.
func (d *Dispatcher) Run(ctx context.Context) {
	d.log.Info().Msg("dispatcher de push iniciado")
	for {
		select {
		case <-ctx.Done():
			d.log.Info().Msg("dispatcher de push detenido")
			return
		case batch := <-d.queue:
			d.send(ctx, batch)
		}
	}
}

func (d *Dispatcher) send(ctx context.Context, batch []inventory.StockChange) {
	pushCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	// El gateway ya registró el error; el lote no se reintenta.
	_ = d.pusher.Push(pushCtx, batch)
}
