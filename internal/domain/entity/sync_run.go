package entity

import "time"

// Direcciones de sincronización con el inventario externo.
const (
	SyncDirectionPush = "push"
	SyncDirectionPull = "pull"
)

// SyncRun resumen de una ejecución de push o pull.
type SyncRun struct {
	ID         string
	Direction  string
	Flavor     string
	Items      int // items enviados (push) o recibidos (pull)
	Applied    int // SKUs cuya cantidad cambió localmente
	Created    int // productos creados automáticamente
	Skipped    int // items sin mapeo
	Failed     int
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}
