package inventory

import "github.com/jhoicas/Tienda-api/internal/domain/entity"

// Settings banderas del núcleo de inventario, inyectadas al construir el servicio.
type Settings struct {
	AllowNegativeStock   bool
	LowStockThreshold    int // umbral de filas nuevas
	CriticalThreshold    int
	DefaultWarehouseCode string
	DefaultWarehouseName string
}

// DefaultSettings valores por defecto.
func DefaultSettings() Settings {
	return Settings{
		AllowNegativeStock:   false,
		LowStockThreshold:    entity.DefaultLowStockThreshold,
		CriticalThreshold:    5,
		DefaultWarehouseCode: "DEFAULT",
		DefaultWarehouseName: "Bodega principal",
	}
}

func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.LowStockThreshold <= 0 {
		s.LowStockThreshold = d.LowStockThreshold
	}
	if s.CriticalThreshold <= 0 {
		s.CriticalThreshold = d.CriticalThreshold
	}
	if s.DefaultWarehouseCode == "" {
		s.DefaultWarehouseCode = d.DefaultWarehouseCode
	}
	if s.DefaultWarehouseName == "" {
		s.DefaultWarehouseName = d.DefaultWarehouseName
	}
	return s
}
