package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

const reportMaxRows = 500

// LowStockLine fila del reporte de stock bajo con la cantidad sugerida de reposición.
type LowStockLine struct {
	ProductID    string
	ProductName  string
	SKU          string
	WarehouseID  string
	Quantity     int
	Threshold    int
	Status       string
	SuggestedQty int // umbral * 1.5 - cantidad
}

// LowStockReport datos del reporte ya priorizados (mayor déficit primero).
type LowStockReport struct {
	WarehouseName string
	GeneratedAt   time.Time
	Lines         []LowStockLine
}

// LowStockPDFGenerator puerto para renderizar el reporte.
type LowStockPDFGenerator interface {
	Generate(report *LowStockReport) ([]byte, error)
}

// ReportUseCase genera el reporte de reposición a partir de las filas bajo umbral.
type ReportUseCase struct {
	stock      repository.StockRepository
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository
	pdf        LowStockPDFGenerator
	now        func() time.Time
}

// NewReportUseCase construye el caso de uso del reporte.
func NewReportUseCase(
	stock repository.StockRepository,
	products repository.ProductRepository,
	warehouses repository.WarehouseRepository,
	pdf LowStockPDFGenerator,
) *ReportUseCase {
	return &ReportUseCase{
		stock:      stock,
		products:   products,
		warehouses: warehouses,
		pdf:        pdf,
		now:        time.Now,
	}
}

// BuildLowStockReport arma el reporte. warehouseID vacío considera todas las bodegas.
func (uc *ReportUseCase) BuildLowStockReport(ctx context.Context, warehouseID string) (*LowStockReport, error) {
	report := &LowStockReport{WarehouseName: "Todas las bodegas", GeneratedAt: uc.now()}
	if warehouseID != "" {
		wh, err := uc.warehouses.GetByID(ctx, warehouseID)
		if err != nil {
			return nil, err
		}
		if wh == nil {
			return nil, domain.ErrNotFound
		}
		report.WarehouseName = wh.Name
	}

	// 1. Filas en o bajo su umbral
	rows, err := uc.stock.ListLowStock(ctx, warehouseID, reportMaxRows, 0)
	if err != nil {
		return nil, err
	}

	// 2. Nombres legibles (un GetByID por producto)
	products := make(map[string]*entity.Product)
	for _, row := range rows {
		if _, ok := products[row.ProductID]; ok {
			continue
		}
		p, err := uc.products.GetByID(ctx, row.ProductID)
		if err != nil {
			return nil, err
		}
		products[row.ProductID] = p
	}

	// 3. Sugerencia: llevar la fila a 1.5 veces su umbral
	report.Lines = make([]LowStockLine, 0, len(rows))
	for _, row := range rows {
		name := row.ProductID
		if p := products[row.ProductID]; p != nil {
			name = p.DisplayName(row.SKU())
		}
		ideal := (row.LowStockThreshold*3 + 1) / 2
		suggested := ideal - row.Quantity
		if suggested < 0 {
			suggested = 0
		}
		report.Lines = append(report.Lines, LowStockLine{
			ProductID:    row.ProductID,
			ProductName:  name,
			SKU:          row.SKU().Key(),
			WarehouseID:  row.WarehouseID,
			Quantity:     row.Quantity,
			Threshold:    row.LowStockThreshold,
			Status:       row.Status,
			SuggestedQty: suggested,
		})
	}

	// 4. Ordenar: mayor déficit bajo el umbral primero, luego nombre
	sort.SliceStable(report.Lines, func(i, j int) bool {
		a, b := report.Lines[i], report.Lines[j]
		defA, defB := a.Threshold-a.Quantity, b.Threshold-b.Quantity
		if defA != defB {
			return defA > defB
		}
		return a.ProductName < b.ProductName
	})
	return report, nil
}

// LowStockPDF genera el PDF y el nombre de archivo sugerido.
func (uc *ReportUseCase) LowStockPDF(ctx context.Context, warehouseID string) ([]byte, string, error) {
	report, err := uc.BuildLowStockReport(ctx, warehouseID)
	if err != nil {
		return nil, "", err
	}
	data, err := uc.pdf.Generate(report)
	if err != nil {
		return nil, "", fmt.Errorf("generar reporte de stock bajo: %w", err)
	}
	filename := fmt.Sprintf("stock-bajo-%s.pdf", report.GeneratedAt.Format("20060102-1504"))
	return data, filename, nil
}
