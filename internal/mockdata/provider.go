// Package mockdata serves fixed demo records for every report source.
package mockdata

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/odyssey-erp/backoffice/internal/records"
)

// Sources served by the provider.
const (
	SourceSales                = "sales"
	SourceSoldProducts         = "sold_products"
	SourceInventoryAdjustments = "inventory_adjustments"
	SourceLowStock             = "low_stock"
	SourceCashierCuts          = "cashier_cuts"
)

var namespace = uuid.MustParse("0b6f7c1e-6a9e-4d3f-9a53-3c1f0f7b8d21")

// Provider is an in-memory records source.
type Provider struct {
	data map[string][]records.Record
}

// New returns a provider seeded with the demo fixtures.
func New() *Provider {
	return NewWith(fixtures())
}

// NewWith returns a provider serving the supplied records per source.
func NewWith(data map[string][]records.Record) *Provider {
	return &Provider{data: data}
}

// Sources lists the report sources with fixtures, in a stable order.
func Sources() []string {
	return []string{SourceSales, SourceSoldProducts, SourceInventoryAdjustments, SourceLowStock, SourceCashierCuts}
}

// Records returns a copy of the records for source.
func (p *Provider) Records(ctx context.Context, source string) ([]records.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	recs, ok := p.data[source]
	if !ok {
		return nil, fmt.Errorf("mockdata: unknown source %q", source)
	}
	out := make([]records.Record, len(recs))
	copy(out, recs)
	return out, nil
}

func id(source string, n int) string {
	return uuid.NewSHA1(namespace, []byte(fmt.Sprintf("%s/%d", source, n))).String()
}

func at(d, h int) time.Time {
	return time.Date(2024, time.January, d, h, 0, 0, 0, time.UTC)
}

type product struct {
	name, sku, category string
	price               float64
}

var products = []product{
	{"Coca Cola 600ml", "BEB-001", "Bebidas", 18},
	{"Agua Ciel 1L", "BEB-014", "Bebidas", 12},
	{"Sabritas Original", "SNK-010", "Snacks", 19},
	{"Doritos Nacho", "SNK-022", "Snacks", 21},
	{"Pan Bimbo Blanco", "PAN-003", "Panadería", 45},
	{"Leche Lala 1L", "LAC-007", "Lácteos", 28},
	{"Jabón Zote", "LIM-031", "Limpieza", 24},
}

func fixtures() map[string][]records.Record {
	data := make(map[string][]records.Record)

	sold := make([]records.Record, 0)
	for i, p := range products {
		units := float64(3 + (i*7)%11)
		sold = append(sold, records.Record{
			ID:         id(SourceSoldProducts, i),
			OccurredAt: at(15+i%7, 10+i),
			Name:       p.name,
			SKU:        p.sku,
			Category:   p.category,
			Quantity:   units,
			Amount:     units * p.price,
		})
	}
	data[SourceSoldProducts] = sold

	payments := []string{"Efectivo", "Tarjeta", "Transferencia"}
	cashiers := []string{"Lucía", "Mario"}
	sales := make([]records.Record, 0)
	for i := 0; i < 12; i++ {
		p := products[i%len(products)]
		sales = append(sales, records.Record{
			ID:         id(SourceSales, i),
			OccurredAt: at(14+i%8, 9+i%9),
			Name:       fmt.Sprintf("Venta #%04d", 1001+i),
			Category:   p.category,
			Quantity:   float64(1 + i%4),
			Amount:     float64(1+i%4) * p.price,
			Attributes: map[string]string{
				"payment": payments[i%len(payments)],
				"cashier": cashiers[i%len(cashiers)],
			},
		})
	}
	data[SourceSales] = sales

	reasons := []struct{ reason, movement string }{
		{"Merma", "salida"},
		{"Conteo físico", "entrada"},
		{"Caducidad", "salida"},
		{"Devolución", "entrada"},
	}
	warehouses := []string{"Centro", "Norte"}
	adjustments := make([]records.Record, 0)
	for i := 0; i < 10; i++ {
		p := products[(i*3)%len(products)]
		r := reasons[i%len(reasons)]
		adjustments = append(adjustments, records.Record{
			ID:         id(SourceInventoryAdjustments, i),
			OccurredAt: at(16+i%5, 8+i),
			Name:       p.name,
			SKU:        p.sku,
			Category:   p.category,
			Quantity:   float64(1 + i%3),
			Attributes: map[string]string{
				"reason":    r.reason,
				"movement":  r.movement,
				"warehouse": warehouses[i%len(warehouses)],
			},
		})
	}
	data[SourceInventoryAdjustments] = adjustments

	low := make([]records.Record, 0)
	for i, p := range products {
		if i%2 == 1 {
			continue
		}
		low = append(low, records.Record{
			ID:         id(SourceLowStock, i),
			OccurredAt: at(20, 7),
			Name:       p.name,
			SKU:        p.sku,
			Category:   p.category,
			Quantity:   float64(i % 3),
			Attributes: map[string]string{"warehouse": warehouses[i%len(warehouses)]},
		})
	}
	data[SourceLowStock] = low

	cuts := make([]records.Record, 0)
	for i := 0; i < 6; i++ {
		cuts = append(cuts, records.Record{
			ID:         id(SourceCashierCuts, i),
			OccurredAt: at(15+i, 21),
			Name:       fmt.Sprintf("Corte %02d", i+1),
			Category:   "Cortes",
			Amount:     float64(3500 + 250*i),
			Attributes: map[string]string{"cashier": cashiers[i%len(cashiers)]},
		})
	}
	data[SourceCashierCuts] = cuts

	return data
}
