// Package boq prices extracted quantities into a bill of quantities.
package boq

import (
	"github.com/dgallion1/cadboq/internal/extract"
	"github.com/dgallion1/cadboq/internal/rates"
)

// LineItem is one priced row. ItemNo is 1-based and dense over emitted rows.
type LineItem struct {
	ItemNo      int     `json:"item_no"`
	Key         string  `json:"key"`
	Component   string  `json:"component"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	Rate        float64 `json:"rate"`
	Total       float64 `json:"total"`
}

type source struct {
	key      string
	quantity func(extract.Result) float64
}

// order fixes which quantity feeds which rate key, and the numbering of the
// emitted rows. Circumference, arc count, polyline count and other blocks are
// reported but never priced.
var order = []source{
	{rates.KeyWallConduits, func(r extract.Result) float64 { return r.TotalLineLength }},
	{rates.KeyPolylinePerimeter, func(r extract.Result) float64 { return r.PolylineLength }},
	{rates.KeyFloorArea, func(r extract.Result) float64 { return r.ClosedArea }},
	{rates.KeyCircularElements, func(r extract.Result) float64 { return float64(r.CircleCount) }},
	{rates.KeyArcElements, func(r extract.Result) float64 { return r.ArcLength }},
	{rates.KeyDoors, func(r extract.Result) float64 { return float64(r.DoorCount) }},
	{rates.KeyWindows, func(r extract.Result) float64 { return float64(r.WindowCount) }},
	{rates.KeyColumns, func(r extract.Result) float64 { return float64(r.ColumnCount) }},
	{rates.KeyFurniture, func(r extract.Result) float64 { return float64(r.FurnitureCount) }},
}

// PricedKeys lists the rate keys Assemble can emit, in emission order.
func PricedKeys() []string {
	keys := make([]string, len(order))
	for i, s := range order {
		keys[i] = s.key
	}
	return keys
}

// Assemble prices r against table. Categories whose quantity is not positive,
// or that have no rate entry, are left out without consuming an item number.
func Assemble(r extract.Result, table rates.Table) []LineItem {
	items := make([]LineItem, 0, len(order))
	for _, s := range order {
		qty := s.quantity(r)
		if !(qty > 0) {
			continue
		}
		entry, ok := table.Lookup(s.key)
		if !ok {
			continue
		}
		qty = extract.Round2(qty)
		items = append(items, LineItem{
			ItemNo:      len(items) + 1,
			Key:         s.key,
			Component:   entry.Component,
			Description: entry.Description,
			Quantity:    qty,
			Unit:        entry.Unit,
			Rate:        entry.Rate,
			Total:       extract.Round2(qty * entry.Rate),
		})
	}
	return items
}

// GrandTotal sums item totals and rounds to 2 decimals.
func GrandTotal(items []LineItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Total
	}
	return extract.Round2(sum)
}
