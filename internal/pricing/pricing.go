// Package pricing perde satırlarının ara toplamını hesaplar.
//
// STOR PERDE m² üzerinden fiyatlanır: birim fiyat x (en/100) x (boy/100) x adet.
// Diğer tüm kategoriler metre x file sıklığı modelini kullanır:
// birim fiyat x max(1, (en/100) x sıklık) x adet.
package pricing

import (
	"math"

	"perde-backend/internal/catalog"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// Input bir satırın fiyatlamaya giren alanları.
type Input struct {
	CategoryName string
	UnitPrice    float64
	Qty          float64
	WidthCm      float64
	HeightCm     float64
	Density      float64
}

// ComputeSubtotal tek satırın tutarını hesaplar. Yan etkisi yoktur.
func ComputeSubtotal(categoryName string, unitPrice, qty, widthCm, heightCm, density float64) float64 {
	return Compute(Input{
		CategoryName: categoryName,
		UnitPrice:    unitPrice,
		Qty:          qty,
		WidthCm:      widthCm,
		HeightCm:     heightCm,
		Density:      density,
	})
}

func Compute(in Input) float64 {
	price := finiteOr(in.UnitPrice, 0)
	q := decimal.NewFromInt(int64(ClampQty(in.Qty)))
	w := decimal.NewFromInt(int64(ClampDimension(in.WidthCm)))
	h := decimal.NewFromInt(int64(ClampDimension(in.HeightCm)))
	p := decimal.NewFromFloat(price)

	if catalog.IsAreaPriced(in.CategoryName) {
		area := w.Div(hundred).Mul(h.Div(hundred))
		return p.Mul(area).Mul(q).InexactFloat64()
	}

	d := decimal.NewFromFloat(finiteOr(in.Density, 0))
	meters := w.Div(hundred).Mul(d)
	if meters.LessThan(one) {
		meters = one
	}
	return p.Mul(meters).Mul(q).InexactFloat64()
}

// ClampQty adedi tam sayıya indirir, en az 1.
func ClampQty(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 1
	}
	n := int(math.Floor(v))
	if n < 1 {
		return 1
	}
	return n
}

// ClampDimension en/boy değerini tam sayıya indirir, en az 0.
func ClampDimension(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	n := int(math.Floor(v))
	if n < 0 {
		return 0
	}
	return n
}

func finiteOr(v, def float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}
