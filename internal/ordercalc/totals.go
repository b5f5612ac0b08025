// Package ordercalc sipariş toplamlarını satır ara toplamlarından türetir.
// Sonuçlar hiçbir zaman kalıcı veri kaynağı değildir, her değişiklikte
// yeniden hesaplanır.
package ordercalc

import (
	"math"

	"github.com/shopspring/decimal"
)

// Discount yüzde ya da sabit indirim. Sabit tutar > 0 ise yüzdeye üstün gelir.
type Discount struct {
	Percent     float64 `json:"percent"`
	FixedAmount float64 `json:"fixedAmount"`
}

type Totals struct {
	SubTotal float64 `json:"subTotal"`
	Discount float64 `json:"discount"`
	NetTotal float64 `json:"netTotal"`
	Paid     float64 `json:"paid"`
	Balance  float64 `json:"balance"`
}

var (
	zero    = decimal.Zero
	hundred = decimal.NewFromInt(100)
)

// Compute yerleşmemiş satırlar dahil tüm ara toplamları toplar, indirimi
// uygular ve ödenen tutarla bakiyeyi çıkarır. Negatif değer dönmez.
func Compute(subtotals []float64, discount Discount, paid float64) Totals {
	sub := zero
	for _, s := range subtotals {
		sub = sub.Add(dec(s))
	}
	if sub.LessThan(zero) {
		sub = zero
	}

	disc := ResolveDiscount(sub, discount)
	net := sub.Sub(disc)
	if net.LessThan(zero) {
		net = zero
	}

	p := dec(paid)
	if p.LessThan(zero) {
		p = zero
	}
	balance := net.Sub(p)
	if balance.LessThan(zero) {
		balance = zero
	}

	return Totals{
		SubTotal: sub.InexactFloat64(),
		Discount: disc.InexactFloat64(),
		NetTotal: net.InexactFloat64(),
		Paid:     p.InexactFloat64(),
		Balance:  balance.InexactFloat64(),
	}
}

// ResolveDiscount: sabit tutar > 0 ise o, değilse yüzde [0,100] aralığına
// sıkıştırılarak uygulanır; sonuç ara toplamı geçemez.
func ResolveDiscount(subTotal decimal.Decimal, d Discount) decimal.Decimal {
	var disc decimal.Decimal
	if fixed := dec(d.FixedAmount); fixed.GreaterThan(zero) {
		disc = fixed
	} else {
		pct := dec(d.Percent)
		if pct.LessThan(zero) {
			pct = zero
		}
		if pct.GreaterThan(hundred) {
			pct = hundred
		}
		disc = subTotal.Mul(pct).Div(hundred)
	}
	if disc.GreaterThan(subTotal) {
		disc = subTotal
	}
	if disc.LessThan(zero) {
		disc = zero
	}
	return disc
}

// SumPayments kayıtlı ödemelerin toplamı.
func SumPayments(amounts []float64) float64 {
	total := zero
	for _, a := range amounts {
		total = total.Add(dec(a))
	}
	return total.InexactFloat64()
}

func dec(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return zero
	}
	return decimal.NewFromFloat(v)
}
