package reports

import (
	"testing"
	"time"

	"perde-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBucketStart(t *testing.T) {
	// 2025-03-13 perşembe
	ts := time.Date(2025, 3, 13, 17, 45, 0, 0, time.UTC)

	assert.Equal(t, day(2025, 3, 13), bucketStart(PeriodDaily, ts))
	assert.Equal(t, day(2025, 3, 10), bucketStart(PeriodWeekly, ts))
	assert.Equal(t, day(2025, 3, 1), bucketStart(PeriodMonthly, ts))

	// pazar bir önceki pazartesiye düşer
	assert.Equal(t, day(2025, 3, 10), bucketStart(PeriodWeekly, day(2025, 3, 16)))
}

func TestPeriodRange(t *testing.T) {
	now := time.Date(2025, 3, 13, 12, 0, 0, 0, time.UTC)

	period, start, end, err := periodRange("", 0, now)
	require.NoError(t, err)
	assert.Equal(t, PeriodDaily, period)
	assert.Equal(t, day(2025, 3, 7), start)
	assert.Equal(t, day(2025, 3, 14), end)
	assert.Len(t, buckets(period, start, end), 7)

	period, start, end, err = periodRange(PeriodMonthly, 3, now)
	require.NoError(t, err)
	assert.Equal(t, day(2025, 1, 1), start)
	assert.Equal(t, day(2025, 4, 1), end)
	assert.Equal(t, []time.Time{day(2025, 1, 1), day(2025, 2, 1), day(2025, 3, 1)}, buckets(period, start, end))

	_, start, end, err = periodRange(PeriodWeekly, 2, now)
	require.NoError(t, err)
	assert.Equal(t, day(2025, 3, 3), start)
	assert.Equal(t, day(2025, 3, 17), end)

	_, _, _, err = periodRange("yearly", 0, now)
	assert.Error(t, err)
}

func TestBuildSalesPoints(t *testing.T) {
	start, end := day(2025, 3, 10), day(2025, 3, 13)
	payments := []paymentRow{
		{Bucket: day(2025, 3, 10), Method: string(models.PaymentMethodCash), Total: 100},
		{Bucket: day(2025, 3, 10), Method: string(models.PaymentMethodCard), Total: 50.5},
		{Bucket: day(2025, 3, 12), Method: string(models.PaymentMethodTransfer), Total: 300},
		{Bucket: day(2025, 3, 20), Method: string(models.PaymentMethodCash), Total: 999},
	}
	orders := []orderRow{
		{CreatedAt: time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC), NetTotal: 400},
		{CreatedAt: time.Date(2025, 3, 10, 16, 0, 0, 0, time.UTC), NetTotal: 250},
	}

	points, totals := buildSalesPoints(PeriodDaily, start, end, payments, orders)
	require.Len(t, points, 3)

	assert.Equal(t, "2025-03-10", points[0].Label)
	assert.Equal(t, 100.0, points[0].Cash)
	assert.Equal(t, 150.5, points[0].Collected)
	assert.Equal(t, 2, points[0].OrderCount)
	assert.Equal(t, 650.0, points[0].NetSales)

	assert.Equal(t, "2025-03-11", points[1].Label)
	assert.Zero(t, points[1].Collected)

	assert.Equal(t, 300.0, points[2].Transfer)

	assert.Equal(t, 450.5, totals.Collected)
	assert.Equal(t, 2, totals.OrderCount)
}

func TestOrderNetTotal(t *testing.T) {
	o := models.Order{
		DiscountFixedAmount: 75,
		Items:               []models.OrderItem{{Subtotal: 300}, {Subtotal: 200}},
		Payments:            []models.OrderPayment{{Amount: 500}},
	}
	assert.Equal(t, 425.0, orderNetTotal(o))
}
