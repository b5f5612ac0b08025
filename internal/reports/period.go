package reports

import (
	"fmt"
	"time"
)

const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

// defaultCount periyoda göre kaç dilim gösterileceği.
func defaultCount(period string) int {
	switch period {
	case PeriodWeekly:
		return 8
	case PeriodMonthly:
		return 12
	default:
		return 7
	}
}

// bucketStart zamanın düştüğü dilimin başlangıcı. Haftalar pazartesi başlar
// (Postgres date_trunc('week') ile aynı).
func bucketStart(period string, t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	switch period {
	case PeriodWeekly:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case PeriodMonthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	default:
		return day
	}
}

func nextBucket(period string, t time.Time) time.Time {
	switch period {
	case PeriodWeekly:
		return t.AddDate(0, 0, 7)
	case PeriodMonthly:
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}

// periodRange now'ı içeren dilim dahil geriye doğru count dilimlik aralık.
// end hariçtir.
func periodRange(period string, count int, now time.Time) (string, time.Time, time.Time, error) {
	switch period {
	case "":
		period = PeriodDaily
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
	default:
		return "", time.Time{}, time.Time{}, fmt.Errorf("period daily, weekly veya monthly olmalı")
	}
	if count <= 0 {
		count = defaultCount(period)
	}

	last := bucketStart(period, now)
	start := last
	for i := 1; i < count; i++ {
		switch period {
		case PeriodWeekly:
			start = start.AddDate(0, 0, -7)
		case PeriodMonthly:
			start = start.AddDate(0, -1, 0)
		default:
			start = start.AddDate(0, 0, -1)
		}
	}
	return period, start, nextBucket(period, last), nil
}

// buckets [start, end) aralığındaki tüm dilim başlangıçları.
func buckets(period string, start, end time.Time) []time.Time {
	var out []time.Time
	for b := start; b.Before(end); b = nextBucket(period, b) {
		out = append(out, b)
	}
	return out
}
