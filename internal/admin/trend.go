package admin

import (
	"fmt"
	"time"

	"github.com/Mongkol7/E-Bookstore/internal/upstream"
	"github.com/shopspring/decimal"
)

// Period selects the dashboard reporting window.
type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

func ParsePeriod(raw string) Period {
	switch Period(raw) {
	case PeriodToday, PeriodWeek, PeriodMonth:
		return Period(raw)
	default:
		return PeriodYear
	}
}

// periodStart returns midnight at the start of the window: today,
// Monday of this week, the 1st of the month, or Jan 1.
func periodStart(period Period, now time.Time) time.Time {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch period {
	case PeriodWeek:
		shift := (int(start.Weekday()) + 6) % 7
		return start.AddDate(0, 0, -shift)
	case PeriodMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	case PeriodYear:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	default:
		return start
	}
}

var orderDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseOrderDate(raw string) (time.Time, bool) {
	for _, layout := range orderDateLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// TrendBucket is one bar of the revenue/order trend chart. Heights are
// normalized 0-100 against the tallest bucket in the series.
type TrendBucket struct {
	Label         string          `json:"label"`
	Start         time.Time       `json:"start"`
	End           time.Time       `json:"end"`
	Revenue       decimal.Decimal `json:"revenue"`
	Orders        int             `json:"orders"`
	RevenueHeight float64         `json:"revenueHeight"`
	OrderHeight   float64         `json:"orderHeight"`
}

func emptyBuckets(period Period, now time.Time) []TrendBucket {
	start := periodStart(period, now)
	var buckets []TrendBucket

	switch period {
	case PeriodToday:
		for i := 0; i < 8; i++ {
			bs := start.Add(time.Duration(i) * 3 * time.Hour)
			buckets = append(buckets, TrendBucket{
				Label: bs.Format("15:00"),
				Start: bs,
				End:   bs.Add(3 * time.Hour),
			})
		}
	case PeriodWeek:
		for i := 0; i < 7; i++ {
			bs := start.AddDate(0, 0, i)
			buckets = append(buckets, TrendBucket{
				Label: bs.Format("Mon"),
				Start: bs,
				End:   bs.AddDate(0, 0, 1),
			})
		}
	case PeriodMonth:
		daysInMonth := time.Date(start.Year(), start.Month()+1, 0, 0, 0, 0, 0, start.Location()).Day()
		for day := 1; day <= daysInMonth; day += 7 {
			endDay := day + 6
			if endDay > daysInMonth {
				endDay = daysInMonth
			}
			bs := time.Date(start.Year(), start.Month(), day, 0, 0, 0, 0, start.Location())
			buckets = append(buckets, TrendBucket{
				Label: fmt.Sprintf("%d-%d", day, endDay),
				Start: bs,
				End:   time.Date(start.Year(), start.Month(), endDay+1, 0, 0, 0, 0, start.Location()),
			})
		}
	default:
		for i := 0; i < 12; i++ {
			bs := time.Date(start.Year(), time.Month(i+1), 1, 0, 0, 0, 0, start.Location())
			buckets = append(buckets, TrendBucket{
				Label: bs.Format("Jan"),
				Start: bs,
				End:   bs.AddDate(0, 1, 0),
			})
		}
	}
	return buckets
}

// BuildTrendSeries distributes orders into the period's buckets and
// normalizes bar heights against the busiest bucket.
func BuildTrendSeries(list []upstream.Order, period Period, now time.Time) []TrendBucket {
	buckets := emptyBuckets(period, now)

	for _, order := range list {
		ts, ok := parseOrderDate(order.OrderDate)
		if !ok {
			continue
		}
		for i := range buckets {
			if !ts.Before(buckets[i].Start) && ts.Before(buckets[i].End) {
				buckets[i].Orders++
				buckets[i].Revenue = buckets[i].Revenue.Add(order.Total)
				break
			}
		}
	}

	maxRevenue := decimal.NewFromInt(1)
	maxOrders := 1
	for _, b := range buckets {
		if b.Revenue.GreaterThan(maxRevenue) {
			maxRevenue = b.Revenue
		}
		if b.Orders > maxOrders {
			maxOrders = b.Orders
		}
	}

	for i := range buckets {
		if buckets[i].Revenue.IsPositive() {
			ratio, _ := buckets[i].Revenue.Div(maxRevenue).Float64()
			buckets[i].RevenueHeight = ratio * 100
		}
		if buckets[i].Orders > 0 {
			buckets[i].OrderHeight = float64(buckets[i].Orders) / float64(maxOrders) * 100
		}
	}
	return buckets
}
