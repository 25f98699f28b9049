package orders

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Sales report constants. The venue operates in Colombian pesos on a
// fixed -05:00 offset; day boundaries are computed there.
const (
	Currency    = "COP"
	dateLayout  = "2006-01-02"
	noBestTable = "Ninguna"
)

var salesZone = time.FixedZone("-05:00", -5*60*60)

type TableSales struct {
	Name  string  `json:"name"` // table display number
	Total float64 `json:"total"`
}

type SalesDetail struct {
	StartDate        time.Time  `json:"startDate"`
	EndDate          time.Time  `json:"endDate"`
	Count            int        `json:"count"`
	Total            float64    `json:"total"`
	AverageTicket    float64    `json:"averageTicket"`
	BestSellingTable TableSales `json:"bestSellingTable"`
	Currency         string     `json:"currency"`
}

// SalesDetail aggregates PAID orders created within the inclusive date
// range. Empty bounds default to today. Read-only: it never touches
// inventory or table state.
func (s *Service) SalesDetail(ctx context.Context, startDate, endDate string) (*SalesDetail, error) {
	now := time.Now().In(salesZone)

	start, err := parseDay(startDate, now)
	if err != nil {
		return nil, err
	}
	end, err := parseDay(endDate, now)
	if err != nil {
		return nil, err
	}

	if start.After(end) {
		return nil, ErrInvalidRange
	}
	today := dayOf(now)
	if end.After(today) {
		return nil, ErrFutureRange
	}

	// Full-day bounds: 00:00:00.000 through 23:59:59.999.
	from := start
	to := end.Add(24*time.Hour - time.Millisecond)

	sales, err := s.Store.SalesByRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}

	out := &SalesDetail{
		StartDate:        from,
		EndDate:          to,
		BestSellingTable: TableSales{Name: noBestTable, Total: 0},
		Currency:         Currency,
	}
	byTable := map[string]float64{}
	for _, rec := range sales {
		out.Count++
		out.Total += rec.Total
		byTable[rec.TableNumber] += rec.Total
	}
	if out.Count > 0 {
		out.AverageTicket = round2(out.Total / float64(out.Count))
	}
	for name, total := range byTable {
		if total > out.BestSellingTable.Total {
			out.BestSellingTable = TableSales{Name: name, Total: total}
		}
	}
	return out, nil
}

// parseDay interprets an optional YYYY-MM-DD value as midnight in the
// sales zone, falling back to today.
func parseDay(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return dayOf(now), nil
	}
	t, err := time.ParseInLocation(dateLayout, s, salesZone)
	if err != nil {
		return time.Time{}, &ValidationError{Msg: fmt.Sprintf("invalid date %q, want YYYY-MM-DD", s)}
	}
	return t, nil
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, salesZone)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
