package service

import (
	"math"
	"sort"

	"stock-tracker/internal/entity"
	"stock-tracker/internal/tracker/dto"
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// computeReturns derives the absolute and percentage return. Both are nil
// until a purchase price and a last price exist; a zero purchase price
// cannot anchor a percentage.
func computeReturns(purchase, last *float64) (*float64, *float64) {
	if purchase == nil || last == nil || *purchase == 0 {
		return nil, nil
	}
	abs := round2(*last - *purchase)
	pct := round2((*last - *purchase) / *purchase * 100)
	return &abs, &pct
}

func mapStockRow(stock *entity.Stock) dto.StockRow {
	row := dto.StockRow{
		ID:            stock.ID,
		Ticker:        stock.Ticker,
		Name:          stock.Name,
		PurchaseDate:  stock.PurchaseDate.Format("2006-01-02"),
		PurchasePrice: stock.PurchasePrice,
		LastPrice:     stock.LastPrice,
		LastPriceAt:   stock.LastPriceAt,
	}
	if stock.Industry != nil {
		row.Industry = &stock.Industry.Name
	}
	row.ReturnAbs, row.ReturnPct = computeReturns(stock.PurchasePrice, stock.LastPrice)
	return row
}

// sortStockRows orders rows best return first, rows without a computable
// return last, ties broken by ticker.
func sortStockRows(rows []dto.StockRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		switch {
		case a.ReturnPct == nil && b.ReturnPct == nil:
			return a.Ticker < b.Ticker
		case a.ReturnPct == nil:
			return false
		case b.ReturnPct == nil:
			return true
		case *a.ReturnPct != *b.ReturnPct:
			return *a.ReturnPct > *b.ReturnPct
		default:
			return a.Ticker < b.Ticker
		}
	})
}

// sortIndustryRows orders rows best average first, rows without one last,
// ties broken by name.
func sortIndustryRows(rows []dto.IndustryRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		switch {
		case a.AvgReturnPct == nil && b.AvgReturnPct == nil:
			return a.Name < b.Name
		case a.AvgReturnPct == nil:
			return false
		case b.AvgReturnPct == nil:
			return true
		case *a.AvgReturnPct != *b.AvgReturnPct:
			return *a.AvgReturnPct > *b.AvgReturnPct
		default:
			return a.Name < b.Name
		}
	})
}

// aggregateIndustries computes the per-industry aggregates from stock rows.
// The average is an unweighted mean over members with a computable return.
func aggregateIndustries(industries []entity.Industry, stocks []entity.Stock) []dto.IndustryRow {
	type bucket struct {
		count  int
		priced int
		sum    float64
	}
	buckets := make(map[uint]*bucket, len(industries))
	for _, ind := range industries {
		buckets[ind.ID] = &bucket{}
	}

	for i := range stocks {
		stock := &stocks[i]
		if stock.IndustryID == nil {
			continue
		}
		b, ok := buckets[*stock.IndustryID]
		if !ok {
			continue
		}
		b.count++
		if _, pct := computeReturns(stock.PurchasePrice, stock.LastPrice); pct != nil {
			b.priced++
			b.sum += *pct
		}
	}

	rows := make([]dto.IndustryRow, 0, len(industries))
	for _, ind := range industries {
		b := buckets[ind.ID]
		row := dto.IndustryRow{
			ID:          ind.ID,
			Name:        ind.Name,
			StockCount:  b.count,
			PricedCount: b.priced,
		}
		if b.priced > 0 {
			avg := round2(b.sum / float64(b.priced))
			row.AvgReturnPct = &avg
		}
		rows = append(rows, row)
	}
	return rows
}
