package derive

import (
	"fmt"

	"sitedata/internal/alphavantage"
	"sitedata/internal/subscription"
)

// StockCardData is the display form of a quote and its company overview.
// Either every field is derived from resolved data or every field except
// Symbol holds its zero value.
type StockCardData struct {
	Symbol            string
	Name              string
	Exchange          string
	LatestBusinessDay string
	Price             float64
	Change            float64
	ChangePct         float64
	Column1           ValuationColumn
	Column2           ProfileColumn
}

// ValuationColumn is the first detail column of a stock card.
type ValuationColumn struct {
	MarketCap     string
	Week52Range   string
	DividendYield string
}

// ProfileColumn is the second detail column of a stock card.
type ProfileColumn struct {
	Sector   string
	Industry string
	EPS      string
}

// Row is a labelled value of a card column.
type Row struct {
	Label string
	Value string
}

// Rows returns the labelled rows of c in display order.
func (c ValuationColumn) Rows() []Row {
	return []Row{
		{"Market Cap", c.MarketCap},
		{"52 Week Range", c.Week52Range},
		{"Dividend Yield", c.DividendYield},
	}
}

// Rows returns the labelled rows of c in display order.
func (c ProfileColumn) Rows() []Row {
	return []Row{
		{"Sector", c.Sector},
		{"Industry", c.Industry},
		{"EPS (TTM)", c.EPS},
	}
}

// IsEmpty reports whether the card holds no derived fields.
func (d StockCardData) IsEmpty() bool {
	return d == StockCardData{Symbol: d.Symbol}
}

// AssembleStockCard combines the quote and company observations of symbol.
// Unless both have resolved with data and without error, the card is empty
// apart from its symbol.
func AssembleStockCard(
	symbol string,
	quote subscription.Observation[alphavantage.Quote],
	company subscription.Observation[alphavantage.Company],
) StockCardData {
	if !quote.Resolved() || !company.Resolved() {
		return StockCardData{Symbol: symbol}
	}

	q, c := quote.Data, company.Data
	return StockCardData{
		Symbol:            symbol,
		Name:              c.Name,
		Exchange:          c.Exchange,
		LatestBusinessDay: shortDate(q.LatestBusinessDay),
		Price:             q.Price,
		Change:            q.Change,
		ChangePct:         q.ChangePct,
		Column1: ValuationColumn{
			MarketCap:     FormatMarketCap(c.MarketCap),
			Week52Range:   formatNumber(c.Low52Weeks) + " - " + formatNumber(c.High52Weeks),
			DividendYield: fmt.Sprintf("%.2f%%", c.DividendYield),
		},
		Column2: ProfileColumn{
			Sector:   titleCase(c.Sector),
			Industry: titleCase(c.Industry),
			EPS:      formatNumber(c.EPS),
		},
	}
}
