package page

import (
	"context"
	"fmt"

	"sitedata/internal/alphavantage"
	"sitedata/internal/derive"
	"sitedata/internal/subscription"
)

// ClassProfile describes the course a holding was picked in.
type ClassProfile struct {
	Heading     string
	DateString  string
	Description string
}

// Holding is a stock bought for a finance course project.
type Holding struct {
	Segment       string
	Symbol        string
	PurchasePrice float64
	Class         ClassProfile
}

// Holdings are the finance project pages, keyed by URL segment.
var Holdings = []Holding{
	{
		Segment:       "advanced-investments",
		Symbol:        "RBLX",
		PurchasePrice: 108.06,
		Class: ClassProfile{
			Heading:    "[BUAD 427] Advanced Investments",
			DateString: "Fall 2021",
			Description: "This course focuses on advanced topics relating to equity and fixed-income investments. " +
				"It covers various sophisticated debt instruments such as corporate and treasury bonds, " +
				"mortgage-backed securities (MBS), commercial mortage-backed securities (CMBS), agency MBS, " +
				"asset-backed securities (ABS), STRIPS, and floating rate notes (FRN). Other financial instruments " +
				"covered include Eurodollar futures, credit spreads, mortgage loans, mortgage pass-through securities, " +
				"and interest rate swaps.",
		},
	},
	{
		Segment:       "hess",
		Symbol:        "HES",
		PurchasePrice: 107.63,
		Class: ClassProfile{
			Heading:    "[BUAD 421] Student Managed Investment Fund",
			DateString: "Spring 2022",
			Description: "This course provides a hands-on experience with portfolio management and security analysis " +
				"through the management of the Mason School Student Managed Investment Fund (SMIF). Students must " +
				"select companies from an S&P stock universe, do research on their business model and competitive " +
				"environment, make forecasts of future financial performance and conduct valuation analyses, write an " +
				"investment report, and present an oral recommendation to colleagues and faculty for inclusion in a " +
				"real endowment portfolio of common stocks.",
		},
	},
	{
		Segment:       "murphy-usa",
		Symbol:        "MUSA",
		PurchasePrice: 139.4,
		Class: ClassProfile{
			Heading:    "[BUAD 329] Corporate Valuation and Credit Analysis",
			DateString: "Spring 2021",
			Description: "This course focuses on common methodologies for valuing corporate entities used by " +
				"professionals working in investments, private equity, venture capital and investment banking. It aims " +
				"to familiarize students with various data sources and software used in the financial industry.",
		},
	},
}

// HoldingFor returns the holding shown at segment. Unknown segments get an
// empty holding, whose blank symbol issues no market data requests.
func HoldingFor(segment string) (Holding, bool) {
	for _, h := range Holdings {
		if h.Segment == segment {
			return h, true
		}
	}
	return Holding{Segment: segment}, false
}

// FinancePage shows a holding with its live stock card.
type FinancePage struct {
	holding   Holding
	quotes    *subscription.Store[alphavantage.Quote]
	companies *subscription.Store[alphavantage.Company]
}

// NewFinancePage creates the page of h. The stores are shared by every
// finance page so a symbol is only requested once.
func NewFinancePage(
	h Holding,
	quotes *subscription.Store[alphavantage.Quote],
	companies *subscription.Store[alphavantage.Company],
) *FinancePage {
	return &FinancePage{holding: h, quotes: quotes, companies: companies}
}

// Name implements Page.
func (p *FinancePage) Name() string { return "finance/" + p.holding.Segment }

// Load implements Page. It observes the quote and company of the holding's
// symbol until neither is loading or ctx is done.
func (p *FinancePage) Load(ctx context.Context) View {
	changed := make(chan struct{}, 1)
	notify := func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}

	symbol := p.holding.Symbol
	quote := p.quotes.Subscribe(symbol, func(subscription.Observation[alphavantage.Quote]) { notify() })
	defer quote.Unsubscribe()
	company := p.companies.Subscribe(symbol, func(subscription.Observation[alphavantage.Company]) { notify() })
	defer company.Unsubscribe()

wait:
	for quote.Current().IsLoading || company.Current().IsLoading {
		select {
		case <-changed:
		case <-ctx.Done():
			break wait
		}
	}

	card := derive.AssembleStockCard(symbol, quote.Current(), company.Current())
	return View{
		Title:    p.holding.Class.Heading,
		Sections: []Section{classSection(p.holding.Class), p.cardSection(card)},
	}
}

func classSection(c ClassProfile) Section {
	return Section{
		Heading: c.DateString,
		Lines:   []string{c.Description},
	}
}

func (p *FinancePage) cardSection(card derive.StockCardData) Section {
	heading := "Stock " + card.Symbol
	if card.IsEmpty() {
		return fallbackSection(heading)
	}

	s := Section{
		Heading: heading,
		Lines: []string{
			fmt.Sprintf("%s (%s)", card.Name, card.Exchange),
			fmt.Sprintf("$%.2f %+.2f (%+.2f%%) as of %s", card.Price, card.Change, card.ChangePct, card.LatestBusinessDay),
		},
	}
	if p.holding.PurchasePrice > 0 {
		s.Lines = append(s.Lines, fmt.Sprintf("Purchased at $%.2f, %+.2f%% since purchase",
			p.holding.PurchasePrice, derive.PurchaseReturn(card.Price, p.holding.PurchasePrice)))
	}
	for _, rows := range [][]derive.Row{card.Column1.Rows(), card.Column2.Rows()} {
		for _, r := range rows {
			s.Lines = append(s.Lines, fmt.Sprintf("%s: %s", r.Label, r.Value))
		}
	}
	return s
}
