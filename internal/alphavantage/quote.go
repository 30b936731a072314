package alphavantage

import (
	"context"
	"fmt"
	"time"

	"sitedata/internal/fetcher"
)

// Quote is the latest trading data for one symbol.
type Quote struct {
	Symbol            string
	Price             float64
	Change            float64
	ChangePct         float64
	LatestBusinessDay time.Time
}

// GlobalQuoteResponse represents the AlphaVantage API response for stock quotes
type GlobalQuoteResponse struct {
	GlobalQuote struct {
		Symbol           string `json:"01. symbol"`
		Open             string `json:"02. open"`
		High             string `json:"03. high"`
		Low              string `json:"04. low"`
		Price            string `json:"05. price"`
		Volume           string `json:"06. volume"`
		LatestTradingDay string `json:"07. latest trading day"`
		PreviousClose    string `json:"08. previous close"`
		Change           string `json:"09. change"`
		ChangePercent    string `json:"10. change percent"`
	} `json:"Global Quote"`
}

// Quote retrieves the current quote for symbol. An empty quote object is
// how AlphaVantage answers for a symbol it does not know.
func (c *Client) Quote(ctx context.Context, symbol string) (Quote, error) {
	var result GlobalQuoteResponse
	if err := c.get(ctx, "GLOBAL_QUOTE", symbol, &result); err != nil {
		return Quote{}, err
	}

	q, err := result.toQuote(symbol)
	if err != nil {
		c.logFailure("GLOBAL_QUOTE", symbol, err)
		return Quote{}, err
	}
	return q, nil
}

func (r GlobalQuoteResponse) toQuote(symbol string) (Quote, error) {
	g := r.GlobalQuote
	if g.Symbol == "" && g.Price == "" {
		return Quote{}, fetcher.NewMarketDataError(fmt.Sprintf("unknown symbol %s", symbol))
	}

	price, err := parseNumber("price", g.Price, false)
	if err != nil {
		return Quote{}, err
	}
	change, err := parseNumber("change", g.Change, true)
	if err != nil {
		return Quote{}, err
	}
	changePct, err := parseNumber("change percent", g.ChangePercent, true)
	if err != nil {
		return Quote{}, err
	}

	var day time.Time
	if g.LatestTradingDay != "" {
		day, err = time.Parse(time.DateOnly, g.LatestTradingDay)
		if err != nil {
			return Quote{}, fetcher.NewParseError(fmt.Sprintf("failed to parse latest trading day %q", g.LatestTradingDay), err)
		}
	}

	sym := g.Symbol
	if sym == "" {
		sym = symbol
	}

	return Quote{
		Symbol:            sym,
		Price:             price,
		Change:            change,
		ChangePct:         changePct,
		LatestBusinessDay: day,
	}, nil
}
