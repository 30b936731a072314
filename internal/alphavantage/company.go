package alphavantage

import (
	"context"
	"fmt"

	"sitedata/internal/fetcher"
)

// Company is the fundamentals profile of one listed company.
type Company struct {
	Name      string
	Exchange  string
	Sector    string
	Industry  string
	MarketCap float64
	// DividendYield is a percentage: 0.44 means 0.44%.
	DividendYield float64
	EPS           float64
	High52Weeks   float64
	Low52Weeks    float64
}

// OverviewResponse represents the AlphaVantage API response for company overviews
type OverviewResponse struct {
	Symbol               string `json:"Symbol"`
	Name                 string `json:"Name"`
	Exchange             string `json:"Exchange"`
	Sector               string `json:"Sector"`
	Industry             string `json:"Industry"`
	MarketCapitalization string `json:"MarketCapitalization"`
	DividendYield        string `json:"DividendYield"`
	EPS                  string `json:"EPS"`
	High52Week           string `json:"52WeekHigh"`
	Low52Week            string `json:"52WeekLow"`
}

// Company retrieves the company overview for symbol. AlphaVantage answers
// an unknown symbol with an empty object.
func (c *Client) Company(ctx context.Context, symbol string) (Company, error) {
	var result OverviewResponse
	if err := c.get(ctx, "OVERVIEW", symbol, &result); err != nil {
		return Company{}, err
	}

	co, err := result.toCompany(symbol)
	if err != nil {
		c.logFailure("OVERVIEW", symbol, err)
		return Company{}, err
	}
	return co, nil
}

func (r OverviewResponse) toCompany(symbol string) (Company, error) {
	if r.Symbol == "" && r.Name == "" {
		return Company{}, fetcher.NewMarketDataError(fmt.Sprintf("unknown symbol %s", symbol))
	}

	marketCap, err := parseNumber("market capitalization", r.MarketCapitalization, false)
	if err != nil {
		return Company{}, err
	}
	dividendYield, err := parseNumber("dividend yield", r.DividendYield, true)
	if err != nil {
		return Company{}, err
	}
	eps, err := parseNumber("EPS", r.EPS, true)
	if err != nil {
		return Company{}, err
	}
	high, err := parseNumber("52 week high", r.High52Week, true)
	if err != nil {
		return Company{}, err
	}
	low, err := parseNumber("52 week low", r.Low52Week, true)
	if err != nil {
		return Company{}, err
	}

	return Company{
		Name:          r.Name,
		Exchange:      r.Exchange,
		Sector:        r.Sector,
		Industry:      r.Industry,
		MarketCap:     marketCap,
		DividendYield: dividendYield * 100,
		EPS:           eps,
		High52Weeks:   high,
		Low52Weeks:    low,
	}, nil
}
