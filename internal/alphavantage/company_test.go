package alphavantage

import (
	"context"
	"net/http"
	"testing"

	"sitedata/internal/fetcher"
)

const appleOverview = `{
	"Symbol": "AAPL",
	"Name": "Apple Inc",
	"Exchange": "NASDAQ",
	"Sector": "TECHNOLOGY",
	"Industry": "ELECTRONIC COMPUTERS",
	"MarketCapitalization": "2780000000000",
	"DividendYield": "0.0054",
	"EPS": "6.13",
	"52WeekHigh": "199.62",
	"52WeekLow": "164.08"
}`

func TestCompany_Success(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("function"); got != "OVERVIEW" {
			t.Errorf("function = %q, want OVERVIEW", got)
		}
		jsonHandler(appleOverview)(w, r)
	})

	company, err := client.Company(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Company() returned unexpected error: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"Name", company.Name, "Apple Inc"},
		{"Exchange", company.Exchange, "NASDAQ"},
		{"Sector", company.Sector, "TECHNOLOGY"},
		{"Industry", company.Industry, "ELECTRONIC COMPUTERS"},
		{"MarketCap", company.MarketCap, 2.78e12},
		{"EPS", company.EPS, 6.13},
		{"High52Weeks", company.High52Weeks, 199.62},
		{"Low52Weeks", company.Low52Weeks, 164.08},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}

	if diff := company.DividendYield - 0.54; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("DividendYield = %v, want 0.54", company.DividendYield)
	}
}

func TestCompany_NoDividend(t *testing.T) {
	client := newTestServer(t, jsonHandler(`{
		"Symbol": "RBLX", "Name": "Roblox Corp", "Exchange": "NYSE",
		"MarketCapitalization": "25000000000", "DividendYield": "None", "EPS": "-1.87",
		"52WeekHigh": "47.7", "52WeekLow": "24.88"
	}`))

	company, err := client.Company(context.Background(), "RBLX")
	if err != nil {
		t.Fatalf("Company() returned unexpected error: %v", err)
	}
	if company.DividendYield != 0 {
		t.Errorf("DividendYield = %v, want 0", company.DividendYield)
	}
	if company.EPS != -1.87 {
		t.Errorf("EPS = %v, want -1.87", company.EPS)
	}
}

func TestCompany_Failures(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantType fetcher.ErrorType
	}{
		{"unknown symbol", `{}`, fetcher.ErrorTypeMarketData},
		{"premium endpoint", `{"Information": "This is a premium endpoint."}`, fetcher.ErrorTypeMarketData},
		{"missing market cap", `{"Symbol": "AAPL", "Name": "Apple Inc", "MarketCapitalization": "None"}`, fetcher.ErrorTypeParse},
		{"bad eps", `{"Symbol": "AAPL", "Name": "Apple Inc", "MarketCapitalization": "1", "EPS": "six"}`, fetcher.ErrorTypeParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestServer(t, jsonHandler(tt.body))

			_, err := client.Company(context.Background(), "AAPL")
			if !fetcher.IsType(err, tt.wantType) {
				t.Errorf("Company() error = %v, want type %s", err, tt.wantType)
			}
		})
	}
}
