package dto

import "time"

// GetPricesParam asks the price repository for daily closes per ticker over
// a date range.
type GetPricesParam struct {
	Tickers []string
	Start   time.Time
	End     time.Time
}

// AlphaVantageDailyResponse covers both TIME_SERIES_DAILY_ADJUSTED and
// TIME_SERIES_DAILY payloads; the bar fields differ only in the adjusted
// close column. Note and Information carry rate-limit/plan messages that
// arrive with HTTP 200.
type AlphaVantageDailyResponse struct {
	MetaData     map[string]string          `json:"Meta Data"`
	TimeSeries   map[string]AlphaVantageBar `json:"Time Series (Daily)"`
	ErrorMessage string                     `json:"Error Message"`
	Note         string                     `json:"Note"`
	Information  string                     `json:"Information"`
}

type AlphaVantageBar struct {
	Open          string `json:"1. open"`
	High          string `json:"2. high"`
	Low           string `json:"3. low"`
	Close         string `json:"4. close"`
	AdjustedClose string `json:"5. adjusted close"`
}
