package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"golang-statarb/config"
	"golang-statarb/internal/dto"
	"golang-statarb/internal/series"
	"golang-statarb/pkg/cache"
	"golang-statarb/pkg/httpclient"
	"golang-statarb/pkg/logger"

	"golang.org/x/time/rate"
)

// PriceRepository loads daily close prices per ticker. The returned table is
// aligned on a shared date index: sorted ascending, gaps forward-filled up
// to the configured limit, rows with remaining holes dropped.
type PriceRepository interface {
	GetDailyPrices(ctx context.Context, param dto.GetPricesParam) (map[string]*series.Series, error)
}

// alphaVantageRepository fetches daily series from the Alpha Vantage API,
// preferring adjusted closes and falling back to the unadjusted daily
// endpoint when the adjusted one is unavailable for the plan.
type alphaVantageRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	cache          cache.Cache
	requestLimiter *rate.Limiter
}

func NewAlphaVantageRepository(cfg *config.Config, inmemoryCache cache.Cache, log *logger.Logger) (PriceRepository, error) {
	if cfg.AlphaVantage.APIKey == "" {
		return nil, fmt.Errorf("alpha vantage api key is not configured")
	}
	maxPerMin := cfg.AlphaVantage.MaxRequestPerMin
	if maxPerMin <= 0 {
		maxPerMin = 5 // free tier
	}
	secondsPerRequest := time.Minute / time.Duration(maxPerMin)

	return &alphaVantageRepository{
		httpClient:     httpclient.New(cfg.AlphaVantage.BaseURL, cfg.AlphaVantage.Timeout),
		cfg:            cfg,
		logger:         log,
		cache:          inmemoryCache,
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}, nil
}

func (r *alphaVantageRepository) GetDailyPrices(ctx context.Context, param dto.GetPricesParam) (map[string]*series.Series, error) {
	if len(param.Tickers) == 0 {
		return nil, fmt.Errorf("no tickers requested")
	}
	if !param.Start.Before(param.End) {
		return nil, fmt.Errorf("start %s must be before end %s", param.Start.Format("2006-01-02"), param.End.Format("2006-01-02"))
	}

	table := make(map[string]*series.Series, len(param.Tickers))
	var failed []string
	for _, ticker := range param.Tickers {
		full, err := r.getTicker(ctx, ticker)
		if err != nil {
			r.logger.WarnContext(ctx, "Failed to load ticker, excluding from universe",
				logger.StringField("ticker", ticker), logger.ErrorField(err))
			failed = append(failed, ticker)
			continue
		}
		windowed, err := full.Between(param.Start, param.End)
		if err != nil || windowed.Len() == 0 {
			failed = append(failed, ticker)
			continue
		}
		table[ticker] = windowed
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("no price data loaded for any of %d tickers", len(param.Tickers))
	}
	if len(failed) > 0 {
		r.logger.InfoContext(ctx, "Loaded partial universe",
			logger.IntField("loaded", len(table)),
			logger.Field("missing", failed))
	}

	return series.Clean(table, r.cfg.AlphaVantage.MaxForwardFill)
}

func (r *alphaVantageRepository) getTicker(ctx context.Context, ticker string) (*series.Series, error) {
	cacheKey := "prices:" + ticker
	if cached, ok := cache.GetTyped[*series.Series](r.cache, cacheKey); ok {
		return cached, nil
	}

	var s *series.Series
	var err error
	if r.cfg.AlphaVantage.UseAdjusted {
		s, err = r.fetchWithRetry(ctx, ticker, "TIME_SERIES_DAILY_ADJUSTED", true)
		if err != nil {
			r.logger.WarnContext(ctx, "Adjusted series unavailable, falling back to daily",
				logger.StringField("ticker", ticker), logger.ErrorField(err))
		}
	}
	if s == nil {
		s, err = r.fetchWithRetry(ctx, ticker, "TIME_SERIES_DAILY", false)
		if err != nil {
			return nil, err
		}
	}

	expiration := r.cfg.AlphaVantage.CacheExpiration
	if expiration == 0 {
		expiration = 12 * time.Hour
	}
	r.cache.Set(cacheKey, s, expiration)
	return s, nil
}

func (r *alphaVantageRepository) fetchWithRetry(ctx context.Context, ticker, function string, adjusted bool) (*series.Series, error) {
	retries := r.cfg.AlphaVantage.MaxRetries
	if retries <= 0 {
		retries = 2
	}
	var lastErr error
	for attempt := 1; attempt <= retries; attempt++ {
		s, err := r.fetch(ctx, ticker, function, adjusted)
		if err == nil {
			return s, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

func (r *alphaVantageRepository) fetch(ctx context.Context, ticker, function string, adjusted bool) (*series.Series, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	queryParams := map[string]string{
		"function":   function,
		"symbol":     ticker,
		"outputsize": "full",
		"apikey":     r.cfg.AlphaVantage.APIKey,
	}

	var avResp dto.AlphaVantageDailyResponse
	resp, err := r.httpClient.Get(ctx, "/query", queryParams, nil, &avResp)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s for %s: %w", function, ticker, err)
	}
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("alpha vantage returned status %d for %s", resp.StatusCode, ticker)
	}
	// The API reports errors and throttling inside a 200 body.
	if avResp.ErrorMessage != "" {
		return nil, fmt.Errorf("alpha vantage error for %s: %s", ticker, avResp.ErrorMessage)
	}
	if avResp.Note != "" {
		return nil, fmt.Errorf("alpha vantage throttled request for %s: %s", ticker, avResp.Note)
	}
	if avResp.Information != "" {
		return nil, fmt.Errorf("alpha vantage rejected request for %s: %s", ticker, avResp.Information)
	}
	if len(avResp.TimeSeries) == 0 {
		return nil, fmt.Errorf("no daily series returned for %s", ticker)
	}

	type point struct {
		date  time.Time
		value float64
	}
	points := make([]point, 0, len(avResp.TimeSeries))
	for dateStr, bar := range avResp.TimeSeries {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			continue
		}
		raw := bar.Close
		if adjusted && bar.AdjustedClose != "" {
			raw = bar.AdjustedClose
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || value <= 0 {
			continue
		}
		points = append(points, point{date: date, value: value})
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("no parsable closes for %s", ticker)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].date.Before(points[j].date) })

	dates := make([]time.Time, len(points))
	values := make([]float64, len(points))
	for i, pt := range points {
		dates[i] = pt.date
		values[i] = pt.value
	}
	return series.New(dates, values)
}
