package binance

import (
	"context"
	"math"
	"net/http"
	"time"

	"github.com/adshao/go-binance/v2/futures"
	"golang.org/x/time/rate"
)

const (
	IntervalDaily = "1d"
	MaxKlines     = 500 // per request
)

type BinanceClient struct {
	client      *futures.Client
	rateLimiter *rate.Limiter
	httpClient  *http.Client
	maxRetries  int
	backoff     time.Duration
}

func NewBinanceClient(apiKey, secretKey string) *BinanceClient {
	// Create custom HTTP client with timeouts
	httpClient := &http.Client{
		Timeout: time.Second * 10,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	futuresClient := futures.NewClient(apiKey, secretKey)
	futuresClient.HTTPClient = httpClient

	// 10 requests per second with burst of 20
	limiter := rate.NewLimiter(rate.Limit(10), 20)

	return &BinanceClient{
		client:      futuresClient,
		rateLimiter: limiter,
		httpClient:  httpClient,
		maxRetries:  3,
		backoff:     100 * time.Millisecond,
	}
}

// WithBaseURL points the client at another endpoint (testnet or a stub server)
func (c *BinanceClient) WithBaseURL(url string) *BinanceClient {
	c.client.BaseURL = url
	return c
}

func (c *BinanceClient) GetKlines(ctx context.Context, symbol, interval string, startTime, endTime int64) ([]*futures.Kline, error) {
	var klines []*futures.Kline

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		err := c.rateLimiter.Wait(ctx)
		if err != nil {
			return nil, err
		}

		klines, err = c.client.NewKlinesService().
			Symbol(symbol).
			Interval(interval).
			StartTime(startTime).
			EndTime(endTime).
			Limit(MaxKlines).
			Do(ctx)

		if err == nil {
			return klines, nil
		}

		if attempt == c.maxRetries {
			return nil, err
		}

		// Exponential backoff
		waitTime := time.Duration(math.Pow(2, float64(attempt))) * c.backoff

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(waitTime):
			continue
		}
	}

	return klines, nil
}

// GetDailyKlines pages daily candles over [start, end] in MaxKlines chunks
func (c *BinanceClient) GetDailyKlines(ctx context.Context, symbol string, start, end time.Time) ([]*futures.Kline, error) {
	return PageKlines(ctx, c, symbol, IntervalDaily, 24*time.Hour, start, end)
}

// KlineGetter is the single-request call PageKlines builds on
type KlineGetter interface {
	GetKlines(ctx context.Context, symbol, interval string, startTime, endTime int64) ([]*futures.Kline, error)
}

// PageKlines splits [start, end] into windows of MaxKlines candles of the
// given length and concatenates the answers in order
func PageKlines(ctx context.Context, getter KlineGetter, symbol, interval string, candle time.Duration, start, end time.Time) ([]*futures.Kline, error) {
	startMs := start.UnixMilli()
	endMs := end.UnixMilli()
	chunk := candle.Milliseconds() * MaxKlines

	var allKlines []*futures.Kline
	for currentStart := startMs; currentStart <= endMs; {
		currentEnd := currentStart + chunk - 1
		if currentEnd > endMs {
			currentEnd = endMs
		}

		klines, err := getter.GetKlines(ctx, symbol, interval, currentStart, currentEnd)
		if err != nil {
			return nil, err
		}

		allKlines = append(allKlines, klines...)
		currentStart = currentEnd + 1
	}

	return allKlines, nil
}
