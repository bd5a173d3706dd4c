package binance

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/adshao/go-binance/v2/futures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type window struct {
	start, end int64
}

type fakeGetter struct {
	calls []window
	err   error
}

func (f *fakeGetter) GetKlines(_ context.Context, _, _ string, startTime, endTime int64) ([]*futures.Kline, error) {
	f.calls = append(f.calls, window{startTime, endTime})
	if f.err != nil {
		return nil, f.err
	}
	return []*futures.Kline{{OpenTime: startTime}}, nil
}

func TestPageKlinesSplitsRange(t *testing.T) {
	start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1200)
	getter := &fakeGetter{}

	klines, err := PageKlines(context.Background(), getter, "BTCUSDT", IntervalDaily, 24*time.Hour, start, end)
	require.NoError(t, err)

	require.Len(t, getter.calls, 3)
	assert.Len(t, klines, 3)
	assert.Equal(t, start.UnixMilli(), getter.calls[0].start)
	assert.Equal(t, end.UnixMilli(), getter.calls[2].end)
	for i := 1; i < len(getter.calls); i++ {
		assert.Equal(t, getter.calls[i-1].end+1, getter.calls[i].start)
	}
}

func TestPageKlinesStopsOnError(t *testing.T) {
	start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	getter := &fakeGetter{err: errors.New("down")}

	_, err := PageKlines(context.Background(), getter, "BTCUSDT", IntervalDaily, 24*time.Hour, start, start.AddDate(0, 0, 900))
	assert.Error(t, err)
	assert.Len(t, getter.calls, 1)
}

const klineBody = `[
  [1704067200000,"42000.0","43000.0","41000.0","42500.5","1234.5",1704153599999,"0",100,"0","0","0"],
  [1704153600000,"42500.5","44000.0","42000.0","43800.0","2345.5",1704239999999,"0",120,"0","0","0"]
]`

func TestGetKlinesRetries(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"code":-1000,"msg":"temporary"}`))
			return
		}
		assert.Equal(t, "/fapi/v1/klines", r.URL.Path)
		assert.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))
		assert.Equal(t, IntervalDaily, r.URL.Query().Get("interval"))
		_, _ = w.Write([]byte(klineBody))
	}))
	defer server.Close()

	c := NewBinanceClient("", "").WithBaseURL(server.URL)
	c.backoff = time.Millisecond

	klines, err := c.GetKlines(context.Background(), "BTCUSDT", IntervalDaily, 1704067200000, 1704239999999)
	require.NoError(t, err)
	require.Len(t, klines, 2)
	assert.Equal(t, "42500.5", klines[0].Close)
	assert.Equal(t, int64(1704153600000), klines[1].OpenTime)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestGetKlinesGivesUp(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
	}))
	defer server.Close()

	c := NewBinanceClient("", "").WithBaseURL(server.URL)
	c.backoff = time.Millisecond

	_, err := c.GetKlines(context.Background(), "NOPE", IntervalDaily, 0, 1)
	assert.Error(t, err)
	assert.Equal(t, int32(c.maxRetries+1), atomic.LoadInt32(&hits))
}
