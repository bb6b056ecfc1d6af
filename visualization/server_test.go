package visualization

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"wagescraper/internal/utils"
	"wagescraper/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	calls atomic.Int32
	err   error
	block chan struct{}
}

func (s *stubSource) GetWageTable(ctx context.Context) (*models.Snapshot, error) {
	n := s.calls.Add(1)
	if s.block != nil {
		<-s.block
	}
	if s.err != nil {
		return nil, s.err
	}
	return &models.Snapshot{
		Source:    "https://example.test/minimum-wages",
		FetchedAt: time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC).Add(time.Duration(n) * time.Minute),
		Table: models.NewWageTable([]models.WageRecord{
			{Country: "Portugal", OldWage: 820, NewWage: 870, Currency: "EUR/Month", Period: "Jan/25"},
			{Country: "United Kingdom", OldWage: 11.44, NewWage: 12.21, Currency: "GBP/Hour", Period: "Apr/24"},
		}),
		Rejected: []models.RejectedRow{{Row: 3, Cells: 3, Reason: "too few cells"}},
	}, nil
}

func newTestServer(t *testing.T, source Source, mutate func(*utils.Config)) *httptest.Server {
	t.Helper()
	config := utils.DefaultConfig()
	if mutate != nil {
		mutate(config)
	}
	logger := utils.NewWriterLogger(io.Discard, utils.LevelError)
	s, err := NewServer(logger, config, source, nil)
	require.NoError(t, err)

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestIndex(t *testing.T) {
	ts := newTestServer(t, &stubSource{}, nil)

	resp, body := get(t, ts.URL+"/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	html := string(body)
	assert.Contains(t, html, "Salário Mínimo por País")
	assert.Contains(t, html, "<td>Portugal</td>")
	assert.Contains(t, html, "12.21")
	assert.Contains(t, html, "/chart/general.png")
	assert.Contains(t, html, "/export/salarios.csv")
	assert.Contains(t, html, "1 linha(s) ignorada(s)")
	assert.Contains(t, html, "unidades diferentes")
	assert.Contains(t, html, "<td>GBP/Hour</td>")
	assert.NotContains(t, html, "/export/salarios.pdf")
	assert.NotContains(t, html, "/chart/country.png")
}

func TestIndex_CountryFound(t *testing.T) {
	ts := newTestServer(t, &stubSource{}, nil)

	_, body := get(t, ts.URL+"/?country=united+kingdom")
	html := string(body)
	assert.Contains(t, html, "/chart/country.png?country=United%20Kingdom")
	assert.NotContains(t, html, "País não encontrado.")
}

func TestIndex_CountryNotFound(t *testing.T) {
	ts := newTestServer(t, &stubSource{}, nil)

	resp, body := get(t, ts.URL+"/?country=Germany")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "País não encontrado.")
	assert.NotContains(t, string(body), "/chart/country.png")
}

func TestIndex_PipelineFailure(t *testing.T) {
	ts := newTestServer(t, &stubSource{err: errors.New("scraper: upstream returned 503")}, nil)

	resp, body := get(t, ts.URL+"/")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, string(body), "upstream returned 503")
}

func TestGeneralChart(t *testing.T) {
	ts := newTestServer(t, &stubSource{}, nil)

	resp, body := get(t, ts.URL+"/chart/general.png")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Empty(t, resp.Header.Get("Content-Disposition"))
	_, err := png.Decode(bytes.NewReader(body))
	require.NoError(t, err)

	resp, _ = get(t, ts.URL+"/chart/general.png?download=1")
	assert.Equal(t, "attachment; filename=grafico_geral.png", resp.Header.Get("Content-Disposition"))
}

func TestCountryChart(t *testing.T) {
	ts := newTestServer(t, &stubSource{}, nil)

	resp, body := get(t, ts.URL+"/chart/country.png?country=PORTUGAL&download=1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "attachment; filename=grafico_Portugal.png", resp.Header.Get("Content-Disposition"))
	_, err := png.Decode(bytes.NewReader(body))
	require.NoError(t, err)

	resp, body = get(t, ts.URL+"/chart/country.png?country=Germany")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "País não encontrado.")
}

func TestExports(t *testing.T) {
	ts := newTestServer(t, &stubSource{}, nil)

	resp, body := get(t, ts.URL+"/export/salarios.csv")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Equal(t, "attachment; filename=salarios.csv", resp.Header.Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(string(body), "País,Salário Antigo,Salário Atual,Moeda,Período\n"))
	assert.Contains(t, string(body), "Portugal,820,870,EUR/Month,Jan/25")

	resp, body = get(t, ts.URL+"/export/salarios.xlsx")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "attachment; filename=salarios.xlsx", resp.Header.Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(body, []byte("PK")))
}

func TestPDF_Disabled(t *testing.T) {
	ts := newTestServer(t, &stubSource{}, func(c *utils.Config) {
		c.Export.PDF.Enabled = true
	})

	// No renderer was supplied, so the route stays off even when enabled.
	resp, _ := get(t, ts.URL+"/export/salarios.pdf")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	source := &stubSource{}
	ts := newTestServer(t, source, nil)

	resp, body := get(t, ts.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
	assert.Zero(t, source.calls.Load())
}

func TestRefresh_PurgesCache(t *testing.T) {
	source := &stubSource{}
	ts := newTestServer(t, source, nil)

	get(t, ts.URL+"/")
	get(t, ts.URL+"/export/salarios.csv")
	assert.Equal(t, int32(1), source.calls.Load())

	resp, err := http.Post(ts.URL+"/refresh", "text/plain", nil)
	require.NoError(t, err)
	resp.Body.Close()
	// The redirect to / runs the pipeline again.
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(2), source.calls.Load())
}

func TestCache_ZeroTTL(t *testing.T) {
	source := &stubSource{}
	ts := newTestServer(t, source, func(c *utils.Config) {
		c.Cache.TTL = 0
	})

	get(t, ts.URL+"/")
	get(t, ts.URL+"/")
	assert.Equal(t, int32(2), source.calls.Load())
}

func TestCache_ErrorsNotCached(t *testing.T) {
	source := &stubSource{err: errors.New("boom")}
	c := newSnapshotCache(source, time.Minute)

	_, err := c.Get(context.Background())
	require.Error(t, err)

	source.err = nil
	snap, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Table.Len())
	assert.Equal(t, int32(2), source.calls.Load())
}

func TestCache_CallerCanceled(t *testing.T) {
	source := &stubSource{block: make(chan struct{})}
	c := newSnapshotCache(source, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Get(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	// The shared run completes for the next caller.
	close(source.block)
	snap, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Portugal", snap.Table.Records[0].Country)
}

func TestCache_ConcurrentMissesShareOneRun(t *testing.T) {
	for _, ttl := range []time.Duration{0, time.Minute} {
		t.Run(ttl.String(), func(t *testing.T) {
			source := &stubSource{block: make(chan struct{})}
			c := newSnapshotCache(source, ttl)

			const callers = 20
			var started, done sync.WaitGroup
			started.Add(callers)
			done.Add(callers)
			snaps := make([]*models.Snapshot, callers)
			errs := make([]error, callers)
			for i := 0; i < callers; i++ {
				go func(i int) {
					defer done.Done()
					started.Done()
					snaps[i], errs[i] = c.Get(context.Background())
				}(i)
			}
			started.Wait()
			require.Eventually(t, func() bool { return source.calls.Load() == 1 }, time.Second, time.Millisecond)
			// Let the remaining callers reach the in-flight run.
			time.Sleep(50 * time.Millisecond)
			close(source.block)
			done.Wait()

			assert.Equal(t, int32(1), source.calls.Load())
			for i := range snaps {
				require.NoError(t, errs[i])
				assert.Same(t, snaps[0], snaps[i])
			}
		})
	}
}

func TestCache_PurgeDuringRunDropsStaleResult(t *testing.T) {
	source := &stubSource{block: make(chan struct{})}
	c := newSnapshotCache(source, time.Minute)

	stale := make(chan *models.Snapshot, 1)
	go func() {
		snap, _ := c.Get(context.Background())
		stale <- snap
	}()
	require.Eventually(t, func() bool { return source.calls.Load() == 1 }, time.Second, time.Millisecond)

	c.Purge()

	// A Get after the purge starts its own run instead of joining the old one.
	fresh := make(chan *models.Snapshot, 1)
	go func() {
		snap, _ := c.Get(context.Background())
		fresh <- snap
	}()
	require.Eventually(t, func() bool { return source.calls.Load() == 2 }, time.Second, time.Millisecond)

	close(source.block)
	staleSnap := <-stale
	freshSnap := <-fresh
	require.NotNil(t, staleSnap)
	require.NotNil(t, freshSnap)
	assert.NotEqual(t, staleSnap.FetchedAt, freshSnap.FetchedAt)

	cached, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.Same(t, freshSnap, cached)
	assert.Equal(t, int32(2), source.calls.Load())
}
