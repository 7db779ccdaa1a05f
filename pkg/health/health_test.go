package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusBody struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func probeEndpoint(t *testing.T, endpoint http.HandlerFunc) (int, statusBody) {
	t.Helper()

	w := httptest.NewRecorder()
	endpoint(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body statusBody
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return w.Code, body
}

// runFor starts h and waits until every probe ran at least once.
func runFor(t *testing.T, h *Health) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = h.Run(ctx, 10*time.Millisecond)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	require.Eventually(t, func() bool {
		for _, p := range append(h.snapshot(true), h.snapshot(false)...) {
			if p.lastErr.Load() == nil {
				return false
			}
		}
		return true
	}, time.Second, 5*time.Millisecond)
}

func passing(context.Context) error { return nil }

func failing(msg string) CheckFunc {
	return func(context.Context) error { return errors.New(msg) }
}

func TestLiveEndpoint(t *testing.T) {
	t.Run("no checks", func(t *testing.T) {
		status, body := probeEndpoint(t, New().LiveEndpoint)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "ok", body.Status)
		assert.Empty(t, body.Checks)
	})

	t.Run("failing after threshold", func(t *testing.T) {
		h := New()
		h.AddLivenessCheck("goroutines", passing)
		h.AddLivenessCheck("store", failing("store locked"), WithThresholds(1, 1))
		runFor(t, h)

		require.Eventually(t, func() bool {
			status, _ := probeEndpoint(t, h.LiveEndpoint)
			return status == http.StatusServiceUnavailable
		}, time.Second, 5*time.Millisecond)

		_, body := probeEndpoint(t, h.LiveEndpoint)
		assert.Equal(t, "unhealthy", body.Status)
		assert.Equal(t, map[string]string{"store": "store locked"}, body.Checks)
	})
}

func TestProbe_Thresholds(t *testing.T) {
	var fail atomic.Bool
	p := newProbe("flaky", func(context.Context) error {
		if fail.Load() {
			return errors.New("down")
		}
		return nil
	}, []CheckOption{WithThresholds(2, 2)})
	ctx := context.Background()

	fail.Store(true)
	p.run(ctx)
	assert.Empty(t, p.failure(), "one failure is below threshold")
	p.run(ctx)
	assert.Equal(t, "down", p.failure())

	fail.Store(false)
	p.run(ctx)
	assert.Equal(t, "down", p.failure(), "one success is below threshold")
	p.run(ctx)
	assert.Empty(t, p.failure())
}

func TestProbe_Timeout(t *testing.T) {
	p := newProbe("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}, []CheckOption{WithTimeout(5 * time.Millisecond), WithThresholds(1, 1)})

	p.run(context.Background())
	assert.Contains(t, p.failure(), "deadline exceeded")
}

func TestReadyEndpoint(t *testing.T) {
	t.Run("not marked ready", func(t *testing.T) {
		h := New()
		status, body := probeEndpoint(t, h.ReadyEndpoint)
		assert.Equal(t, http.StatusServiceUnavailable, status)
		assert.Contains(t, body.Checks, "_readiness")
		assert.False(t, h.IsReady())
	})

	t.Run("ready and passing", func(t *testing.T) {
		h := New()
		h.AddReadinessCheck("catalog", passing)
		h.SetReady(true)
		runFor(t, h)

		status, body := probeEndpoint(t, h.ReadyEndpoint)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "ok", body.Status)
		assert.True(t, h.IsReady())
	})

	t.Run("draining", func(t *testing.T) {
		h := New()
		h.SetReady(true)
		h.SetReady(false)

		status, _ := probeEndpoint(t, h.ReadyEndpoint)
		assert.Equal(t, http.StatusServiceUnavailable, status)
	})

	t.Run("one failing check", func(t *testing.T) {
		h := New()
		h.AddReadinessCheck("catalog", passing)
		h.AddReadinessCheck("seed", failing("seed missing"), WithThresholds(1, 1))
		h.SetReady(true)
		runFor(t, h)

		status, body := probeEndpoint(t, h.ReadyEndpoint)
		assert.Equal(t, http.StatusServiceUnavailable, status)
		assert.Equal(t, map[string]string{"seed": "seed missing"}, body.Checks)
		assert.False(t, h.IsReady())
	})
}

func TestRun_StopsWithContext(t *testing.T) {
	var runs atomic.Int32
	h := New()
	h.AddLivenessCheck("counter", func(context.Context) error {
		runs.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Run(ctx, 5*time.Millisecond) }()

	require.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestConcurrentEndpoints(t *testing.T) {
	h := New()
	h.AddLivenessCheck("live", passing)
	h.AddReadinessCheck("ready", passing)
	h.SetReady(true)
	runFor(t, h)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := httptest.NewRecorder()
			if i%2 == 0 {
				h.LiveEndpoint(w, httptest.NewRequest(http.MethodGet, "/livez", nil))
			} else {
				h.ReadyEndpoint(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
			}
			assert.Equal(t, http.StatusOK, w.Code)
		}()
	}
	wg.Wait()
}

func TestCheckers(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, GoroutineCountCheck(1_000_000)(ctx))
	assert.Error(t, GoroutineCountCheck(0)(ctx))
	assert.NoError(t, GCPauseCheck(time.Hour)(ctx))

	count := func(n int, err error) func(context.Context) (int, error) {
		return func(context.Context) (int, error) { return n, err }
	}
	assert.NoError(t, NonEmptyCheck("catalog", count(5, nil))(ctx))
	assert.EqualError(t, NonEmptyCheck("catalog", count(0, nil))(ctx), "catalog is empty")
	assert.Error(t, NonEmptyCheck("catalog", count(0, errors.New("closed")))(ctx))
}
