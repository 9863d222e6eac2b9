package main

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperationMetrics_Stats(t *testing.T) {
	var om OperationMetrics
	for i := 1; i <= 100; i++ {
		om.Record(time.Duration(i)*time.Millisecond, i%10 != 0, i%10 == 0 && i%20 == 0)
	}

	assert.Equal(t, int64(100), om.Total)
	assert.Equal(t, int64(90), om.Success)
	assert.Equal(t, int64(5), om.Conflict)
	assert.Equal(t, int64(5), om.Error)

	st := om.Stats()
	assert.Equal(t, time.Millisecond, st.Min)
	assert.Equal(t, 100*time.Millisecond, st.Max)
	assert.Equal(t, 51*time.Millisecond, st.P50)
	assert.Equal(t, 96*time.Millisecond, st.P95)
	assert.Equal(t, 50500*time.Microsecond, st.Avg)
}

func TestOperationMetrics_EmptyStats(t *testing.T) {
	var om OperationMetrics
	assert.Equal(t, LatencyStats{}, om.Stats())
}

func TestOperationMetrics_ConcurrentRecord(t *testing.T) {
	var om OperationMetrics
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				om.Record(time.Millisecond, true, false)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(400), om.Total)
	assert.Equal(t, time.Millisecond, om.Stats().P95)
}

func TestDataPool_RandomAppointment(t *testing.T) {
	pool := &DataPool{}
	rng := rand.New(rand.NewSource(1))

	_, ok := pool.RandomAppointment(rng)
	assert.False(t, ok)

	pool.AddAppointment("a1")
	id, ok := pool.RandomAppointment(rng)
	require.True(t, ok)
	assert.Equal(t, "a1", id)
}

func TestLoadConfig_NormalisesRatios(t *testing.T) {
	t.Setenv("SIM_BOOKING_RATIO", "2")
	t.Setenv("SIM_CONFIRM_RATIO", "1")
	t.Setenv("SIM_READ_RATIO", "1")

	cfg := loadConfig()
	assert.InDelta(t, 0.5, cfg.BookingRatio, 1e-9)
	assert.InDelta(t, 0.25, cfg.ConfirmRatio, 1e-9)
	assert.InDelta(t, 0.25, cfg.ReadRatio, 1e-9)
	assert.NoError(t, validateConfig(cfg))
}
