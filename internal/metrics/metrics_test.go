package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/vortex-care/internal/store"
)

var _ store.Observer = (*Collector)(nil)

func TestCollector_ObservePersist(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.ObservePersist("vortex-users", 3*time.Millisecond, nil)
	c.ObservePersist("vortex-users", time.Millisecond, errors.New("disk full"))
	c.ObservePersist("vortex-users", time.Millisecond, nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.persistTotal.WithLabelValues("vortex-users", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.persistTotal.WithLabelValues("vortex-users", "error")))
}

func TestCollector_Counters(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.RecordLogin("success")
	c.RecordLogin("invalid_credentials")
	c.RecordLogin("success")
	c.RecordBooking("slot_taken")
	c.RecordHTTPStatus(http.StatusConflict)
	c.RecordRemindersSent(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.loginTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.bookingTotal.WithLabelValues("slot_taken")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.httpTotal.WithLabelValues("409")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.remindersSent))
}

func TestHandler_ServesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordLogin("success")

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `vortex_login_total{outcome="success"} 1`)
}
