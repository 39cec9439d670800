package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/neurofeedback-app/internal/registry"
)

func TestObserveOperation(t *testing.T) {
	m := New()
	m.ObserveOperation("purchase", nil)
	m.ObserveOperation("purchase", registry.ErrConflict)
	m.ObserveOperation("purchase", registry.ErrConflict)
	m.ObserveOperation("purchase", errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("purchase", ResultSuccess, codeNone)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("purchase", ResultError, "Conflict")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("purchase", ResultError, codeNone)))
}

func TestSetStatsAndHandler(t *testing.T) {
	m := New()
	m.SetStats(registry.Stats{Programs: 3, ActivePrograms: 2, Enrollments: 4, CompletedEnrollments: 1})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.programs.WithLabelValues("active")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.programs.WithLabelValues("inactive")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.enrolled.WithLabelValues("in_progress")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `neurofeedback_programs{state="active"} 2`)
}
