package metrics_test

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nccmultimedia/attendance-server/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_ExposesCounters(t *testing.T) {
	// Given
	m := metrics.New()
	m.Scan("admitted")
	m.Transition("toggle", "logged_in")
	m.Notification("sent")
	m.ScannerRunning(true)
	m.ObserveRequest("GET", "/health", "200", 10*time.Millisecond)

	// When
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	// Then
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `attendance_scans_total{outcome="admitted"} 1`)
	assert.Contains(t, string(body), `attendance_transitions_total{operation="toggle",result="logged_in"} 1`)
	assert.Contains(t, string(body), `attendance_enrollment_notifications_total{result="sent"} 1`)
	assert.Contains(t, string(body), `attendance_scanner_running 1`)
}

func TestRegistry_NilIsNoop(t *testing.T) {
	var m *metrics.Registry
	assert.NotPanics(t, func() {
		m.Scan("admitted")
		m.Transition("toggle", "logged_in")
		m.Notification("failed")
		m.ScannerRunning(false)
		m.ObserveRequest("GET", "/", "200", time.Millisecond)
	})
}
