package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gatehouse/gatehouse/pkg/users"
)

// failingStore wraps a working store but refuses pings
type failingStore struct {
	users.Store
}

func (failingStore) Ping(context.Context) error {
	return errors.New("connection refused")
}

func TestLiveness(t *testing.T) {
	h := NewHealthChecker(users.NewMemoryStore())

	w := httptest.NewRecorder()
	h.Liveness(w, httptest.NewRequest("GET", "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), StatusHealthy)
}

func TestReadiness(t *testing.T) {
	t.Run("healthy store", func(t *testing.T) {
		h := NewHealthChecker(users.NewMemoryStore())
		w := httptest.NewRecorder()
		h.Readiness(w, httptest.NewRequest("GET", "/readyz", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"healthy"`)
	})

	t.Run("unreachable store", func(t *testing.T) {
		h := NewHealthChecker(failingStore{users.NewMemoryStore()})
		w := httptest.NewRecorder()
		h.Readiness(w, httptest.NewRequest("GET", "/readyz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), StatusUnhealthy)
	})
}
