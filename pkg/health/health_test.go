package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLivenessAlwaysUp(t *testing.T) {
	h := NewHandler()
	h.Register("db", func(ctx context.Context) error { return errors.New("down") })

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	h.LivenessHandler()(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"up"`)
}

func TestReadinessAllUp(t *testing.T) {
	h := NewHandler()
	h.Register("db", func(ctx context.Context) error { return nil })
	h.Register("search", func(ctx context.Context) error { return nil })

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	h.ReadinessHandler()(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadinessOneDown(t *testing.T) {
	h := NewHandler()
	h.Register("db", func(ctx context.Context) error { return nil })
	h.Register("search", func(ctx context.Context) error { return errors.New("connection refused") })

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	h.ReadinessHandler()(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}
