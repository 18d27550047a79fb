package handler_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"bidcheck/internal/handler"
)

func TestHealthHandler_Liveness(t *testing.T) {
	h := handler.NewHealthHandler(nil)

	c, w := newAuthedContext(http.MethodGet, "/healthz", nil, "", "")
	h.Liveness(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthHandler_Readiness(t *testing.T) {
	ok := handler.PingFunc(func(context.Context) error { return nil })
	down := handler.PingFunc(func(context.Context) error { return errors.New("refused") })

	h := handler.NewHealthHandler(map[string]handler.Pinger{"database": ok})
	c, w := newAuthedContext(http.MethodGet, "/readyz", nil, "", "")
	h.Readiness(c)
	assert.Equal(t, http.StatusOK, w.Code)

	h = handler.NewHealthHandler(map[string]handler.Pinger{"database": ok, "redis": down})
	c, w = newAuthedContext(http.MethodGet, "/readyz", nil, "", "")
	h.Readiness(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "redis")
}
