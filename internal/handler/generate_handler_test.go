package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bidcheck/internal/ai/gemini"
	"bidcheck/internal/domain"
	"bidcheck/internal/handler"
	"bidcheck/internal/metrics"
	"bidcheck/internal/port"
	"bidcheck/mocks"
)

const generateBody = `{"contents":[{"role":"user","parts":[{"text":"audit this"}]}]}`

func TestGenerateHandler_Success_RelaysBody(t *testing.T) {
	mockGen := new(mocks.MockGenerationService)
	m := metrics.New()
	h := handler.NewGenerateHandler(mockGen, m)

	upstream := []byte(`{"candidates":[{"content":{"parts":[{"text":"{}"}]}}]}`)
	mockGen.On("Generate", mock.Anything, "user-1", []byte(generateBody)).
		Return(&port.ForwardResult{StatusCode: http.StatusOK, Body: upstream}, nil)

	c, w := newAuthedContext(http.MethodPost, "/api/generate", []byte(generateBody), "user-1", "a@b.com")
	h.Generate(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, string(upstream), w.Body.String())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GenerateRequestsTotal.WithLabelValues("ok")))
	mockGen.AssertExpectations(t)
}

func TestGenerateHandler_EntitlementExhausted(t *testing.T) {
	mockGen := new(mocks.MockGenerationService)
	h := handler.NewGenerateHandler(mockGen, nil)

	mockGen.On("Generate", mock.Anything, "user-1", mock.Anything).Return(nil, domain.ErrEntitlementExhausted)

	c, w := newAuthedContext(http.MethodPost, "/api/generate", []byte(generateBody), "user-1", "")
	h.Generate(c)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	var body handler.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Error)
}

func TestGenerateHandler_UpstreamFailure_Returns500(t *testing.T) {
	mockGen := new(mocks.MockGenerationService)
	h := handler.NewGenerateHandler(mockGen, nil)

	upErr := fmt.Errorf("forward: %w", &gemini.UpstreamError{StatusCode: http.StatusServiceUnavailable, Body: "overloaded"})
	mockGen.On("Generate", mock.Anything, "user-1", mock.Anything).Return(nil, upErr)

	c, w := newAuthedContext(http.MethodPost, "/api/generate", []byte(generateBody), "user-1", "")
	h.Generate(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"error"`)
}

func TestGenerateHandler_UpstreamThrottled(t *testing.T) {
	mockGen := new(mocks.MockGenerationService)
	m := metrics.New()
	h := handler.NewGenerateHandler(mockGen, m)

	upErr := fmt.Errorf("forward: %w", &gemini.UpstreamError{
		StatusCode: http.StatusTooManyRequests,
		Body:       "quota",
		RetryAfter: 30 * time.Second,
	})
	mockGen.On("Generate", mock.Anything, "user-1", mock.Anything).Return(nil, upErr)

	c, w := newAuthedContext(http.MethodPost, "/api/generate", []byte(generateBody), "user-1", "")
	h.Generate(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "30", w.Header().Get("Retry-After"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GenerateRequestsTotal.WithLabelValues("upstream_rate_limited")))
}

func TestGenerateHandler_MissingContents(t *testing.T) {
	mockGen := new(mocks.MockGenerationService)
	h := handler.NewGenerateHandler(mockGen, nil)

	for _, body := range []string{`{}`, `not json`, `[]`} {
		c, w := newAuthedContext(http.MethodPost, "/api/generate", []byte(body), "user-1", "")
		h.Generate(c)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
	mockGen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateHandler_NoIdentity(t *testing.T) {
	mockGen := new(mocks.MockGenerationService)
	h := handler.NewGenerateHandler(mockGen, nil)

	c, w := newAuthedContext(http.MethodPost, "/api/generate", []byte(generateBody), "", "")
	h.Generate(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGenerateHandler_BodyTooLarge(t *testing.T) {
	mockGen := new(mocks.MockGenerationService)
	h := handler.NewGenerateHandler(mockGen, nil)

	c, w := newAuthedContext(http.MethodPost, "/api/generate", []byte(generateBody), "user-1", "")
	c.Request.Body = http.MaxBytesReader(w, c.Request.Body, 8)
	h.Generate(c)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
