package handler_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"

	"bidcheck/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newAuthedContext builds a test context that looks like it passed the auth middleware.
func newAuthedContext(method, target string, body []byte, userID, email string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	c.Request, _ = http.NewRequest(method, target, r)
	c.Request.Header.Set("Content-Type", "application/json")
	if userID != "" {
		c.Set(middleware.ContextKeyUserID, userID)
		c.Set(middleware.ContextKeyEmail, email)
	}
	return c, w
}
