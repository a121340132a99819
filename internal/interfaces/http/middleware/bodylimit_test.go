package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func bodyLimitRouter(limit int64) *gin.Engine {
	router := gin.New()
	router.Use(BodyLimit(limit))
	router.POST("/api/v1/purchase-orders", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusCreated)
	})
	return router
}

func postBody(router http.Handler, body string, declared bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/purchase-orders", strings.NewReader(body))
	if !declared {
		// chunked upload without a Content-Length
		req.ContentLength = -1
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestBodyLimit(t *testing.T) {
	order := `{"supplier_id":"6f1c","currency":"USD","items":[]}`

	t.Run("order within the limit", func(t *testing.T) {
		w := postBody(bodyLimitRouter(1024), order, true)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("declared size over the limit", func(t *testing.T) {
		w := postBody(bodyLimitRouter(16), order, true)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), "REQUEST_TOO_LARGE")
	})

	t.Run("streamed body is capped while reading", func(t *testing.T) {
		w := postBody(bodyLimitRouter(16), order, false)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("zero disables the check", func(t *testing.T) {
		w := postBody(bodyLimitRouter(0), strings.Repeat("x", 4096), true)
		assert.Equal(t, http.StatusCreated, w.Code)
	})
}
