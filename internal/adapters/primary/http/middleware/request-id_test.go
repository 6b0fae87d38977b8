package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestIDRouter() (*gin.Engine, *string) {
	gin.SetMode(gin.TestMode)
	var seen string
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) {
		seen = c.GetString(ContextRequestID)
		c.Status(http.StatusOK)
	})
	return r, &seen
}

func TestRequestID_KeepsInboundUUID(t *testing.T) {
	r, seen := requestIDRouter()
	inbound := uuid.New().String()

	req, _ := http.NewRequest("GET", "/ping", nil)
	req.Header.Set(HeaderRequestID, inbound)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, inbound, w.Header().Get(HeaderRequestID))
	assert.Equal(t, inbound, *seen)
}

func TestRequestID_ReplacesNonUUID(t *testing.T) {
	r, seen := requestIDRouter()

	req, _ := http.NewRequest("GET", "/ping", nil)
	req.Header.Set(HeaderRequestID, "evil\ninjection")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	generated := w.Header().Get(HeaderRequestID)
	_, err := uuid.Parse(generated)
	require.NoError(t, err)
	assert.Equal(t, generated, *seen)
}

func TestRequestID_GeneratesWhenMissing(t *testing.T) {
	r, _ := requestIDRouter()

	req, _ := http.NewRequest("GET", "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	_, err := uuid.Parse(w.Header().Get(HeaderRequestID))
	assert.NoError(t, err)
}
