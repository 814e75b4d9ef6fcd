package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 20, 45)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 20, p.PerPage)
	assert.Equal(t, 45, p.TotalItems)
	assert.Equal(t, 3, p.TotalPages, "partial last page still counts")

	assert.Equal(t, 0, NewPagination(1, 20, 0).TotalPages)
	assert.Equal(t, 0, NewPagination(1, 0, 45).TotalPages, "no division by zero")
}

func TestRequestIDMiddleware_GeneratesAndEchoes(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) {
		Success(c, http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	echoed := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(echoed)
	require.NoError(t, err)

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, echoed, body.Metadata.RequestID, "envelope and header carry the same id")
}

func TestRequestIDMiddleware_RejectsNonUUID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) {
		Success(c, http.StatusOK, nil)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid\nlog-injection")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	echoed := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(echoed)
	require.NoError(t, err, "tainted inbound id is replaced")
	assert.NotContains(t, echoed, "injection")
}

func TestRequestIDMiddleware_HonorsValidUUID(t *testing.T) {
	supplied := uuid.New().String()

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) {
		Success(c, http.StatusOK, nil)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, supplied)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, supplied, w.Header().Get(RequestIDHeader))
}

func TestFailEnvelope(t *testing.T) {
	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		FailWithFields(c, http.StatusUnprocessableEntity, ErrValidation, map[string]string{"name": "name is required"})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	assert.Equal(t, ErrValidation, body.Error.Code)
	assert.Equal(t, "name is required", body.Error.Fields["name"])
	assert.Nil(t, body.Data)
	assert.NotEmpty(t, body.Metadata.RequestID, "metadata works without the middleware")
}
