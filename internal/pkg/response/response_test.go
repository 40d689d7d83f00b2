package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, h gin.HandlerFunc) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	router := gin.New()
	router.GET("/test", h)

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestSuccess(t *testing.T) {
	w, resp := serve(t, func(c *gin.Context) {
		Success(c, gin.H{"key": "value"})
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, CodeSuccess, resp.Code)
	assert.Equal(t, "success", resp.Message)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "value", data["key"])
}

func TestSuccess_NilData(t *testing.T) {
	_, resp := serve(t, func(c *gin.Context) {
		Success(c, nil)
	})
	assert.Nil(t, resp.Data)
}

func TestError_DefaultMessages(t *testing.T) {
	tests := []struct {
		name       string
		h          gin.HandlerFunc
		wantStatus int
		wantCode   int
		wantMsg    string
	}{
		{"param", func(c *gin.Context) { ParamError(c, "") }, http.StatusOK, CodeParamError, "invalid request"},
		{"param custom", func(c *gin.Context) { ParamError(c, "bad update") }, http.StatusOK, CodeParamError, "bad update"},
		{"auth", func(c *gin.Context) { AuthError(c, "") }, http.StatusUnauthorized, CodeAuthFailed, "unauthorized"},
		{"server", func(c *gin.Context) { ServerError(c, "") }, http.StatusOK, CodeServerError, "internal server error"},
		{"unavailable", func(c *gin.Context) { Unavailable(c, nil) }, http.StatusServiceUnavailable, CodeUnavailable, "service unavailable"},
		{"unknown code", func(c *gin.Context) { Error(c, 9999, "") }, http.StatusOK, 9999, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := serve(t, tt.h)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, resp.Code)
			assert.Equal(t, tt.wantMsg, resp.Message)
			assert.Nil(t, resp.Data)
		})
	}
}
