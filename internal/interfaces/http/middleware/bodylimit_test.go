package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/m77ag/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type weighIn struct {
	Tag   string `json:"tag" binding:"required"`
	Notes string `json:"notes"`
}

func weighInRouter(limit int64) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), BodyLimit(limit))
	router.POST("/weigh-ins", func(c *gin.Context) {
		var req weighIn
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(req))
	})
	return router
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func TestBodyLimit(t *testing.T) {
	t.Run("within limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/weigh-ins", strings.NewReader(`{"tag":"M77-101"}`))
		w := httptest.NewRecorder()
		weighInRouter(1024).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, decodeEnvelope(t, w).Success)
	})

	t.Run("declared length over limit", func(t *testing.T) {
		body := `{"tag":"M77-101","notes":"` + strings.Repeat("x", 200) + `"}`
		req := httptest.NewRequest(http.MethodPost, "/weigh-ins", strings.NewReader(body))
		req.Header.Set("X-Request-ID", "chute-7")
		w := httptest.NewRecorder()
		weighInRouter(100).ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		resp := decodeEnvelope(t, w)
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeRequestTooLarge, resp.Error.Code)
		assert.Equal(t, "chute-7", resp.Error.RequestID)
	})

	t.Run("chunked body over limit", func(t *testing.T) {
		body := `{"tag":"M77-101","notes":"` + strings.Repeat("x", 200) + `"}`
		req := httptest.NewRequest(http.MethodPost, "/weigh-ins", strings.NewReader(body))
		req.ContentLength = -1
		w := httptest.NewRecorder()
		weighInRouter(50).ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		resp := decodeEnvelope(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeRequestTooLarge, resp.Error.Code)
		assert.Equal(t, w.Header().Get("X-Request-ID"), resp.Error.RequestID)
		assert.NotEmpty(t, resp.Error.RequestID)
	})

	t.Run("invalid body under limit stays a validation error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/weigh-ins", strings.NewReader(`{"notes":"no tag"}`))
		w := httptest.NewRecorder()
		weighInRouter(1024).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, decodeEnvelope(t, w).Error.Code)
	})
}
