package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/m77ag/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", shared.NewValidationError("tag is required"), http.StatusBadRequest, dto.ErrCodeValidation},
		{"not found", shared.NewNotFoundError("Cattle", "x"), http.StatusNotFound, dto.ErrCodeNotFound},
		{"wrapped not found", fmt.Errorf("load: %w", shared.NewNotFoundError("Loan", "x")), http.StatusNotFound, dto.ErrCodeNotFound},
		{"duplicate", shared.NewDomainError(shared.CodeAlreadyExists, "Tag 104 is already in the herd"), http.StatusConflict, dto.ErrCodeAlreadyExists},
		{"stale version", shared.ErrConcurrencyConflict, http.StatusConflict, dto.ErrCodeConcurrencyConflict},
		{"invalid state", shared.NewDomainError(shared.CodeInvalidState, "Invoice is cancelled"), http.StatusUnprocessableEntity, dto.ErrCodeInvalidState},
		{"unknown", errors.New("pq: connection reset"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			router := newTestRouter()
			router.GET("/test", func(c *gin.Context) { h.HandleError(c, tt.err) })

			w, env := call(t, router, http.MethodGet, "/test", nil)
			assert.Equal(t, tt.status, w.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
			assert.NotEmpty(t, env.Error.RequestID)
			if tt.code == dto.ErrCodeInternal {
				assert.NotContains(t, w.Body.String(), "pq:")
			}
		})
	}
}

func TestPaginated_EmptyPageIsArray(t *testing.T) {
	h := &BaseHandler{}
	router := newTestRouter()
	router.GET("/test", func(c *gin.Context) {
		Paginated(h, c, shared.Paginated[string]{Page: 1, PageSize: 20})
	})

	w, env := call(t, router, http.MethodGet, "/test", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(env.Data))
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(0), env.Meta.Total)
}

func TestBaseHandler_Helpers(t *testing.T) {
	h := &BaseHandler{}
	router := newTestRouter()
	router.GET("/things/:id", func(c *gin.Context) {
		if _, ok := h.parseID(c, "id"); ok {
			h.NoContent(c)
		}
	})
	router.GET("/year", func(c *gin.Context) {
		if year, ok := h.queryYear(c); ok {
			h.Success(c, year)
		}
	})

	w, _ := call(t, router, http.MethodGet, "/things/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = call(t, router, http.MethodGet, "/things/"+"6f1c1f0e-4a43-4a4f-9a55-6f0f1c4b2a10", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, env := call(t, router, http.MethodGet, "/year?year=2025", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2025", string(env.Data))

	w, _ = call(t, router, http.MethodGet, "/year?year=twenty", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetUserID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, err := getUserID(c)
	assert.Error(t, err)
}
