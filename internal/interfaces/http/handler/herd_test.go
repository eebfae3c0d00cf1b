package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	herdapp "github.com/m77ag/backend/internal/application/herd"
	"github.com/m77ag/backend/internal/domain/identity"
	"github.com/m77ag/backend/internal/infrastructure/persistence"
	"github.com/m77ag/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newHerdRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db := newTestDB(t)
	svc := herdapp.NewCattleService(persistence.NewGormCattleRepository(db), persistence.NewGormTransactionScope(db), zap.NewNop())
	h := NewHerdHandler(svc)

	router := newTestRouter(signedIn(uuid.New(), identity.RoleManager))
	api := router.Group("/api/v1")
	api.POST("/cattle", h.CreateCattle)
	api.GET("/cattle", h.ListCattle)
	api.GET("/cattle/summary", h.Summary)
	api.GET("/cattle/:id", h.GetCattle)
	api.PUT("/cattle/:id", h.UpdateCattle)
	api.POST("/cattle/:id/weights", h.AddWeight)
	api.POST("/cattle/:id/calving", h.RecordCalving)
	api.POST("/cattle/:id/sell", h.SellCattle)
	return router
}

func TestHerdHandler_RegisterAndCalve(t *testing.T) {
	router := newHerdRouter(t)

	w, env := call(t, router, http.MethodPost, "/api/v1/cattle", map[string]any{
		"tag_number": "M77-104", "sex": "cow", "breed": "Angus", "pasture": "North", "estimated_value": "2100",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	cow := decode[herdapp.CattleResponse](t, env)
	assert.Equal(t, "active", cow.Status)

	w, env = call(t, router, http.MethodPost, "/api/v1/cattle/"+cow.ID.String()+"/calving", map[string]any{
		"calf_tag": "M77-2601", "sex": "heifer", "birth_date": "2026-03-02T00:00:00Z", "birth_weight": "78", "ease": "unassisted",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	calving := decode[herdapp.CalvingResponse](t, env)
	assert.Len(t, calving.Dam.CalvingHistory, 1)
	assert.Equal(t, "Angus", calving.Calf.Breed)

	w, env = call(t, router, http.MethodGet, "/api/v1/cattle?dam_tag=M77-104", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(1), env.Meta.Total)

	w, _ = call(t, router, http.MethodGet, "/api/v1/cattle/summary", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHerdHandler_Errors(t *testing.T) {
	router := newHerdRouter(t)
	body := map[string]any{"tag_number": "M77-7", "sex": "steer"}
	w, env := call(t, router, http.MethodPost, "/api/v1/cattle", body)
	require.Equal(t, http.StatusCreated, w.Code)
	steer := decode[herdapp.CattleResponse](t, env)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"duplicate tag", http.MethodPost, "/api/v1/cattle", body, http.StatusConflict, dto.ErrCodeAlreadyExists},
		{"missing sex", http.MethodPost, "/api/v1/cattle", map[string]any{"tag_number": "M77-8"}, http.StatusBadRequest, dto.ErrCodeValidation},
		{"negative value", http.MethodPost, "/api/v1/cattle", map[string]any{"tag_number": "M77-9", "sex": "cow", "estimated_value": "-5"}, http.StatusBadRequest, dto.ErrCodeValidation},
		{"malformed id", http.MethodGet, "/api/v1/cattle/104", nil, http.StatusBadRequest, dto.ErrCodeBadRequest},
		{"unknown animal", http.MethodGet, "/api/v1/cattle/" + uuid.NewString(), nil, http.StatusNotFound, dto.ErrCodeNotFound},
		{"steer cannot calve", http.MethodPost, "/api/v1/cattle/" + steer.ID.String() + "/calving",
			map[string]any{"calf_tag": "M77-10", "sex": "bull", "birth_date": "2026-03-02T00:00:00Z"}, http.StatusBadRequest, dto.ErrCodeValidation},
		{"zero sale price", http.MethodPost, "/api/v1/cattle/" + steer.ID.String() + "/sell", map[string]any{"price": "0"}, http.StatusBadRequest, dto.ErrCodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := call(t, router, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}
