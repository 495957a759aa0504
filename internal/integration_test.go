package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"sindico-backend/config"
	"sindico-backend/internal/api"
	"sindico-backend/internal/db"
	"sindico-backend/internal/ledger"
	"sindico-backend/internal/model"
	"sindico-backend/internal/store"
)

// TestOccurrenceLifecycle walks an occurrence through its entire lifecycle
// over the HTTP surface, from registration to removal, and verifies the
// protocol sequence, status history and statistics along the way.
func TestOccurrenceLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// 1. Setup an in-memory SQLite database and run migrations.
	testDB, err := gorm.Open(sqlite.Open("file:lifecycle?mode=memory&cache=shared"),
		&gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, _ := testDB.DB()
	defer sqlDB.Close()
	require.NoError(t, db.Migrate(testDB))

	// 2. Seed the reporting resident.
	resident := model.User{
		ID:            "user-1",
		Name:          "Joana Silva",
		Email:         "joana@example.com",
		Apartment:     "302-B",
		Role:          "RESIDENT",
		CondominiumID: "condo-1",
	}
	require.NoError(t, testDB.Create(&resident).Error)

	// 3. Wire the full stack, push notifications disabled.
	appStore := store.NewGormStore(testDB, 3)
	svc := ledger.NewService(appStore, nil, zap.NewNop(), model.PriorityMedium)
	handler := api.NewHandler(svc, appStore, nil, zap.NewNop())
	router := api.NewRouter(handler, &config.ServerConfig{
		Port:            3001,
		RateLimitPerSec: 1000,
		RateLimitBurst:  1000,
		CacheTTLSeconds: 60,
	})

	do := func(method, path string, body any) *httptest.ResponseRecorder {
		var raw []byte
		if body != nil {
			raw, _ = json.Marshal(body)
		}
		req := httptest.NewRequest(method, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-ID", "user-1")
		req.Header.Set("X-Condominium-ID", "condo-1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	// 4. Register three occurrences and verify dense protocol numbering.
	titles := []string{"Elevator stuck", "Leaking pipe", "Loud party"}
	types := []string{"ELEVATOR", "MAINTENANCE", "NOISE"}
	var created []model.Occurrence
	for i := range titles {
		w := do(http.MethodPost, "/api/occurrences", map[string]any{
			"title":       titles[i],
			"description": "Reported by the resident of 302-B",
			"type":        types[i],
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var occ model.Occurrence
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &occ))
		created = append(created, occ)
	}
	for i, occ := range created {
		assert.Regexp(t, fmt.Sprintf(`^OC-\d{8}-%04d$`, i+1), occ.Protocol)
	}

	// 5. Search finds the occurrence by protocol fragment.
	w := do(http.MethodGet, "/api/occurrences?search="+created[0].Protocol, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listResp struct {
		Data       []model.Occurrence `json:"data"`
		Pagination ledger.Pagination  `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	require.Len(t, listResp.Data, 1)
	assert.Equal(t, "Elevator stuck", listResp.Data[0].Title)

	// 6. Move the first occurrence to IN_PROGRESS, then RESOLVED.
	w = do(http.MethodPatch, "/api/occurrences/"+created[0].ID, map[string]any{
		"status":       "IN_PROGRESS",
		"assignedToId": "user-1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(http.MethodPatch, "/api/occurrences/"+created[0].ID, map[string]any{
		"status": "RESOLVED",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var resolved model.Occurrence
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resolved))
	assert.Equal(t, model.StatusResolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)

	// 7. The detail view carries the full history, newest first.
	w = do(http.MethodGet, "/api/occurrences/"+created[0].ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail model.Occurrence
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	require.Len(t, detail.StatusHistory, 3)
	assert.Equal(t, model.StatusResolved, detail.StatusHistory[0].Status)
	assert.Equal(t, model.StatusOpen, detail.StatusHistory[2].Status)
	assert.Equal(t, "status changed from IN_PROGRESS to RESOLVED", detail.StatusHistory[0].Comment)

	// 8. Statistics reflect the current ledger state.
	w = do(http.MethodGet, "/api/occurrences/statistics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats ledger.Statistics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.ByStatus.Open)
	assert.Equal(t, int64(1), stats.ByStatus.Resolved)

	// 9. Remove the resolved occurrence; its history goes with it.
	w = do(http.MethodDelete, "/api/occurrences/"+created[0].ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(http.MethodGet, "/api/occurrences/"+created[0].ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var historyCount int64
	require.NoError(t, testDB.Model(&model.StatusHistoryEntry{}).
		Where("occurrence_id = ?", created[0].ID).Count(&historyCount).Error)
	assert.Equal(t, int64(0), historyCount)

	// 10. Protocol numbering keeps advancing after the removal.
	w = do(http.MethodPost, "/api/occurrences", map[string]any{
		"title":       "Gate remote lost",
		"description": "Resident lost the parking gate remote",
		"type":        "PARKING_SPOT",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var next model.Occurrence
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &next))
	assert.Regexp(t, `^OC-\d{8}-0004$`, next.Protocol)
}
